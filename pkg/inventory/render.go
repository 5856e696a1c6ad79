package inventory

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/jimyag/ansigo-inventory/pkg/errors"
)

// groupOutput 是 dynamic inventory 中单个组的 JSON 形状
type groupOutput struct {
	Hosts    []string               `json:"hosts"`
	Vars     map[string]interface{} `json:"vars,omitempty"`
	Children []string               `json:"children,omitempty"`
}

// MarshalJSON 输出 dynamic inventory 格式：
// 组按首次出现的顺序排列，最后是 _meta.hostvars
func (inv *Inventory) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for _, name := range inv.groupOrder {
		group := inv.Groups[name]
		out := groupOutput{
			Hosts:    group.Hosts,
			Vars:     group.Vars,
			Children: group.Children,
		}
		if out.Hosts == nil {
			out.Hosts = []string{}
		}
		if err := writeMember(&buf, name, out); err != nil {
			return nil, err
		}
		buf.WriteByte(',')
	}

	buf.WriteString(`"` + MetaKey + `":{"hostvars":{`)
	for i, name := range inv.hostOrder {
		if i > 0 {
			buf.WriteByte(',')
		}
		vars := inv.Hosts[name].Vars
		if vars == nil {
			vars = map[string]interface{}{}
		}
		if err := writeMember(&buf, name, vars); err != nil {
			return nil, err
		}
	}
	buf.WriteString("}}}")

	return buf.Bytes(), nil
}

// HostVars 返回主机变量；未知主机返回空 map
func (inv *Inventory) HostVars(name string) map[string]interface{} {
	if host, exists := inv.Hosts[name]; exists && host.Vars != nil {
		return host.Vars
	}
	return map[string]interface{}{}
}

// Render 以两个空格缩进输出 JSON，并以换行结尾
func Render(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.NewRenderError(err)
	}
	return nil
}

func writeMember(buf *bytes.Buffer, key string, value interface{}) error {
	k, err := marshal(key)
	if err != nil {
		return err
	}
	v, err := marshal(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

// marshal 与 json.Marshal 相同，但不转义 HTML 字符
func marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
