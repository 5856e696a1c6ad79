package inventory

import (
	"gopkg.in/yaml.v3"

	"github.com/jimyag/ansigo-inventory/pkg/loader"
	"github.com/jimyag/ansigo-inventory/pkg/logger"
)

// excludedKeys 是 playbook 等非 inventory 文档的顶层关键字
var excludedKeys = map[string]bool{
	"name":         true,
	"tasks":        true,
	"handlers":     true,
	"vars_files":   true,
	"become":       true,
	"gather_facts": true,
}

// Extractor 从已解析的 YAML 文档中识别组与主机。
// 主机表在所有文档之间共享，同名主机以最后处理的文档为准；
// 同名组被整体替换，不做合并。
type Extractor struct {
	inv *Inventory
}

// NewExtractor 创建一个新的 Extractor
func NewExtractor() *Extractor {
	return &Extractor{inv: NewInventory()}
}

// Extract 按顺序处理所有文档并返回结果
func Extract(docs []loader.Document) *Inventory {
	e := NewExtractor()
	for _, doc := range docs {
		e.Add(doc)
	}
	return e.Inventory()
}

// Inventory 返回当前累积的 inventory
func (e *Extractor) Inventory() *Inventory {
	return e.inv
}

// Add 处理单个文档；根节点不是 mapping 的文档不贡献任何内容
func (e *Extractor) Add(doc loader.Document) {
	for _, pair := range loader.Pairs(doc.Root) {
		if pair.KeyShape != loader.ShapeScalar || excludedKeys[pair.Key] {
			continue
		}

		var group *Group
		switch loader.ShapeOf(pair.Value) {
		case loader.ShapeMapping:
			group = e.groupFromMapping(doc.Path, pair.Key, pair.Value)
		case loader.ShapeSequence:
			group = e.groupFromSequence(doc.Path, pair.Key, pair.Value)
		}
		if group == nil {
			continue
		}

		if group.Name == MetaKey {
			logger.Warnf("Ignoring group %q in %s: the name is reserved", MetaKey, doc.Path)
			continue
		}

		logger.Debugf("Found group %s with %d hosts in %s", group.Name, len(group.Hosts), doc.Path)
		e.inv.SetGroup(group)
	}
}

// groupFromMapping 处理 {hosts: {name: vars}, vars: {...}, children: [...]} 形式；
// hosts 不是 mapping 时返回 nil
func (e *Extractor) groupFromMapping(path, name string, value *yaml.Node) *Group {
	hostsNode, ok := loader.Lookup(value, "hosts")
	if !ok || loader.ShapeOf(hostsNode) != loader.ShapeMapping {
		return nil
	}

	group := newGroup(name)
	if varsNode, ok := loader.Lookup(value, "vars"); ok {
		group.Vars = e.decodeVars(path, varsNode)
	}
	if childrenNode, ok := loader.Lookup(value, "children"); ok {
		for _, child := range loader.Items(childrenNode) {
			if loader.ShapeOf(child) == loader.ShapeScalar && !contains(group.Children, child.Value) {
				group.Children = append(group.Children, child.Value)
			}
		}
	}

	for _, pair := range loader.Pairs(hostsNode) {
		if pair.KeyShape != loader.ShapeScalar {
			continue
		}
		e.addHost(group, pair.Key, e.decodeVars(path, pair.Value))
	}
	return group
}

// groupFromSequence 处理 [name, {name: vars}] 形式；其他元素忽略
func (e *Extractor) groupFromSequence(path, name string, value *yaml.Node) *Group {
	group := newGroup(name)
	for _, item := range loader.Items(value) {
		switch {
		case loader.IsString(item):
			e.addHost(group, item.Value, nil)
		case loader.ShapeOf(item) == loader.ShapeMapping:
			pairs := loader.Pairs(item)
			if len(pairs) != 1 || pairs[0].KeyShape != loader.ShapeScalar {
				continue
			}
			e.addHost(group, pairs[0].Key, e.decodeVars(path, pairs[0].Value))
		}
	}
	return group
}

// addHost 把主机加入组，并覆盖全局主机表中的变量
func (e *Extractor) addHost(group *Group, name string, vars map[string]interface{}) {
	if name == "" {
		return
	}
	if !contains(group.Hosts, name) {
		group.Hosts = append(group.Hosts, name)
	}
	e.inv.SetHost(name, vars)
}

// decodeVars 把变量节点转成 map；null 或非 mapping 视为空
func (e *Extractor) decodeVars(path string, n *yaml.Node) map[string]interface{} {
	vars, err := loader.DecodeMap(n)
	if err != nil {
		logger.Warnf("Ignoring variables in %s: %v", path, err)
		return make(map[string]interface{})
	}
	return vars
}
