package loader

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// Document 是一个已解析的 YAML 文件
type Document struct {
	Path string
	Root *yaml.Node // 已去掉 DocumentNode 外壳
}

// Shape 是解析后 YAML 值的结构类别
type Shape int

const (
	ShapeNull Shape = iota
	ShapeScalar
	ShapeSequence
	ShapeMapping
)

func (s Shape) String() string {
	switch s {
	case ShapeNull:
		return "null"
	case ShapeScalar:
		return "scalar"
	case ShapeSequence:
		return "sequence"
	case ShapeMapping:
		return "mapping"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// Pair 是 mapping 中的一个键值对
type Pair struct {
	Key      string
	KeyNode  *yaml.Node
	Value    *yaml.Node
	KeyShape Shape
}

// Resolve 展开 DocumentNode 与别名，返回实际的值节点
func Resolve(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch n.Kind {
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return nil
			}
			n = n.Content[0]
		case yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}

// ShapeOf 对节点分类，顺序固定: null、scalar、sequence、mapping
func ShapeOf(n *yaml.Node) Shape {
	n = Resolve(n)
	if n == nil {
		return ShapeNull
	}
	switch n.Kind {
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return ShapeNull
		}
		return ShapeScalar
	case yaml.SequenceNode:
		return ShapeSequence
	case yaml.MappingNode:
		return ShapeMapping
	default:
		return ShapeNull
	}
}

// IsString 判断节点是否为字符串标量
func IsString(n *yaml.Node) bool {
	n = Resolve(n)
	return ShapeOf(n) == ShapeScalar && n.ShortTag() == "!!str"
}

// IsEmpty 判断节点是否为"空"值：null、空 mapping、空 sequence，以及 ""、false、0
func IsEmpty(n *yaml.Node) bool {
	n = Resolve(n)
	switch ShapeOf(n) {
	case ShapeNull:
		return true
	case ShapeMapping:
		return len(Pairs(n)) == 0
	case ShapeSequence:
		return len(n.Content) == 0
	}

	switch n.ShortTag() {
	case "!!str":
		return n.Value == ""
	case "!!bool":
		var b bool
		return n.Decode(&b) == nil && !b
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return i == 0
		}
		var u uint64
		return n.Decode(&u) == nil && u == 0
	case "!!float":
		var f float64
		return n.Decode(&f) == nil && f == 0
	}
	return false
}

// Pairs 返回 mapping 的键值对，非 mapping 返回 nil。
// 合并键 (<<) 会被展开：被合并的键在前，显式键覆盖被合并的同名键；
// 合并序列中靠前的 mapping 优先。
func Pairs(n *yaml.Node) []Pair {
	return pairs(n, map[*yaml.Node]bool{})
}

func pairs(n *yaml.Node, active map[*yaml.Node]bool) []Pair {
	n = Resolve(n)
	if ShapeOf(n) != ShapeMapping || active[n] {
		return nil
	}
	active[n] = true
	defer delete(active, n)

	var explicit, merged []Pair
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode := Resolve(n.Content[i])
		value := Resolve(n.Content[i+1])
		if isMergeKey(keyNode) {
			merged = append(merged, mergePairs(value, active)...)
			continue
		}
		explicit = append(explicit, Pair{
			Key:      scalarValue(keyNode),
			KeyNode:  keyNode,
			Value:    value,
			KeyShape: ShapeOf(keyNode),
		})
	}
	if len(merged) == 0 {
		return explicit
	}

	seen := make(map[string]bool, len(explicit)+len(merged))
	for _, p := range explicit {
		if p.KeyShape == ShapeScalar {
			seen[p.Key] = true
		}
	}
	result := make([]Pair, 0, len(merged)+len(explicit))
	for _, p := range merged {
		if p.KeyShape == ShapeScalar {
			if seen[p.Key] {
				continue
			}
			seen[p.Key] = true
		}
		result = append(result, p)
	}
	return append(result, explicit...)
}

// mergePairs 展开合并键的值：一个 mapping，或 mapping 组成的序列
func mergePairs(value *yaml.Node, active map[*yaml.Node]bool) []Pair {
	switch ShapeOf(value) {
	case ShapeMapping:
		return pairs(value, active)
	case ShapeSequence:
		var result []Pair
		for _, item := range Items(value) {
			result = append(result, pairs(item, active)...)
		}
		return result
	}
	return nil
}

func isMergeKey(n *yaml.Node) bool {
	return n != nil && n.Kind == yaml.ScalarNode && n.ShortTag() == "!!merge"
}

// Lookup 在 mapping 中查找 key，重复的 key 以最后一次出现为准
func Lookup(n *yaml.Node, key string) (*yaml.Node, bool) {
	var (
		found *yaml.Node
		ok    bool
	)
	for _, p := range Pairs(n) {
		if p.KeyShape == ShapeScalar && p.Key == key {
			found, ok = p.Value, true
		}
	}
	return found, ok
}

// Items 返回 sequence 的元素，非 sequence 返回 nil
func Items(n *yaml.Node) []*yaml.Node {
	n = Resolve(n)
	if ShapeOf(n) != ShapeSequence {
		return nil
	}
	items := make([]*yaml.Node, 0, len(n.Content))
	for _, item := range n.Content {
		items = append(items, Resolve(item))
	}
	return items
}

// Decode 把节点转成可以直接 JSON 序列化的通用值。
// mapping 中重复的 key 以最后一次出现为准，键统一转成字符串。
func Decode(n *yaml.Node) (interface{}, error) {
	return decode(n, map[*yaml.Node]bool{})
}

func decode(n *yaml.Node, active map[*yaml.Node]bool) (interface{}, error) {
	n = Resolve(n)
	switch ShapeOf(n) {
	case ShapeNull:
		return nil, nil
	case ShapeScalar:
		return decodeScalar(n)
	}

	if active[n] {
		return nil, fmt.Errorf("line %d: recursive alias", n.Line)
	}
	active[n] = true
	defer delete(active, n)

	if ShapeOf(n) == ShapeSequence {
		list := make([]interface{}, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := decode(item, active)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	}

	m := make(map[string]interface{}, len(n.Content)/2)
	for _, p := range Pairs(n) {
		key, err := keyString(p.KeyNode, active)
		if err != nil {
			return nil, err
		}
		v, err := decode(p.Value, active)
		if err != nil {
			return nil, err
		}
		m[key] = v
	}
	return m, nil
}

// DecodeMap 把 mapping 节点转成 map，其他形状返回空 map
func DecodeMap(n *yaml.Node) (map[string]interface{}, error) {
	if ShapeOf(n) != ShapeMapping {
		return map[string]interface{}{}, nil
	}
	v, err := Decode(n)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}, nil
	}
	return m, nil
}

// keyString 把 mapping 键转成 JSON 对象键：null 为 "null"，其余按解码后的值格式化
func keyString(n *yaml.Node, active map[*yaml.Node]bool) (string, error) {
	if ShapeOf(n) == ShapeNull {
		return "null", nil
	}
	v, err := decode(n, active)
	if err != nil {
		return "", err
	}
	return fmt.Sprint(v), nil
}

func decodeScalar(n *yaml.Node) (interface{}, error) {
	var v interface{}
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	if f, ok := v.(float64); ok {
		switch {
		case math.IsNaN(f):
			return ".nan", nil
		case math.IsInf(f, 1):
			return ".inf", nil
		case math.IsInf(f, -1):
			return "-.inf", nil
		}
	}
	return v, nil
}

func scalarValue(n *yaml.Node) string {
	if n == nil || n.Kind != yaml.ScalarNode {
		return ""
	}
	return n.Value
}
