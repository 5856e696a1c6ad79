package inventory

// MetaKey 是 dynamic inventory 输出中保留的 _meta 键
const MetaKey = "_meta"

// Host 表示一个主机
type Host struct {
	Name string                 // Inventory hostname
	Vars map[string]interface{} // 包含 ansible_host, ansible_port 等
}

// Group 表示一个主机组
type Group struct {
	Name     string
	Hosts    []string // 主机名列表（组内去重）
	Children []string // 子组名列表
	Vars     map[string]interface{}
}

// Inventory 表示整个 inventory，组与主机均按首次出现的顺序保存
type Inventory struct {
	Hosts  map[string]*Host
	Groups map[string]*Group

	hostOrder  []string
	groupOrder []string
}

// NewInventory 创建一个新的 Inventory
func NewInventory() *Inventory {
	return &Inventory{
		Hosts:  make(map[string]*Host),
		Groups: make(map[string]*Group),
	}
}

// newGroup 创建空组
func newGroup(name string) *Group {
	return &Group{
		Name:     name,
		Hosts:    []string{},
		Children: []string{},
		Vars:     make(map[string]interface{}),
	}
}

// SetGroup 写入组；同名组整体替换，但保留首次出现的位置
func (inv *Inventory) SetGroup(group *Group) {
	if _, exists := inv.Groups[group.Name]; !exists {
		inv.groupOrder = append(inv.groupOrder, group.Name)
	}
	inv.Groups[group.Name] = group
}

// SetHost 写入主机变量，后写入者覆盖先写入者
func (inv *Inventory) SetHost(name string, vars map[string]interface{}) {
	if vars == nil {
		vars = make(map[string]interface{})
	}
	if host, exists := inv.Hosts[name]; exists {
		host.Vars = vars
		return
	}
	inv.hostOrder = append(inv.hostOrder, name)
	inv.Hosts[name] = &Host{Name: name, Vars: vars}
}

// GroupNames 按首次出现的顺序返回组名
func (inv *Inventory) GroupNames() []string {
	return append([]string(nil), inv.groupOrder...)
}

// HostNames 按首次出现的顺序返回主机名
func (inv *Inventory) HostNames() []string {
	return append([]string(nil), inv.hostOrder...)
}

// contains 检查切片是否包含元素
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
