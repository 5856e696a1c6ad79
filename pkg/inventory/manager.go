package inventory

import (
	"context"
	"fmt"

	"github.com/jimyag/ansigo-inventory/pkg/errors"
	"github.com/jimyag/ansigo-inventory/pkg/loader"
)

// Manager 是 Inventory 管理器：扫描目录、提取组与主机
type Manager struct {
	loader    *loader.Loader
	inventory *Inventory
}

// NewManager 创建一个新的 Manager
func NewManager(l *loader.Loader) *Manager {
	return &Manager{
		loader:    l,
		inventory: NewInventory(),
	}
}

// Load 扫描目录并构建 inventory；目录中没有任何可用 YAML 文档时返回 ErrNoDocuments
func (m *Manager) Load(ctx context.Context, dir string) error {
	docs, err := m.loader.Load(ctx, dir)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return errors.NewNoDocumentsError(dir)
	}

	m.inventory = Extract(docs)
	return nil
}

// Inventory 返回已加载的 inventory
func (m *Manager) Inventory() *Inventory {
	return m.inventory
}

// HostVars 返回主机变量，未知主机返回空 map
func (m *Manager) HostVars(name string) map[string]interface{} {
	return m.inventory.HostVars(name)
}

// GetHost 获取单个主机
func (m *Manager) GetHost(name string) (*Host, error) {
	host, exists := m.inventory.Hosts[name]
	if !exists {
		return nil, fmt.Errorf("host not found: %s", name)
	}
	return host, nil
}

// GetGroup 获取组
func (m *Manager) GetGroup(name string) (*Group, error) {
	group, exists := m.inventory.Groups[name]
	if !exists {
		return nil, fmt.Errorf("group not found: %s", name)
	}
	return group, nil
}
