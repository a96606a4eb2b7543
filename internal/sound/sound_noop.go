//go:build ci

// Package sound 终端客户端的提示音（CI 构建下为空实现）
package sound

// Manager 空实现
type Manager struct{}

// NewManager 创建空管理器
func NewManager(string) *Manager { return &Manager{} }

// Init 无操作
func (m *Manager) Init() error { return nil }

// Play 无操作
func (m *Manager) Play(Event) {}

// Close 无操作
func (m *Manager) Close() {}
