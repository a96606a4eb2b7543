//go:build !production

package testutil

import (
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/secret-hitler/internal/protocol"
)

// MockClient 实现 types.ClientInterface 的 mock
type MockClient struct {
	mock.Mock
}

func (m *MockClient) GetID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) GetName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) SetName(name string) {
	m.Called(name)
}

func (m *MockClient) GetRoom() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) SetRoom(roomCode string) {
	m.Called(roomCode)
}

func (m *MockClient) SendMessage(msg *protocol.Message) {
	m.Called(msg)
}

func (m *MockClient) Close() {
	m.Called()
}

// SimpleClient 记录收到消息的客户端，不使用 testify（用于不需要断言调用的测试）
type SimpleClient struct {
	ID       string
	Name     string
	RoomCode string

	messages []*protocol.Message
	closed   bool
	mu       sync.Mutex
}

// NewSimpleClient 创建 SimpleClient
func NewSimpleClient(id, name string) *SimpleClient {
	return &SimpleClient{ID: id, Name: name}
}

func (m *SimpleClient) GetID() string { return m.ID }

func (m *SimpleClient) GetName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Name
}

func (m *SimpleClient) SetName(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Name = name
}

func (m *SimpleClient) GetRoom() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.RoomCode
}

func (m *SimpleClient) SetRoom(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RoomCode = code
}

func (m *SimpleClient) SendMessage(msg *protocol.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *SimpleClient) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

// Closed 是否已被关闭
func (m *SimpleClient) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// SentMessages 收到的全部消息副本
func (m *SimpleClient) SentMessages() []*protocol.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*protocol.Message(nil), m.messages...)
}

// LastMessage 最近一条消息，没有则返回 nil
func (m *SimpleClient) LastMessage() *protocol.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.messages) == 0 {
		return nil
	}
	return m.messages[len(m.messages)-1]
}

// MessagesOfType 指定类型的消息
func (m *SimpleClient) MessagesOfType(t protocol.MessageType) []*protocol.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*protocol.Message
	for _, msg := range m.messages {
		if msg.Type == t {
			out = append(out, msg)
		}
	}
	return out
}

// Types 收到的消息类型序列
func (m *SimpleClient) Types() []protocol.MessageType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]protocol.MessageType, 0, len(m.messages))
	for _, msg := range m.messages {
		out = append(out, msg.Type)
	}
	return out
}

// Reset 清空已记录的消息
func (m *SimpleClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = nil
}
