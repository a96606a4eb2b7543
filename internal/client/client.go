// Package client 终端客户端的网络层：WebSocket 连接、心跳、断线重连和客户端状态
package client

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/secret-hitler/internal/protocol"
	"github.com/palemoky/secret-hitler/internal/protocol/codec"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// 心跳检测间隔
	heartbeatInterval = 5 * time.Second
	// 最大重连次数
	maxReconnectAttempts = 5
	// 首次重连等待，之后指数退避
	reconnectInterval = 2 * time.Second
	maxReconnectDelay = 30 * time.Second

	bufferSize = 256
)

var (
	// ErrClosed 连接已关闭
	ErrClosed = errors.New("connection closed")
	// ErrSendBufferFull 发送缓冲区已满
	ErrSendBufferFull = errors.New("send buffer full")
	// ErrNoReconnectToken 尚未收到 connected，无法重连
	ErrNoReconnectToken = errors.New("no reconnect token")
)

// Client WebSocket 客户端
type Client struct {
	ServerURL string

	format  codec.Format
	dialer  websocket.Dialer
	conn    *websocket.Conn
	send    chan []byte
	receive chan *protocol.Message
	done    chan struct{}

	playerID       string
	reconnectToken string

	// 网络延迟（毫秒）
	latency atomic.Int64

	// 回调在读协程中执行
	OnMessage       func(*protocol.Message)
	OnError         func(error)
	OnClose         func()
	OnReconnecting  func(attempt, maxAttempts int)
	OnLatencyUpdate func(int64)

	mu             sync.RWMutex
	closed         bool
	userClosed     bool
	reconnecting   atomic.Bool
	reconnectDelay time.Duration
	reconnected    chan bool // 重连请求的结果
}

// NewClient 创建客户端，format 需与服务器配置一致
func NewClient(serverURL string, format codec.Format) *Client {
	return &Client{
		ServerURL:      serverURL,
		format:         format,
		dialer:         websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		send:           make(chan []byte, bufferSize),
		receive:        make(chan *protocol.Message, bufferSize),
		done:           make(chan struct{}),
		reconnectDelay: reconnectInterval,
		reconnected:    make(chan bool, 1),
	}
}

// Connect 连接服务器
func (c *Client) Connect() error {
	conn, resp, err := c.dialer.Dial(c.ServerURL, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	go c.readPump(conn)
	go c.writePump(conn, c.send, c.done)
	return nil
}

// SendMessage 发送消息
func (c *Client) SendMessage(msg *protocol.Message) error {
	data, err := codec.Encode(msg, c.format)
	if err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Receive 接收消息 (阻塞)
func (c *Client) Receive() (*protocol.Message, error) {
	receive, done := c.channels()
	select {
	case msg := <-receive:
		return msg, nil
	case <-done:
		return nil, ErrClosed
	}
}

// ReceiveWithTimeout 带超时接收消息
func (c *Client) ReceiveWithTimeout(timeout time.Duration) (*protocol.Message, error) {
	receive, done := c.channels()
	select {
	case msg := <-receive:
		return msg, nil
	case <-time.After(timeout):
		return nil, errors.New("receive timeout")
	case <-done:
		return nil, ErrClosed
	}
}

func (c *Client) channels() (chan *protocol.Message, chan struct{}) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.receive, c.done
}

// Close 主动关闭连接，不再重连
func (c *Client) Close() {
	c.mu.Lock()
	c.userClosed = true
	c.mu.Unlock()
	c.shutdown()
}

// shutdown 关闭当前连接
func (c *Client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	}
}

// IsConnected 是否已连接
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed && c.conn != nil
}

// PlayerID 当前玩家 ID
func (c *Client) PlayerID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

// GetLatency 获取当前延迟（毫秒）
func (c *Client) GetLatency() int64 {
	return c.latency.Load()
}

// IsReconnecting 是否正在重连
func (c *Client) IsReconnecting() bool {
	return c.reconnecting.Load()
}
