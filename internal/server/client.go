package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/palemoky/secret-hitler/internal/logger"
	"github.com/palemoky/secret-hitler/internal/protocol"
	"github.com/palemoky/secret-hitler/internal/protocol/codec"
)

const (
	// 写入超时
	writeWait = 10 * time.Second

	// 读取超时（pong 等待时间）
	pongWait = 60 * time.Second

	// ping 发送间隔（必须小于 pongWait）
	pingPeriod = (pongWait * 9) / 10

	// 消息最大大小
	maxMessageSize = 4096

	sendBufferSize = 256

	// 超速次数超过该值断开连接
	maxRateWarnings = 5
)

// Client 代表一个 WebSocket 连接
type Client struct {
	ID       string // 玩家 ID，重连成功后被替换为旧 ID
	Name     string // 昵称，入座命名后才有
	RoomCode string // 当前所在房间
	IP       string // 客户端 IP 地址

	server *Server
	conn   *websocket.Conn
	format codec.Format
	send   chan []byte

	mu     sync.RWMutex
	closed bool
}

// NewClient 创建新客户端
func NewClient(s *Server, conn *websocket.Conn) *Client {
	return &Client{
		ID:     uuid.New().String(),
		server: s,
		conn:   conn,
		format: s.format,
		send:   make(chan []byte, sendBufferSize),
	}
}

// ReadPump 从 WebSocket 读取消息，连接断开时负责清理
func (c *Client) ReadPump() {
	defer func() {
		c.handleDisconnect()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.LogWarn("读取错误: %v", err)
			}
			return
		}

		id := c.GetID()
		allowed, warning := c.server.messageLimiter.AllowMessage(id)
		if !allowed {
			logger.LogWarn("⚠️ 客户端 %s (IP: %s) 消息过于频繁", id, c.IP)
			c.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeRateLimit, "消息发送过于频繁"))
			if c.server.messageLimiter.GetWarningCount(id) > maxRateWarnings {
				logger.LogWarn("🚫 客户端 %s 因多次超速被断开连接", id)
				return
			}
			continue
		}
		if warning {
			c.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeRateLimit, "请求过于频繁，请放慢速度"))
		}

		msg, err := codec.Decode(data, c.format)
		if err != nil {
			logger.LogWarn("消息解析错误: %v", err)
			c.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
			continue
		}

		c.server.handler.Handle(c, msg)
	}
}

// WritePump 向 WebSocket 写入消息并定期发送 ping
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	frame := websocket.BinaryMessage
	if c.format == codec.FormatJSON {
		frame = websocket.TextMessage
	}

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(frame, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage 发送消息给客户端，缓冲区满时断开
func (c *Client) SendMessage(msg *protocol.Message) {
	data, err := codec.Encode(msg, c.format)
	if err != nil {
		logger.LogError("消息编码错误: %v", err)
		return
	}

	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return
	}
	full := false
	select {
	case c.send <- data:
	default:
		full = true
	}
	c.mu.RUnlock()

	if full {
		logger.LogWarn("客户端 %s 发送缓冲区已满", c.GetID())
		c.Close()
	}
}

// handleDisconnect 连接断开：保留会话和座位，等待重连
func (c *Client) handleDisconnect() {
	c.Close()
	if !c.server.unregisterClient(c) {
		// 已被重连的新连接接管
		return
	}

	id := c.GetID()
	c.server.messageLimiter.RemoveClient(id)
	c.server.sessionManager.SetOffline(id)

	if code := c.GetRoom(); code != "" {
		if r := c.server.roomManager.GetRoom(code); r != nil {
			r.PlayerOffline(id, c.server.sessionManager.ReconnectTimeout())
		}
	}
}

// Close 关闭发送通道，WritePump 随后关闭连接
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// GetID 获取玩家 ID
func (c *Client) GetID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ID
}

// setID 重连后接管旧 ID
func (c *Client) setID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ID = id
}

// GetName 获取昵称
func (c *Client) GetName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Name
}

// SetName 设置昵称
func (c *Client) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Name = name
}

// GetRoom 获取所在房间
func (c *Client) GetRoom() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.RoomCode
}

// SetRoom 设置所在房间
func (c *Client) SetRoom(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.RoomCode = code
}
