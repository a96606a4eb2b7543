package client

import (
	"time"

	"github.com/palemoky/secret-hitler/internal/logger"
	"github.com/palemoky/secret-hitler/internal/protocol"
	"github.com/palemoky/secret-hitler/internal/protocol/codec"
)

// 等待 reconnected 回复的时长
const reconnectReplyTimeout = 5 * time.Second

// Reconnect 用保存的令牌发送重连请求
func (c *Client) Reconnect() error {
	c.mu.RLock()
	token, id := c.reconnectToken, c.playerID
	c.mu.RUnlock()

	if token == "" || id == "" {
		return ErrNoReconnectToken
	}
	return c.SendMessage(codec.MustNewMessage(protocol.MsgReconnect, protocol.ReconnectPayload{
		Token:    token,
		PlayerID: id,
	}))
}

// StartHeartbeat 启动心跳检测，Close 后停止
func (c *Client) StartHeartbeat() {
	go func() {
		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()

		for range ticker.C {
			c.mu.RLock()
			stopped := c.userClosed
			c.mu.RUnlock()
			if stopped {
				return
			}
			if c.IsConnected() {
				_ = c.Ping()
			}
		}
	}()
}

// reportReconnect 通知 tryReconnect 本次重连结果
func (c *Client) reportReconnect(ok bool) {
	select {
	case c.reconnected <- ok:
	default:
	}
}

// tryReconnect 指数退避重连；令牌被拒绝或次数用尽时关闭
func (c *Client) tryReconnect() {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
			c.reconnecting.Store(false)
		}
	}()

	if !c.reconnecting.CompareAndSwap(false, true) {
		return
	}
	c.shutdown()

	backoff := c.reconnectDelay
	for attempt := 1; attempt <= maxReconnectAttempts; attempt++ {
		if c.OnReconnecting != nil {
			c.OnReconnecting(attempt, maxReconnectAttempts)
		}

		time.Sleep(backoff)
		backoff = min(backoff*2, maxReconnectDelay)

		c.mu.RLock()
		stopped := c.userClosed
		c.mu.RUnlock()
		if stopped {
			break
		}

		conn, resp, err := c.dialer.Dial(c.ServerURL, nil)
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		if err != nil {
			logger.LogWarn("重连失败 (%d/%d): %v", attempt, maxReconnectAttempts, err)
			continue
		}

		// 清掉上一次尝试残留的结果
		select {
		case <-c.reconnected:
		default:
		}

		c.mu.Lock()
		c.conn = conn
		c.closed = false
		c.send = make(chan []byte, bufferSize)
		c.done = make(chan struct{})
		send, done := c.send, c.done
		c.mu.Unlock()

		go c.readPump(conn)
		go c.writePump(conn, send, done)

		if err := c.Reconnect(); err != nil {
			c.shutdown()
			continue
		}

		select {
		case ok := <-c.reconnected:
			if ok {
				c.reconnecting.Store(false)
				logger.LogInfo("✅ 重连成功")
				return
			}
			logger.LogWarn("重连令牌已失效")
			attempt = maxReconnectAttempts
		case <-time.After(reconnectReplyTimeout):
		}
		c.shutdown()
	}

	logger.LogWarn("❌ 重连失败")
	c.reconnecting.Store(false)
	c.shutdown()
	if c.OnClose != nil {
		c.OnClose()
	}
}
