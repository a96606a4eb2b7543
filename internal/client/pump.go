package client

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/secret-hitler/internal/logger"
	"github.com/palemoky/secret-hitler/internal/protocol"
	"github.com/palemoky/secret-hitler/internal/protocol/codec"
)

// readPump 从服务器读取消息，连接异常断开时尝试重连
func (c *Client) readPump(conn *websocket.Conn) {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}

		c.mu.RLock()
		canReconnect := c.reconnectToken != "" && !c.userClosed
		c.mu.RUnlock()

		if canReconnect && !c.reconnecting.Load() {
			go c.tryReconnect()
			return
		}
		if !c.reconnecting.Load() {
			c.shutdown()
			if c.OnClose != nil {
				c.OnClose()
			}
		}
	}()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		frame, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				if c.OnError != nil {
					c.OnError(err)
				}
			}
			return
		}

		format := codec.FormatProtobuf
		if frame == websocket.TextMessage {
			format = codec.FormatJSON
		}
		msg, err := codec.Decode(data, format)
		if err != nil {
			logger.LogWarn("消息解析错误: %v", err)
			continue
		}

		c.observe(msg)

		if c.OnMessage != nil {
			c.OnMessage(msg)
		}

		receive, _ := c.channels()
		select {
		case receive <- msg:
		default:
		}
	}
}

// observe 处理连接层消息
func (c *Client) observe(msg *protocol.Message) {
	switch msg.Type {
	case protocol.MsgConnected:
		// 重连时新连接会先收到临时身份，保留原身份
		if c.reconnecting.Load() {
			return
		}
		if payload, err := codec.ParsePayload[protocol.ConnectedPayload](msg); err == nil {
			c.mu.Lock()
			c.playerID = payload.PlayerID
			c.reconnectToken = payload.ReconnectToken
			c.mu.Unlock()
		}

	case protocol.MsgReconnected:
		if payload, err := codec.ParsePayload[protocol.ReconnectedPayload](msg); err == nil {
			c.mu.Lock()
			c.playerID = payload.PlayerID
			c.mu.Unlock()
		}
		c.reportReconnect(true)

	case protocol.MsgError:
		// 令牌失效时服务器回复 NotFound
		if payload, err := codec.ParsePayload[protocol.ErrorPayload](msg); err == nil &&
			payload.Code == protocol.ErrCodeNotFound && c.reconnecting.Load() {
			c.reportReconnect(false)
		}

	case protocol.MsgPong:
		if payload, err := codec.ParsePayload[protocol.PongPayload](msg); err == nil {
			latency := time.Now().UnixMilli() - payload.ClientTimestamp
			c.latency.Store(latency)
			if c.OnLatencyUpdate != nil {
				c.OnLatencyUpdate(latency)
			}
		}
	}
}

// writePump 向服务器写入消息
func (c *Client) writePump(conn *websocket.Conn, send chan []byte, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		ticker.Stop()
		_ = conn.Close()
	}()

	frame := websocket.BinaryMessage
	if c.format == codec.FormatJSON {
		frame = websocket.TextMessage
	}

	for {
		select {
		case data := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(frame, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-done:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
