package handler

import (
	"time"

	"github.com/palemoky/secret-hitler/internal/logger"
	"github.com/palemoky/secret-hitler/internal/protocol"
	"github.com/palemoky/secret-hitler/internal/protocol/codec"
	"github.com/palemoky/secret-hitler/internal/types"
)

// handlePing 处理心跳消息
func (h *Handler) handlePing(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.PingPayload](msg)
	if err != nil {
		return
	}

	// 立即回复 pong
	client.SendMessage(codec.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: payload.Timestamp,
		ServerTimestamp: time.Now().UnixMilli(),
	}))
}

// handleReconnect 处理断线重连：新连接接管旧的玩家 ID 与座位，客户端随后发送 resync
func (h *Handler) handleReconnect(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.ReconnectPayload](client, msg)
	if !ok {
		return
	}

	// 验证重连令牌
	if !h.sessionManager.CanReconnect(payload.Token, payload.PlayerID) {
		client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeNotFound, "重连令牌无效或已过期"))
		return
	}
	sess := h.sessionManager.GetSession(payload.PlayerID)
	if sess == nil {
		client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeNotFound, "会话不存在"))
		return
	}

	// 临时 ID 的会话不再需要
	tempID := client.GetID()
	if tempID != sess.PlayerID {
		h.server.RebindClient(client, sess.PlayerID)
		h.sessionManager.DeleteSession(tempID)
	}
	h.sessionManager.SetOnline(sess.PlayerID)

	reconnected := protocol.ReconnectedPayload{
		PlayerID:   sess.PlayerID,
		PlayerName: sess.Name(),
	}

	// 如果在房间中，恢复座位
	if code := sess.Room(); code != "" {
		if r := h.roomManager.GetRoom(code); r != nil && r.PlayerOnline(client) {
			reconnected.RoomCode = code
		} else {
			h.sessionManager.SetRoom(sess.PlayerID, "")
		}
	}

	client.SendMessage(codec.MustNewMessage(protocol.MsgReconnected, reconnected))

	logger.LogInfo("🔄 玩家 %s (%s) 重连成功", reconnected.PlayerName, reconnected.PlayerID)
}
