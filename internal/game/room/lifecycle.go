package room

import (
	"time"

	"github.com/palemoky/secret-hitler/internal/game/engine"
	"github.com/palemoky/secret-hitler/internal/logger"
	"github.com/palemoky/secret-hitler/internal/protocol"
	"github.com/palemoky/secret-hitler/internal/protocol/codec"
	"github.com/palemoky/secret-hitler/internal/types"
)

// Phase 当前阶段
func (r *Room) Phase() engine.Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.Phase
}

// Capacity 房间人数
func (r *Room) Capacity() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.Capacity
}

// HasPlayer 玩家是否在座
func (r *Room) HasPlayer(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.PlayerByID(playerID) != nil
}

// PlayerOffline 玩家掉线：保留座位，通知房间内其他玩家
func (r *Room) PlayerOffline(playerID string, timeout time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.game.PlayerByID(playerID)
	if p == nil {
		return
	}
	r.clients[playerID] = nil

	msg := codec.MustNewMessage(protocol.MsgPlayerOffline, protocol.PlayerOfflinePayload{
		PlayerName: p.Name,
		Timeout:    int(timeout.Seconds()),
	})
	for _, c := range r.clients {
		if c != nil {
			c.SendMessage(msg)
		}
	}

	logger.LogInfo("📴 玩家 %s 在房间 %s 中掉线", playerID, r.Code)
}

// PlayerOnline 玩家重连：替换客户端引用，通知其他玩家
func (r *Room) PlayerOnline(client types.ClientInterface) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.game.PlayerByID(client.GetID())
	if p == nil {
		return false
	}
	r.clients[client.GetID()] = client
	client.SetRoom(r.Code)
	if p.Named() {
		client.SetName(p.Name)
	}

	msg := codec.MustNewMessage(protocol.MsgPlayerOnline, protocol.PlayerOnlinePayload{
		PlayerName: p.Name,
	})
	for id, c := range r.clients {
		if c != nil && id != client.GetID() {
			c.SendMessage(msg)
		}
	}

	logger.LogInfo("📶 玩家 %s 重连到房间 %s", client.GetID(), r.Code)
	return true
}

// expired 是否可以被清理：未满员超过 roomTimeout，或结束超过 cleanupDelay。
// 进行中的房间永不超时。
func (r *Room) expired(now time.Time, roomTimeout, cleanupDelay time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case r.game.Phase == engine.PhaseFilling:
		return roomTimeout > 0 && now.Sub(r.CreatedAt) > roomTimeout
	case r.game.Phase.Terminal():
		return now.Sub(r.finishedAt) > cleanupDelay
	}
	return false
}

// notifyClosed 通知在线玩家房间已关闭
func (r *Room) notifyClosed() {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg := codec.NewErrorMessageWithText(protocol.ErrCodeRoomNotFound, "房间超时已关闭")
	for _, c := range r.clients {
		if c != nil {
			c.SendMessage(msg)
		}
	}
}

// cleanupLoop 定期清理超时房间
func (rm *RoomManager) cleanupLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-rm.stop:
			return
		case <-ticker.C:
			rm.cleanup(time.Now())
		}
	}
}

// cleanup 清理超时房间，返回清理数量
func (rm *RoomManager) cleanup(now time.Time) int {
	rm.mu.RLock()
	var expired []*Room
	for _, room := range rm.rooms {
		if room.expired(now, rm.roomTimeout, rm.cleanupDelay) {
			expired = append(expired, room)
		}
	}
	rm.mu.RUnlock()

	for _, room := range expired {
		if room.Phase() == engine.PhaseFilling {
			room.notifyClosed()
		}
		rm.DestroyRoom(room.Code)
		logger.LogInfo("🧹 房间 %s 超时已清理", room.Code)
	}
	return len(expired)
}
