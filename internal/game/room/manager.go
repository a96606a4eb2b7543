package room

import (
	"context"
	"fmt"
	"time"

	"github.com/palemoky/secret-hitler/internal/apperrors"
	"github.com/palemoky/secret-hitler/internal/game/engine"
	"github.com/palemoky/secret-hitler/internal/logger"
	"github.com/palemoky/secret-hitler/internal/types"
)

// CreateRoom 创建房间（创建者不自动入座，需再发送 join_room）
func (rm *RoomManager) CreateRoom(capacity int) (*Room, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	code, err := rm.generateRoomCode()
	if err != nil {
		return nil, err
	}

	game, err := engine.NewGame(code, capacity, rm.newRand())
	if err != nil {
		return nil, err
	}

	room := &Room{
		Code:      code,
		CreatedAt: time.Now(),
		game:      game,
		clients:   make(map[string]types.ClientInterface),
		store:     rm.store,
		recorder:  rm.recorder,
		enqueue:   rm.enqueue,
	}
	rm.rooms[code] = room

	room.mu.Lock()
	room.mirror()
	room.mu.Unlock()

	logger.LogInfo("🏠 房间 %s 已创建，人数 %d", code, capacity)

	return room, nil
}

// JoinRoom 加入房间
func (rm *RoomManager) JoinRoom(client types.ClientInterface, code string) (*Room, error) {
	room := rm.GetRoom(code)
	if room == nil {
		return nil, apperrors.ErrRoomNotFound
	}
	if current := client.GetRoom(); current != "" && current != code {
		return nil, apperrors.ErrAlreadyInRoom
	}

	if err := room.Join(client); err != nil {
		return nil, err
	}
	return room, nil
}

// GetRoom 获取房间
func (rm *RoomManager) GetRoom(code string) *Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.rooms[code]
}

// RoomOf 客户端当前所在房间
func (rm *RoomManager) RoomOf(client types.ClientInterface) (*Room, error) {
	code := client.GetRoom()
	if code == "" {
		return nil, apperrors.ErrNotInRoom
	}
	room := rm.GetRoom(code)
	if room == nil {
		return nil, apperrors.ErrRoomNotFound
	}
	return room, nil
}

// DestroyRoom 销毁房间并解除所有在线客户端的房间绑定
func (rm *RoomManager) DestroyRoom(code string) {
	rm.mu.Lock()
	room, ok := rm.rooms[code]
	delete(rm.rooms, code)
	rm.mu.Unlock()
	if !ok {
		return
	}

	room.mu.Lock()
	for _, c := range room.clients {
		if c != nil && c.GetRoom() == code {
			c.SetRoom("")
		}
	}
	room.mu.Unlock()

	if rm.store != nil {
		rm.enqueue(func(ctx context.Context) error {
			return rm.store.DeleteRoom(ctx, code)
		})
	}

	logger.LogInfo("🏠 房间 %s 已销毁", code)
}

// RoomCount 房间总数
func (rm *RoomManager) RoomCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}

// GetActiveGamesCount 获取进行中的游戏数量（已开局且未结束）
func (rm *RoomManager) GetActiveGamesCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	count := 0
	for _, room := range rm.rooms {
		phase := room.Phase()
		if phase.Started() && !phase.Terminal() {
			count++
		}
	}
	return count
}

// generateRoomCode 生成房间号，调用方持有 rm.mu
func (rm *RoomManager) generateRoomCode() (string, error) {
	rng := rm.newRand()
	for range roomCodeAttempts {
		code := make([]byte, roomCodeLength)
		for i := range code {
			code[i] = roomCodeChars[rng.IntN(len(roomCodeChars))]
		}
		if _, exists := rm.rooms[string(code)]; !exists {
			return string(code), nil
		}
	}
	return "", fmt.Errorf("%w: no free room code after %d attempts", apperrors.ErrInternal, roomCodeAttempts)
}
