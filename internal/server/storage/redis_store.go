package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key 前缀
	roomKeyPrefix    = "room:"
	sessionKeyPrefix = "session:"

	// 快照过期时间；快照只用于观测，进程重启后不会恢复
	roomExpiration = 2 * time.Hour
)

// RoomData 房间快照（不含身份和牌堆顺序）
type RoomData struct {
	Code        string       `json:"code"`
	Capacity    int          `json:"capacity"`
	Phase       string       `json:"phase"`
	Players     []PlayerData `json:"players"`
	President   string       `json:"president,omitempty"`
	Chancellor  string       `json:"chancellor,omitempty"`
	BoardF      int          `json:"board_f"`
	BoardL      int          `json:"board_l"`
	DeckSize    int          `json:"deck_size"`
	DiscardSize int          `json:"discard_size"`
	FailedVotes int          `json:"failed_votes"`
	Power       string       `json:"power,omitempty"`
	Winner      string       `json:"winner,omitempty"`
	CreatedAt   int64        `json:"created_at"`
	UpdatedAt   int64        `json:"updated_at"`
}

// PlayerData 座位快照
type PlayerData struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Seat   int    `json:"seat"`
	Alive  bool   `json:"alive"`
	Online bool   `json:"online"`
}

// RedisStore Redis 存储
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Ping 检查连接
func (rs *RedisStore) Ping(ctx context.Context) error {
	return rs.client.Ping(ctx).Err()
}

// --- 房间快照 ---

// SaveRoom 保存房间快照
func (rs *RedisStore) SaveRoom(ctx context.Context, data *RoomData) error {
	if data == nil {
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("序列化房间数据失败: %w", err)
	}
	return rs.client.Set(ctx, roomKeyPrefix+data.Code, jsonData, roomExpiration).Err()
}

// LoadRoom 读取房间快照，不存在返回 nil
func (rs *RedisStore) LoadRoom(ctx context.Context, code string) (*RoomData, error) {
	data, err := rs.client.Get(ctx, roomKeyPrefix+code).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var roomData RoomData
	if err := json.Unmarshal(data, &roomData); err != nil {
		return nil, fmt.Errorf("反序列化房间数据失败: %w", err)
	}
	return &roomData, nil
}

// DeleteRoom 删除房间快照
func (rs *RedisStore) DeleteRoom(ctx context.Context, code string) error {
	return rs.client.Del(ctx, roomKeyPrefix+code).Err()
}

// GetAllRoomCodes 获取所有快照中的房间号
func (rs *RedisStore) GetAllRoomCodes(ctx context.Context) ([]string, error) {
	var codes []string
	iter := rs.client.Scan(ctx, 0, roomKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		codes = append(codes, iter.Val()[len(roomKeyPrefix):])
	}
	return codes, iter.Err()
}

// --- 会话存储 ---

// PlayerSessionData 玩家会话数据
type PlayerSessionData struct {
	PlayerID       string `json:"player_id"`
	PlayerName     string `json:"player_name"`
	ReconnectToken string `json:"token"`
	RoomCode       string `json:"room_code"`
	IsOnline       bool   `json:"is_online"`
	DisconnectedAt int64  `json:"disconnected_at,omitempty"`
}

// SaveSession 保存会话，过期时间与重连窗口一致
func (rs *RedisStore) SaveSession(ctx context.Context, session *PlayerSessionData, ttl time.Duration) error {
	data := map[string]any{
		"player_id":       session.PlayerID,
		"player_name":     session.PlayerName,
		"token":           session.ReconnectToken,
		"room_code":       session.RoomCode,
		"is_online":       session.IsOnline,
		"disconnected_at": session.DisconnectedAt,
	}

	key := sessionKeyPrefix + session.PlayerID
	pipe := rs.client.TxPipeline()
	pipe.HSet(ctx, key, data)
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// LoadSession 读取会话，不存在返回 nil
func (rs *RedisStore) LoadSession(ctx context.Context, playerID string) (*PlayerSessionData, error) {
	data, err := rs.client.HGetAll(ctx, sessionKeyPrefix+playerID).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	session := &PlayerSessionData{
		PlayerID:       data["player_id"],
		PlayerName:     data["player_name"],
		ReconnectToken: data["token"],
		RoomCode:       data["room_code"],
		IsOnline:       data["is_online"] == "1",
	}
	if v, ok := data["disconnected_at"]; ok {
		_, _ = fmt.Sscan(v, &session.DisconnectedAt)
	}
	return session, nil
}

// DeleteSession 删除会话
func (rs *RedisStore) DeleteSession(ctx context.Context, playerID string) error {
	return rs.client.Del(ctx, sessionKeyPrefix+playerID).Err()
}
