package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/palemoky/secret-hitler/internal/logger"
	"github.com/palemoky/secret-hitler/internal/server/storage"
)

const (
	// 离线超过重连窗口后再保留的时长，之后会话被清理
	sessionGracePeriod = 10 * time.Minute
	cleanupInterval    = time.Minute
	storeTimeout       = 2 * time.Second
)

// Store 会话镜像存储（Redis），可为 nil
type Store interface {
	SaveSession(ctx context.Context, session *storage.PlayerSessionData, ttl time.Duration) error
	DeleteSession(ctx context.Context, playerID string) error
}

// PlayerSession 玩家会话（用于断线重连）
type PlayerSession struct {
	PlayerID       string
	PlayerName     string
	ReconnectToken string
	RoomCode       string

	DisconnectedAt time.Time // 断线时间
	IsOnline       bool      // 是否在线

	mu sync.RWMutex
}

// Snapshot 返回会话的存储格式
func (s *PlayerSession) Snapshot() *storage.PlayerSessionData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data := &storage.PlayerSessionData{
		PlayerID:       s.PlayerID,
		PlayerName:     s.PlayerName,
		ReconnectToken: s.ReconnectToken,
		RoomCode:       s.RoomCode,
		IsOnline:       s.IsOnline,
	}
	if !s.DisconnectedAt.IsZero() {
		data.DisconnectedAt = s.DisconnectedAt.Unix()
	}
	return data
}

// Room 所在房间
func (s *PlayerSession) Room() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.RoomCode
}

// Name 昵称
func (s *PlayerSession) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.PlayerName
}

// SessionManager 会话管理器
type SessionManager struct {
	sessions         map[string]*PlayerSession // playerID -> session
	tokens           map[string]string         // token -> playerID
	reconnectTimeout time.Duration
	store            Store
	mu               sync.RWMutex

	writes   chan func(ctx context.Context) error
	stop     chan struct{}
	stopOnce sync.Once
}

// NewSessionManager 创建会话管理器并启动清理协程；store 可为 nil
func NewSessionManager(reconnectTimeout time.Duration, store Store) *SessionManager {
	sm := &SessionManager{
		sessions:         make(map[string]*PlayerSession),
		tokens:           make(map[string]string),
		reconnectTimeout: reconnectTimeout,
		store:            store,
		stop:             make(chan struct{}),
	}

	go sm.cleanupLoop()
	if store != nil {
		sm.writes = make(chan func(ctx context.Context) error, 256)
		go sm.writeLoop()
	}

	return sm
}

// Close 停止清理协程
func (sm *SessionManager) Close() {
	sm.stopOnce.Do(func() { close(sm.stop) })
}

// ReconnectTimeout 重连窗口
func (sm *SessionManager) ReconnectTimeout() time.Duration {
	return sm.reconnectTimeout
}

// CreateSession 创建新会话
func (sm *SessionManager) CreateSession(playerID string) *PlayerSession {
	sm.mu.Lock()
	token := generateToken()
	session := &PlayerSession{
		PlayerID:       playerID,
		ReconnectToken: token,
		IsOnline:       true,
	}
	sm.sessions[playerID] = session
	sm.tokens[token] = playerID
	sm.mu.Unlock()

	sm.persist(session)
	return session
}

// GetSession 获取会话
func (sm *SessionManager) GetSession(playerID string) *PlayerSession {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[playerID]
}

// GetSessionByToken 通过 token 获取会话
func (sm *SessionManager) GetSessionByToken(token string) *PlayerSession {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	playerID, ok := sm.tokens[token]
	if !ok {
		return nil
	}
	return sm.sessions[playerID]
}

// update 修改会话并同步到存储
func (sm *SessionManager) update(playerID string, fn func(s *PlayerSession)) {
	session := sm.GetSession(playerID)
	if session == nil {
		return
	}
	session.mu.Lock()
	fn(session)
	session.mu.Unlock()

	sm.persist(session)
}

// SetOffline 设置玩家离线
func (sm *SessionManager) SetOffline(playerID string) {
	sm.update(playerID, func(s *PlayerSession) {
		s.IsOnline = false
		s.DisconnectedAt = time.Now()
	})
}

// SetOnline 设置玩家上线
func (sm *SessionManager) SetOnline(playerID string) {
	sm.update(playerID, func(s *PlayerSession) {
		s.IsOnline = true
		s.DisconnectedAt = time.Time{}
	})
}

// SetRoom 设置玩家所在房间
func (sm *SessionManager) SetRoom(playerID, roomCode string) {
	sm.update(playerID, func(s *PlayerSession) {
		s.RoomCode = roomCode
	})
}

// SetName 记录玩家在房间中的昵称
func (sm *SessionManager) SetName(playerID, name string) {
	sm.update(playerID, func(s *PlayerSession) {
		s.PlayerName = name
	})
}

// DeleteSession 删除会话
func (sm *SessionManager) DeleteSession(playerID string) {
	sm.mu.Lock()
	session, ok := sm.sessions[playerID]
	if ok {
		delete(sm.tokens, session.ReconnectToken)
		delete(sm.sessions, playerID)
	}
	sm.mu.Unlock()

	if ok {
		sm.enqueue(func(ctx context.Context) error {
			return sm.store.DeleteSession(ctx, playerID)
		})
	}
}

// CanReconnect 检查玩家是否可以重连
func (sm *SessionManager) CanReconnect(token, playerID string) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	storedPlayerID, ok := sm.tokens[token]
	if !ok || storedPlayerID != playerID {
		return false
	}

	session, ok := sm.sessions[playerID]
	if !ok {
		return false
	}

	session.mu.RLock()
	defer session.mu.RUnlock()

	// 检查是否在重连时限内
	if !session.IsOnline && time.Since(session.DisconnectedAt) > sm.reconnectTimeout {
		return false
	}
	return true
}

// IsOnline 检查玩家是否在线
func (sm *SessionManager) IsOnline(playerID string) bool {
	session := sm.GetSession(playerID)
	if session == nil {
		return false
	}

	session.mu.RLock()
	defer session.mu.RUnlock()
	return session.IsOnline
}

// persist 异步镜像到 Redis，失败只记日志
func (sm *SessionManager) persist(session *PlayerSession) {
	if sm.store == nil {
		return
	}
	data := session.Snapshot()
	ttl := sm.reconnectTimeout + sessionGracePeriod
	sm.enqueue(func(ctx context.Context) error {
		return sm.store.SaveSession(ctx, data, ttl)
	})
}

// enqueue 按顺序提交写操作，队列满时丢弃
func (sm *SessionManager) enqueue(op func(ctx context.Context) error) {
	if sm.writes == nil {
		return
	}
	select {
	case sm.writes <- op:
	default:
		logger.LogWarn("会话写队列已满，丢弃一次同步")
	}
}

// writeLoop 单协程顺序写入，保证同一会话的写入不乱序
func (sm *SessionManager) writeLoop() {
	for {
		select {
		case <-sm.stop:
			return
		case op := <-sm.writes:
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			if err := op(ctx); err != nil {
				logger.LogError("同步会话失败: %v", err)
			}
			cancel()
		}
	}
}

// cleanupLoop 定期清理过期会话
func (sm *SessionManager) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-sm.stop:
			return
		case <-ticker.C:
			sm.cleanup(time.Now())
		}
	}
}

// cleanup 清理离线超过重连窗口 + 宽限期的会话
func (sm *SessionManager) cleanup(now time.Time) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	removed := 0
	for playerID, session := range sm.sessions {
		session.mu.RLock()
		expired := !session.IsOnline && now.Sub(session.DisconnectedAt) > sm.reconnectTimeout+sessionGracePeriod
		session.mu.RUnlock()

		if expired {
			delete(sm.tokens, session.ReconnectToken)
			delete(sm.sessions, playerID)
			removed++
		}
	}
	return removed
}

// generateToken 生成随机 token
func generateToken() string {
	bytes := make([]byte, 32)
	_, _ = rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
