package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/secret-hitler/internal/server/storage"
)

const testReconnectTimeout = 2 * time.Minute

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	sm := NewSessionManager(testReconnectTimeout, nil)
	t.Cleanup(sm.Close)
	return sm
}

func TestSessionManager_CRUD(t *testing.T) {
	t.Parallel()
	sm := newTestManager(t)

	session := sm.CreateSession("p1")
	require.NotNil(t, session)
	assert.Equal(t, "p1", session.PlayerID)
	assert.NotEmpty(t, session.ReconnectToken)
	assert.True(t, session.IsOnline)

	assert.Same(t, session, sm.GetSession("p1"))
	assert.Same(t, session, sm.GetSessionByToken(session.ReconnectToken))

	sm.SetName("p1", "alice")
	sm.SetRoom("p1", "ABCD")
	assert.Equal(t, "alice", session.Name())
	assert.Equal(t, "ABCD", session.Room())

	sm.DeleteSession("p1")
	assert.Nil(t, sm.GetSession("p1"))
	assert.Nil(t, sm.GetSessionByToken(session.ReconnectToken))
}

func TestSessionManager_OnlineStatus(t *testing.T) {
	t.Parallel()
	sm := newTestManager(t)
	sm.CreateSession("p1")

	assert.True(t, sm.IsOnline("p1"))

	sm.SetOffline("p1")
	assert.False(t, sm.IsOnline("p1"))
	assert.False(t, sm.GetSession("p1").DisconnectedAt.IsZero())

	sm.SetOnline("p1")
	assert.True(t, sm.IsOnline("p1"))
	assert.True(t, sm.GetSession("p1").DisconnectedAt.IsZero())

	assert.False(t, sm.IsOnline("p999"))
}

func TestSessionManager_CanReconnect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		setup     func(sm *SessionManager) (token, playerID string)
		wantAllow bool
	}{
		{
			name: "online",
			setup: func(sm *SessionManager) (string, string) {
				return sm.CreateSession("p1").ReconnectToken, "p1"
			},
			wantAllow: true,
		},
		{
			name: "offline within window",
			setup: func(sm *SessionManager) (string, string) {
				session := sm.CreateSession("p1")
				sm.SetOffline("p1")
				return session.ReconnectToken, "p1"
			},
			wantAllow: true,
		},
		{
			name: "invalid token",
			setup: func(sm *SessionManager) (string, string) {
				sm.CreateSession("p1")
				return "wrong-token", "p1"
			},
			wantAllow: false,
		},
		{
			name: "wrong player ID",
			setup: func(sm *SessionManager) (string, string) {
				return sm.CreateSession("p1").ReconnectToken, "p2"
			},
			wantAllow: false,
		},
		{
			name: "expired",
			setup: func(sm *SessionManager) (string, string) {
				session := sm.CreateSession("p1")
				sm.SetOffline("p1")
				session.mu.Lock()
				session.DisconnectedAt = time.Now().Add(-testReconnectTimeout - time.Minute)
				session.mu.Unlock()
				return session.ReconnectToken, "p1"
			},
			wantAllow: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sm := newTestManager(t)
			token, playerID := tt.setup(sm)
			assert.Equal(t, tt.wantAllow, sm.CanReconnect(token, playerID))
		})
	}
}

func TestSessionManager_Cleanup(t *testing.T) {
	t.Parallel()
	sm := newTestManager(t)

	sm.CreateSession("online")
	sm.CreateSession("recent")
	old := sm.CreateSession("old")
	sm.SetOffline("recent")
	sm.SetOffline("old")

	old.mu.Lock()
	old.DisconnectedAt = time.Now().Add(-testReconnectTimeout - sessionGracePeriod - time.Second)
	old.mu.Unlock()

	assert.Equal(t, 1, sm.cleanup(time.Now()))
	assert.NotNil(t, sm.GetSession("online"))
	assert.NotNil(t, sm.GetSession("recent"))
	assert.Nil(t, sm.GetSession("old"))
	assert.Nil(t, sm.GetSessionByToken(old.ReconnectToken))
}

func TestSessionManager_MirrorsToRedis(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := storage.NewRedisStore(client)

	sm := NewSessionManager(testReconnectTimeout, store)
	t.Cleanup(sm.Close)

	sm.CreateSession("p1")
	sm.SetRoom("p1", "WXYZ")

	assert.Eventually(t, func() bool {
		data, err := store.LoadSession(context.Background(), "p1")
		return err == nil && data != nil && data.RoomCode == "WXYZ"
	}, time.Second, 10*time.Millisecond)

	sm.DeleteSession("p1")
	assert.Eventually(t, func() bool {
		return !mr.Exists("session:p1")
	}, time.Second, 10*time.Millisecond)
}
