//go:build !production

package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/secret-hitler/internal/server/storage"
)

// MockLeaderboard 战绩 mock
type MockLeaderboard struct {
	mock.Mock
}

func (m *MockLeaderboard) RecordGameResult(ctx context.Context, result storage.GameResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockLeaderboard) GetPlayerStats(ctx context.Context, name string) (*storage.PlayerStats, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.PlayerStats), args.Error(1)
}

func (m *MockLeaderboard) GetPlayerRank(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeaderboard) GetLeaderboard(ctx context.Context, offset, limit int) ([]storage.LeaderboardEntry, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.LeaderboardEntry), args.Error(1)
}

// MockRedisStore 房间快照与会话存储 mock
type MockRedisStore struct {
	mock.Mock
}

func (m *MockRedisStore) SaveRoom(ctx context.Context, data *storage.RoomData) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockRedisStore) DeleteRoom(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockRedisStore) SaveSession(ctx context.Context, session *storage.PlayerSessionData, ttl time.Duration) error {
	args := m.Called(ctx, session, ttl)
	return args.Error(0)
}

func (m *MockRedisStore) DeleteSession(ctx context.Context, playerID string) error {
	args := m.Called(ctx, playerID)
	return args.Error(0)
}
