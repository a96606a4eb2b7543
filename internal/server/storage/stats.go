package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	playerStatsKey = "player:stats:"
	leaderboardKey = "leaderboard:wins"
)

// PlayerStats 玩家战绩，按昵称累计
type PlayerStats struct {
	PlayerName string `json:"player_name"`

	TotalGames int `json:"total_games"`
	Wins       int `json:"wins"`
	Losses     int `json:"losses"`

	// 按阵营
	LiberalGames int `json:"liberal_games"`
	LiberalWins  int `json:"liberal_wins"`
	FascistGames int `json:"fascist_games"` // 含 Hitler
	FascistWins  int `json:"fascist_wins"`
	HitlerGames  int `json:"hitler_games"`

	LastPlayedAt int64 `json:"last_played_at"`
	CreatedAt    int64 `json:"created_at"`
}

// WinRate 胜率（百分比）
func (s *PlayerStats) WinRate() float64 {
	if s.TotalGames == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.TotalGames) * 100
}

// GameResult 单局中某个玩家的结果
type GameResult struct {
	PlayerName string
	Liberal    bool // 自由派阵营
	Hitler     bool
	Won        bool
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank  int
	Stats *PlayerStats
}

// LeaderboardManager 战绩与排行榜
type LeaderboardManager struct {
	redis *redis.Client
}

// NewLeaderboardManager 创建排行榜管理器
func NewLeaderboardManager(client *redis.Client) *LeaderboardManager {
	return &LeaderboardManager{redis: client}
}

// GetPlayerStats 获取玩家战绩，不存在返回 nil
func (lm *LeaderboardManager) GetPlayerStats(ctx context.Context, name string) (*PlayerStats, error) {
	data, err := lm.redis.Get(ctx, playerStatsKey+name).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var stats PlayerStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// RecordGameResult 记录一局的结果并更新排行榜
func (lm *LeaderboardManager) RecordGameResult(ctx context.Context, result GameResult) error {
	stats, err := lm.GetPlayerStats(ctx, result.PlayerName)
	if err != nil {
		return err
	}
	now := time.Now().Unix()
	if stats == nil {
		stats = &PlayerStats{PlayerName: result.PlayerName, CreatedAt: now}
	}

	stats.TotalGames++
	stats.LastPlayedAt = now
	if result.Won {
		stats.Wins++
	} else {
		stats.Losses++
	}

	if result.Liberal {
		stats.LiberalGames++
		if result.Won {
			stats.LiberalWins++
		}
	} else {
		stats.FascistGames++
		if result.Won {
			stats.FascistWins++
		}
		if result.Hitler {
			stats.HitlerGames++
		}
	}

	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	pipe := lm.redis.TxPipeline()
	pipe.Set(ctx, playerStatsKey+stats.PlayerName, data, 0)
	pipe.ZAdd(ctx, leaderboardKey, redis.Z{Score: float64(stats.Wins), Member: stats.PlayerName})
	_, err = pipe.Exec(ctx)
	return err
}

// GetPlayerRank 获取排名（从 1 开始），未上榜返回 -1
func (lm *LeaderboardManager) GetPlayerRank(ctx context.Context, name string) (int64, error) {
	rank, err := lm.redis.ZRevRank(ctx, leaderboardKey, name).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return -1, nil
		}
		return -1, err
	}
	return rank + 1, nil
}

// GetLeaderboard 按胜场从高到低分页
func (lm *LeaderboardManager) GetLeaderboard(ctx context.Context, offset, limit int) ([]LeaderboardEntry, error) {
	names, err := lm.redis.ZRevRange(ctx, leaderboardKey, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(names))
	for i, name := range names {
		stats, err := lm.GetPlayerStats(ctx, name)
		if err != nil || stats == nil {
			continue
		}
		entries = append(entries, LeaderboardEntry{Rank: offset + i + 1, Stats: stats})
	}
	return entries, nil
}
