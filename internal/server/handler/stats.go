package handler

import (
	"context"
	"time"

	"github.com/palemoky/secret-hitler/internal/protocol"
	"github.com/palemoky/secret-hitler/internal/protocol/codec"
	"github.com/palemoky/secret-hitler/internal/types"
)

const (
	statsTimeout       = 3 * time.Second
	defaultBoardLimit  = 10
	maxLeaderboardSize = 50
)

// --- 战绩处理 ---

// handleGetStats 获取个人战绩（按昵称统计）
func (h *Handler) handleGetStats(client types.ClientInterface) {
	if h.leaderboard == nil {
		client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeInternal, "战绩服务未启用"))
		return
	}
	name := client.GetName()
	if name == "" {
		client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeNotFound, "请先设置昵称"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), statsTimeout)
	defer cancel()

	playerStats, err := h.leaderboard.GetPlayerStats(ctx, name)
	if err != nil {
		client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeInternal, "获取统计失败"))
		return
	}

	if playerStats == nil {
		// 没有统计数据，返回空数据
		client.SendMessage(codec.MustNewMessage(protocol.MsgStatsResult, protocol.StatsResultPayload{
			PlayerName: name,
		}))
		return
	}

	// 获取排名
	rank, _ := h.leaderboard.GetPlayerRank(ctx, name)

	client.SendMessage(codec.MustNewMessage(protocol.MsgStatsResult, protocol.StatsResultPayload{
		PlayerName:   playerStats.PlayerName,
		TotalGames:   playerStats.TotalGames,
		Wins:         playerStats.Wins,
		Losses:       playerStats.Losses,
		WinRate:      playerStats.WinRate(),
		LiberalGames: playerStats.LiberalGames,
		LiberalWins:  playerStats.LiberalWins,
		FascistGames: playerStats.FascistGames,
		FascistWins:  playerStats.FascistWins,
		HitlerGames:  playerStats.HitlerGames,
		Rank:         int(rank),
	}))
}

// handleGetLeaderboard 获取胜场排行榜
func (h *Handler) handleGetLeaderboard(client types.ClientInterface, msg *protocol.Message) {
	if h.leaderboard == nil {
		client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeInternal, "战绩服务未启用"))
		return
	}

	payload, err := codec.ParsePayload[protocol.GetLeaderboardPayload](msg)
	if err != nil {
		payload = &protocol.GetLeaderboardPayload{}
	}

	// 限制请求数量
	if payload.Limit <= 0 || payload.Limit > maxLeaderboardSize {
		payload.Limit = defaultBoardLimit
	}
	if payload.Offset < 0 {
		payload.Offset = 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), statsTimeout)
	defer cancel()

	entries, err := h.leaderboard.GetLeaderboard(ctx, payload.Offset, payload.Limit)
	if err != nil {
		client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeInternal, "获取排行榜失败"))
		return
	}

	// 转换为协议格式
	out := make([]protocol.LeaderboardEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, protocol.LeaderboardEntry{
			Rank:       entry.Rank,
			PlayerName: entry.Stats.PlayerName,
			Wins:       entry.Stats.Wins,
			TotalGames: entry.Stats.TotalGames,
			WinRate:    entry.Stats.WinRate(),
		})
	}

	client.SendMessage(codec.MustNewMessage(protocol.MsgLeaderboardResult, protocol.LeaderboardResultPayload{
		Entries: out,
	}))
}
