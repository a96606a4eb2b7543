package handler

import (
	"context"
	"errors"

	"github.com/palemoky/secret-hitler/internal/apperrors"
	"github.com/palemoky/secret-hitler/internal/game/room"
	"github.com/palemoky/secret-hitler/internal/logger"
	"github.com/palemoky/secret-hitler/internal/protocol"
	"github.com/palemoky/secret-hitler/internal/protocol/codec"
	"github.com/palemoky/secret-hitler/internal/server/session"
	"github.com/palemoky/secret-hitler/internal/server/storage"
	"github.com/palemoky/secret-hitler/internal/types"
)

// StatsReader 战绩查询，Redis 未启用时为 nil
type StatsReader interface {
	GetPlayerStats(ctx context.Context, name string) (*storage.PlayerStats, error)
	GetPlayerRank(ctx context.Context, name string) (int64, error)
	GetLeaderboard(ctx context.Context, offset, limit int) ([]storage.LeaderboardEntry, error)
}

// HandlerDeps 处理器依赖
type HandlerDeps struct {
	Server         types.ServerInterface
	RoomManager    *room.RoomManager
	Leaderboard    StatsReader
	SessionManager *session.SessionManager
}

// Handler 消息处理器
type Handler struct {
	server         types.ServerInterface
	roomManager    *room.RoomManager
	leaderboard    StatsReader
	sessionManager *session.SessionManager
	handlers       map[protocol.MessageType]handlerFunc
}

// handlerFunc 统一的处理器函数签名
type handlerFunc func(client types.ClientInterface, msg *protocol.Message)

// NewHandler 创建处理器
func NewHandler(deps HandlerDeps) *Handler {
	h := &Handler{
		server:         deps.Server,
		roomManager:    deps.RoomManager,
		leaderboard:    deps.Leaderboard,
		sessionManager: deps.SessionManager,
	}
	h.initHandlers()
	return h
}

// initHandlers 初始化消息处理器映射
func (h *Handler) initHandlers() {
	h.handlers = map[protocol.MessageType]handlerFunc{
		// 连接操作
		protocol.MsgPing:      h.handlePing,
		protocol.MsgReconnect: h.handleReconnect,

		// 房间操作
		protocol.MsgCreateRoom: h.handleCreateRoom,
		protocol.MsgJoinRoom:   h.handleJoinRoom,
		protocol.MsgSetName:    h.handleSetName,
		protocol.MsgLobbyState: h.roomQuery((*room.Room).Lobby),

		// 游戏操作
		protocol.MsgResync:             h.roomQuery((*room.Room).Resync),
		protocol.MsgGetRole:            h.roomQuery((*room.Room).RoleInfo),
		protocol.MsgGetBoard:           h.roomQuery((*room.Room).BoardState),
		protocol.MsgNominateChancellor: h.handleNominate,
		protocol.MsgCastVote:           h.handleCastVote,
		protocol.MsgDrawCards:          h.roomQuery((*room.Room).DrawCards),
		protocol.MsgPresidentDiscard:   h.handlePresidentDiscard,
		protocol.MsgChancellorEnact:    h.handleChancellorEnact,
		protocol.MsgPowerSelection:     h.handlePowerSelection,

		// 信息查询
		protocol.MsgGetStats:       func(c types.ClientInterface, _ *protocol.Message) { h.handleGetStats(c) },
		protocol.MsgGetLeaderboard: h.handleGetLeaderboard,
	}
}

// Handle 处理消息
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	if handler, ok := h.handlers[msg.Type]; ok {
		handler(client, msg)
		return
	}

	logger.LogWarn("⚠️  未知消息类型: '%s' (来自玩家: %s, ID: %s, Payload长度=%d bytes)",
		msg.Type, client.GetName(), client.GetID(), len(msg.Payload))
	client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
}

// sendError 把错误定向发给出错的玩家
func sendError(client types.ClientInterface, err error) {
	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		client.SendMessage(codec.NewErrorMessageWithText(gameErr.Code, gameErr.Message))
		return
	}
	logger.LogError("处理玩家 %s 的请求失败: %v", client.GetID(), err)
	client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInternal))
}

// parse 解析请求体，失败时回复 InvalidMsg
func parse[T any](client types.ClientInterface, msg *protocol.Message) (*T, bool) {
	payload, err := codec.ParsePayload[T](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return nil, false
	}
	return payload, true
}

// withRoom 在玩家所在房间上执行操作
func (h *Handler) withRoom(client types.ClientInterface, fn func(r *room.Room) error) {
	r, err := h.roomManager.RoomOf(client)
	if err == nil {
		err = fn(r)
	}
	if err != nil {
		sendError(client, err)
	}
}

// roomQuery 适配无请求体的房间操作
func (h *Handler) roomQuery(op func(r *room.Room, client types.ClientInterface) error) handlerFunc {
	return func(client types.ClientInterface, _ *protocol.Message) {
		h.withRoom(client, func(r *room.Room) error { return op(r, client) })
	}
}
