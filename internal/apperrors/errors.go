package apperrors

import (
	"errors"

	"github.com/palemoky/secret-hitler/internal/protocol"
)

// GameError 游戏错误（房间、会话与引擎共享）
//
// 所有 GameError 都是可恢复的：只通知出错的玩家，房间状态不变。
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// 预定义错误
var (
	// NotFound
	ErrNotFound     = &GameError{Code: protocol.ErrCodeNotFound, Message: "玩家不存在"}
	ErrRoomNotFound = &GameError{Code: protocol.ErrCodeRoomNotFound, Message: "房间不存在"}
	ErrNotInRoom    = &GameError{Code: protocol.ErrCodeNotInRoom, Message: "您不在房间中"}

	// DuplicateAction
	ErrRoomFull      = &GameError{Code: protocol.ErrCodeRoomFull, Message: "房间已满"}
	ErrNameTaken     = &GameError{Code: protocol.ErrCodeNameTaken, Message: "昵称已被占用"}
	ErrNameSet       = &GameError{Code: protocol.ErrCodeDuplicateAction, Message: "昵称已设置，不能修改"}
	ErrAlreadyVoted  = &GameError{Code: protocol.ErrCodeDuplicateAction, Message: "您已投过票"}
	ErrAlreadyInRoom = &GameError{Code: protocol.ErrCodeDuplicateAction, Message: "您已在房间中"}

	// InvalidPhase
	ErrInvalidPhase = &GameError{Code: protocol.ErrCodeInvalidPhase, Message: "当前阶段不能进行该操作"}
	ErrGameStarted  = &GameError{Code: protocol.ErrCodeInvalidPhase, Message: "游戏已开始"}
	ErrGameNotStart = &GameError{Code: protocol.ErrCodeInvalidPhase, Message: "游戏尚未开始"}
	ErrGameOver     = &GameError{Code: protocol.ErrCodeInvalidPhase, Message: "游戏已结束"}
	ErrNotYourTurn  = &GameError{Code: protocol.ErrCodeNotYourTurn, Message: "还没轮到您"}

	// InvalidSelection
	ErrInvalidCandidate = &GameError{Code: protocol.ErrCodeInvalidSelection, Message: "该玩家不能被提名"}
	ErrInvalidCard      = &GameError{Code: protocol.ErrCodeInvalidSelection, Message: "这张牌不在手中"}
	ErrInvalidTarget    = &GameError{Code: protocol.ErrCodeInvalidSelection, Message: "目标必须是存活的其他玩家"}
	ErrInvalidVote      = &GameError{Code: protocol.ErrCodeInvalidSelection, Message: "选票只能是 Yes 或 No"}
	ErrInvalidCapacity  = &GameError{Code: protocol.ErrCodeInvalidSelection, Message: "房间人数必须在 5 到 10 之间"}
	ErrInvalidName      = &GameError{Code: protocol.ErrCodeInvalidSelection, Message: "昵称不能为空且不超过 20 个字符"}
	ErrDeadPlayer       = &GameError{Code: protocol.ErrCodeInvalidSelection, Message: "已出局的玩家不能行动"}

	// Internal
	ErrInternal = &GameError{Code: protocol.ErrCodeInternal, Message: "房间状态异常，游戏已终止"}
)

// Code 返回 err 对应的错误码；非 GameError 返回 ErrCodeUnknown
func Code(err error) int {
	var gameErr *GameError
	if errors.As(err, &gameErr) {
		return gameErr.Code
	}
	return protocol.ErrCodeUnknown
}
