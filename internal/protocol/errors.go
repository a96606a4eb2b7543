package protocol

// 错误码
const (
	ErrCodeUnknown    = 1000
	ErrCodeInvalidMsg = 1001
	ErrCodeRateLimit  = 1002 // 速率限制

	ErrCodeNotFound     = 2000 // 房间或玩家不存在
	ErrCodeRoomNotFound = 2001
	ErrCodeRoomFull     = 2002
	ErrCodeNotInRoom    = 2003
	ErrCodeNameTaken    = 2004 // 昵称已被占用

	ErrCodeInvalidPhase     = 3001 // 当前阶段不允许该操作
	ErrCodeNotYourTurn      = 3002
	ErrCodeInvalidSelection = 3003 // 候选人 / 牌 / 目标不合法
	ErrCodeDuplicateAction  = 3004 // 重复操作

	ErrCodeInternal          = 5000 // 房间状态不一致，房间已终止
	ErrCodeServerMaintenance = 5003 // 服务器维护中
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:           "未知错误",
	ErrCodeInvalidMsg:        "无效的消息格式",
	ErrCodeRateLimit:         "请求过于频繁",
	ErrCodeNotFound:          "目标不存在",
	ErrCodeRoomNotFound:      "房间不存在",
	ErrCodeRoomFull:          "房间已满",
	ErrCodeNotInRoom:         "您不在房间中",
	ErrCodeNameTaken:         "昵称已被占用",
	ErrCodeInvalidPhase:      "当前阶段不能进行该操作",
	ErrCodeNotYourTurn:       "还没轮到您",
	ErrCodeInvalidSelection:  "选择无效",
	ErrCodeDuplicateAction:   "重复操作",
	ErrCodeInternal:          "服务器内部错误",
	ErrCodeServerMaintenance: "服务器维护中",
}
