package protocol

// --- 客户端请求 Payloads ---

// ReconnectPayload 断线重连请求
type ReconnectPayload struct {
	Token    string `json:"token"`     // 重连令牌
	PlayerID string `json:"player_id"` // 玩家 ID
}

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// CreateRoomPayload 创建房间请求
type CreateRoomPayload struct {
	Capacity int `json:"capacity"` // 5-10
}

// JoinRoomPayload 加入房间请求
type JoinRoomPayload struct {
	RoomCode string `json:"room_code"`
}

// SetNamePayload 设置昵称请求
type SetNamePayload struct {
	Name string `json:"name"`
}

// NominatePayload 提名总理
type NominatePayload struct {
	Chancellor string `json:"chancellor"`
}

// VotePayload 投票
type VotePayload struct {
	Choice string `json:"choice"` // Yes / No
}

// CardPayload 弃牌或颁布
type CardPayload struct {
	Card string `json:"card"` // F / L
}

// PowerSelectionPayload 行使权力；查看牌堆顶时 Target 为空表示确认
type PowerSelectionPayload struct {
	Target string `json:"target,omitempty"`
}

// GetLeaderboardPayload 获取排行榜请求
type GetLeaderboardPayload struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// --- 服务端响应 Payloads ---

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	PlayerID       string `json:"player_id"`
	ReconnectToken string `json:"reconnect_token"` // 重连令牌
}

// ReconnectedPayload 重连成功响应，客户端随后发送 resync
type ReconnectedPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name,omitempty"`
	RoomCode   string `json:"room_code,omitempty"`
}

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"` // 客户端发送的时间戳
	ServerTimestamp int64 `json:"server_timestamp"` // 服务器时间戳（毫秒）
}

// PlayerOfflinePayload 玩家掉线通知
type PlayerOfflinePayload struct {
	PlayerName string `json:"player_name"`
	Timeout    int    `json:"timeout"` // 等待重连超时（秒）
}

// PlayerOnlinePayload 玩家上线通知
type PlayerOnlinePayload struct {
	PlayerName string `json:"player_name"`
}

// RoomCreatedPayload 房间创建成功响应
type RoomCreatedPayload struct {
	RoomCode string `json:"room_code"`
	Capacity int    `json:"capacity"`
}

// RoomJoinedPayload 入座成功响应
type RoomJoinedPayload struct {
	RoomCode string `json:"room_code"`
	Capacity int    `json:"capacity"`
	Seat     int    `json:"seat"`
	Seated   int    `json:"seated"`
}

// PlayerJoinedPayload 有人入座（名字尚未设置）
type PlayerJoinedPayload struct {
	Seated   int `json:"seated"`
	Capacity int `json:"capacity"`
}

// NameAcceptedPayload 昵称设置成功
type NameAcceptedPayload struct {
	Name string `json:"name"`
}

// PlayerNamedPayload 有玩家设置了昵称
type PlayerNamedPayload struct {
	Name     string `json:"name"`
	Ready    int    `json:"ready"`
	Capacity int    `json:"capacity"`
}

// LobbyPlayersPayload 大厅中已命名的玩家
type LobbyPlayersPayload struct {
	Names    []string `json:"names"`
	Ready    int      `json:"ready"`
	Capacity int      `json:"capacity"`
}

// GameStartPayload 身份已分配，按座位顺序
type GameStartPayload struct {
	Players []PlayerInfo `json:"players"`
}

// RoleInfoPayload 自己的身份及可见的队友
type RoleInfoPayload struct {
	Role      string       `json:"role"`
	Teammates []PlayerRole `json:"teammates,omitempty"`
}

// BoardStatePayload 公开牌桌
type BoardStatePayload struct {
	Board       BoardInfo    `json:"board"`
	DeckSize    int          `json:"deck_size"`
	DiscardSize int          `json:"discard_size"`
	FailedVotes int          `json:"failed_votes"`
	Players     []PlayerInfo `json:"players"`
}

// NominationTurnPayload 总统提名提示（广播）
type NominationTurnPayload struct {
	President  string    `json:"president"`
	Candidates []string  `json:"candidates"`
	Board      BoardInfo `json:"board"`
}

// VotingTurnPayload 投票提示
type VotingTurnPayload struct {
	President  string `json:"president"`
	Chancellor string `json:"chancellor"`
}

// VoteResultPayload 投票结果
type VoteResultPayload struct {
	Majority    string     `json:"majority"` // Yes / No
	Votes       []VoteInfo `json:"votes"`
	President   string     `json:"president"`
	Chancellor  string     `json:"chancellor"`
	FailedVotes int        `json:"failed_votes"`
	Message     string     `json:"message,omitempty"` // 三次否决强制颁布时的提示
	Board       BoardInfo  `json:"board"`
}

// DrawTurnPayload 提示总统抽牌
type DrawTurnPayload struct {
	President string `json:"president"`
}

// CardsPayload 立法阶段在途的牌（定向发送）
type CardsPayload struct {
	Cards      []string `json:"cards"`
	President  string   `json:"president"`
	Chancellor string   `json:"chancellor"`
}

// PolicyHandoffPayload 总统已弃牌并交给总理
type PolicyHandoffPayload struct {
	President  string `json:"president"`
	Chancellor string `json:"chancellor"`
}

// PolicyEnactedPayload 政策颁布
type PolicyEnactedPayload struct {
	Card  string    `json:"card"`
	Chaos bool      `json:"chaos,omitempty"` // 三次否决后的强制颁布
	Board BoardInfo `json:"board"`
}

// PowerPromptPayload 总统权力提示
type PowerPromptPayload struct {
	Power      string    `json:"power"`
	President  string    `json:"president"`
	Candidates []string  `json:"candidates,omitempty"`
	Board      BoardInfo `json:"board"`
}

// PolicyPeekPayload 牌堆顶（仅总统）
type PolicyPeekPayload struct {
	Cards []string  `json:"cards"`
	Board BoardInfo `json:"board"`
}

// InvestigationPayload 调查结果（仅总统），Hitler 显示为 Fascist
type InvestigationPayload struct {
	Target string `json:"target"`
	Party  string `json:"party"`
}

// PowerResolvedPayload 权力已行使
type PowerResolvedPayload struct {
	Power     string `json:"power"`
	President string `json:"president"`
	Target    string `json:"target,omitempty"`
}

// GameOverPayload 游戏结束，公开全部身份
type GameOverPayload struct {
	Winner string       `json:"winner"` // F / L
	Board  BoardInfo    `json:"board"`
	Roles  []PlayerRole `json:"roles"`
}

// GameAbortedPayload 房间因内部错误终止
type GameAbortedPayload struct {
	Reason string `json:"reason"`
}

// MaintenancePayload 维护模式通知
type MaintenancePayload struct {
	Maintenance bool `json:"maintenance"` // 是否在维护模式
}

// ErrorPayload 错误响应
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// StatsResultPayload 个人战绩
type StatsResultPayload struct {
	PlayerName   string  `json:"player_name"`
	TotalGames   int     `json:"total_games"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	WinRate      float64 `json:"win_rate"`
	LiberalGames int     `json:"liberal_games"`
	LiberalWins  int     `json:"liberal_wins"`
	FascistGames int     `json:"fascist_games"`
	FascistWins  int     `json:"fascist_wins"`
	HitlerGames  int     `json:"hitler_games"`
	Rank         int     `json:"rank"`
}

// LeaderboardResultPayload 排行榜结果
type LeaderboardResultPayload struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	PlayerName string  `json:"player_name"`
	Wins       int     `json:"wins"`
	TotalGames int     `json:"total_games"`
	WinRate    float64 `json:"win_rate"`
}

// --- 通用数据结构 ---

// PlayerInfo 公开的玩家信息
type PlayerInfo struct {
	Name   string `json:"name"`
	Seat   int    `json:"seat"`
	Alive  bool   `json:"alive"`
	Online bool   `json:"online"`
}

// PlayerRole 玩家身份
type PlayerRole struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// VoteInfo 单张选票
type VoteInfo struct {
	Voter  string `json:"voter"`
	Choice string `json:"choice"`
}

// BoardInfo 已颁布政策计数
type BoardInfo struct {
	Fascist int `json:"F"`
	Liberal int `json:"L"`
}
