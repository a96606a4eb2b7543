package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	// 连接操作
	MsgReconnect MessageType = "reconnect" // 断线重连
	MsgPing      MessageType = "ping"      // 心跳 ping

	// 房间操作
	MsgCreateRoom MessageType = "create_room" // 创建房间
	MsgJoinRoom   MessageType = "join_room"   // 加入房间
	MsgSetName    MessageType = "set_name"    // 设置昵称（一次性）
	MsgLobbyState MessageType = "lobby_state" // 拉取大厅已命名玩家

	// 游戏操作
	MsgResync             MessageType = "resync"              // 进入/重进游戏页，拉取当前视图
	MsgGetRole            MessageType = "get_role"            // 查询自己的身份
	MsgGetBoard           MessageType = "get_board"           // 查询公开牌桌
	MsgNominateChancellor MessageType = "nominate_chancellor" // 总统提名总理
	MsgCastVote           MessageType = "cast_vote"           // 投票
	MsgDrawCards          MessageType = "draw_cards"          // 总统抽三张
	MsgPresidentDiscard   MessageType = "president_discard"   // 总统弃一张
	MsgChancellorEnact    MessageType = "chancellor_enact"    // 总理颁布一张
	MsgPowerSelection     MessageType = "power_selection"     // 总统行使权力

	// 统计
	MsgGetStats       MessageType = "get_stats"       // 获取个人战绩
	MsgGetLeaderboard MessageType = "get_leaderboard" // 获取排行榜
)

// 服务端 → 客户端 消息类型
const (
	// 连接相关
	MsgConnected     MessageType = "connected"      // 连接成功
	MsgReconnected   MessageType = "reconnected"    // 重连成功
	MsgPong          MessageType = "pong"           // 心跳 pong
	MsgPlayerOffline MessageType = "player_offline" // 玩家掉线通知
	MsgPlayerOnline  MessageType = "player_online"  // 玩家上线通知

	// 房间相关
	MsgRoomCreated  MessageType = "room_created"  // 房间创建成功
	MsgRoomJoined   MessageType = "room_joined"   // 加入房间成功
	MsgPlayerJoined MessageType = "player_joined" // 其他玩家入座
	MsgNameAccepted MessageType = "name_accepted" // 昵称设置成功（仅本人）
	MsgPlayerNamed  MessageType = "player_named"  // 有玩家设置了昵称（广播）
	MsgLobbyPlayers MessageType = "lobby_players" // 大厅玩家列表

	// 游戏流程
	MsgGameStart       MessageType = "game_start"       // 身份已分配
	MsgRoleInfo        MessageType = "role_info"        // 自己的身份 + 可见队友
	MsgBoardState      MessageType = "board_state"      // 牌桌
	MsgNominationTurn  MessageType = "nomination_turn"  // 总统提名提示
	MsgVotingTurn      MessageType = "voting_turn"      // 投票提示
	MsgVoteResult      MessageType = "vote_result"      // 投票结果
	MsgDrawTurn        MessageType = "draw_turn"        // 提示总统抽牌
	MsgPresidentCards  MessageType = "president_cards"  // 三张牌（仅总统）
	MsgChancellorCards MessageType = "chancellor_cards" // 两张牌（仅总理）
	MsgPolicyHandoff   MessageType = "policy_handoff"   // 总统已弃牌（广播，不含牌面）
	MsgPolicyEnacted   MessageType = "policy_enacted"   // 颁布结果 + 牌桌
	MsgPowerPrompt     MessageType = "power_prompt"     // 总统权力提示
	MsgPolicyPeek      MessageType = "policy_peek"      // 牌堆顶（仅总统）
	MsgInvestigation   MessageType = "investigation"    // 调查结果（仅总统）
	MsgPowerResolved   MessageType = "power_resolved"   // 权力已行使（广播）
	MsgGameOver        MessageType = "game_over"        // 游戏结束
	MsgGameAborted     MessageType = "game_aborted"     // 内部错误，房间终止

	// 统计
	MsgStatsResult       MessageType = "stats_result"       // 个人战绩结果
	MsgLeaderboardResult MessageType = "leaderboard_result" // 排行榜结果

	// 系统通知
	MsgMaintenancePush MessageType = "maintenance_push" // 主动推送

	// 错误
	MsgError MessageType = "error" // 错误消息
)
