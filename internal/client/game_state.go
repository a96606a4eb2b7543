package client

import (
	"fmt"
	"slices"

	"github.com/palemoky/secret-hitler/internal/game/card"
	"github.com/palemoky/secret-hitler/internal/protocol"
	"github.com/palemoky/secret-hitler/internal/protocol/codec"
)

// Stage 客户端视角的当前步骤，决定界面提示和可用操作
type Stage int

const (
	StageLobby      Stage = iota // 未入座
	StageNaming                  // 已入座，等待输入昵称
	StageWaiting                 // 已命名，等待其他玩家
	StageNomination              // 总统提名
	StageVoting                  // 投票
	StageDraw                    // 等待总统抽牌
	StageDiscard                 // 总统手握三张
	StageHandoff                 // 总理手握两张
	StagePower                   // 总统行使权力
	StageGameOver
	StageAborted
)

var stageNames = [...]string{
	StageLobby:      "大厅",
	StageNaming:     "输入昵称",
	StageWaiting:    "等待玩家",
	StageNomination: "提名",
	StageVoting:     "投票",
	StageDraw:       "抽牌",
	StageDiscard:    "总统弃牌",
	StageHandoff:    "总理颁布",
	StagePower:      "总统权力",
	StageGameOver:   "游戏结束",
	StageAborted:    "房间终止",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// maxLogLines 事件日志保留条数
const maxLogLines = 50

// GameState 客户端维护的游戏状态，由服务器消息驱动
type GameState struct {
	Stage Stage

	// 房间
	RoomCode string
	Capacity int
	Seat     int
	Seated   int
	Ready    int
	MyName   string
	Lobby    []string

	// 身份
	Role      string
	Teammates []protocol.PlayerRole

	// 牌桌
	Players     []protocol.PlayerInfo
	Board       protocol.BoardInfo
	DeckSize    int
	DiscardSize int
	FailedVotes int

	// 当前回合
	President  string
	Chancellor string
	Candidates []string
	Hand       []string // 在途的政策牌（仅总统/总理可见）
	Power      string
	Peek       []string
	LastVotes  []protocol.VoteInfo
	Voted      bool

	// 结果
	Winner string
	Roles  []protocol.PlayerRole

	Log []string
}

// NewGameState 创建空状态
func NewGameState() *GameState {
	return &GameState{Seat: -1}
}

// Reset 离开房间后清空
func (gs *GameState) Reset() {
	*gs = GameState{Seat: -1, Log: gs.Log}
}

// IsPresident 自己是否为当前总统
func (gs *GameState) IsPresident() bool {
	return gs.MyName != "" && gs.President == gs.MyName
}

// IsChancellor 自己是否为当前总理候选/总理
func (gs *GameState) IsChancellor() bool {
	return gs.MyName != "" && gs.Chancellor == gs.MyName
}

// Alive 自己是否存活；开局前视为存活
func (gs *GameState) Alive() bool {
	for _, p := range gs.Players {
		if p.Name == gs.MyName {
			return p.Alive
		}
	}
	return true
}

// Unplayed 尚未颁布的政策数（牌堆 + 弃牌堆 + 在途）
func (gs *GameState) Unplayed() (fascist, liberal int) {
	return card.FascistCount - gs.Board.Fascist, card.LiberalCount - gs.Board.Liberal
}

// logf 追加一行事件日志
func (gs *GameState) logf(format string, args ...any) {
	gs.Log = append(gs.Log, fmt.Sprintf(format, args...))
	if over := len(gs.Log) - maxLogLines; over > 0 {
		gs.Log = slices.Delete(gs.Log, 0, over)
	}
}

// Apply 用一条服务器消息更新状态
func (gs *GameState) Apply(msg *protocol.Message) error {
	switch msg.Type {
	case protocol.MsgRoomJoined:
		return apply(msg, func(p *protocol.RoomJoinedPayload) {
			gs.RoomCode, gs.Capacity, gs.Seat, gs.Seated = p.RoomCode, p.Capacity, p.Seat, p.Seated
			if gs.Stage == StageLobby {
				gs.Stage = StageNaming
			}
			gs.logf("入座房间 %s（%d/%d）", p.RoomCode, p.Seated, p.Capacity)
		})

	case protocol.MsgPlayerJoined:
		return apply(msg, func(p *protocol.PlayerJoinedPayload) {
			gs.Seated, gs.Capacity = p.Seated, p.Capacity
		})

	case protocol.MsgNameAccepted:
		return apply(msg, func(p *protocol.NameAcceptedPayload) {
			gs.MyName = p.Name
			gs.Stage = StageWaiting
		})

	case protocol.MsgPlayerNamed:
		return apply(msg, func(p *protocol.PlayerNamedPayload) {
			gs.Ready, gs.Capacity = p.Ready, p.Capacity
			if !slices.Contains(gs.Lobby, p.Name) {
				gs.Lobby = append(gs.Lobby, p.Name)
			}
			gs.logf("%s 已就位（%d/%d）", p.Name, p.Ready, p.Capacity)
		})

	case protocol.MsgLobbyPlayers:
		return apply(msg, func(p *protocol.LobbyPlayersPayload) {
			gs.Lobby, gs.Ready, gs.Capacity = p.Names, p.Ready, p.Capacity
		})

	case protocol.MsgGameStart:
		return apply(msg, func(p *protocol.GameStartPayload) {
			gs.Players = p.Players
			gs.logf("身份已分配，游戏开始")
		})

	case protocol.MsgRoleInfo:
		return apply(msg, func(p *protocol.RoleInfoPayload) {
			gs.Role, gs.Teammates = p.Role, p.Teammates
		})

	case protocol.MsgBoardState:
		return apply(msg, func(p *protocol.BoardStatePayload) {
			gs.Board, gs.DeckSize, gs.DiscardSize, gs.FailedVotes = p.Board, p.DeckSize, p.DiscardSize, p.FailedVotes
			gs.Players = p.Players
		})

	case protocol.MsgNominationTurn:
		return apply(msg, func(p *protocol.NominationTurnPayload) {
			gs.Stage = StageNomination
			gs.President, gs.Chancellor = p.President, ""
			gs.Candidates, gs.Board = p.Candidates, p.Board
			gs.Hand, gs.Power, gs.Peek, gs.Voted = nil, "", nil, false
			gs.logf("%s 担任总统，正在提名总理", p.President)
		})

	case protocol.MsgVotingTurn:
		return apply(msg, func(p *protocol.VotingTurnPayload) {
			gs.Stage = StageVoting
			gs.President, gs.Chancellor = p.President, p.Chancellor
			gs.logf("%s 提名 %s 为总理，请投票", p.President, p.Chancellor)
		})

	case protocol.MsgVoteResult:
		return apply(msg, func(p *protocol.VoteResultPayload) {
			gs.LastVotes, gs.FailedVotes, gs.Board = p.Votes, p.FailedVotes, p.Board
			gs.Voted = false
			gs.logf("投票结果：%s（失败计数 %d）", p.Majority, p.FailedVotes)
			if p.Message != "" {
				gs.logf("%s", p.Message)
			}
		})

	case protocol.MsgDrawTurn:
		return apply(msg, func(p *protocol.DrawTurnPayload) {
			gs.Stage = StageDraw
			gs.President = p.President
		})

	case protocol.MsgPresidentCards:
		return apply(msg, func(p *protocol.CardsPayload) {
			gs.Stage = StageDiscard
			gs.Hand, gs.President, gs.Chancellor = p.Cards, p.President, p.Chancellor
		})

	case protocol.MsgChancellorCards:
		return apply(msg, func(p *protocol.CardsPayload) {
			gs.Stage = StageHandoff
			gs.Hand, gs.President, gs.Chancellor = p.Cards, p.President, p.Chancellor
		})

	case protocol.MsgPolicyHandoff:
		return apply(msg, func(p *protocol.PolicyHandoffPayload) {
			gs.Stage = StageHandoff
			if !gs.IsChancellor() {
				gs.Hand = nil
			}
			gs.logf("%s 已将两张政策交给 %s", p.President, p.Chancellor)
		})

	case protocol.MsgPolicyEnacted:
		return apply(msg, func(p *protocol.PolicyEnactedPayload) {
			gs.Board, gs.Hand = p.Board, nil
			if p.Chaos {
				gs.logf("局势混乱，强制颁布 %s", p.Card)
			} else {
				gs.logf("颁布政策 %s（F %d / L %d）", p.Card, p.Board.Fascist, p.Board.Liberal)
			}
		})

	case protocol.MsgPowerPrompt:
		return apply(msg, func(p *protocol.PowerPromptPayload) {
			gs.Stage = StagePower
			gs.Power, gs.President, gs.Candidates, gs.Board = p.Power, p.President, p.Candidates, p.Board
			gs.logf("%s 获得权力：%s", p.President, p.Power)
		})

	case protocol.MsgPolicyPeek:
		return apply(msg, func(p *protocol.PolicyPeekPayload) {
			gs.Peek = p.Cards
		})

	case protocol.MsgInvestigation:
		return apply(msg, func(p *protocol.InvestigationPayload) {
			gs.logf("调查结果：%s 属于 %s", p.Target, p.Party)
		})

	case protocol.MsgPowerResolved:
		return apply(msg, func(p *protocol.PowerResolvedPayload) {
			gs.Power, gs.Peek = "", nil
			if p.Target != "" {
				gs.logf("%s 对 %s 使用了 %s", p.President, p.Target, p.Power)
			} else {
				gs.logf("%s 使用了 %s", p.President, p.Power)
			}
		})

	case protocol.MsgGameOver:
		return apply(msg, func(p *protocol.GameOverPayload) {
			gs.Stage = StageGameOver
			gs.Winner, gs.Board, gs.Roles = p.Winner, p.Board, p.Roles
			gs.Hand, gs.Power, gs.Peek = nil, "", nil
			gs.logf("游戏结束，获胜方：%s", p.Winner)
		})

	case protocol.MsgGameAborted:
		return apply(msg, func(p *protocol.GameAbortedPayload) {
			gs.Stage = StageAborted
			gs.logf("房间终止：%s", p.Reason)
		})

	case protocol.MsgPlayerOffline:
		return apply(msg, func(p *protocol.PlayerOfflinePayload) {
			gs.setOnline(p.PlayerName, false)
			gs.logf("%s 掉线，等待重连 %ds", p.PlayerName, p.Timeout)
		})

	case protocol.MsgPlayerOnline:
		return apply(msg, func(p *protocol.PlayerOnlinePayload) {
			gs.setOnline(p.PlayerName, true)
			gs.logf("%s 重新上线", p.PlayerName)
		})

	case protocol.MsgReconnected:
		return apply(msg, func(p *protocol.ReconnectedPayload) {
			if p.RoomCode == "" {
				gs.Reset()
				return
			}
			gs.RoomCode, gs.MyName = p.RoomCode, p.PlayerName
			if gs.Stage == StageLobby {
				gs.Stage = StageWaiting
				if p.PlayerName == "" {
					gs.Stage = StageNaming
				}
			}
		})
	}
	return nil
}

func (gs *GameState) setOnline(name string, online bool) {
	for i := range gs.Players {
		if gs.Players[i].Name == name {
			gs.Players[i].Online = online
		}
	}
}

// apply 解析 payload 后执行更新
func apply[T any](msg *protocol.Message, fn func(p *T)) error {
	p, err := codec.ParsePayload[T](msg)
	if err != nil {
		return fmt.Errorf("parse %s: %w", msg.Type, err)
	}
	fn(p)
	return nil
}
