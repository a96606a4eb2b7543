// Package engine 房间内的游戏状态机
//
// Game 不是并发安全的：调用方（room.Room）必须保证同一房间的操作串行执行。
// 所有操作返回待发送的 Notification；出错时房间状态保持不变。
package engine

import (
	"math/rand/v2"

	"github.com/palemoky/secret-hitler/internal/apperrors"
	"github.com/palemoky/secret-hitler/internal/game/card"
	"github.com/palemoky/secret-hitler/internal/game/role"
)

// Choice 选票
type Choice string

const (
	Yes Choice = "Yes"
	No  Choice = "No"
)

// Player 座位上的玩家
type Player struct {
	ID    string
	Name  string // 只能设置一次
	Role  role.Role
	Alive bool
	Seat  int
}

// Named 是否已设置昵称
func (p *Player) Named() bool {
	return p.Name != ""
}

// Vote 一张选票
type Vote struct {
	Voter  string
	Choice Choice
}

// Game 一个房间的全部游戏状态
type Game struct {
	Code     string
	Capacity int
	Players  []*Player // 入座顺序即座位顺序
	Phase    Phase

	PresidentIndex int
	President      string // 特殊总统期间与 Players[PresidentIndex] 不同
	Special        bool   // 当前总统由特殊总统权力产生
	Chancellor     string
	Ineligible     []string
	Votes          []Vote
	FailedVotes    int

	Deck   *card.Deck
	Board  card.Board
	Packet []card.Card
	Power  Power
	Winner card.Card

	rng *rand.Rand
}

// NewGame 创建处于 Filling 阶段的房间状态
func NewGame(code string, capacity int, rng *rand.Rand) (*Game, error) {
	if !role.ValidCapacity(capacity) {
		return nil, apperrors.ErrInvalidCapacity
	}
	return &Game{
		Code:     code,
		Capacity: capacity,
		Players:  make([]*Player, 0, capacity),
		Phase:    PhaseFilling,
		Deck:     card.NewDeck(rng),
		rng:      rng,
	}, nil
}

// PlayerByID 按 ID 查找
func (g *Game) PlayerByID(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PlayerByName 按昵称查找
func (g *Game) PlayerByName(name string) *Player {
	if name == "" {
		return nil
	}
	for _, p := range g.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Ready 已命名人数
func (g *Game) Ready() int {
	n := 0
	for _, p := range g.Players {
		if p.Named() {
			n++
		}
	}
	return n
}

// Living 存活人数
func (g *Game) Living() int {
	n := 0
	for _, p := range g.Players {
		if p.Alive {
			n++
		}
	}
	return n
}

// CardCount 牌堆 + 弃牌 + 牌桌 + 在途的总张数，始终为 17
func (g *Game) CardCount() int {
	return g.Deck.Len() + len(g.Deck.Discards) + g.Board.Total() + len(g.Packet)
}

// HasVoted 该玩家本轮是否已投票
func (g *Game) HasVoted(name string) bool {
	for _, v := range g.Votes {
		if v.Voter == name {
			return true
		}
	}
	return false
}

// VotingOpen 投票是否进行中
func (g *Game) VotingOpen() bool {
	return g.Phase == PhaseVoting
}

// HandoffDone 总统是否已弃牌并交给总理
func (g *Game) HandoffDone() bool {
	return g.Phase == PhaseChancellorEnact
}

func (g *Game) presidentID() string {
	if p := g.PlayerByName(g.President); p != nil {
		return p.ID
	}
	return ""
}

func (g *Game) chancellorID() string {
	if p := g.PlayerByName(g.Chancellor); p != nil {
		return p.ID
	}
	return ""
}

// Result 终局时单个玩家的结果
type Result struct {
	Name string
	Role role.Role
	Won  bool
}

// Results 终局结果，未结束返回 nil
func (g *Game) Results() []Result {
	if g.Phase != PhaseGameOver {
		return nil
	}
	out := make([]Result, 0, len(g.Players))
	for _, p := range g.Players {
		won := p.Role.Party() == role.Liberal
		if g.Winner == card.Fascist {
			won = !won
		}
		out = append(out, Result{Name: p.Name, Role: p.Role, Won: won})
	}
	return out
}
