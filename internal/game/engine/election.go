package engine

import (
	"github.com/palemoky/secret-hitler/internal/apperrors"
	"github.com/palemoky/secret-hitler/internal/game/card"
	"github.com/palemoky/secret-hitler/internal/protocol"
)

const (
	chaosThreshold = 3
	chaosMessage   = "三次否决，牌堆顶的政策被强制颁布"
)

// StartFirstRound 首位座位成为总统。仅在 NoPresident 阶段生效，否则返回 nil。
func (g *Game) StartFirstRound() []Notification {
	if g.Phase != PhaseNoPresident {
		return nil
	}
	g.PresidentIndex = 0
	g.President = g.Players[0].Name
	g.Phase = PhaseNomination
	return []Notification{g.nominationPrompt("")}
}

// Candidates 可被提名为总理的玩家：已命名、存活、非总统、非上届当选者。
// 处决后存活玩家过少、无人可选时，上届总统恢复资格；仍为空时忽略全部限制。
func (g *Game) Candidates() []string {
	if out := g.candidates(g.Ineligible); len(out) > 0 {
		return out
	}
	if len(g.Ineligible) > 1 {
		if out := g.candidates(g.Ineligible[1:]); len(out) > 0 {
			return out
		}
	}
	return g.candidates(nil)
}

func (g *Game) candidates(excluded []string) []string {
	out := make([]string, 0, len(g.Players))
	for _, p := range g.Players {
		if !p.Named() || !p.Alive || p.Name == g.President || contains(excluded, p.Name) {
			continue
		}
		out = append(out, p.Name)
	}
	return out
}

// Nominate 总统提名总理并开启投票
func (g *Game) Nominate(playerID, chancellor string) ([]Notification, error) {
	if _, err := g.requirePresident(playerID, PhaseNomination); err != nil {
		return nil, err
	}
	if !contains(g.Candidates(), chancellor) {
		return nil, apperrors.ErrInvalidCandidate
	}

	g.Chancellor = chancellor
	g.Votes = nil
	g.Phase = PhaseVoting
	return []Notification{g.votingPrompt("")}, nil
}

// CastVote 存活玩家每轮投票一次；票数达到存活人数时立即结算
func (g *Game) CastVote(playerID string, choice Choice) ([]Notification, error) {
	if err := g.requirePhase(PhaseVoting); err != nil {
		return nil, err
	}
	p := g.PlayerByID(playerID)
	if p == nil {
		return nil, apperrors.ErrNotInRoom
	}
	if !p.Alive {
		return nil, apperrors.ErrDeadPlayer
	}
	if choice != Yes && choice != No {
		return nil, apperrors.ErrInvalidVote
	}
	if g.HasVoted(p.Name) {
		return nil, apperrors.ErrAlreadyVoted
	}

	g.Votes = append(g.Votes, Vote{Voter: p.Name, Choice: choice})
	if len(g.Votes) < g.Living() {
		return nil, nil
	}
	return g.resolveVote()
}

func (g *Game) resolveVote() ([]Notification, error) {
	yes := 0
	for _, v := range g.Votes {
		if v.Choice == Yes {
			yes++
		}
	}
	approved := yes > len(g.Votes)-yes

	result := protocol.VoteResultPayload{
		Majority:   string(No),
		Votes:      g.voteInfos(),
		President:  g.President,
		Chancellor: g.Chancellor,
	}
	g.Votes = nil

	if approved {
		g.FailedVotes = 0
		if !g.Special {
			g.Ineligible = []string{g.President, g.Chancellor}
		}
		g.Special = false
		g.Packet = nil
		g.Phase = PhasePresidentDiscard

		result.Majority = string(Yes)
		result.Board = g.boardInfo()
		return []Notification{
			broadcast(protocol.MsgVoteResult, result),
			g.drawPrompt(""),
		}, nil
	}

	g.FailedVotes++
	var chaos []Notification
	if g.FailedVotes == chaosThreshold {
		drawn, err := g.Deck.Draw(1)
		if err != nil {
			return g.abort(err)
		}
		g.Board.Enact(drawn[0])
		g.FailedVotes = 0
		result.Message = chaosMessage
		chaos = append(chaos, broadcast(protocol.MsgPolicyEnacted, protocol.PolicyEnactedPayload{
			Card:  drawn[0].String(),
			Chaos: true,
			Board: g.boardInfo(),
		}))
	}
	result.FailedVotes = g.FailedVotes
	result.Board = g.boardInfo()

	notes := append([]Notification{broadcast(protocol.MsgVoteResult, result)}, chaos...)
	if w := g.Board.Winner(); w != "" {
		return append(notes, g.finish(w)), nil
	}
	return append(notes, g.nextRound()), nil
}

// nextRound 清空总理，总统按座位顺序轮转（不跳过出局玩家），进入提名
func (g *Game) nextRound() Notification {
	g.Chancellor = ""
	g.Special = false
	g.PresidentIndex = (g.PresidentIndex + 1) % g.Capacity
	g.President = g.Players[g.PresidentIndex].Name
	g.Phase = PhaseNomination
	return g.nominationPrompt("")
}

func (g *Game) finish(winner card.Card) Notification {
	g.Winner = winner
	g.Phase = PhaseGameOver
	g.Chancellor = ""
	g.Power = PowerNone
	return g.gameOverMessage("")
}

func (g *Game) nominationPrompt(to string) Notification {
	return Notification{To: to, Type: protocol.MsgNominationTurn, Payload: protocol.NominationTurnPayload{
		President:  g.President,
		Candidates: g.Candidates(),
		Board:      g.boardInfo(),
	}}
}

func (g *Game) votingPrompt(to string) Notification {
	return Notification{To: to, Type: protocol.MsgVotingTurn, Payload: protocol.VotingTurnPayload{
		President:  g.President,
		Chancellor: g.Chancellor,
	}}
}

func (g *Game) drawPrompt(to string) Notification {
	return Notification{To: to, Type: protocol.MsgDrawTurn, Payload: protocol.DrawTurnPayload{
		President: g.President,
	}}
}

func (g *Game) gameOverMessage(to string) Notification {
	return Notification{To: to, Type: protocol.MsgGameOver, Payload: protocol.GameOverPayload{
		Winner: g.Winner.String(),
		Board:  g.boardInfo(),
		Roles:  g.Roles(),
	}}
}

func (g *Game) voteInfos() []protocol.VoteInfo {
	out := make([]protocol.VoteInfo, 0, len(g.Votes))
	for _, v := range g.Votes {
		out = append(out, protocol.VoteInfo{Voter: v.Voter, Choice: string(v.Choice)})
	}
	return out
}

// requirePhase 终局房间拒绝一切变更，其余阶段必须匹配
func (g *Game) requirePhase(want Phase) error {
	if g.Phase.Terminal() {
		return apperrors.ErrGameOver
	}
	if !g.Phase.Started() {
		return apperrors.ErrGameNotStart
	}
	if g.Phase != want {
		return apperrors.ErrInvalidPhase
	}
	return nil
}

func (g *Game) requirePresident(playerID string, want Phase) (*Player, error) {
	if err := g.requirePhase(want); err != nil {
		return nil, err
	}
	p := g.PlayerByID(playerID)
	if p == nil {
		return nil, apperrors.ErrNotInRoom
	}
	if p.Name != g.President {
		return nil, apperrors.ErrNotYourTurn
	}
	return p, nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
