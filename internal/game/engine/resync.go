package engine

import "github.com/palemoky/secret-hitler/internal/apperrors"

// NeedsPresident 身份已分配但首任总统尚未产生；任意在座玩家 resync 时触发 StartFirstRound
func (g *Game) NeedsPresident() bool {
	return g.Phase == PhaseNoPresident
}

// View 玩家(重)连入时应重发的消息，只读。
//
// 按以下顺序取第一条命中：
//  1. 总统且权力待行使：权力提示（查看牌堆顶则重发牌面）
//  2. 总统且尚未提名：提名提示
//  3. 总统且投票中且未投：投票提示
//  4. 总统且尚未弃牌：三张牌（未抽则提示抽牌）
//  5. 总理且投票中且未投：投票提示
//  6. 总理且已收到两张：两张牌
//  7. 其他存活玩家：投票中且未投则投票提示
//
// 返回 nil 表示无需提示。
func (g *Game) View(playerID string) (*Notification, error) {
	p := g.PlayerByID(playerID)
	if p == nil {
		return nil, apperrors.ErrNotInRoom
	}

	var n Notification
	switch {
	case g.Phase == PhaseFilling:
		return nil, apperrors.ErrGameNotStart
	case g.Phase == PhaseGameOver:
		n = g.gameOverMessage(p.ID)
	case g.Phase == PhaseAborted:
		n = g.abortedMessage(p.ID)
	case p.Name == g.President:
		return g.presidentView(p), nil
	case p.Name == g.Chancellor:
		return g.chancellorView(p), nil
	case p.Alive && g.Phase == PhaseVoting && !g.HasVoted(p.Name):
		n = g.votingPrompt(p.ID)
	default:
		return nil, nil
	}
	return &n, nil
}

func (g *Game) presidentView(p *Player) *Notification {
	var n Notification
	switch g.Phase {
	case PhaseExecutive:
		if g.Power == PowerPolicyPeek {
			n = g.peekMessage(p.ID)
		} else {
			n = g.powerPrompt(p.ID)
		}
	case PhaseNomination:
		n = g.nominationPrompt(p.ID)
	case PhaseVoting:
		if g.HasVoted(p.Name) || !p.Alive {
			return nil
		}
		n = g.votingPrompt(p.ID)
	case PhasePresidentDiscard:
		if len(g.Packet) == 0 {
			n = g.drawPrompt(p.ID)
		} else {
			n = g.presidentCards(p.ID)
		}
	default:
		return nil
	}
	return &n
}

func (g *Game) chancellorView(p *Player) *Notification {
	var n Notification
	switch {
	case g.Phase == PhaseVoting && p.Alive && !g.HasVoted(p.Name):
		n = g.votingPrompt(p.ID)
	case g.HandoffDone():
		n = g.chancellorCards(p.ID)
	default:
		return nil
	}
	return &n
}
