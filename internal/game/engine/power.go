package engine

import (
	"github.com/palemoky/secret-hitler/internal/apperrors"
	"github.com/palemoky/secret-hitler/internal/protocol"
)

const peekSize = 1

// PowerTargets 权力可选目标：除总统外的存活玩家
func (g *Game) PowerTargets() []string {
	out := make([]string, 0, len(g.Players))
	for _, p := range g.Players {
		if p.Alive && p.Named() && p.Name != g.President {
			out = append(out, p.Name)
		}
	}
	return out
}

// grantPower 进入 Executive 阶段并提示总统
func (g *Game) grantPower(power Power) ([]Notification, error) {
	if power == PowerPolicyPeek {
		// 不足三张先洗回，保证看到的就是下次要抽的牌
		if _, err := g.Deck.Peek(peekSize, packetSize); err != nil {
			return g.abort(err)
		}
	}
	g.Power = power
	g.Phase = PhaseExecutive

	notes := []Notification{g.powerPrompt("")}
	if power == PowerPolicyPeek {
		notes = append(notes, g.peekMessage(g.presidentID()))
	}
	return notes, nil
}

// SelectPower 总统行使权力。查看牌堆顶时 target 忽略，视为确认。
func (g *Game) SelectPower(playerID, target string) ([]Notification, error) {
	p, err := g.requirePresident(playerID, PhaseExecutive)
	if err != nil {
		return nil, err
	}

	power := g.Power
	resolved := protocol.PowerResolvedPayload{Power: power.String(), President: g.President}
	if power == PowerPolicyPeek {
		g.Power = PowerNone
		return []Notification{
			broadcast(protocol.MsgPowerResolved, resolved),
			g.nextRound(),
		}, nil
	}

	if !contains(g.PowerTargets(), target) {
		return nil, apperrors.ErrInvalidTarget
	}
	chosen := g.PlayerByName(target)
	resolved.Target = target
	g.Power = PowerNone

	var notes []Notification
	switch power {
	case PowerInvestigation:
		notes = append(notes, direct(p.ID, protocol.MsgInvestigation, protocol.InvestigationPayload{
			Target: target,
			Party:  string(chosen.Role.Party()),
		}))
	case PowerExecution:
		chosen.Alive = false
	case PowerSpecialPresidency:
		// 特殊总统只持续一轮，PresidentIndex 不变，下一轮从原总统之后继续轮转
		g.President = target
		g.Special = true
		g.Ineligible = nil
		g.Chancellor = ""
		g.Phase = PhaseNomination
		return append(notes,
			broadcast(protocol.MsgPowerResolved, resolved),
			g.nominationPrompt(""),
		), nil
	}

	return append(notes,
		broadcast(protocol.MsgPowerResolved, resolved),
		g.nextRound(),
	), nil
}

func (g *Game) powerPrompt(to string) Notification {
	payload := protocol.PowerPromptPayload{
		Power:     g.Power.String(),
		President: g.President,
		Board:     g.boardInfo(),
	}
	if g.Power != PowerPolicyPeek {
		payload.Candidates = g.PowerTargets()
	}
	return Notification{To: to, Type: protocol.MsgPowerPrompt, Payload: payload}
}

func (g *Game) peekMessage(to string) Notification {
	n := min(peekSize, g.Deck.Len())
	return Notification{To: to, Type: protocol.MsgPolicyPeek, Payload: protocol.PolicyPeekPayload{
		Cards: cardStrings(g.Deck.Cards[:n]),
		Board: g.boardInfo(),
	}}
}
