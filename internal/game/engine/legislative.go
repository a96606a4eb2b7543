package engine

import (
	"fmt"

	"github.com/palemoky/secret-hitler/internal/apperrors"
	"github.com/palemoky/secret-hitler/internal/game/card"
	"github.com/palemoky/secret-hitler/internal/protocol"
)

const packetSize = 3

// DrawCards 总统从牌堆顶抽三张，仅总统可见。已抽过则重发同一组牌。
func (g *Game) DrawCards(playerID string) ([]Notification, error) {
	p, err := g.requirePresident(playerID, PhasePresidentDiscard)
	if err != nil {
		return nil, err
	}
	if len(g.Packet) == 0 {
		drawn, err := g.Deck.Draw(packetSize)
		if err != nil {
			return g.abort(err)
		}
		g.Packet = drawn
	}
	return []Notification{g.presidentCards(p.ID)}, nil
}

// PresidentDiscard 总统弃一张，剩余两张交给总理
func (g *Game) PresidentDiscard(playerID string, c card.Card) ([]Notification, error) {
	if _, err := g.requirePresident(playerID, PhasePresidentDiscard); err != nil {
		return nil, err
	}
	if len(g.Packet) != packetSize {
		return nil, apperrors.ErrInvalidPhase
	}
	rest, ok := card.Remove(g.Packet, c)
	if !ok {
		return nil, apperrors.ErrInvalidCard
	}

	g.Deck.Discard(c)
	g.Packet = rest
	g.Phase = PhaseChancellorEnact

	return []Notification{
		broadcast(protocol.MsgPolicyHandoff, protocol.PolicyHandoffPayload{
			President:  g.President,
			Chancellor: g.Chancellor,
		}),
		g.chancellorCards(g.chancellorID()),
	}, nil
}

// ChancellorEnact 总理颁布一张、弃一张，随后判定胜负与权力
func (g *Game) ChancellorEnact(playerID string, c card.Card) ([]Notification, error) {
	if err := g.requirePhase(PhaseChancellorEnact); err != nil {
		return nil, err
	}
	p := g.PlayerByID(playerID)
	if p == nil {
		return nil, apperrors.ErrNotInRoom
	}
	if p.Name != g.Chancellor {
		return nil, apperrors.ErrNotYourTurn
	}
	rest, ok := card.Remove(g.Packet, c)
	if !ok {
		return nil, apperrors.ErrInvalidCard
	}

	for _, other := range rest {
		g.Deck.Discard(other)
	}
	g.Packet = nil
	g.Board.Enact(c)
	g.Chancellor = ""

	notes := []Notification{broadcast(protocol.MsgPolicyEnacted, protocol.PolicyEnactedPayload{
		Card:  c.String(),
		Board: g.boardInfo(),
	})}
	if w := g.Board.Winner(); w != "" {
		return append(notes, g.finish(w)), nil
	}

	if c == card.Fascist {
		if power := powerFor(g.Board.Fascist, g.Capacity); power != PowerNone {
			more, err := g.grantPower(power)
			return append(notes, more...), err
		}
	}
	return append(notes, g.nextRound()), nil
}

// abort 牌堆耗尽等不变量被破坏：房间终止并通知全员
func (g *Game) abort(cause error) ([]Notification, error) {
	g.Phase = PhaseAborted
	g.Packet = nil
	notes := []Notification{g.abortedMessage("")}
	return notes, fmt.Errorf("%w: room %s: %w", apperrors.ErrInternal, g.Code, cause)
}

func (g *Game) abortedMessage(to string) Notification {
	return Notification{To: to, Type: protocol.MsgGameAborted, Payload: protocol.GameAbortedPayload{
		Reason: apperrors.ErrInternal.Message,
	}}
}

func (g *Game) presidentCards(to string) Notification {
	return Notification{To: to, Type: protocol.MsgPresidentCards, Payload: g.cardsPayload()}
}

func (g *Game) chancellorCards(to string) Notification {
	return Notification{To: to, Type: protocol.MsgChancellorCards, Payload: g.cardsPayload()}
}

func (g *Game) cardsPayload() protocol.CardsPayload {
	return protocol.CardsPayload{
		Cards:      cardStrings(g.Packet),
		President:  g.President,
		Chancellor: g.Chancellor,
	}
}

func cardStrings(cards []card.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
