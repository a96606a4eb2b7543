package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/secret-hitler/internal/apperrors"
	"github.com/palemoky/secret-hitler/internal/game/card"
	"github.com/palemoky/secret-hitler/internal/protocol"
)

func electGovernment(t *testing.T, g *Game) (presID, chancID string) {
	t.Helper()
	chancellor := nominateFirst(t, g)
	voteAll(t, g, Yes)
	return idOf(t, g, g.President), idOf(t, g, chancellor)
}

func TestLegislativeSession_RoundTrip(t *testing.T) {
	t.Parallel()

	g := newStartedGame(t, 7)
	presID, chancID := electGovernment(t, g)
	stackTop(t, g, card.Liberal, card.Fascist, card.Liberal)

	discardsBefore := len(g.Deck.Discards)
	boardBefore := g.Board.Total()

	_, err := g.DrawCards(chancID)
	assert.ErrorIs(t, err, apperrors.ErrNotYourTurn)

	notes, err := g.DrawCards(presID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, presID, notes[0].To)
	assert.Equal(t, protocol.MsgPresidentCards, notes[0].Type)
	assert.Equal(t, []string{"L", "F", "L"}, notes[0].Payload.(protocol.CardsPayload).Cards)
	assert.Len(t, g.Packet, 3)
	requireCardTotal(t, g)

	// 重复抽牌只重发
	again, err := g.DrawCards(presID)
	require.NoError(t, err)
	assert.Equal(t, notes, again)

	_, err = g.ChancellorEnact(chancID, card.Liberal)
	assert.ErrorIs(t, err, apperrors.ErrInvalidPhase)

	notes, err = g.PresidentDiscard(presID, card.Fascist)
	require.NoError(t, err)
	assert.True(t, g.HandoffDone())
	assert.Len(t, g.Packet, 2)
	requireCardTotal(t, g)

	n, ok := findNote(notes, protocol.MsgChancellorCards)
	require.True(t, ok)
	assert.Equal(t, chancID, n.To)
	assert.Equal(t, []string{"L", "L"}, n.Payload.(protocol.CardsPayload).Cards)
	n, ok = findNote(notes, protocol.MsgPolicyHandoff)
	require.True(t, ok)
	assert.True(t, n.Broadcast())

	_, err = g.ChancellorEnact(presID, card.Liberal)
	assert.ErrorIs(t, err, apperrors.ErrNotYourTurn)
	_, err = g.ChancellorEnact(chancID, card.Fascist)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCard)

	notes, err = g.ChancellorEnact(chancID, card.Liberal)
	require.NoError(t, err)
	requireCardTotal(t, g)

	assert.Equal(t, discardsBefore+2, len(g.Deck.Discards))
	assert.Equal(t, boardBefore+1, g.Board.Total())
	assert.Equal(t, 1, g.Board.Liberal)
	assert.Empty(t, g.Packet)
	assert.Empty(t, g.Chancellor)
	assert.False(t, g.HandoffDone())

	_, ok = findNote(notes, protocol.MsgPolicyEnacted)
	assert.True(t, ok)
	n, ok = findNote(notes, protocol.MsgNominationTurn)
	require.True(t, ok)
	assert.Equal(t, playerName(1), n.Payload.(protocol.NominationTurnPayload).President)
}

func TestPresidentDiscard_Errors(t *testing.T) {
	t.Parallel()

	g := newStartedGame(t, 5)
	presID, _ := electGovernment(t, g)

	_, err := g.PresidentDiscard(presID, card.Fascist)
	assert.ErrorIs(t, err, apperrors.ErrInvalidPhase, "must draw first")

	stackTop(t, g, card.Fascist, card.Fascist, card.Fascist)
	_, err = g.DrawCards(presID)
	require.NoError(t, err)

	_, err = g.PresidentDiscard(presID, card.Liberal)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCard)
	assert.Len(t, g.Packet, 3)
	requireCardTotal(t, g)
}

func TestDrawReshufflesWhenDeckShort(t *testing.T) {
	t.Parallel()

	g := newStartedGame(t, 5)
	presID, _ := electGovernment(t, g)

	// 只留两张在牌堆，其余进弃牌堆
	g.Deck.Discards = append(g.Deck.Discards, g.Deck.Cards[2:]...)
	g.Deck.Cards = g.Deck.Cards[:2]
	requireCardTotal(t, g)

	_, err := g.DrawCards(presID)
	require.NoError(t, err)
	assert.Len(t, g.Packet, 3)
	assert.Empty(t, g.Deck.Discards)
	requireCardTotal(t, g)
}

func TestDeckExhausted_AbortsRoom(t *testing.T) {
	t.Parallel()

	g := newStartedGame(t, 5)
	presID, _ := electGovernment(t, g)
	g.Deck.Cards = g.Deck.Cards[:1]
	g.Deck.Discards = nil

	notes, err := g.DrawCards(presID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInternal)
	assert.ErrorIs(t, err, card.ErrDeckExhausted)
	assert.Equal(t, PhaseAborted, g.Phase)
	require.Len(t, notes, 1)
	assert.Equal(t, protocol.MsgGameAborted, notes[0].Type)
	assert.True(t, notes[0].Broadcast())

	_, err = g.Nominate(presID, playerName(1))
	assert.ErrorIs(t, err, apperrors.ErrGameOver)
}

func TestWinConditions_Terminal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		fascist    int
		liberal    int
		enact      card.Card
		want       card.Card
		winnerSide string
	}{
		{"fascist sixth policy", 5, 0, card.Fascist, card.Fascist, "F"},
		{"liberal sixth policy", 0, 5, card.Liberal, card.Liberal, "L"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := newStartedGame(t, 5)
			setBoard(t, g, tt.fascist, tt.liberal)
			notes := playRound(t, g, tt.enact)
			requireCardTotal(t, g)

			assert.Equal(t, PhaseGameOver, g.Phase)
			assert.Equal(t, tt.want, g.Winner)
			n, ok := findNote(notes, protocol.MsgGameOver)
			require.True(t, ok)
			over := n.Payload.(protocol.GameOverPayload)
			assert.Equal(t, tt.winnerSide, over.Winner)
			assert.Len(t, over.Roles, 5)
			_, ok = findNote(notes, protocol.MsgPowerPrompt)
			assert.False(t, ok)

			pres := idOf(t, g, g.President)
			_, err := g.Nominate(pres, playerName(2))
			assert.ErrorIs(t, err, apperrors.ErrGameOver)
			_, err = g.CastVote(pres, Yes)
			assert.ErrorIs(t, err, apperrors.ErrGameOver)
			_, err = g.DrawCards(pres)
			assert.ErrorIs(t, err, apperrors.ErrGameOver)
			_, err = g.SelectPower(pres, playerName(2))
			assert.ErrorIs(t, err, apperrors.ErrGameOver)

			results := g.Results()
			require.Len(t, results, 5)
			for _, r := range results {
				assert.Equal(t, r.Role.Evil() == (tt.want == card.Fascist), r.Won, r.Name)
			}
		})
	}
}
