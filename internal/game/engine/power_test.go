package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/secret-hitler/internal/apperrors"
	"github.com/palemoky/secret-hitler/internal/game/card"
	"github.com/palemoky/secret-hitler/internal/game/role"
	"github.com/palemoky/secret-hitler/internal/protocol"
)

func TestPowerFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		fascist  int
		capacity int
		want     Power
	}{
		{1, 5, PowerSpecialPresidency},
		{1, 6, PowerNone},
		{1, 7, PowerNone},
		{1, 8, PowerSpecialPresidency},
		{1, 9, PowerInvestigation},
		{1, 10, PowerInvestigation},
		{2, 5, PowerNone},
		{2, 6, PowerNone},
		{2, 7, PowerInvestigation},
		{2, 10, PowerInvestigation},
		{3, 5, PowerPolicyPeek},
		{3, 6, PowerPolicyPeek},
		{3, 7, PowerNone},
		{3, 10, PowerNone},
		{4, 5, PowerExecution},
		{4, 10, PowerExecution},
		{5, 7, PowerExecution},
		{6, 5, PowerNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, powerFor(tt.fascist, tt.capacity), "F=%d capacity=%d", tt.fascist, tt.capacity)
	}
}

func TestNinePlayers_FirstFascistTriggersInvestigation(t *testing.T) {
	t.Parallel()

	g := newStartedGame(t, 9)
	for _, p := range g.Players {
		p.Role = role.Liberal
	}
	g.Players[4].Role = role.Hitler
	g.Players[5].Role = role.Fascist

	notes := playRound(t, g, card.Fascist)
	requireCardTotal(t, g)

	assert.Equal(t, PhaseExecutive, g.Phase)
	assert.Equal(t, PowerInvestigation, g.Power)
	n, ok := findNote(notes, protocol.MsgPowerPrompt)
	require.True(t, ok)
	prompt := n.Payload.(protocol.PowerPromptPayload)
	assert.Equal(t, "investigation", prompt.Power)
	assert.Equal(t, playerName(0), prompt.President)
	assert.NotContains(t, prompt.Candidates, playerName(0))
	assert.Len(t, prompt.Candidates, 8)

	_, err := g.SelectPower(playerID(1), playerName(4))
	assert.ErrorIs(t, err, apperrors.ErrNotYourTurn)
	_, err = g.SelectPower(playerID(0), playerName(0))
	assert.ErrorIs(t, err, apperrors.ErrInvalidTarget)

	notes, err = g.SelectPower(playerID(0), playerName(4))
	require.NoError(t, err)

	n, ok = findNote(notes, protocol.MsgInvestigation)
	require.True(t, ok)
	assert.Equal(t, playerID(0), n.To)
	result := n.Payload.(protocol.InvestigationPayload)
	assert.Equal(t, playerName(4), result.Target)
	assert.Equal(t, "Fascist", result.Party, "Hitler must never be revealed as Hitler")

	n, ok = findNote(notes, protocol.MsgPowerResolved)
	require.True(t, ok)
	assert.True(t, n.Broadcast())
	assert.Equal(t, playerName(4), n.Payload.(protocol.PowerResolvedPayload).Target)

	assert.Equal(t, PhaseNomination, g.Phase)
	assert.Equal(t, PowerNone, g.Power)
	assert.Equal(t, playerName(1), g.President)
}

func TestInvestigation_LiberalReportsLiberal(t *testing.T) {
	t.Parallel()

	g := newStartedGame(t, 10)
	for _, p := range g.Players {
		p.Role = role.Liberal
	}
	playRound(t, g, card.Fascist)
	require.Equal(t, PowerInvestigation, g.Power)

	notes, err := g.SelectPower(playerID(0), playerName(7))
	require.NoError(t, err)
	n, ok := findNote(notes, protocol.MsgInvestigation)
	require.True(t, ok)
	assert.Equal(t, "Liberal", n.Payload.(protocol.InvestigationPayload).Party)
}

func TestSpecialPresidency(t *testing.T) {
	t.Parallel()

	g := newStartedGame(t, 5)
	notes := playRound(t, g, card.Fascist)

	require.Equal(t, PowerSpecialPresidency, g.Power)
	n, ok := findNote(notes, protocol.MsgPowerPrompt)
	require.True(t, ok)
	assert.Equal(t, []string{"p1", "p2", "p3", "p4"}, n.Payload.(protocol.PowerPromptPayload).Candidates)

	notes, err := g.SelectPower(playerID(0), playerName(3))
	require.NoError(t, err)

	assert.Equal(t, playerName(3), g.President)
	assert.True(t, g.Special)
	assert.Zero(t, g.PresidentIndex)
	assert.Empty(t, g.Ineligible)
	assert.Equal(t, PhaseNomination, g.Phase)

	n, ok = findNote(notes, protocol.MsgNominationTurn)
	require.True(t, ok)
	turn := n.Payload.(protocol.NominationTurnPayload)
	assert.Equal(t, playerName(3), turn.President)
	assert.Equal(t, []string{"p0", "p1", "p2", "p4"}, turn.Candidates)

	// 特殊总统一轮：当选后不更新 Ineligible
	_, err = g.Nominate(playerID(3), playerName(0))
	require.NoError(t, err)
	voteAll(t, g, Yes)
	assert.Empty(t, g.Ineligible)
	assert.False(t, g.Special)

	legislate(t, g, card.Liberal)
	assert.Equal(t, 1, g.PresidentIndex, "rotation resumes after the original president")
	assert.Equal(t, playerName(1), g.President)
	requireCardTotal(t, g)
}

func TestPolicyPeek(t *testing.T) {
	t.Parallel()

	g := newStartedGame(t, 6)
	setBoard(t, g, 2, 0)
	notes := playRound(t, g, card.Fascist)
	requireCardTotal(t, g)

	require.Equal(t, PowerPolicyPeek, g.Power)
	n, ok := findNote(notes, protocol.MsgPowerPrompt)
	require.True(t, ok)
	assert.True(t, n.Broadcast())
	assert.Empty(t, n.Payload.(protocol.PowerPromptPayload).Candidates)

	n, ok = findNote(notes, protocol.MsgPolicyPeek)
	require.True(t, ok)
	assert.Equal(t, playerID(0), n.To)
	assert.Equal(t, []string{g.Deck.Cards[0].String()}, n.Payload.(protocol.PolicyPeekPayload).Cards)

	deckBefore := append([]card.Card(nil), g.Deck.Cards...)
	notes, err := g.SelectPower(playerID(0), "")
	require.NoError(t, err)
	assert.Equal(t, deckBefore, g.Deck.Cards, "peek never removes cards")
	_, ok = findNote(notes, protocol.MsgNominationTurn)
	assert.True(t, ok)
	assert.Equal(t, playerName(1), g.President)
}

func TestPolicyPeek_ReshufflesShortDeck(t *testing.T) {
	t.Parallel()

	g := newStartedGame(t, 5)
	setBoard(t, g, 2, 0)
	nominateFirst(t, g)
	voteAll(t, g, Yes)
	stackTop(t, g, card.Fascist, card.Fascist, card.Fascist)

	// 抽完后牌堆只剩两张
	g.Deck.Discards = append(g.Deck.Discards, g.Deck.Cards[5:]...)
	g.Deck.Cards = g.Deck.Cards[:5]
	legislate(t, g, card.Fascist)

	require.Equal(t, PowerPolicyPeek, g.Power)
	assert.GreaterOrEqual(t, g.Deck.Len(), 3)
	requireCardTotal(t, g)
}

func TestExecution(t *testing.T) {
	t.Parallel()

	g := newStartedGame(t, 5)
	setBoard(t, g, 3, 0)
	playRound(t, g, card.Fascist)
	require.Equal(t, PowerExecution, g.Power)

	notes, err := g.SelectPower(playerID(0), playerName(2))
	require.NoError(t, err)
	assert.False(t, g.Players[2].Alive)
	assert.Equal(t, 4, g.Living())
	n, ok := findNote(notes, protocol.MsgPowerResolved)
	require.True(t, ok)
	assert.Equal(t, "execution", n.Payload.(protocol.PowerResolvedPayload).Power)

	assert.NotContains(t, g.Candidates(), playerName(2))
	assert.NotContains(t, g.PowerTargets(), playerName(2))

	nominateFirst(t, g)
	_, err = g.CastVote(playerID(2), Yes)
	assert.ErrorIs(t, err, apperrors.ErrDeadPlayer)

	// 四名存活玩家投完即结算
	notes = voteAll(t, g, Yes)
	_, ok = findNote(notes, protocol.MsgVoteResult)
	assert.True(t, ok)
	assert.Equal(t, PhasePresidentDiscard, g.Phase)
}

func TestRotationDoesNotSkipDeadPlayers(t *testing.T) {
	t.Parallel()

	g := newStartedGame(t, 5)
	setBoard(t, g, 3, 0)
	playRound(t, g, card.Fascist)

	_, err := g.SelectPower(playerID(0), playerName(1))
	require.NoError(t, err)

	assert.Equal(t, playerName(1), g.President)
	assert.False(t, g.PlayerByName(g.President).Alive)

	// 出局的总统仍需提名，但不参与投票
	nominateFirst(t, g)
	notes := voteAll(t, g, No)
	_, ok := findNote(notes, protocol.MsgVoteResult)
	assert.True(t, ok)
	assert.Equal(t, playerName(2), g.President)
}
