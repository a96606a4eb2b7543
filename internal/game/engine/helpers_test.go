package engine

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/palemoky/secret-hitler/internal/game/card"
	"github.com/palemoky/secret-hitler/internal/protocol"
)

func playerID(i int) string   { return fmt.Sprintf("id-%d", i) }
func playerName(i int) string { return fmt.Sprintf("p%d", i) }

// newLobby 创建坐满但未命名的房间
func newLobby(t *testing.T, n int) *Game {
	t.Helper()

	g, err := NewGame("ABCD", n, rand.New(rand.NewPCG(42, uint64(n))))
	require.NoError(t, err)
	for i := range n {
		_, _, err := g.Join(playerID(i))
		require.NoError(t, err)
	}
	return g
}

// newStartedGame 全员命名并选出首任总统（座位 0）
func newStartedGame(t *testing.T, n int) *Game {
	t.Helper()

	g := newLobby(t, n)
	for i := range n {
		_, err := g.SetName(playerID(i), playerName(i))
		require.NoError(t, err)
	}
	require.Equal(t, PhaseNoPresident, g.Phase)
	require.NotEmpty(t, g.StartFirstRound())
	require.Equal(t, PhaseNomination, g.Phase)
	return g
}

func idOf(t *testing.T, g *Game, name string) string {
	t.Helper()
	p := g.PlayerByName(name)
	require.NotNil(t, p, name)
	return p.ID
}

// voteAll 所有存活玩家投同一票，返回结算时的通知
func voteAll(t *testing.T, g *Game, choice Choice) []Notification {
	t.Helper()

	var last []Notification
	for _, p := range g.Players {
		if !p.Alive {
			continue
		}
		notes, err := g.CastVote(p.ID, choice)
		require.NoError(t, err)
		last = notes
	}
	return last
}

// nominateFirst 总统提名第一个候选人
func nominateFirst(t *testing.T, g *Game) string {
	t.Helper()

	candidates := g.Candidates()
	require.NotEmpty(t, candidates)
	_, err := g.Nominate(idOf(t, g, g.President), candidates[0])
	require.NoError(t, err)
	return candidates[0]
}

// stackTop 把指定的牌换到牌堆顶；牌堆里找不到时先并入弃牌堆
func stackTop(t *testing.T, g *Game, cards ...card.Card) {
	t.Helper()

	d := g.Deck
	if !canStack(d.Cards, cards) {
		d.Cards = append(d.Cards, d.Discards...)
		d.Discards = nil
	}
	for i, c := range cards {
		j := -1
		for k := i; k < len(d.Cards); k++ {
			if d.Cards[k] == c {
				j = k
				break
			}
		}
		require.GreaterOrEqual(t, j, 0, "no %s left to stack", c)
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
}

func canStack(deck, want []card.Card) bool {
	need := map[card.Card]int{}
	for _, c := range want {
		need[c]++
	}
	for _, c := range deck {
		need[c]--
	}
	for _, n := range need {
		if n > 0 {
			return false
		}
	}
	return true
}

// setBoard 从牌堆中取出对应的牌直接放到牌桌上，保持总数不变
func setBoard(t *testing.T, g *Game, fascist, liberal int) {
	t.Helper()

	take := func(c card.Card) {
		rest, ok := card.Remove(g.Deck.Cards, c)
		require.True(t, ok)
		g.Deck.Cards = rest
	}
	for range fascist - g.Board.Fascist {
		take(card.Fascist)
	}
	for range liberal - g.Board.Liberal {
		take(card.Liberal)
	}
	g.Board = card.Board{Fascist: fascist, Liberal: liberal}
}

// legislate 已当选的政府颁布一张 c
func legislate(t *testing.T, g *Game, c card.Card) []Notification {
	t.Helper()
	require.Equal(t, PhasePresidentDiscard, g.Phase)

	if c == card.Fascist {
		stackTop(t, g, card.Fascist, card.Fascist, card.Fascist)
	} else {
		stackTop(t, g, card.Liberal, card.Fascist, card.Fascist)
	}
	pres := idOf(t, g, g.President)
	_, err := g.DrawCards(pres)
	require.NoError(t, err)
	_, err = g.PresidentDiscard(pres, card.Fascist)
	require.NoError(t, err)

	notes, err := g.ChancellorEnact(idOf(t, g, g.Chancellor), c)
	require.NoError(t, err)
	return notes
}

// playRound 提名、全票通过并颁布 c
func playRound(t *testing.T, g *Game, c card.Card) []Notification {
	t.Helper()

	nominateFirst(t, g)
	voteAll(t, g, Yes)
	return legislate(t, g, c)
}

func findNote(notes []Notification, typ protocol.MessageType) (Notification, bool) {
	for _, n := range notes {
		if n.Type == typ {
			return n, true
		}
	}
	return Notification{}, false
}

func requireCardTotal(t *testing.T, g *Game) {
	t.Helper()
	require.Equal(t, card.TotalCount, g.CardCount())
}
