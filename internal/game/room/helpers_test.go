package room

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/palemoky/secret-hitler/internal/game/card"
	"github.com/palemoky/secret-hitler/internal/game/engine"
	"github.com/palemoky/secret-hitler/internal/protocol"
	"github.com/palemoky/secret-hitler/internal/protocol/codec"
	"github.com/palemoky/secret-hitler/internal/testutil"
)

func playerID(i int) string   { return fmt.Sprintf("id-%d", i) }
func playerName(i int) string { return fmt.Sprintf("p%d", i) }

// seatedRoom 创建房间并让 n 个客户端入座（未命名）
func seatedRoom(t *testing.T, rm *RoomManager, n int) (*Room, []*testutil.SimpleClient) {
	t.Helper()
	room, err := rm.CreateRoom(n)
	require.NoError(t, err)

	clients := make([]*testutil.SimpleClient, n)
	for i := range n {
		clients[i] = testutil.NewSimpleClient(playerID(i), "")
		_, err := rm.JoinRoom(clients[i], room.Code)
		require.NoError(t, err)
	}
	return room, clients
}

// startedRoom 全员命名，身份已分配，尚无总统
func startedRoom(t *testing.T, rm *RoomManager, n int) (*Room, []*testutil.SimpleClient) {
	t.Helper()
	room, clients := seatedRoom(t, rm, n)
	for i, c := range clients {
		require.NoError(t, room.SetName(c, playerName(i)))
	}
	require.Equal(t, engine.PhaseNoPresident, room.Phase())
	return room, clients
}

// electFirstGovernment 首任总统 p0 提名 p1，全员赞成
func electFirstGovernment(t *testing.T, room *Room, clients []*testutil.SimpleClient) {
	t.Helper()
	require.NoError(t, room.Resync(clients[0]))
	require.NoError(t, room.Nominate(clients[0], playerName(1)))
	for _, c := range clients {
		require.NoError(t, room.CastVote(c, engine.Yes))
	}
	require.Equal(t, engine.PhasePresidentDiscard, room.Phase())
}

// stackTop 把指定牌换到牌堆顶
func stackTop(t *testing.T, g *engine.Game, cards ...card.Card) {
	t.Helper()
	d := g.Deck
	for i, c := range cards {
		j := card.IndexOf(d.Cards[i:], c)
		require.GreaterOrEqual(t, j, 0, "no %s left to stack", c)
		d.Cards[i], d.Cards[i+j] = d.Cards[i+j], d.Cards[i]
	}
}

// forceLiberalWin 自由党已有 5 张，首届政府颁布第 6 张
func forceLiberalWin(t *testing.T, room *Room, clients []*testutil.SimpleClient) {
	t.Helper()
	electFirstGovernment(t, room, clients)

	g := room.GameForTest()
	// 从牌堆取出 5 张自由党放上牌桌，保持 17 张总数
	for range 5 {
		rest, ok := card.Remove(g.Deck.Cards, card.Liberal)
		require.True(t, ok)
		g.Deck.Cards = rest
	}
	g.Board.Liberal = 5
	require.Equal(t, card.TotalCount, g.CardCount())
	stackTop(t, g, card.Liberal, card.Fascist, card.Fascist)

	require.NoError(t, room.DrawCards(clients[0]))
	require.NoError(t, room.PresidentDiscard(clients[0], card.Fascist))
	require.NoError(t, room.ChancellorEnact(clients[1], card.Liberal))
	require.Equal(t, engine.PhaseGameOver, room.Phase())
}

func parse[T any](t *testing.T, msg *protocol.Message) *T {
	t.Helper()
	p, err := codec.ParsePayload[T](msg)
	require.NoError(t, err)
	return p
}
