package room

import (
	"time"

	"github.com/palemoky/secret-hitler/internal/game/engine"
	"github.com/palemoky/secret-hitler/internal/server/storage"
)

// ToRoomData 将 Room 转换为可序列化的 RoomData
func (r *Room) ToRoomData() *storage.RoomData {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

// snapshot 调用方持有 r.mu。只包含公开信息，不含身份和牌堆内容。
func (r *Room) snapshot() *storage.RoomData {
	g := r.game
	data := &storage.RoomData{
		Code:        r.Code,
		Capacity:    g.Capacity,
		Phase:       g.Phase.String(),
		Players:     make([]storage.PlayerData, 0, len(g.Players)),
		President:   g.President,
		Chancellor:  g.Chancellor,
		BoardF:      g.Board.Fascist,
		BoardL:      g.Board.Liberal,
		DeckSize:    g.Deck.Len(),
		DiscardSize: len(g.Deck.Discards),
		FailedVotes: g.FailedVotes,
		Winner:      string(g.Winner),
		CreatedAt:   r.CreatedAt.Unix(),
		UpdatedAt:   time.Now().Unix(),
	}
	if g.Power != engine.PowerNone {
		data.Power = g.Power.String()
	}

	for _, p := range g.Players {
		data.Players = append(data.Players, storage.PlayerData{
			ID:     p.ID,
			Name:   p.Name,
			Seat:   p.Seat,
			Alive:  p.Alive,
			Online: r.clients[p.ID] != nil,
		})
	}
	return data
}
