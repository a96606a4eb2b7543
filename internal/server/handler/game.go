package handler

import (
	"github.com/palemoky/secret-hitler/internal/apperrors"
	"github.com/palemoky/secret-hitler/internal/game/card"
	"github.com/palemoky/secret-hitler/internal/game/engine"
	"github.com/palemoky/secret-hitler/internal/game/room"
	"github.com/palemoky/secret-hitler/internal/protocol"
	"github.com/palemoky/secret-hitler/internal/types"
)

// handleNominate 总统提名总理
func (h *Handler) handleNominate(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.NominatePayload](client, msg)
	if !ok {
		return
	}
	h.withRoom(client, func(r *room.Room) error {
		return r.Nominate(client, payload.Chancellor)
	})
}

// handleCastVote 投票
func (h *Handler) handleCastVote(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.VotePayload](client, msg)
	if !ok {
		return
	}
	h.withRoom(client, func(r *room.Room) error {
		return r.CastVote(client, engine.Choice(payload.Choice))
	})
}

// handlePresidentDiscard 总统弃牌
func (h *Handler) handlePresidentDiscard(client types.ClientInterface, msg *protocol.Message) {
	h.withCard(client, msg, (*room.Room).PresidentDiscard)
}

// handleChancellorEnact 总理颁布
func (h *Handler) handleChancellorEnact(client types.ClientInterface, msg *protocol.Message) {
	h.withCard(client, msg, (*room.Room).ChancellorEnact)
}

// handlePowerSelection 总统行使权力；查看牌堆顶时 target 可为空
func (h *Handler) handlePowerSelection(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.PowerSelectionPayload](client, msg)
	if !ok {
		return
	}
	h.withRoom(client, func(r *room.Room) error {
		return r.SelectPower(client, payload.Target)
	})
}

// withCard 解析牌面后执行立法操作
func (h *Handler) withCard(client types.ClientInterface, msg *protocol.Message,
	op func(r *room.Room, client types.ClientInterface, c card.Card) error) {
	payload, ok := parse[protocol.CardPayload](client, msg)
	if !ok {
		return
	}
	h.withRoom(client, func(r *room.Room) error {
		c, err := card.Parse(payload.Card)
		if err != nil {
			return apperrors.ErrInvalidCard
		}
		return op(r, client, c)
	})
}
