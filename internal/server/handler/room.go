package handler

import (
	"github.com/palemoky/secret-hitler/internal/game/room"
	"github.com/palemoky/secret-hitler/internal/protocol"
	"github.com/palemoky/secret-hitler/internal/protocol/codec"
	"github.com/palemoky/secret-hitler/internal/types"
)

// handleCreateRoom 处理创建房间；创建者需再发送 join_room 入座
func (h *Handler) handleCreateRoom(client types.ClientInterface, msg *protocol.Message) {
	// 维护模式检查
	if h.server.IsMaintenanceMode() {
		client.SendMessage(codec.NewErrorMessageWithText(
			protocol.ErrCodeServerMaintenance, "服务器维护中，暂停创建房间"))
		return
	}

	payload, ok := parse[protocol.CreateRoomPayload](client, msg)
	if !ok {
		return
	}

	r, err := h.roomManager.CreateRoom(payload.Capacity)
	if err != nil {
		sendError(client, err)
		return
	}

	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomCreated, protocol.RoomCreatedPayload{
		RoomCode: r.Code,
		Capacity: r.Capacity(),
	}))
}

// handleJoinRoom 处理加入房间
func (h *Handler) handleJoinRoom(client types.ClientInterface, msg *protocol.Message) {
	// 维护模式检查
	if h.server.IsMaintenanceMode() {
		client.SendMessage(codec.NewErrorMessageWithText(
			protocol.ErrCodeServerMaintenance, "服务器维护中，暂停加入房间"))
		return
	}

	payload, ok := parse[protocol.JoinRoomPayload](client, msg)
	if !ok {
		return
	}

	r, err := h.roomManager.JoinRoom(client, payload.RoomCode)
	if err != nil {
		sendError(client, err)
		return
	}
	h.sessionManager.SetRoom(client.GetID(), r.Code)
}

// handleSetName 处理设置昵称
func (h *Handler) handleSetName(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.SetNamePayload](client, msg)
	if !ok {
		return
	}

	h.withRoom(client, func(r *room.Room) error {
		if err := r.SetName(client, payload.Name); err != nil {
			return err
		}
		h.sessionManager.SetName(client.GetID(), client.GetName())
		return nil
	})
}
