package room

import (
	"context"
	"errors"
	"time"

	"github.com/palemoky/secret-hitler/internal/apperrors"
	"github.com/palemoky/secret-hitler/internal/game/card"
	"github.com/palemoky/secret-hitler/internal/game/engine"
	"github.com/palemoky/secret-hitler/internal/game/role"
	"github.com/palemoky/secret-hitler/internal/logger"
	"github.com/palemoky/secret-hitler/internal/protocol"
	"github.com/palemoky/secret-hitler/internal/protocol/codec"
	"github.com/palemoky/secret-hitler/internal/server/storage"
	"github.com/palemoky/secret-hitler/internal/types"
)

// Join 客户端入座；重复加入同一房间时只刷新客户端引用
func (r *Room) Join(client types.ClientInterface) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seat, notes, err := r.game.Join(client.GetID())
	if err != nil {
		return err
	}
	r.clients[client.GetID()] = client
	client.SetRoom(r.Code)

	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomJoined, protocol.RoomJoinedPayload{
		RoomCode: r.Code,
		Capacity: r.game.Capacity,
		Seat:     seat,
		Seated:   len(r.game.Players),
	}))
	r.deliver(notes)

	if len(notes) > 0 {
		logger.LogInfo("👤 玩家 %s 加入房间 %s (座位 %d)", client.GetID(), r.Code, seat)
		r.mirror()
	}
	return nil
}

// SetName 设置昵称，坐满且全部命名后开局
func (r *Room) SetName(client types.ClientInterface, name string) error {
	return r.apply(client, func(id string) ([]engine.Notification, error) {
		notes, err := r.game.SetName(id, name)
		if err == nil {
			client.SetName(r.game.PlayerByID(id).Name)
			if r.game.Phase.Started() {
				logger.LogInfo("🎮 房间 %s 开局，%d 人", r.Code, r.game.Capacity)
			}
		}
		return notes, err
	})
}

// Nominate 总统提名总理
func (r *Room) Nominate(client types.ClientInterface, chancellor string) error {
	return r.apply(client, func(id string) ([]engine.Notification, error) {
		return r.game.Nominate(id, chancellor)
	})
}

// CastVote 投票
func (r *Room) CastVote(client types.ClientInterface, choice engine.Choice) error {
	return r.apply(client, func(id string) ([]engine.Notification, error) {
		return r.game.CastVote(id, choice)
	})
}

// DrawCards 总统抽三张
func (r *Room) DrawCards(client types.ClientInterface) error {
	return r.apply(client, r.game.DrawCards)
}

// PresidentDiscard 总统弃一张
func (r *Room) PresidentDiscard(client types.ClientInterface, c card.Card) error {
	return r.apply(client, func(id string) ([]engine.Notification, error) {
		return r.game.PresidentDiscard(id, c)
	})
}

// ChancellorEnact 总理颁布一张
func (r *Room) ChancellorEnact(client types.ClientInterface, c card.Card) error {
	return r.apply(client, func(id string) ([]engine.Notification, error) {
		return r.game.ChancellorEnact(id, c)
	})
}

// SelectPower 总统行使权力
func (r *Room) SelectPower(client types.ClientInterface, target string) error {
	return r.apply(client, func(id string) ([]engine.Notification, error) {
		return r.game.SelectPower(id, target)
	})
}

// Resync 重发该玩家当前应看到的提示；首次 resync 时产生首任总统
func (r *Room) Resync(client types.ClientInterface) error {
	return r.apply(client, func(id string) ([]engine.Notification, error) {
		var notes []engine.Notification
		if r.game.NeedsPresident() {
			if r.game.PlayerByID(id) == nil {
				return nil, apperrors.ErrNotInRoom
			}
			notes = r.game.StartFirstRound()
			logger.LogInfo("🎩 房间 %s 首任总统 %s", r.Code, r.game.President)
		}
		view, err := r.game.View(id)
		if err != nil {
			return notes, err
		}
		// 首轮提示已广播给所有人，不再单独重发
		if view != nil && len(notes) == 0 {
			notes = append(notes, *view)
		}
		return notes, nil
	})
}

// RoleInfo 查询本人身份
func (r *Room) RoleInfo(client types.ClientInterface) error {
	return r.apply(client, func(id string) ([]engine.Notification, error) {
		n, err := r.game.RoleInfo(id)
		if err != nil {
			return nil, err
		}
		return []engine.Notification{n}, nil
	})
}

// BoardState 查询牌桌
func (r *Room) BoardState(client types.ClientInterface) error {
	return r.apply(client, func(id string) ([]engine.Notification, error) {
		if r.game.PlayerByID(id) == nil {
			return nil, apperrors.ErrNotInRoom
		}
		return []engine.Notification{r.game.BoardState(id)}, nil
	})
}

// Lobby 查询大厅（已命名玩家）
func (r *Room) Lobby(client types.ClientInterface) error {
	return r.apply(client, func(id string) ([]engine.Notification, error) {
		if r.game.PlayerByID(id) == nil {
			return nil, apperrors.ErrNotInRoom
		}
		return []engine.Notification{r.game.Lobby(id)}, nil
	})
}

// apply 在房间锁内执行一次事件并按顺序投递产生的消息。
// 可恢复错误原样返回给调用方；内部错误（牌堆耗尽）记日志后房间中止。
func (r *Room) apply(client types.ClientInterface, op func(id string) ([]engine.Notification, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := client.GetID()
	before := r.game.Phase
	notes, err := op(id)
	r.deliver(notes)

	if err != nil && errors.Is(err, apperrors.ErrInternal) {
		logger.LogError("💥 房间 %s 中止: %v", r.Code, err)
	}

	if r.game.Phase != before || len(notes) > 0 {
		r.afterTransition()
	}

	if err != nil && !errors.Is(err, apperrors.ErrInternal) {
		return err
	}
	return nil
}

// afterTransition 终局处理与快照镜像，调用方持有 r.mu
func (r *Room) afterTransition() {
	if r.game.Phase.Terminal() && r.finishedAt.IsZero() {
		r.finishedAt = time.Now()
		if r.game.Phase == engine.PhaseGameOver {
			logger.LogInfo("🏁 房间 %s 结束，%s 胜", r.Code, r.game.Winner)
			r.recordResults()
		}
	}
	r.mirror()
}

// recordResults 提交战绩写入，每局一次
func (r *Room) recordResults() {
	if r.recorded || r.recorder == nil {
		return
	}
	r.recorded = true

	recorder := r.recorder
	for _, res := range r.game.Results() {
		result := storage.GameResult{
			PlayerName: res.Name,
			Liberal:    res.Role == role.Liberal,
			Hitler:     res.Role == role.Hitler,
			Won:        res.Won,
		}
		r.enqueue(func(ctx context.Context) error {
			return recorder.RecordGameResult(ctx, result)
		})
	}
}

// mirror 提交房间快照写入，调用方持有 r.mu
func (r *Room) mirror() {
	if r.store == nil {
		return
	}
	data := r.snapshot()
	store := r.store
	r.enqueue(func(ctx context.Context) error {
		return store.SaveRoom(ctx, data)
	})
}

// deliver 按产生顺序投递消息，调用方持有 r.mu
func (r *Room) deliver(notes []engine.Notification) {
	for _, n := range notes {
		msg, err := codec.NewMessage(n.Type, r.withPresence(n.Payload))
		if err != nil {
			logger.LogError("消息编码失败 %s: %v", n.Type, err)
			continue
		}
		if n.Broadcast() {
			for _, c := range r.clients {
				if c != nil {
					c.SendMessage(msg)
				}
			}
			continue
		}
		if c := r.clients[n.To]; c != nil {
			c.SendMessage(msg)
		}
	}
}

// withPresence 为座位信息补齐在线状态
func (r *Room) withPresence(payload any) any {
	switch p := payload.(type) {
	case protocol.BoardStatePayload:
		p.Players = r.markOnline(p.Players)
		return p
	case protocol.GameStartPayload:
		p.Players = r.markOnline(p.Players)
		return p
	}
	return payload
}

func (r *Room) markOnline(infos []protocol.PlayerInfo) []protocol.PlayerInfo {
	out := make([]protocol.PlayerInfo, len(infos))
	for i, info := range infos {
		if i < len(r.game.Players) {
			info.Online = r.clients[r.game.Players[i].ID] != nil
		}
		out[i] = info
	}
	return out
}
