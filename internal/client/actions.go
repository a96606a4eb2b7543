package client

import (
	"time"

	"github.com/palemoky/secret-hitler/internal/protocol"
	"github.com/palemoky/secret-hitler/internal/protocol/codec"
)

// --- 便捷方法 ---

// CreateRoom 创建房间
func (c *Client) CreateRoom(capacity int) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgCreateRoom, protocol.CreateRoomPayload{
		Capacity: capacity,
	}))
}

// JoinRoom 加入房间
func (c *Client) JoinRoom(roomCode string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgJoinRoom, protocol.JoinRoomPayload{
		RoomCode: roomCode,
	}))
}

// SetName 设置昵称
func (c *Client) SetName(name string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgSetName, protocol.SetNamePayload{Name: name}))
}

// LobbyState 拉取已命名玩家
func (c *Client) LobbyState() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgLobbyState, nil))
}

// Resync 拉取当前视图
func (c *Client) Resync() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgResync, nil))
}

// GetRole 查询自己的身份
func (c *Client) GetRole() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgGetRole, nil))
}

// GetBoard 查询牌桌
func (c *Client) GetBoard() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgGetBoard, nil))
}

// Nominate 提名总理
func (c *Client) Nominate(chancellor string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgNominateChancellor, protocol.NominatePayload{
		Chancellor: chancellor,
	}))
}

// Vote 投票，choice 为 Yes / No
func (c *Client) Vote(choice string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgCastVote, protocol.VotePayload{Choice: choice}))
}

// DrawCards 总统抽牌
func (c *Client) DrawCards() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgDrawCards, nil))
}

// Discard 总统弃一张
func (c *Client) Discard(card string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgPresidentDiscard, protocol.CardPayload{Card: card}))
}

// Enact 总理颁布一张
func (c *Client) Enact(card string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgChancellorEnact, protocol.CardPayload{Card: card}))
}

// SelectPower 行使权力；查看牌堆顶时 target 为空
func (c *Client) SelectPower(target string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgPowerSelection, protocol.PowerSelectionPayload{
		Target: target,
	}))
}

// GetStats 获取个人战绩
func (c *Client) GetStats() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgGetStats, nil))
}

// GetLeaderboard 获取排行榜
func (c *Client) GetLeaderboard(offset, limit int) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgGetLeaderboard, protocol.GetLeaderboardPayload{
		Offset: offset,
		Limit:  limit,
	}))
}

// Ping 发送心跳
func (c *Client) Ping() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgPing, protocol.PingPayload{
		Timestamp: time.Now().UnixMilli(),
	}))
}
