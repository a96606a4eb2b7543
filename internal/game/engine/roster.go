package engine

import (
	"strings"
	"unicode/utf8"

	"github.com/palemoky/secret-hitler/internal/apperrors"
	"github.com/palemoky/secret-hitler/internal/game/role"
	"github.com/palemoky/secret-hitler/internal/protocol"
)

const maxNameLength = 20

// Join 玩家入座。已在座的玩家重复加入直接返回原座位。
func (g *Game) Join(playerID string) (int, []Notification, error) {
	if p := g.PlayerByID(playerID); p != nil {
		return p.Seat, nil, nil
	}
	if g.Phase.Started() {
		return 0, nil, apperrors.ErrGameStarted
	}
	if len(g.Players) >= g.Capacity {
		return 0, nil, apperrors.ErrRoomFull
	}

	seat := len(g.Players)
	g.Players = append(g.Players, &Player{ID: playerID, Seat: seat, Alive: true})

	notes := []Notification{broadcast(protocol.MsgPlayerJoined, protocol.PlayerJoinedPayload{
		Seated:   len(g.Players),
		Capacity: g.Capacity,
	})}
	return seat, notes, nil
}

// Full 座位是否已坐满
func (g *Game) Full() bool {
	return len(g.Players) == g.Capacity
}

// SetName 设置昵称（每人一次，房间内唯一）。
// 最后一个座位命名完成时分配身份并洗牌。
func (g *Game) SetName(playerID, name string) ([]Notification, error) {
	p := g.PlayerByID(playerID)
	if p == nil {
		return nil, apperrors.ErrNotInRoom
	}
	if p.Named() {
		return nil, apperrors.ErrNameSet
	}
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return nil, apperrors.ErrInvalidName
	}
	if g.PlayerByName(name) != nil {
		return nil, apperrors.ErrNameTaken
	}

	p.Name = name
	notes := []Notification{
		direct(p.ID, protocol.MsgNameAccepted, protocol.NameAcceptedPayload{Name: name}),
		broadcast(protocol.MsgPlayerNamed, protocol.PlayerNamedPayload{
			Name:     name,
			Ready:    g.Ready(),
			Capacity: g.Capacity,
		}),
	}

	if g.Ready() == g.Capacity {
		start, err := g.start()
		if err != nil {
			return nil, err
		}
		notes = append(notes, start...)
	}
	return notes, nil
}

// start 分配身份并洗牌，只执行一次
func (g *Game) start() ([]Notification, error) {
	roles, err := role.Assign(len(g.Players), g.rng)
	if err != nil {
		return nil, err
	}
	for i, p := range g.Players {
		p.Role = roles[i]
	}
	g.Deck.Shuffle()
	g.Phase = PhaseNoPresident

	return []Notification{broadcast(protocol.MsgGameStart, protocol.GameStartPayload{
		Players: g.PlayerInfos(),
	})}, nil
}

// LobbyNames 已命名玩家，按座位顺序
func (g *Game) LobbyNames() []string {
	names := make([]string, 0, len(g.Players))
	for _, p := range g.Players {
		if p.Named() {
			names = append(names, p.Name)
		}
	}
	return names
}

// Lobby 大厅视图
func (g *Game) Lobby(playerID string) Notification {
	return direct(playerID, protocol.MsgLobbyPlayers, protocol.LobbyPlayersPayload{
		Names:    g.LobbyNames(),
		Ready:    g.Ready(),
		Capacity: g.Capacity,
	})
}

// PlayerInfos 公开的座位信息（不含在线状态，由房间层补齐）
func (g *Game) PlayerInfos() []protocol.PlayerInfo {
	infos := make([]protocol.PlayerInfo, 0, len(g.Players))
	for _, p := range g.Players {
		infos = append(infos, protocol.PlayerInfo{Name: p.Name, Seat: p.Seat, Alive: p.Alive})
	}
	return infos
}

// RoleInfo 本人身份及其可见的队友
func (g *Game) RoleInfo(playerID string) (Notification, error) {
	p := g.PlayerByID(playerID)
	if p == nil {
		return Notification{}, apperrors.ErrNotInRoom
	}
	if !g.Phase.Started() {
		return Notification{}, apperrors.ErrGameNotStart
	}

	payload := protocol.RoleInfoPayload{Role: string(p.Role)}
	if role.CanSeeTeam(p.Role, g.Capacity) {
		for _, other := range g.Players {
			if other.ID != p.ID && other.Role.Evil() {
				payload.Teammates = append(payload.Teammates, protocol.PlayerRole{
					Name: other.Name,
					Role: string(other.Role),
				})
			}
		}
	}
	return direct(playerID, protocol.MsgRoleInfo, payload), nil
}

// BoardState 公开牌桌
func (g *Game) BoardState(playerID string) Notification {
	return direct(playerID, protocol.MsgBoardState, protocol.BoardStatePayload{
		Board:       g.boardInfo(),
		DeckSize:    g.Deck.Len(),
		DiscardSize: len(g.Deck.Discards),
		FailedVotes: g.FailedVotes,
		Players:     g.PlayerInfos(),
	})
}

// Roles 全部身份，按座位顺序
func (g *Game) Roles() []protocol.PlayerRole {
	out := make([]protocol.PlayerRole, 0, len(g.Players))
	for _, p := range g.Players {
		out = append(out, protocol.PlayerRole{Name: p.Name, Role: string(p.Role)})
	}
	return out
}

func (g *Game) boardInfo() protocol.BoardInfo {
	return protocol.BoardInfo{Fascist: g.Board.Fascist, Liberal: g.Board.Liberal}
}
