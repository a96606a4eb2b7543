package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/secret-hitler/internal/client"
	"github.com/palemoky/secret-hitler/internal/protocol"
	"github.com/palemoky/secret-hitler/internal/protocol/codec"
	"github.com/palemoky/secret-hitler/internal/sound"
)

// handleServerMessage 更新状态并发出后续请求
func (m *OnlineModel) handleServerMessage(msg *protocol.Message) tea.Cmd {
	if err := m.gs.Apply(msg); err != nil {
		m.status.Error = err.Error()
		return clearNotice()
	}

	var cmd tea.Cmd
	switch msg.Type {
	case protocol.MsgRoomCreated:
		if p, err := codec.ParsePayload[protocol.RoomCreatedPayload](msg); err == nil {
			m.status.Notice = "房间 " + p.RoomCode + " 已创建"
			cmd = clearNotice()
			m.report(m.actions.JoinRoom(p.RoomCode))
		}

	case protocol.MsgRoomJoined:
		m.report(m.actions.LobbyState())

	case protocol.MsgGameStart:
		m.report(m.actions.Resync())
		m.report(m.actions.GetRole())

	case protocol.MsgReconnected:
		m.status.Reconnecting = ""
		m.status.Notice = "✅ 重连成功"
		cmd = clearNotice()
		if m.gs.RoomCode != "" {
			m.report(m.actions.Resync())
		}

	case protocol.MsgNominationTurn, protocol.MsgDrawTurn:
		if m.gs.IsPresident() {
			m.sounds.Play(sound.EventTurn)
		}

	case protocol.MsgPresidentCards, protocol.MsgChancellorCards:
		m.sounds.Play(sound.EventTurn)

	case protocol.MsgVotingTurn:
		m.sounds.Play(sound.EventVote)

	case protocol.MsgPolicyEnacted:
		m.sounds.Play(sound.EventEnact)

	case protocol.MsgPowerPrompt:
		m.sounds.Play(sound.EventPower)

	case protocol.MsgGameOver:
		m.sounds.Play(sound.EventGameOver)

	case protocol.MsgStatsResult:
		if p, err := codec.ParsePayload[protocol.StatsResultPayload](msg); err == nil {
			m.stats = p
		}

	case protocol.MsgLeaderboardResult:
		if p, err := codec.ParsePayload[protocol.LeaderboardResultPayload](msg); err == nil {
			m.leaderboard = p.Entries
		}

	case protocol.MsgMaintenancePush:
		if p, err := codec.ParsePayload[protocol.MaintenancePayload](msg); err == nil {
			m.status.Maintenance = p.Maintenance
		}

	case protocol.MsgError:
		if p, err := codec.ParsePayload[protocol.ErrorPayload](msg); err == nil {
			m.status.Error = p.Message
			cmd = clearNotice()
		}
	}

	m.syncPhase()
	return cmd
}

// report 请求发送失败时显示错误
func (m *OnlineModel) report(err error) {
	if err != nil {
		m.status.Error = err.Error()
	}
}

// syncPhase 房间内的页面跟随游戏步骤切换
func (m *OnlineModel) syncPhase() {
	switch m.phase {
	case PhaseConnecting, PhaseLeaderboard, PhaseStats:
		return
	}
	m.phase = phaseFor(m.gs)
}

func phaseFor(gs *client.GameState) GamePhase {
	switch gs.Stage {
	case client.StageLobby:
		return PhaseLobby
	case client.StageNaming:
		return PhaseRoom
	case client.StageWaiting:
		if len(gs.Players) > 0 {
			return PhaseGame
		}
		return PhaseRoom
	case client.StageGameOver, client.StageAborted:
		return PhaseGameOver
	}
	return PhaseGame
}
