package ui

import (
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/secret-hitler/internal/client"
	"github.com/palemoky/secret-hitler/internal/protocol"
	"github.com/palemoky/secret-hitler/internal/protocol/codec"
	"github.com/palemoky/secret-hitler/internal/sound"
)

// fakeActions 记录界面发出的请求
type fakeActions struct {
	calls      []string
	connectErr error
	sendErr    error
	heartbeat  bool
	closed     bool
}

func (f *fakeActions) record(format string, args ...any) error {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	return f.sendErr
}

func (f *fakeActions) Connect() error    { return f.connectErr }
func (f *fakeActions) Close()            { f.closed = true }
func (f *fakeActions) StartHeartbeat()   { f.heartbeat = true }
func (f *fakeActions) GetLatency() int64 { return 12 }

func (f *fakeActions) CreateRoom(capacity int) error   { return f.record("create:%d", capacity) }
func (f *fakeActions) JoinRoom(code string) error      { return f.record("join:%s", code) }
func (f *fakeActions) SetName(name string) error       { return f.record("name:%s", name) }
func (f *fakeActions) LobbyState() error               { return f.record("lobby") }
func (f *fakeActions) Resync() error                   { return f.record("resync") }
func (f *fakeActions) GetRole() error                  { return f.record("role") }
func (f *fakeActions) GetBoard() error                 { return f.record("board") }
func (f *fakeActions) Nominate(name string) error      { return f.record("nominate:%s", name) }
func (f *fakeActions) Vote(choice string) error        { return f.record("vote:%s", choice) }
func (f *fakeActions) DrawCards() error                { return f.record("draw") }
func (f *fakeActions) Discard(c string) error          { return f.record("discard:%s", c) }
func (f *fakeActions) Enact(c string) error            { return f.record("enact:%s", c) }
func (f *fakeActions) SelectPower(target string) error { return f.record("power:%s", target) }
func (f *fakeActions) GetStats() error                 { return f.record("stats") }
func (f *fakeActions) GetLeaderboard(offset, limit int) error {
	return f.record("leaderboard:%d:%d", offset, limit)
}

func newTestModel(t *testing.T) (*OnlineModel, *fakeActions) {
	t.Helper()
	fa := &fakeActions{}
	m := newOnlineModel(fa, sound.NewManager(""))
	m.Update(ConnectedMsg{})
	return m, fa
}

func (f *fakeActions) reset() { f.calls = nil }

func submit(m *OnlineModel, text string) {
	m.input.SetValue(text)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

func serve(m *OnlineModel, msgType protocol.MessageType, payload any) {
	m.Update(ServerMessage{Msg: codec.MustNewMessage(msgType, payload)})
}

// seatAs 入座并完成命名
func seatAs(m *OnlineModel, name string) {
	serve(m, protocol.MsgRoomJoined, protocol.RoomJoinedPayload{RoomCode: "123456", Capacity: 5, Seat: 0, Seated: 1})
	serve(m, protocol.MsgNameAccepted, protocol.NameAcceptedPayload{Name: name})
}

func startGame(m *OnlineModel) {
	serve(m, protocol.MsgGameStart, protocol.GameStartPayload{Players: []protocol.PlayerInfo{
		{Name: "alice", Seat: 0, Alive: true, Online: true},
		{Name: "bob", Seat: 1, Alive: true, Online: true},
		{Name: "carol", Seat: 2, Alive: true, Online: true},
	}})
}

func TestConnect(t *testing.T) {
	t.Parallel()

	m, fa := newTestModel(t)
	assert.Equal(t, PhaseLobby, m.phase)
	assert.True(t, fa.heartbeat)

	m.Update(ConnectionErrorMsg{Err: errors.New("refused")})
	assert.Equal(t, PhaseConnecting, m.phase)
	assert.Contains(t, m.status.Error, "refused")
	assert.Contains(t, m.View(), "refused")
}

func TestLobbyCommands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		calls []string
		phase GamePhase
		err   bool
	}{
		{"c 5", []string{"create:5"}, PhaseLobby, false},
		{"j 123456", []string{"join:123456"}, PhaseLobby, false},
		{"l", []string{"leaderboard:0:10"}, PhaseLeaderboard, false},
		{"s", []string{"stats"}, PhaseStats, false},
		{"c five", nil, PhaseLobby, true},
		{"x", nil, PhaseLobby, true},
		{"", nil, PhaseLobby, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			m, fa := newTestModel(t)
			submit(m, tt.input)
			assert.Equal(t, tt.calls, fa.calls)
			assert.Equal(t, tt.phase, m.phase)
			assert.Equal(t, tt.err, m.status.Error != "")
		})
	}
}

func TestQuit(t *testing.T) {
	t.Parallel()

	m, fa := newTestModel(t)
	m.input.SetValue("q")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, fa.closed)

	// 退出后读协程不会阻塞
	m.emit(ClosedMsg{})
}

func TestEscReturnsToLobby(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	submit(m, "l")
	require.Equal(t, PhaseLeaderboard, m.phase)

	serve(m, protocol.MsgLeaderboardResult, protocol.LeaderboardResultPayload{Entries: []protocol.LeaderboardEntry{
		{Rank: 1, PlayerName: "alice", Wins: 2, TotalGames: 2, WinRate: 100},
	}})
	assert.Equal(t, PhaseLeaderboard, m.phase)
	assert.Contains(t, m.View(), "alice")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, PhaseLobby, m.phase)
}

func TestRoomCreatedAutoJoins(t *testing.T) {
	t.Parallel()

	m, fa := newTestModel(t)
	serve(m, protocol.MsgRoomCreated, protocol.RoomCreatedPayload{RoomCode: "654321", Capacity: 5})
	assert.Equal(t, []string{"join:654321"}, fa.calls)
	assert.Contains(t, m.status.Notice, "654321")

	fa.reset()
	serve(m, protocol.MsgRoomJoined, protocol.RoomJoinedPayload{RoomCode: "654321", Capacity: 5, Seated: 1})
	assert.Equal(t, []string{"lobby"}, fa.calls)
	assert.Equal(t, PhaseRoom, m.phase)
	assert.Equal(t, client.StageNaming, m.gs.Stage)

	fa.reset()
	submit(m, "alice")
	assert.Equal(t, []string{"name:alice"}, fa.calls)

	// 命名后再输入不会重复发送
	serve(m, protocol.MsgNameAccepted, protocol.NameAcceptedPayload{Name: "alice"})
	fa.reset()
	submit(m, "again")
	assert.Empty(t, fa.calls)
}

func TestGameStartResyncs(t *testing.T) {
	t.Parallel()

	m, fa := newTestModel(t)
	seatAs(m, "alice")
	fa.reset()

	startGame(m)
	assert.Equal(t, []string{"resync", "role"}, fa.calls)
	assert.Equal(t, PhaseGame, m.phase)
}

func TestNominate(t *testing.T) {
	t.Parallel()

	m, fa := newTestModel(t)
	seatAs(m, "alice")
	startGame(m)
	serve(m, protocol.MsgNominationTurn, protocol.NominationTurnPayload{President: "alice", Candidates: []string{"bob", "carol"}})
	fa.reset()

	submit(m, "9")
	assert.Empty(t, fa.calls)
	assert.NotEmpty(t, m.status.Error)

	submit(m, "2")
	assert.Equal(t, []string{"nominate:carol"}, fa.calls)

	fa.reset()
	submit(m, "BOB")
	assert.Equal(t, []string{"nominate:bob"}, fa.calls)
}

func TestNominate_NotPresident(t *testing.T) {
	t.Parallel()

	m, fa := newTestModel(t)
	seatAs(m, "bob")
	startGame(m)
	serve(m, protocol.MsgNominationTurn, protocol.NominationTurnPayload{President: "alice", Candidates: []string{"bob", "carol"}})
	fa.reset()

	submit(m, "1")
	assert.Empty(t, fa.calls)
}

func TestVoteOnce(t *testing.T) {
	t.Parallel()

	m, fa := newTestModel(t)
	seatAs(m, "carol")
	startGame(m)
	serve(m, protocol.MsgVotingTurn, protocol.VotingTurnPayload{President: "alice", Chancellor: "bob"})
	fa.reset()

	submit(m, "maybe")
	assert.Empty(t, fa.calls)

	submit(m, "y")
	assert.Equal(t, []string{"vote:Yes"}, fa.calls)
	assert.True(t, m.gs.Voted)

	submit(m, "n")
	assert.Len(t, fa.calls, 1)
}

func TestVote_SendFailureAllowsRetry(t *testing.T) {
	t.Parallel()

	m, fa := newTestModel(t)
	seatAs(m, "carol")
	startGame(m)
	serve(m, protocol.MsgVotingTurn, protocol.VotingTurnPayload{President: "alice", Chancellor: "bob"})

	fa.sendErr = client.ErrSendBufferFull
	submit(m, "n")
	assert.False(t, m.gs.Voted)
	assert.Equal(t, client.ErrSendBufferFull.Error(), m.status.Error)
}

func TestLegislativeSession(t *testing.T) {
	t.Parallel()

	m, fa := newTestModel(t)
	seatAs(m, "alice")
	startGame(m)
	serve(m, protocol.MsgDrawTurn, protocol.DrawTurnPayload{President: "alice"})
	fa.reset()

	submit(m, "")
	assert.Equal(t, []string{"draw"}, fa.calls)

	serve(m, protocol.MsgPresidentCards, protocol.CardsPayload{Cards: []string{"F", "L", "F"}, President: "alice", Chancellor: "bob"})
	fa.reset()
	submit(m, "x")
	assert.Empty(t, fa.calls)
	submit(m, "l")
	assert.Equal(t, []string{"discard:L"}, fa.calls)

	fa.reset()
	submit(m, "3")
	assert.Equal(t, []string{"discard:F"}, fa.calls)
}

func TestChancellorEnacts(t *testing.T) {
	t.Parallel()

	m, fa := newTestModel(t)
	seatAs(m, "bob")
	startGame(m)
	serve(m, protocol.MsgChancellorCards, protocol.CardsPayload{Cards: []string{"F", "L"}, President: "alice", Chancellor: "bob"})
	fa.reset()

	submit(m, "f")
	assert.Equal(t, []string{"enact:F"}, fa.calls)
}

func TestPowers(t *testing.T) {
	t.Parallel()

	m, fa := newTestModel(t)
	seatAs(m, "alice")
	startGame(m)

	serve(m, protocol.MsgPowerPrompt, protocol.PowerPromptPayload{Power: "policy_peek", President: "alice"})
	fa.reset()
	submit(m, "")
	assert.Equal(t, []string{"power:"}, fa.calls)

	serve(m, protocol.MsgPowerPrompt, protocol.PowerPromptPayload{Power: "execution", President: "alice", Candidates: []string{"bob", "carol"}})
	fa.reset()
	submit(m, "")
	assert.Empty(t, fa.calls)
	submit(m, "carol")
	assert.Equal(t, []string{"power:carol"}, fa.calls)
}

func TestSlashCommands(t *testing.T) {
	t.Parallel()

	m, fa := newTestModel(t)
	seatAs(m, "alice")
	startGame(m)
	fa.reset()

	submit(m, "/role")
	submit(m, "/board")
	submit(m, "/sync")
	assert.Equal(t, []string{"role", "board", "resync"}, fa.calls)
}

func TestGameOverReturnsToLobby(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	seatAs(m, "alice")
	startGame(m)

	serve(m, protocol.MsgGameOver, protocol.GameOverPayload{Winner: "L", Roles: []protocol.PlayerRole{{Name: "alice", Role: "Liberal"}}})
	assert.Equal(t, PhaseGameOver, m.phase)
	assert.Contains(t, m.View(), "自由派获胜")

	submit(m, "")
	assert.Equal(t, PhaseLobby, m.phase)
	assert.Empty(t, m.gs.RoomCode)
}

func TestGameAborted(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	seatAs(m, "alice")
	startGame(m)

	serve(m, protocol.MsgGameAborted, protocol.GameAbortedPayload{Reason: "internal error"})
	assert.Equal(t, PhaseGameOver, m.phase)
	assert.Equal(t, client.StageAborted, m.gs.Stage)
}

func TestReconnectFlow(t *testing.T) {
	t.Parallel()

	m, fa := newTestModel(t)
	seatAs(m, "alice")
	startGame(m)
	fa.reset()

	m.Update(ReconnectingMsg{Attempt: 2, MaxTries: 5})
	assert.Contains(t, m.status.Reconnecting, "2/5")

	serve(m, protocol.MsgReconnected, protocol.ReconnectedPayload{PlayerID: "p1", PlayerName: "alice", RoomCode: "123456"})
	assert.Empty(t, m.status.Reconnecting)
	assert.Equal(t, []string{"resync"}, fa.calls)
}

func TestClosed(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	m.Update(ClosedMsg{})
	assert.Equal(t, PhaseConnecting, m.phase)
	assert.NotEmpty(t, m.status.Error)
}

func TestServerErrorAndMaintenance(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	m.Update(ServerMessage{Msg: codec.NewErrorMessageWithText(protocol.ErrCodeNameTaken, "名字已被占用")})
	assert.Equal(t, "名字已被占用", m.status.Error)

	serve(m, protocol.MsgMaintenancePush, protocol.MaintenancePayload{Maintenance: true})
	assert.True(t, m.status.Maintenance)

	m.Update(ClearNoticeMsg{})
	assert.Empty(t, m.status.Error)
}

func TestStatsPage(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	submit(m, "s")
	serve(m, protocol.MsgStatsResult, protocol.StatsResultPayload{PlayerName: "alice", TotalGames: 3, Wins: 2, Losses: 1})
	assert.Equal(t, PhaseStats, m.phase)
	require.NotNil(t, m.stats)
	assert.Contains(t, m.View(), "alice")
}

func TestPick(t *testing.T) {
	t.Parallel()

	opts := []string{"bob", "carol"}
	got, ok := pick("1", opts)
	assert.True(t, ok)
	assert.Equal(t, "bob", got)

	_, ok = pick("0", opts)
	assert.False(t, ok)

	_, ok = pick("dave", opts)
	assert.False(t, ok)

	got, ok = pick("dave", nil)
	assert.True(t, ok)
	assert.Equal(t, "dave", got)

	c, ok := pickCard("2", []string{"F", "L"})
	assert.True(t, ok)
	assert.Equal(t, "L", c)

	_, ok = pickCard("l", []string{"F", "F"})
	assert.False(t, ok)
}
