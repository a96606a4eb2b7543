// Package ui 终端客户端界面
package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/secret-hitler/internal/client"
	"github.com/palemoky/secret-hitler/internal/protocol"
	"github.com/palemoky/secret-hitler/internal/sound"
	"github.com/palemoky/secret-hitler/internal/ui/common"
	"github.com/palemoky/secret-hitler/internal/ui/view"
)

// GamePhase 界面所处页面
type GamePhase int

const (
	PhaseConnecting GamePhase = iota
	PhaseLobby
	PhaseRoom
	PhaseGame
	PhaseGameOver
	PhaseLeaderboard
	PhaseStats
)

const (
	defaultWidth     = 80
	eventBufferSize  = 256
	noticeDuration   = 3 * time.Second
	leaderboardLimit = 10
)

// Actions 界面发出的请求，由 *client.Client 实现
type Actions interface {
	Connect() error
	Close()
	StartHeartbeat()
	GetLatency() int64

	CreateRoom(capacity int) error
	JoinRoom(roomCode string) error
	SetName(name string) error
	LobbyState() error
	Resync() error
	GetRole() error
	GetBoard() error
	Nominate(chancellor string) error
	Vote(choice string) error
	DrawCards() error
	Discard(card string) error
	Enact(card string) error
	SelectPower(target string) error
	GetStats() error
	GetLeaderboard(offset, limit int) error
}

// ServerMessage 服务器消息（用于 tea.Msg）
type ServerMessage struct {
	Msg *protocol.Message
}

// ConnectedMsg 连接成功
type ConnectedMsg struct{}

// ConnectionErrorMsg 连接失败
type ConnectionErrorMsg struct {
	Err error
}

// ReconnectingMsg 正在重连
type ReconnectingMsg struct {
	Attempt  int
	MaxTries int
}

// ClosedMsg 连接彻底断开
type ClosedMsg struct{}

// ClearNoticeMsg 清除提示
type ClearNoticeMsg struct{}

// OnlineModel 联网模式的 model
type OnlineModel struct {
	actions Actions
	sounds  *sound.Manager

	events   chan tea.Msg
	quit     chan struct{}
	quitOnce sync.Once

	phase       GamePhase
	gs          *client.GameState
	status      view.Status
	stats       *protocol.StatsResultPayload
	leaderboard []protocol.LeaderboardEntry

	input  textinput.Model
	width  int
	height int
}

// NewOnlineModel 创建联网模式 model，并把客户端回调接入事件通道
func NewOnlineModel(c *client.Client, sounds *sound.Manager) *OnlineModel {
	m := newOnlineModel(c, sounds)

	c.OnMessage = func(msg *protocol.Message) { m.emit(ServerMessage{Msg: msg}) }
	c.OnReconnecting = func(attempt, maxTries int) {
		m.emit(ReconnectingMsg{Attempt: attempt, MaxTries: maxTries})
	}
	c.OnClose = func() { m.emit(ClosedMsg{}) }
	return m
}

func newOnlineModel(actions Actions, sounds *sound.Manager) *OnlineModel {
	ti := textinput.New()
	ti.Placeholder = "输入命令"
	ti.CharLimit = 32
	ti.Width = 30
	ti.Focus()

	return &OnlineModel{
		actions: actions,
		sounds:  sounds,
		events:  make(chan tea.Msg, eventBufferSize),
		quit:    make(chan struct{}),
		phase:   PhaseConnecting,
		gs:      client.NewGameState(),
		input:   ti,
	}
}

// emit 在客户端读协程中调用，退出后丢弃
func (m *OnlineModel) emit(msg tea.Msg) {
	select {
	case m.events <- msg:
	case <-m.quit:
	}
}

func (m *OnlineModel) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-m.events:
			return msg
		case <-m.quit:
			return nil
		}
	}
}

func (m *OnlineModel) connect() tea.Cmd {
	return func() tea.Msg {
		if err := m.actions.Connect(); err != nil {
			return ConnectionErrorMsg{Err: err}
		}
		return ConnectedMsg{}
	}
}

func clearNotice() tea.Cmd {
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg { return ClearNoticeMsg{} })
}

func (m *OnlineModel) Init() tea.Cmd {
	go func() {
		_ = m.sounds.Init()
	}()
	return tea.Batch(m.connect(), textinput.Blink, m.listen())
}

func (m *OnlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}

	case ConnectedMsg:
		m.phase = PhaseLobby
		m.status.Error = ""
		m.actions.StartHeartbeat()
		return m, nil

	case ConnectionErrorMsg:
		m.phase = PhaseConnecting
		m.status.Error = fmt.Sprintf("无法连接到服务器: %v", msg.Err)
		return m, nil

	case ReconnectingMsg:
		m.status.Reconnecting = fmt.Sprintf("🔄 正在重连 (%d/%d)...", msg.Attempt, msg.MaxTries)
		return m, m.listen()

	case ClosedMsg:
		m.phase = PhaseConnecting
		m.status.Reconnecting = ""
		m.status.Error = "连接已断开"
		return m, m.listen()

	case ServerMessage:
		return m, tea.Batch(m.handleServerMessage(msg.Msg), m.listen())

	case ClearNoticeMsg:
		m.status.Notice, m.status.Error = "", ""
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *OnlineModel) View() string {
	width := m.width
	if width == 0 {
		width = defaultWidth
	}
	m.status.Latency = m.actions.GetLatency()
	input := m.input.View()

	var body string
	switch m.phase {
	case PhaseConnecting:
		return view.Connecting(width, m.height, m.status)
	case PhaseLobby:
		body = view.Lobby(width, m.status, input)
	case PhaseRoom:
		body = view.Room(width, m.gs, m.status, input)
	case PhaseGame:
		body = view.Game(width, m.gs, m.status, input)
	case PhaseGameOver:
		body = view.GameOver(width, m.gs, m.status)
	case PhaseLeaderboard:
		body = view.Leaderboard(width, m.leaderboard)
	case PhaseStats:
		body = view.Stats(width, m.stats)
	}
	return common.DocStyle.Render(body)
}

// exit 关闭连接并退出程序
func (m *OnlineModel) exit() tea.Cmd {
	m.quitOnce.Do(func() {
		close(m.quit)
		m.actions.Close()
		m.sounds.Close()
	})
	return tea.Quit
}
