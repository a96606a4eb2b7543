package ui

import (
	"errors"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/secret-hitler/internal/client"
	"github.com/palemoky/secret-hitler/internal/ui/common"
)

var (
	errUnknownCommand = errors.New("未知命令")
	errBadTarget      = errors.New("无效的目标")
	errBadCard        = errors.New("无效的政策牌，请输入 F / L 或编号")
	errBadChoice      = errors.New("请输入 y 或 n")
	errQuit           = errors.New("quit")
)

// handleKey 处理按键，返回 handled=false 时交给输入框
func (m *OnlineModel) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m.exit(), true

	case tea.KeyEsc:
		switch m.phase {
		case PhaseConnecting, PhaseLobby:
			return m.exit(), true
		case PhaseLeaderboard, PhaseStats:
			m.phase = PhaseLobby
		}
		return nil, true

	case tea.KeyEnter:
		text := strings.TrimSpace(m.input.Value())
		m.input.SetValue("")
		if err := m.submit(text); err != nil {
			if errors.Is(err, errQuit) {
				return m.exit(), true
			}
			m.status.Error = err.Error()
			return clearNotice(), true
		}
		m.status.Error = ""
		return nil, true
	}
	return nil, false
}

// submit 按当前页面解释输入
func (m *OnlineModel) submit(text string) error {
	switch m.phase {
	case PhaseLobby:
		return m.lobbyCommand(text)
	case PhaseRoom:
		if m.gs.Stage == client.StageNaming && text != "" {
			return m.actions.SetName(text)
		}
	case PhaseGame:
		return m.gameCommand(text)
	case PhaseGameOver:
		m.gs.Reset()
		m.phase = PhaseLobby
	case PhaseLeaderboard, PhaseStats:
		m.phase = PhaseLobby
	}
	return nil
}

func (m *OnlineModel) lobbyCommand(text string) error {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	switch strings.ToLower(fields[0]) {
	case "c":
		if len(fields) != 2 {
			return errUnknownCommand
		}
		capacity, err := strconv.Atoi(fields[1])
		if err != nil {
			return errUnknownCommand
		}
		return m.actions.CreateRoom(capacity)
	case "j":
		if len(fields) != 2 {
			return errUnknownCommand
		}
		return m.actions.JoinRoom(fields[1])
	case "l":
		m.phase = PhaseLeaderboard
		return m.actions.GetLeaderboard(0, leaderboardLimit)
	case "s":
		m.phase = PhaseStats
		return m.actions.GetStats()
	case "q":
		return errQuit
	}
	return errUnknownCommand
}

func (m *OnlineModel) gameCommand(text string) error {
	switch text {
	case "/role":
		return m.actions.GetRole()
	case "/board":
		return m.actions.GetBoard()
	case "/sync":
		return m.actions.Resync()
	}

	gs := m.gs
	switch gs.Stage {
	case client.StageNomination:
		if !gs.IsPresident() || text == "" {
			return nil
		}
		target, ok := pick(text, gs.Candidates)
		if !ok {
			return errBadTarget
		}
		return m.actions.Nominate(target)

	case client.StageVoting:
		if !gs.Alive() || gs.Voted {
			return nil
		}
		choice, ok := common.Choice(text)
		if !ok {
			return errBadChoice
		}
		if err := m.actions.Vote(choice); err != nil {
			return err
		}
		gs.Voted = true

	case client.StageDraw:
		if gs.IsPresident() {
			return m.actions.DrawCards()
		}

	case client.StageDiscard:
		if !gs.IsPresident() || len(gs.Hand) == 0 {
			return nil
		}
		c, ok := pickCard(text, gs.Hand)
		if !ok {
			return errBadCard
		}
		return m.actions.Discard(c)

	case client.StageHandoff:
		if !gs.IsChancellor() || len(gs.Hand) == 0 {
			return nil
		}
		c, ok := pickCard(text, gs.Hand)
		if !ok {
			return errBadCard
		}
		return m.actions.Enact(c)

	case client.StagePower:
		if !gs.IsPresident() {
			return nil
		}
		if gs.Power == "policy_peek" {
			return m.actions.SelectPower("")
		}
		if text == "" {
			return nil
		}
		target, ok := pick(text, gs.Candidates)
		if !ok {
			return errBadTarget
		}
		return m.actions.SelectPower(target)
	}
	return nil
}

// pick 按编号（从 1 开始）或名字选择；没有候选列表时原样交给服务器校验
func pick(text string, options []string) (string, bool) {
	if len(options) == 0 {
		return text, true
	}
	if n, err := strconv.Atoi(text); err == nil {
		if n >= 1 && n <= len(options) {
			return options[n-1], true
		}
		return "", false
	}
	for _, opt := range options {
		if strings.EqualFold(opt, text) {
			return opt, true
		}
	}
	return "", false
}

// pickCard 按牌面或编号选择手牌
func pickCard(text string, hand []string) (string, bool) {
	if n, err := strconv.Atoi(text); err == nil {
		if n >= 1 && n <= len(hand) {
			return hand[n-1], true
		}
		return "", false
	}
	c := strings.ToUpper(text)
	if slices.Contains(hand, c) {
		return c, true
	}
	return "", false
}
