// Package view provides UI rendering functions.
package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/secret-hitler/internal/client"
	"github.com/palemoky/secret-hitler/internal/protocol"
	"github.com/palemoky/secret-hitler/internal/ui/common"
)

// Status 顶部状态行
type Status struct {
	Latency      int64
	Reconnecting string
	Maintenance  bool
	Notice       string
	Error        string
}

func (s Status) render(width int) string {
	var parts []string
	if s.Latency > 0 {
		parts = append(parts, common.DimStyle.Render(fmt.Sprintf("延迟 %dms", s.Latency)))
	}
	if s.Reconnecting != "" {
		parts = append(parts, common.NoticeStyle.Render(s.Reconnecting))
	}
	if s.Maintenance {
		parts = append(parts, common.NoticeStyle.Render("🔧 服务器维护中"))
	}
	if s.Notice != "" {
		parts = append(parts, common.OKStyle.Render(s.Notice))
	}
	if s.Error != "" {
		parts = append(parts, common.ErrorStyle.Render(s.Error))
	}
	if len(parts) == 0 {
		return ""
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(parts, "  ")) + "\n"
}

// Connecting renders the connection screen.
func Connecting(width, height int, status Status) string {
	body := "正在连接服务器..."
	if status.Error != "" {
		body = common.ErrorStyle.Render(status.Error) + "\n\n按 ESC 退出"
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

// Lobby renders the main menu.
func Lobby(width int, status Status, input string) string {
	var sb strings.Builder

	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, common.TitleStyle("🎭 Secret Hitler")))
	sb.WriteString("\n\n")
	sb.WriteString(status.render(width))

	menu := []string{
		"请输入命令:",
		"",
		"  c <人数>    创建房间（5-10 人）",
		"  j <房间号>  加入房间",
		"  l           排行榜",
		"  s           我的战绩",
		"  q           退出",
	}
	box := common.BoxStyle.Padding(0, 2).Render(lipgloss.JoinVertical(lipgloss.Left, menu...))
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, box))
	sb.WriteString("\n")
	sb.WriteString(common.PromptStyle.Render(lipgloss.PlaceHorizontal(width, lipgloss.Center, input)))
	return sb.String()
}

// Room renders the pre-game room: seats filled and names chosen.
func Room(width int, gs *client.GameState, status Status, input string) string {
	var sb strings.Builder

	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		common.TitleStyle(fmt.Sprintf("🏠 房间 %s", gs.RoomCode))))
	sb.WriteString("\n\n")
	sb.WriteString(status.render(width))

	var lines []string
	lines = append(lines, fmt.Sprintf("入座: %d/%d   已命名: %d/%d", gs.Seated, gs.Capacity, gs.Ready, gs.Capacity), "")
	for _, name := range gs.Lobby {
		me := ""
		if name == gs.MyName {
			me = " (你)"
		}
		lines = append(lines, "  ✅ "+common.TruncateName(name, 16)+me)
	}
	if len(gs.Lobby) == 0 {
		lines = append(lines, common.DimStyle.Render("  还没有玩家设置昵称"))
	}
	box := common.BoxStyle.Padding(0, 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, box))
	sb.WriteString("\n\n")
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, Hint(gs)))
	sb.WriteString("\n")
	sb.WriteString(common.PromptStyle.Render(lipgloss.PlaceHorizontal(width, lipgloss.Center, input)))
	return sb.String()
}

// Leaderboard renders the leaderboard page.
func Leaderboard(width int, entries []protocol.LeaderboardEntry) string {
	var sb strings.Builder
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, common.TitleStyle("🏆 排行榜")))
	sb.WriteString("\n\n")
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderLeaderboardTable(entries)))
	sb.WriteString("\n\n")
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, common.DimStyle.Render("按 ESC 返回")))
	return sb.String()
}

func renderLeaderboardTable(entries []protocol.LeaderboardEntry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-4s %-16s %6s %6s %8s\n", "排名", "玩家", "胜场", "总场", "胜率")
	if len(entries) == 0 {
		sb.WriteString(common.DimStyle.Render("暂无数据"))
	}
	for _, e := range entries {
		fmt.Fprintf(&sb, "%-4d %-16s %6d %6d %7.1f%%\n",
			e.Rank, common.TruncateName(e.PlayerName, 16), e.Wins, e.TotalGames, e.WinRate)
	}
	return common.BoxStyle.Padding(0, 1).Render(strings.TrimRight(sb.String(), "\n"))
}

// Stats renders the personal stats page.
func Stats(width int, s *protocol.StatsResultPayload) string {
	var sb strings.Builder
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, common.TitleStyle("📊 我的战绩")))
	sb.WriteString("\n\n")

	var body string
	if s == nil || s.TotalGames == 0 {
		body = common.DimStyle.Render("还没有对局记录")
	} else {
		rank := "未上榜"
		if s.Rank > 0 {
			rank = fmt.Sprintf("#%d", s.Rank)
		}
		body = strings.Join([]string{
			fmt.Sprintf("玩家: %s   排名: %s", s.PlayerName, rank),
			fmt.Sprintf("总场: %d   胜: %d   负: %d   胜率: %.1f%%", s.TotalGames, s.Wins, s.Losses, s.WinRate),
			fmt.Sprintf("%s 自由派: %d 场 / 胜 %d", common.LiberalIcon, s.LiberalGames, s.LiberalWins),
			fmt.Sprintf("%s 法西斯: %d 场 / 胜 %d（其中希特勒 %d 场）", common.FascistIcon, s.FascistGames, s.FascistWins, s.HitlerGames),
		}, "\n")
	}
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, common.BoxStyle.Padding(0, 2).Render(body)))
	sb.WriteString("\n\n")
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, common.DimStyle.Render("按 ESC 返回")))
	return sb.String()
}
