package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/secret-hitler/internal/client"
	"github.com/palemoky/secret-hitler/internal/game/card"
	"github.com/palemoky/secret-hitler/internal/ui/common"
)

const (
	logTail        = 6
	failedVoteMax  = 3
	nameWidth      = 14
	policyPeekName = "policy_peek"
)

var powerNames = map[string]string{
	"investigation":      "调查身份",
	"special_presidency": "指定下任总统",
	policyPeekName:       "查看牌堆顶",
	"execution":          "处决",
}

// PowerName 权力的中文名
func PowerName(power string) string {
	if name, ok := powerNames[power]; ok {
		return name
	}
	return power
}

// Hint 根据当前步骤给出操作提示
func Hint(gs *client.GameState) string {
	switch gs.Stage {
	case client.StageNaming:
		return "输入你的昵称"
	case client.StageWaiting:
		return "等待其他玩家设置昵称..."
	case client.StageNomination:
		if gs.IsPresident() {
			return "提名总理：输入候选人姓名或编号"
		}
		return fmt.Sprintf("等待 %s 提名总理", gs.President)
	case client.StageVoting:
		switch {
		case !gs.Alive():
			return "你已阵亡，等待投票结束"
		case gs.Voted:
			return "已投票，等待其他玩家"
		}
		return fmt.Sprintf("投票：%s 担任总统，%s 担任总理？(y/n)", gs.President, gs.Chancellor)
	case client.StageDraw:
		if gs.IsPresident() {
			return "按 Enter 抽取三张政策"
		}
		return fmt.Sprintf("等待 %s 抽牌", gs.President)
	case client.StageDiscard:
		if gs.IsPresident() && len(gs.Hand) > 0 {
			return "弃掉一张：输入 F / L 或编号"
		}
		return fmt.Sprintf("等待 %s 弃牌", gs.President)
	case client.StageHandoff:
		if gs.IsChancellor() && len(gs.Hand) > 0 {
			return "颁布一张：输入 F / L 或编号"
		}
		return fmt.Sprintf("等待 %s 颁布政策", gs.Chancellor)
	case client.StagePower:
		if gs.IsPresident() {
			if gs.Power == policyPeekName {
				return "查看完毕后按 Enter 确认"
			}
			return fmt.Sprintf("%s：输入目标姓名或编号", PowerName(gs.Power))
		}
		return fmt.Sprintf("等待 %s 行使权力（%s）", gs.President, PowerName(gs.Power))
	case client.StageGameOver:
		return "按 Enter 返回大厅"
	case client.StageAborted:
		return "房间已终止，按 Enter 返回大厅"
	}
	return ""
}

// Game renders the in-game board.
func Game(width int, gs *client.GameState, status Status, input string) string {
	var sb strings.Builder

	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		common.TitleStyle(fmt.Sprintf("🏛 房间 %s · %s", gs.RoomCode, gs.Stage))))
	sb.WriteString("\n\n")
	sb.WriteString(status.render(width))

	left := lipgloss.JoinVertical(lipgloss.Left, renderBoard(gs), "", renderRole(gs))
	right := renderPlayers(gs)
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)))
	sb.WriteString("\n")

	if hand := renderCards("手牌", gs.Hand); hand != "" {
		sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, hand))
		sb.WriteString("\n")
	}
	if peek := renderCards("牌堆顶", gs.Peek); peek != "" {
		sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, peek))
		sb.WriteString("\n")
	}
	if candidates := renderCandidates(gs); candidates != "" {
		sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, candidates))
		sb.WriteString("\n")
	}

	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderLog(gs.Log)))
	sb.WriteString("\n\n")
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, common.NoticeStyle.Render(Hint(gs))))
	sb.WriteString("\n")
	sb.WriteString(common.PromptStyle.Render(lipgloss.PlaceHorizontal(width, lipgloss.Center, input)))
	return sb.String()
}

// GameOver renders the final reveal.
func GameOver(width int, gs *client.GameState, status Status) string {
	var sb strings.Builder

	title := "游戏结束"
	switch gs.Winner {
	case string(card.Liberal):
		title = common.LiberalIcon + " 自由派获胜"
	case string(card.Fascist):
		title = common.FascistIcon + " 法西斯获胜"
	}
	if gs.Stage == client.StageAborted {
		title = "⚠️ 房间已终止"
	}
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, common.TitleStyle(title)))
	sb.WriteString("\n\n")
	sb.WriteString(status.render(width))
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderBoard(gs)))
	sb.WriteString("\n")

	if len(gs.Roles) > 0 {
		lines := []string{"身份揭晓:", ""}
		for _, r := range gs.Roles {
			lines = append(lines, fmt.Sprintf("  %-*s %s", nameWidth, common.TruncateName(r.Name, nameWidth), r.Role))
		}
		sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			common.BoxStyle.Padding(0, 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))))
		sb.WriteString("\n")
	}
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderLog(gs.Log)))
	sb.WriteString("\n\n")
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, common.DimStyle.Render(Hint(gs))))
	return sb.String()
}

func renderBoard(gs *client.GameState) string {
	fascist, liberal := gs.Unplayed()
	lines := []string{
		"自由派 " + common.PolicyTrack(string(card.Liberal), gs.Board.Liberal, card.WinThreshold),
		"法西斯 " + common.PolicyTrack(string(card.Fascist), gs.Board.Fascist, card.WinThreshold),
		fmt.Sprintf("否决计数 %d/%d   牌堆 %d   弃牌 %d", gs.FailedVotes, failedVoteMax, gs.DeckSize, gs.DiscardSize),
		common.DimStyle.Render(fmt.Sprintf("未颁布: F×%d L×%d", fascist, liberal)),
	}
	return common.BoxStyle.Padding(0, 1).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderRole(gs *client.GameState) string {
	if gs.Role == "" {
		return common.DimStyle.Render("身份未知（输入 /role 查询）")
	}
	line := "你的身份: " + gs.Role
	if len(gs.Teammates) > 0 {
		mates := make([]string, 0, len(gs.Teammates))
		for _, m := range gs.Teammates {
			mates = append(mates, fmt.Sprintf("%s(%s)", m.Name, m.Role))
		}
		line += "\n队友: " + strings.Join(mates, ", ")
	}
	return line
}

func renderPlayers(gs *client.GameState) string {
	lines := []string{"玩家:"}
	for _, p := range gs.Players {
		var icons []string
		if p.Name == gs.President {
			icons = append(icons, common.PresidentIcon)
		}
		if p.Name == gs.Chancellor {
			icons = append(icons, common.ChancellorIcon)
		}
		if !p.Alive {
			icons = append(icons, common.DeadIcon)
		}
		if !p.Online {
			icons = append(icons, common.OfflineIcon)
		}
		me := ""
		if p.Name == gs.MyName {
			me = " (你)"
		}
		lines = append(lines, fmt.Sprintf("%2d. %-*s%s %s", p.Seat+1, nameWidth,
			common.TruncateName(p.Name, nameWidth), me, strings.Join(icons, "")))
	}
	if len(gs.LastVotes) > 0 {
		lines = append(lines, "", "上轮投票:")
		for _, v := range gs.LastVotes {
			lines = append(lines, fmt.Sprintf("  %s: %s", common.TruncateName(v.Voter, nameWidth), v.Choice))
		}
	}
	return common.BoxStyle.Padding(0, 1).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderCards(label string, cards []string) string {
	if len(cards) == 0 {
		return ""
	}
	parts := make([]string, 0, len(cards))
	for i, c := range cards {
		parts = append(parts, fmt.Sprintf("%d:%s", i+1, common.PolicyCard(c)))
	}
	return label + ": " + strings.Join(parts, " ")
}

func renderCandidates(gs *client.GameState) string {
	if !gs.IsPresident() || len(gs.Candidates) == 0 {
		return ""
	}
	if gs.Stage != client.StageNomination && gs.Stage != client.StagePower {
		return ""
	}
	parts := make([]string, 0, len(gs.Candidates))
	for i, name := range gs.Candidates {
		parts = append(parts, fmt.Sprintf("%d.%s", i+1, name))
	}
	return "可选: " + strings.Join(parts, "  ")
}

func renderLog(log []string) string {
	if len(log) == 0 {
		return ""
	}
	start := max(0, len(log)-logTail)
	return common.DimStyle.Render(strings.Join(log[start:], "\n"))
}
