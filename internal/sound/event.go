package sound

// Event 提示音事件，文件名与事件名一致
type Event string

const (
	EventTurn     Event = "turn"     // 轮到自己操作
	EventVote     Event = "vote"     // 投票开始
	EventEnact    Event = "enact"    // 政策颁布
	EventPower    Event = "power"    // 总统权力
	EventGameOver Event = "gameover" // 游戏结束
)

func (e Event) known() bool {
	switch e {
	case EventTurn, EventVote, EventEnact, EventPower, EventGameOver:
		return true
	}
	return false
}
