//go:build !production

package room

import (
	"time"

	"github.com/palemoky/secret-hitler/internal/game/engine"
)

// GameForTest 直接访问引擎状态（仅测试）
func (r *Room) GameForTest() *engine.Game {
	return r.game
}

// AgeForTest 将房间的创建/结束时间回拨 d（仅测试）
func (r *Room) AgeForTest(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CreatedAt = r.CreatedAt.Add(-d)
	if !r.finishedAt.IsZero() {
		r.finishedAt = r.finishedAt.Add(-d)
	}
}
