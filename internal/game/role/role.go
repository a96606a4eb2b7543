// Package role 身份分配
package role

import (
	"fmt"
	"math/rand/v2"
)

// Role 玩家身份
type Role string

const (
	Unassigned Role = ""
	Liberal    Role = "Liberal"
	Fascist    Role = "Fascist"
	Hitler     Role = "Hitler"
)

// 房间人数范围
const (
	MinPlayers = 5
	MaxPlayers = 10
)

// Evil 是否属于法西斯阵营（含 Hitler）
func (r Role) Evil() bool {
	return r == Fascist || r == Hitler
}

// Party 阵营；调查时 Hitler 报告为 Fascist
func (r Role) Party() Role {
	if r.Evil() {
		return Fascist
	}
	return r
}

// ValidCapacity 人数是否在 5-10 之间
func ValidCapacity(n int) bool {
	return n >= MinPlayers && n <= MaxPlayers
}

// FascistCount 普通法西斯人数（不含 Hitler）
func FascistCount(n int) int {
	switch {
	case n <= 6:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}

// Assign 为 n 个座位分配身份：
// 随机选出 FascistCount(n)+1 个邪恶座位，再从中随机选一个为 Hitler。
func Assign(n int, rng *rand.Rand) ([]Role, error) {
	if !ValidCapacity(n) {
		return nil, fmt.Errorf("role: invalid player count %d", n)
	}

	roles := make([]Role, n)
	for i := range roles {
		roles[i] = Liberal
	}

	// Perm 的前 k 个即为均匀随机的 k 个不同座位
	evil := rng.Perm(n)[:FascistCount(n)+1]
	for _, seat := range evil {
		roles[seat] = Fascist
	}
	roles[evil[rng.IntN(len(evil))]] = Hitler
	return roles, nil
}

// CanSeeTeam 该身份能否看到队友
//
// 法西斯始终知道所有同伴（含 Hitler）；Hitler 仅在 5-6 人局知道法西斯是谁。
func CanSeeTeam(r Role, capacity int) bool {
	switch r {
	case Fascist:
		return true
	case Hitler:
		return capacity <= 6
	}
	return false
}
