package engine

// Phase 房间所处阶段
//
// 阶段是唯一的状态来源：投票是否开放、牌是否已交给总理等都由阶段推出。
type Phase int

const (
	PhaseFilling          Phase = iota // 等待玩家入座并命名
	PhaseNoPresident                   // 身份已分配，首任总统尚未产生
	PhaseNomination                    // 总统提名总理
	PhaseVoting                        // 全员投票
	PhasePresidentDiscard              // 总统抽三弃一（Packet 为空表示尚未抽牌）
	PhaseChancellorEnact               // 总理二选一颁布
	PhaseExecutive                     // 总统权力待行使
	PhaseGameOver                      // 一方获胜
	PhaseAborted                       // 内部状态不一致，房间终止
)

var phaseNames = [...]string{
	PhaseFilling:          "filling",
	PhaseNoPresident:      "no_president",
	PhaseNomination:       "nomination",
	PhaseVoting:           "voting",
	PhasePresidentDiscard: "president_discard",
	PhaseChancellorEnact:  "chancellor_enact",
	PhaseExecutive:        "executive",
	PhaseGameOver:         "game_over",
	PhaseAborted:          "aborted",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// Terminal 终局阶段不再接受任何变更
func (p Phase) Terminal() bool {
	return p == PhaseGameOver || p == PhaseAborted
}

// Started 身份是否已分配
func (p Phase) Started() bool {
	return p != PhaseFilling
}

// Power 总统权力
type Power int

const (
	PowerNone Power = iota
	PowerInvestigation
	PowerSpecialPresidency
	PowerPolicyPeek
	PowerExecution
)

var powerNames = [...]string{
	PowerNone:              "none",
	PowerInvestigation:     "investigation",
	PowerSpecialPresidency: "special_presidency",
	PowerPolicyPeek:        "policy_peek",
	PowerExecution:         "execution",
}

func (p Power) String() string {
	if p < 0 || int(p) >= len(powerNames) {
		return "unknown"
	}
	return powerNames[p]
}

// powerFor 颁布第 fascist 张法西斯政策后解锁的权力
//
// 9-10 人局第一张时调查优先于特殊总统。
func powerFor(fascist, capacity int) Power {
	switch fascist {
	case 1:
		if capacity >= 9 {
			return PowerInvestigation
		}
		if capacity == 5 || capacity == 8 {
			return PowerSpecialPresidency
		}
	case 2:
		if capacity >= 7 {
			return PowerInvestigation
		}
	case 3:
		if capacity <= 6 {
			return PowerPolicyPeek
		}
	case 4, 5:
		return PowerExecution
	}
	return PowerNone
}
