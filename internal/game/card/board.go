package card

// WinThreshold 任一方达到该数量即获胜
const WinThreshold = 6

// Board 已颁布的政策计数
type Board struct {
	Fascist int `json:"F"`
	Liberal int `json:"L"`
}

// Enact 颁布一张政策
func (b *Board) Enact(c Card) {
	switch c {
	case Fascist:
		b.Fascist++
	case Liberal:
		b.Liberal++
	}
}

// Total 已颁布总数
func (b Board) Total() int {
	return b.Fascist + b.Liberal
}

// Winner 返回获胜阵营；未分胜负返回空串。
// 自由派与法西斯各自独立判定，法西斯优先（两者不可能同时到达）。
func (b Board) Winner() Card {
	switch {
	case b.Fascist >= WinThreshold:
		return Fascist
	case b.Liberal >= WinThreshold:
		return Liberal
	}
	return ""
}
