package card

import "fmt"

// Card 政策牌：法西斯(F) 或 自由派(L)
type Card string

const (
	Fascist Card = "F"
	Liberal Card = "L"
)

// 牌堆构成
const (
	FascistCount = 11
	LiberalCount = 6
	TotalCount   = FascistCount + LiberalCount
)

// String 返回牌面符号
func (c Card) String() string {
	return string(c)
}

// Valid 是否为合法的政策牌
func (c Card) Valid() bool {
	return c == Fascist || c == Liberal
}

// Parse 解析客户端提交的牌面
func Parse(s string) (Card, error) {
	c := Card(s)
	if !c.Valid() {
		return "", fmt.Errorf("无法识别的政策牌: %q", s)
	}
	return c, nil
}

// IndexOf 返回 c 在 cards 中第一次出现的位置，不存在返回 -1
func IndexOf(cards []Card, c Card) int {
	for i, x := range cards {
		if x == c {
			return i
		}
	}
	return -1
}

// Remove 移除 cards 中第一张 c，返回新切片和是否找到
func Remove(cards []Card, c Card) ([]Card, bool) {
	i := IndexOf(cards, c)
	if i < 0 {
		return cards, false
	}
	out := make([]Card, 0, len(cards)-1)
	out = append(out, cards[:i]...)
	out = append(out, cards[i+1:]...)
	return out, true
}
