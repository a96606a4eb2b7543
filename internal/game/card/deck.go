package card

import (
	"errors"
	"math/rand/v2"
)

// ErrDeckExhausted 洗回弃牌堆后仍不够抽：模型记账出错，不应发生
var ErrDeckExhausted = errors.New("card: deck exhausted after reshuffle")

// Deck 政策牌堆 + 弃牌堆
//
// Cards[0] 为牌堆顶。
type Deck struct {
	Cards    []Card
	Discards []Card

	rng *rand.Rand
}

// NewDeck 创建 11F + 6L 的未洗牌堆
func NewDeck(rng *rand.Rand) *Deck {
	cards := make([]Card, 0, TotalCount)
	for range FascistCount {
		cards = append(cards, Fascist)
	}
	for range LiberalCount {
		cards = append(cards, Liberal)
	}
	return &Deck{Cards: cards, rng: rng}
}

// Shuffle 均匀随机打乱牌堆（Fisher-Yates）
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
}

// Len 牌堆剩余张数
func (d *Deck) Len() int {
	return len(d.Cards)
}

// reshuffle 弃牌堆并回牌堆后整体洗牌
func (d *Deck) reshuffle() {
	d.Cards = append(d.Cards, d.Discards...)
	d.Discards = nil
	d.Shuffle()
}

// Draw 从牌堆顶取 n 张；不足时先把弃牌堆洗回
func (d *Deck) Draw(n int) ([]Card, error) {
	if len(d.Cards) < n {
		d.reshuffle()
	}
	if len(d.Cards) < n {
		return nil, ErrDeckExhausted
	}
	drawn := make([]Card, n)
	copy(drawn, d.Cards[:n])
	d.Cards = d.Cards[n:]
	return drawn, nil
}

// Peek 查看牌堆顶 n 张但不移除。
// 剩余不足 minLeft 张时先洗回弃牌堆，保证看到的就是下一次抽到的牌。
func (d *Deck) Peek(n, minLeft int) ([]Card, error) {
	if len(d.Cards) < minLeft {
		d.reshuffle()
	}
	if len(d.Cards) < n {
		return nil, ErrDeckExhausted
	}
	top := make([]Card, n)
	copy(top, d.Cards[:n])
	return top, nil
}

// Discard 放入弃牌堆
func (d *Deck) Discard(c Card) {
	d.Discards = append(d.Discards, c)
}
