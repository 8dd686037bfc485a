package games

import (
	"github.com/shopspring/decimal"
)

// SlotSymbols is the uniform reel strip; index 4 is the jackpot seven.
var SlotSymbols = []string{"cherry", "lemon", "bell", "diamond", "seven", "clover", "grapes", "melon", "banana"}

const slotSevenIndex = 4

var (
	slotsMinStake   = decimal.NewFromInt(1)
	slotJackpotMult = decimal.NewFromInt(100)
	slotTripleMult  = decimal.NewFromInt(25)
	slotPairMult    = decimal.NewFromFloat(2.5)
)

// Slots is a single-shot three-reel spin: the outcome and payout are fixed at
// Start, no intermediate decisions.
type Slots struct {
	rng     Rand
	settled bool
	stake   decimal.Decimal
	reels   [3]int
	payout  decimal.Decimal
}

func NewSlots(rng Rand) *Slots {
	return &Slots{rng: rng}
}

func (g *Slots) Start(stake decimal.Decimal) error {
	if stake.LessThan(slotsMinStake) {
		return ErrInvalidStake
	}
	for i := range g.reels {
		g.reels[i] = g.rng.Intn(len(SlotSymbols))
	}
	g.stake = stake
	g.payout = slotsPayout(stake, g.reels)
	g.settled = true
	return nil
}

func (g *Slots) Settled() bool { return g.settled }

func (g *Slots) Payout() decimal.Decimal { return g.payout }

func (g *Slots) Reels() [3]int { return g.reels }

func slotsPayout(stake decimal.Decimal, reels [3]int) decimal.Decimal {
	a, b, c := reels[0], reels[1], reels[2]
	switch {
	case a == b && b == c && a == slotSevenIndex:
		return stake.Mul(slotJackpotMult)
	case a == b && b == c:
		return stake.Mul(slotTripleMult)
	case a == b || b == c || a == c:
		return stake.Mul(slotPairMult).Floor()
	}
	return decimal.Zero
}
