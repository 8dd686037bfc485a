package games

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSlotsPayouts(t *testing.T) {
	stake := decimal.NewFromInt(20)
	tests := []struct {
		name  string
		reels [3]int
		want  decimal.Decimal
	}{
		{"triple sevens", [3]int{4, 4, 4}, stake.Mul(decimal.NewFromInt(100))},
		{"triple cherries", [3]int{0, 0, 0}, stake.Mul(decimal.NewFromInt(25))},
		{"leading pair", [3]int{1, 1, 5}, decimal.NewFromInt(50)},
		{"trailing pair", [3]int{3, 6, 6}, decimal.NewFromInt(50)},
		{"outer pair", [3]int{2, 8, 2}, decimal.NewFromInt(50)},
		{"no match", [3]int{0, 1, 2}, decimal.Zero},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := slotsPayout(stake, tt.reels); !got.Equal(tt.want) {
				t.Errorf("slotsPayout(%v) = %s, want %s", tt.reels, got, tt.want)
			}
		})
	}
}

func TestSlotsPairPayoutFloors(t *testing.T) {
	// 2.5x of an odd stake rounds down
	got := slotsPayout(decimal.NewFromInt(21), [3]int{1, 1, 5})
	if !got.Equal(decimal.NewFromInt(52)) {
		t.Errorf("pair payout = %s, want 52", got)
	}
}

func TestSlotsSpin(t *testing.T) {
	g := NewSlots(rand.New(rand.NewSource(6)))
	if err := g.Start(decimal.Zero); err != ErrInvalidStake {
		t.Errorf("Start(0): err = %v", err)
	}
	if g.Settled() {
		t.Error("settled after rejected stake")
	}

	stake := decimal.NewFromInt(20)
	if err := g.Start(stake); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !g.Settled() {
		t.Fatal("spin did not settle")
	}
	for _, r := range g.Reels() {
		if r < 0 || r >= len(SlotSymbols) {
			t.Errorf("reel index %d out of range", r)
		}
	}
	if !g.Payout().Equal(slotsPayout(stake, g.Reels())) {
		t.Errorf("payout = %s inconsistent with reels %v", g.Payout(), g.Reels())
	}
}
