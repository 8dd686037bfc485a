package games

import (
	"math"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMinesMultiplier(t *testing.T) {
	// one safe reveal with 3 mines: 25/22 scaled by the house edge
	want := 25.0 / 22.0 * 0.97
	got, _ := MinesMultiplier(1, 3).Float64()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("MinesMultiplier(1, 3) = %v, want %v", got, want)
	}

	// strictly monotonic in the number of safe reveals
	prev := decimal.Zero
	for k := 1; k <= 22; k++ {
		m := MinesMultiplier(k, 3)
		if !m.GreaterThan(prev) {
			t.Fatalf("multiplier not increasing at k=%d: %s <= %s", k, m, prev)
		}
		prev = m
	}
}

func TestMinesGridInvariant(t *testing.T) {
	for _, mineCount := range []int{1, 3, 10, 24} {
		g := NewMines(rand.New(rand.NewSource(int64(mineCount))), mineCount)
		if err := g.Start(decimal.NewFromInt(25)); err != nil {
			t.Fatalf("Start: %v", err)
		}
		cells := g.MineCells()
		if len(cells) != mineCount {
			t.Errorf("mineCount=%d: |mineSet| = %d", mineCount, len(cells))
		}
		seen := map[int]bool{}
		for _, c := range cells {
			if c < 0 || c >= MinesGridSize {
				t.Errorf("mine cell %d out of range", c)
			}
			if seen[c] {
				t.Errorf("duplicate mine cell %d", c)
			}
			seen[c] = true
		}
	}
}

func TestMinesRevealAndCashOut(t *testing.T) {
	g := NewMines(rand.New(rand.NewSource(5)), 3)
	stake := decimal.NewFromInt(25)
	if err := g.Start(stake); err != nil {
		t.Fatalf("Start: %v", err)
	}

	mined := map[int]bool{}
	for _, c := range g.MineCells() {
		mined[c] = true
	}

	prev := decimal.NewFromInt(1)
	revealed := 0
	for cell := 0; cell < MinesGridSize && revealed < 3; cell++ {
		if mined[cell] {
			continue
		}
		if err := g.Reveal(cell); err != nil {
			t.Fatalf("Reveal(%d): %v", cell, err)
		}
		revealed++
		if g.Status() != MinesActive {
			t.Fatalf("safe reveal ended the round")
		}
		if !g.Multiplier().GreaterThan(prev) {
			t.Fatalf("multiplier did not grow after reveal %d", revealed)
		}
		prev = g.Multiplier()
	}
	if g.SafeReveals() != revealed {
		t.Errorf("SafeReveals = %d, want %d", g.SafeReveals(), revealed)
	}

	if err := g.CashOut(); err != nil {
		t.Fatalf("CashOut: %v", err)
	}
	want := stake.Mul(g.Multiplier()).Floor()
	if !g.Payout().Equal(want) {
		t.Errorf("payout = %s, want %s", g.Payout(), want)
	}
	if g.Status() != MinesCashedOut || !g.Settled() {
		t.Errorf("status = %v after cashout", g.Status())
	}
}

func TestMinesHazardForfeitsStake(t *testing.T) {
	g := NewMines(rand.New(rand.NewSource(9)), 5)
	if err := g.Start(decimal.NewFromInt(10)); err != nil {
		t.Fatalf("Start: %v", err)
	}
	mine := g.MineCells()[0]
	if err := g.Reveal(mine); err != nil {
		t.Fatalf("Reveal: %v", err)
	}
	if g.Status() != MinesGameOver {
		t.Fatalf("status = %v after hazard, want game over", g.Status())
	}
	if !g.Payout().IsZero() {
		t.Errorf("payout = %s after hazard, want 0", g.Payout())
	}

	// nothing is retryable once a hazard is hit
	if err := g.Reveal((mine + 1) % MinesGridSize); err != ErrInvalidTransition {
		t.Errorf("Reveal after game over: err = %v", err)
	}
	if err := g.CashOut(); err != ErrInvalidTransition {
		t.Errorf("CashOut after game over: err = %v", err)
	}
}

func TestMinesImmediateCashOut(t *testing.T) {
	g := NewMines(rand.New(rand.NewSource(2)), 3)
	stake := decimal.NewFromInt(40)
	if err := g.Start(stake); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := g.CashOut(); err != nil {
		t.Fatalf("CashOut: %v", err)
	}
	// zero reveals settles at the starting multiplier of 1
	if !g.Payout().Equal(stake) {
		t.Errorf("payout = %s, want %s", g.Payout(), stake)
	}
}

func TestMinesNoOps(t *testing.T) {
	g := NewMines(rand.New(rand.NewSource(1)), 3)

	if err := g.Reveal(0); err != ErrInvalidTransition {
		t.Errorf("Reveal while idle: err = %v", err)
	}
	if err := g.CashOut(); err != ErrInvalidTransition {
		t.Errorf("CashOut while idle: err = %v", err)
	}
	if err := g.Start(decimal.NewFromFloat(0.05)); err != ErrInvalidStake {
		t.Errorf("Start below minimum: err = %v", err)
	}
	if g.Status() != MinesIdle {
		t.Errorf("status = %v, want idle", g.Status())
	}

	if err := g.Start(decimal.NewFromInt(5)); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := g.Reveal(-1); err != ErrInvalidTransition {
		t.Errorf("Reveal(-1): err = %v", err)
	}
	if err := g.Reveal(MinesGridSize); err != ErrInvalidTransition {
		t.Errorf("Reveal(25): err = %v", err)
	}
}
