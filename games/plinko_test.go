package games

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

func TestPlinkoMultipliersSymmetric(t *testing.T) {
	for _, risk := range []PlinkoRisk{PlinkoLow, PlinkoMedium, PlinkoHigh} {
		for rows := PlinkoMinRows; rows <= PlinkoMaxRows; rows++ {
			m := PlinkoMultipliers(rows, risk)
			if len(m) != rows+1 {
				t.Fatalf("%v rows=%d: %d buckets, want %d", risk, rows, len(m), rows+1)
			}
			for i := 0; i < len(m)/2; i++ {
				if !m[i].Equal(m[len(m)-1-i]) {
					t.Errorf("%v rows=%d: bucket %d=%s mirror=%s", risk, rows, i, m[i], m[len(m)-1-i])
				}
			}
			// edges pay the most, the center the least
			center := m[len(m)/2]
			if !m[0].GreaterThan(center) {
				t.Errorf("%v rows=%d: edge %s not above center %s", risk, rows, m[0], center)
			}
		}
	}
}

// Boards whose bucket count does not divide the base table evenly must still
// resample to mirrored values, not drift apart near the edges.
func TestPlinkoMultipliersResampleMirrors(t *testing.T) {
	m := PlinkoMultipliers(9, PlinkoHigh)
	if len(m) != 10 {
		t.Fatalf("buckets = %d, want 10", len(m))
	}
	if !m[1].Equal(m[8]) {
		t.Errorf("bucket 1 = %s, mirror bucket 8 = %s", m[1], m[8])
	}
	if !m[1].Equal(decimal.NewFromInt(250)) {
		t.Errorf("bucket 1 = %s, want the 250 tier from the base table", m[1])
	}
	if !m[2].Equal(m[7]) {
		t.Errorf("bucket 2 = %s, mirror bucket 7 = %s", m[2], m[7])
	}
}

func TestPlinkoDeterministicUnderSeed(t *testing.T) {
	stake := decimal.NewFromInt(10)
	run := func(seed int64) (int, decimal.Decimal) {
		g := NewPlinko(rand.New(rand.NewSource(seed)), 16, PlinkoMedium)
		ball, err := g.Drop(stake)
		if err != nil {
			t.Fatalf("Drop: %v", err)
		}
		g.Run(ball)
		return ball.Bucket(), ball.Payout()
	}
	for seed := int64(0); seed < 10; seed++ {
		b1, p1 := run(seed)
		b2, p2 := run(seed)
		if b1 != b2 || !p1.Equal(p2) {
			t.Errorf("seed %d: replay diverged: bucket %d/%d payout %s/%s", seed, b1, b2, p1, p2)
		}
	}
}

func TestPlinkoBallSettles(t *testing.T) {
	g := NewPlinko(rand.New(rand.NewSource(42)), 12, PlinkoHigh)
	ball, err := g.Drop(decimal.NewFromInt(5))
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}

	ticks := 0
	for !g.Step(ball) {
		ticks++
		if ticks > 100000 {
			t.Fatal("ball never settled")
		}
	}
	if ball.Bucket() < 0 || ball.Bucket() >= len(g.Multipliers()) {
		t.Errorf("bucket %d out of range", ball.Bucket())
	}
	want := floorCents(decimal.NewFromInt(5).Mul(g.Multipliers()[ball.Bucket()]))
	if !ball.Payout().Equal(want) {
		t.Errorf("payout = %s, want %s", ball.Payout(), want)
	}

	// stepping a settled ball changes nothing
	x, payout := ball.X, ball.Payout()
	if !g.Step(ball) {
		t.Error("Step on settled ball returned false")
	}
	if ball.X != x || !ball.Payout().Equal(payout) {
		t.Error("settled ball mutated by Step")
	}
}

// Balls are independent rounds: the net delta of a batch equals the sum of
// each ball replayed in isolation.
func TestPlinkoDeltasCommute(t *testing.T) {
	stake := decimal.NewFromInt(10)

	batch := decimal.Zero
	for seed := int64(0); seed < 8; seed++ {
		g := NewPlinko(rand.New(rand.NewSource(seed)), 16, PlinkoLow)
		ball, err := g.Drop(stake)
		if err != nil {
			t.Fatalf("Drop: %v", err)
		}
		g.Run(ball)
		batch = batch.Add(ball.Payout().Sub(stake))
	}

	replayed := decimal.Zero
	for seed := int64(7); seed >= 0; seed-- {
		g := NewPlinko(rand.New(rand.NewSource(seed)), 16, PlinkoLow)
		ball, err := g.Drop(stake)
		if err != nil {
			t.Fatalf("Drop: %v", err)
		}
		g.Run(ball)
		replayed = replayed.Add(ball.Payout().Sub(stake))
	}

	if !batch.Equal(replayed) {
		t.Errorf("batch delta %s != replayed delta %s", batch, replayed)
	}
}

func TestPlinkoLanding(t *testing.T) {
	g := NewPlinko(rand.New(rand.NewSource(1)), 16, PlinkoMedium)
	buckets := len(g.Multipliers())

	if got := g.Landing(0); got != 0 {
		t.Errorf("Landing(0) = %d, want clamp to 0", got)
	}
	if got := g.Landing(100); got != buckets-1 {
		t.Errorf("Landing(100) = %d, want clamp to %d", got, buckets-1)
	}
	center := g.Landing(50)
	if center != buckets/2 {
		t.Errorf("Landing(50) = %d, want %d", center, buckets/2)
	}
}

func TestPlinkoRejectsLowStake(t *testing.T) {
	g := NewPlinko(rand.New(rand.NewSource(1)), 16, PlinkoMedium)
	if _, err := g.Drop(decimal.Zero); err != ErrInvalidStake {
		t.Errorf("Drop(0): err = %v, want ErrInvalidStake", err)
	}
}

func TestPlinkoRowClamping(t *testing.T) {
	g := NewPlinko(rand.New(rand.NewSource(1)), 50, PlinkoLow)
	if g.Rows() != PlinkoMaxRows {
		t.Errorf("rows = %d, want clamp to %d", g.Rows(), PlinkoMaxRows)
	}
	g = NewPlinko(rand.New(rand.NewSource(1)), 1, PlinkoLow)
	if g.Rows() != PlinkoMinRows {
		t.Errorf("rows = %d, want clamp to %d", g.Rows(), PlinkoMinRows)
	}
}
