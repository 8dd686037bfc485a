package games

import (
	"math"

	"github.com/shopspring/decimal"
)

type PlinkoRisk int

const (
	PlinkoLow PlinkoRisk = iota
	PlinkoMedium
	PlinkoHigh
)

func (r PlinkoRisk) String() string {
	switch r {
	case PlinkoLow:
		return "low"
	case PlinkoMedium:
		return "medium"
	case PlinkoHigh:
		return "high"
	}
	return "unknown"
}

const (
	PlinkoMinRows = 8
	PlinkoMaxRows = 16
)

// Base bucket multipliers for a 16-row board, 17 buckets per risk tier.
// Symmetric about the center; edges pay the most, the center the least.
// The center-loss shape is a deliberate design property of the board.
var plinkoBase = map[PlinkoRisk][]float64{
	PlinkoHigh:   {1000, 250, 50, 5, 1, 0.2, 0.1, 0.1, 0.1, 0.1, 0.1, 0.2, 1, 5, 50, 250, 1000},
	PlinkoMedium: {110, 33, 8, 2, 0.5, 0.3, 0.2, 0.1, 0.1, 0.1, 0.2, 0.3, 0.5, 2, 8, 33, 110},
	PlinkoLow:    {10, 5, 2, 1.1, 0.8, 0.5, 0.3, 0.2, 0.2, 0.2, 0.3, 0.5, 0.8, 1.1, 2, 5, 10},
}

// PlinkoMultipliers resamples the 16-row base table down to rows+1 buckets.
// Indices are computed for the left half and mirrored, so the result stays
// symmetric about the center for every board size.
func PlinkoMultipliers(rows int, risk PlinkoRisk) []decimal.Decimal {
	base := plinkoBase[risk]
	count := rows + 1
	last := len(base) - 1
	result := make([]decimal.Decimal, count)
	for i := 0; i <= (count-1)/2; i++ {
		idx := int(math.Floor(float64(i) / float64(count-1) * float64(last)))
		result[i] = decimal.NewFromFloat(base[idx])
		result[count-1-i] = decimal.NewFromFloat(base[last-idx])
	}
	return result
}

// Board geometry, percent coordinates. Row r carries r+3 pegs spaced 4.2
// apart, centered on x=50; the ball settles once it crosses y=90.
const (
	plinkoGravity     = 0.0075
	plinkoFriction    = 0.985
	plinkoBounce      = 0.58
	plinkoPegSpacing  = 4.2
	plinkoPegRadius   = 1.3
	plinkoTopPadding  = 12.0
	plinkoBoardHeight = 85.0
	plinkoFloorY      = 90.0
)

var plinkoMinStake = decimal.NewFromFloat(0.1)

// Ball is one simulated drop. Balls are independent rounds: several may be in
// flight at once and their settlement deltas commute.
type Ball struct {
	X, Y   float64
	VX, VY float64

	stake   decimal.Decimal
	settled bool
	bucket  int
	payout  decimal.Decimal
}

func (b *Ball) Settled() bool           { return b.settled }
func (b *Ball) Bucket() int             { return b.bucket }
func (b *Ball) Payout() decimal.Decimal { return b.payout }
func (b *Ball) Stake() decimal.Decimal  { return b.stake }

// Plinko holds the board configuration shared by every ball in flight.
type Plinko struct {
	rng         Rand
	rows        int
	risk        PlinkoRisk
	multipliers []decimal.Decimal
}

func NewPlinko(rng Rand, rows int, risk PlinkoRisk) *Plinko {
	if rows < PlinkoMinRows {
		rows = PlinkoMinRows
	}
	if rows > PlinkoMaxRows {
		rows = PlinkoMaxRows
	}
	return &Plinko{
		rng:         rng,
		rows:        rows,
		risk:        risk,
		multipliers: PlinkoMultipliers(rows, risk),
	}
}

func (g *Plinko) Rows() int                      { return g.rows }
func (g *Plinko) Risk() PlinkoRisk               { return g.risk }
func (g *Plinko) Multipliers() []decimal.Decimal { return g.multipliers }

// Drop spawns a ball at the top of the board with jittered starting position
// and horizontal velocity. The stake is owed by the caller before the first
// tick.
func (g *Plinko) Drop(stake decimal.Decimal) (*Ball, error) {
	if stake.LessThan(plinkoMinStake) {
		return nil, ErrInvalidStake
	}
	return &Ball{
		X:     50 + (g.rng.Float64()-0.5)*0.001,
		Y:     0,
		VX:    (g.rng.Float64() - 0.5) * 0.005,
		VY:    0.04,
		stake: stake,
	}, nil
}

// Step advances the ball one simulation tick: gravity, peg collisions with a
// jittered elastic bounce, and wall clamps. Returns true once the ball has
// crossed the floor and the payout is fixed. Stepping a settled ball is a
// no-op.
func (g *Plinko) Step(b *Ball) bool {
	if b.settled {
		return true
	}

	b.VY += plinkoGravity
	b.X += b.VX
	b.Y += b.VY
	b.VX *= plinkoFriction

	verticalGap := (plinkoBoardHeight - plinkoTopPadding) / float64(g.rows+1)
	for r := 0; r < g.rows; r++ {
		rowY := plinkoTopPadding + float64(r+1)*verticalGap
		if math.Abs(b.Y-rowY) >= 1.0 {
			continue
		}
		pegCount := r + 3
		rowWidth := float64(pegCount-1) * plinkoPegSpacing
		startX := 50 - rowWidth/2
		for p := 0; p < pegCount; p++ {
			pegX := startX + float64(p)*plinkoPegSpacing
			dx := b.X - pegX
			dy := b.Y - rowY
			if math.Sqrt(dx*dx+dy*dy) >= plinkoPegRadius {
				continue
			}
			angle := math.Atan2(dy, dx)
			mag := math.Sqrt(b.VX*b.VX + b.VY*b.VY)
			force := math.Max(mag*plinkoBounce, 0.2)

			b.VX = math.Cos(angle)*force + (g.rng.Float64()-0.5)*0.015
			b.VY = math.Max(0.08, math.Sin(angle)*force+0.05)
			b.X += math.Cos(angle) * 0.2
			b.Y += math.Sin(angle) * 0.2
		}
	}

	if b.X < 2 {
		b.X = 2
		b.VX = math.Abs(b.VX) * 0.4
	}
	if b.X > 98 {
		b.X = 98
		b.VX = -math.Abs(b.VX) * 0.4
	}

	if b.Y > plinkoFloorY {
		b.bucket = g.Landing(b.X)
		mult := g.multipliers[b.bucket]
		b.payout = floorCents(b.stake.Mul(mult))
		b.settled = true
	}
	return b.settled
}

// Landing maps a final horizontal position to a bucket index by clamping to
// the bottom-row extent and slicing it into equal widths.
func (g *Plinko) Landing(x float64) int {
	lastPegCount := g.rows + 2
	rowWidth := float64(lastPegCount-1) * plinkoPegSpacing
	startX := 50 - rowWidth/2
	endX := 50 + rowWidth/2

	clamped := math.Max(startX, math.Min(endX, x))
	relative := (clamped - startX) / rowWidth
	idx := int(math.Floor(relative * float64(len(g.multipliers))))
	if idx < 0 {
		idx = 0
	}
	if idx > len(g.multipliers)-1 {
		idx = len(g.multipliers) - 1
	}
	return idx
}

// Run steps the ball to settlement and returns its payout. The interactive
// path ticks Step from a frame scheduler instead.
func (g *Plinko) Run(b *Ball) decimal.Decimal {
	for !g.Step(b) {
	}
	return b.payout
}
