package games

import (
	"sort"

	"github.com/shopspring/decimal"
)

const (
	MinesGridSize = 25
	MinesMin      = 1
	MinesMax      = 24
)

// MinesHouseEdge scales every recomputed multiplier.
var MinesHouseEdge = decimal.NewFromFloat(0.97)

var minesMinStake = decimal.NewFromFloat(0.1)

type MinesStatus int

const (
	MinesIdle MinesStatus = iota
	MinesActive
	MinesGameOver
	MinesCashedOut
)

func (s MinesStatus) String() string {
	switch s {
	case MinesActive:
		return "active"
	case MinesGameOver:
		return "game_over"
	case MinesCashedOut:
		return "cashed_out"
	}
	return "idle"
}

// Mines is a 25-cell grid round. Mine positions are drawn once at Start,
// uniformly without replacement; revealing a mined cell forfeits the stake,
// cashing out pays floor(stake * multiplier).
type Mines struct {
	rng        Rand
	status     MinesStatus
	stake      decimal.Decimal
	mineCount  int
	mines      map[int]bool
	revealed   map[int]bool
	multiplier decimal.Decimal
	payout     decimal.Decimal
}

func NewMines(rng Rand, mineCount int) *Mines {
	if mineCount < MinesMin {
		mineCount = MinesMin
	}
	if mineCount > MinesMax {
		mineCount = MinesMax
	}
	return &Mines{rng: rng, mineCount: mineCount, multiplier: decimal.NewFromInt(1)}
}

func (g *Mines) Start(stake decimal.Decimal) error {
	if g.status == MinesActive {
		return ErrInvalidTransition
	}
	if stake.LessThan(minesMinStake) {
		return ErrInvalidStake
	}

	mines := make(map[int]bool, g.mineCount)
	for len(mines) < g.mineCount {
		mines[g.rng.Intn(MinesGridSize)] = true
	}

	g.stake = stake
	g.mines = mines
	g.revealed = make(map[int]bool, MinesGridSize)
	g.multiplier = decimal.NewFromInt(1)
	g.payout = decimal.Zero
	g.status = MinesActive
	return nil
}

// Reveal uncovers a cell. Safe cells recompute the running multiplier, a mine
// ends the round immediately with no payout. Revealing an already-open cell
// is a no-op.
func (g *Mines) Reveal(cell int) error {
	if g.status != MinesActive {
		return ErrInvalidTransition
	}
	if cell < 0 || cell >= MinesGridSize || g.revealed[cell] {
		return ErrInvalidTransition
	}

	g.revealed[cell] = true
	if g.mines[cell] {
		g.status = MinesGameOver
		g.payout = decimal.Zero
		return nil
	}

	g.multiplier = MinesMultiplier(len(g.revealed), g.mineCount)
	return nil
}

// CashOut settles the round at the current multiplier. Allowed after any
// number of safe reveals, including zero.
func (g *Mines) CashOut() error {
	if g.status != MinesActive {
		return ErrInvalidTransition
	}
	g.payout = g.stake.Mul(g.multiplier).Floor()
	g.status = MinesCashedOut
	return nil
}

func (g *Mines) Settled() bool {
	return g.status == MinesGameOver || g.status == MinesCashedOut
}

func (g *Mines) Payout() decimal.Decimal { return g.payout }

func (g *Mines) Status() MinesStatus { return g.status }

func (g *Mines) Multiplier() decimal.Decimal { return g.multiplier }

// SafeReveals reports how many safe cells are currently open.
func (g *Mines) SafeReveals() int {
	n := 0
	for cell := range g.revealed {
		if !g.mines[cell] {
			n++
		}
	}
	return n
}

// MineCells returns the mined cell indices. Exposed so the round layer can
// publish the full grid after game over or cashout.
func (g *Mines) MineCells() []int {
	cells := make([]int, 0, len(g.mines))
	for cell := range g.mines {
		cells = append(cells, cell)
	}
	sort.Ints(cells)
	return cells
}

// RevealedCells returns the opened cell indices in grid order.
func (g *Mines) RevealedCells() []int {
	cells := make([]int, 0, len(g.revealed))
	for cell := range g.revealed {
		cells = append(cells, cell)
	}
	sort.Ints(cells)
	return cells
}

// MinesMultiplier is the fair multiplier after k safe reveals with m mines on
// a 25-cell grid, prod_{i<k} (25-i)/(25-m-i), scaled by the house edge.
func MinesMultiplier(k, m int) decimal.Decimal {
	mult := decimal.NewFromInt(1)
	for i := 0; i < k; i++ {
		num := decimal.NewFromInt(int64(MinesGridSize - i))
		den := decimal.NewFromInt(int64(MinesGridSize - m - i))
		mult = mult.Mul(num).DivRound(den, 12)
	}
	return mult.Mul(MinesHouseEdge)
}
