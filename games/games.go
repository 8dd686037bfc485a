package games

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidStake is returned when a round is started with a stake at or
	// below the game minimum. The round layer treats it as a no-op.
	ErrInvalidStake = errors.New("invalid stake")
	// ErrInvalidTransition is returned when an action is invoked in a state
	// that does not accept it. The round layer treats it as a no-op.
	ErrInvalidTransition = errors.New("invalid transition")
)

// Rand is the randomness source behind every outcome. *math/rand.Rand
// satisfies it directly; the engine package provides a blake2b-backed
// implementation for provably-fair streams.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Game is the common round lifecycle every mini-game implements. A game owns
// its round data exclusively from Start until settlement; decision actions
// are game-specific methods on the concrete types.
type Game interface {
	Start(stake decimal.Decimal) error
	Settled() bool
	Payout() decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// floorCents rounds a payout down to two decimal places.
func floorCents(d decimal.Decimal) decimal.Decimal {
	return d.Mul(hundred).Floor().Div(hundred)
}
