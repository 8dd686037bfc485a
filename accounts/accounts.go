// Package accounts is the port to the externally-held account state. The
// engine never owns the authoritative balance; it only reads snapshots and
// emits signed deltas for the store to apply atomically.
package accounts

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("account not found")

type Profile struct {
	UserID   uint
	Username string
	Balance  decimal.Decimal
	LastWin  decimal.Decimal
}

type Store interface {
	GetProfile(ctx context.Context, userID uint) (Profile, error)
	// SubscribeProfile pushes a snapshot on every balance change. The
	// returned function must be called on teardown to avoid leaking the
	// subscription.
	SubscribeProfile(userID uint, onChange func(Profile)) (unsubscribe func())
	// ApplyBalanceDelta adjusts the stored balance by a signed amount. The
	// stored value never goes below zero.
	ApplyBalanceDelta(ctx context.Context, userID uint, delta decimal.Decimal) error
}
