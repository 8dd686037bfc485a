package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/nampwaztaken/skycast-ultra-casino/accounts"
)

// Mirror is a session's optimistic copy of the remotely-held balance. Stakes
// are admitted against the local copy first; the matching signed delta is
// then pushed to the account store. A failed remote write keeps the mirror
// and logs the error, so a flaky store degrades to local play instead of
// blocking the table.
type Mirror struct {
	userID uint
	store  accounts.Store

	mu      sync.Mutex
	balance decimal.Decimal
}

func NewMirror(ctx context.Context, store accounts.Store, userID uint) (*Mirror, error) {
	profile, err := store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Mirror{userID: userID, store: store, balance: profile.Balance}, nil
}

func (m *Mirror) Balance() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balance
}

// Debit admits a stake. False means the stake was non-positive or exceeded
// the mirrored balance; nothing is sent to the store in that case.
func (m *Mirror) Debit(ctx context.Context, stake decimal.Decimal) bool {
	m.mu.Lock()
	if !stake.IsPositive() || stake.GreaterThan(m.balance) {
		m.mu.Unlock()
		return false
	}
	m.balance = m.balance.Sub(stake)
	m.mu.Unlock()

	m.apply(ctx, stake.Neg())
	return true
}

// Credit applies a settlement payout. Zero payouts skip the remote write.
func (m *Mirror) Credit(ctx context.Context, payout decimal.Decimal) {
	if !payout.IsPositive() {
		return
	}
	m.mu.Lock()
	m.balance = m.balance.Add(payout)
	m.mu.Unlock()

	m.apply(ctx, payout)
}

func (m *Mirror) apply(ctx context.Context, delta decimal.Decimal) {
	if err := m.store.ApplyBalanceDelta(ctx, m.userID, delta); err != nil {
		slog.Error("Error applying balance delta",
			"userID", m.userID, "delta", delta, "err", err)
	}
}

// Adopt replaces the mirror with a fresh remote snapshot.
func (m *Mirror) Adopt(profile accounts.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balance = profile.Balance
}
