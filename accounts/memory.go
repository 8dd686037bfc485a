package accounts

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// MemoryStore is an in-process account store used by tests and by the
// offline/guest mode. Same contract as the postgres-backed store: atomic
// delta application clamped at zero, snapshot fan-out on change.
type MemoryStore struct {
	mu       sync.Mutex
	profiles map[uint]Profile
	subs     map[uint]map[uint64]func(Profile)
	nextSub  uint64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[uint]Profile),
		subs:     make(map[uint]map[uint64]func(Profile)),
	}
}

// Seed registers an account with a starting balance.
func (s *MemoryStore) Seed(profile Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = profile
}

func (s *MemoryStore) GetProfile(_ context.Context, userID uint) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return profile, nil
}

func (s *MemoryStore) SubscribeProfile(userID uint, onChange func(Profile)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs[userID] == nil {
		s.subs[userID] = make(map[uint64]func(Profile))
	}
	id := s.nextSub
	s.nextSub++
	s.subs[userID][id] = onChange

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs[userID], id)
		if len(s.subs[userID]) == 0 {
			delete(s.subs, userID)
		}
	}
}

func (s *MemoryStore) ApplyBalanceDelta(_ context.Context, userID uint, delta decimal.Decimal) error {
	s.mu.Lock()
	profile, ok := s.profiles[userID]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	profile.Balance = profile.Balance.Add(delta)
	if profile.Balance.IsNegative() {
		profile.Balance = decimal.Zero
	}
	if delta.IsPositive() {
		profile.LastWin = delta
	}
	s.profiles[userID] = profile

	callbacks := make([]func(Profile), 0, len(s.subs[userID]))
	for _, fn := range s.subs[userID] {
		callbacks = append(callbacks, fn)
	}
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn(profile)
	}
	return nil
}
