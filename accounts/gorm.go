package accounts

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/nampwaztaken/skycast-ultra-casino/db"
)

// GormStore backs the account port with the postgres profile table. Deltas
// are applied in a single UPDATE clamped at zero, then the fresh snapshot is
// fanned out to subscribers.
type GormStore struct {
	db *db.DB

	mu      sync.Mutex
	subs    map[uint]map[uint64]func(Profile)
	nextSub uint64
}

func NewGormStore(database *db.DB) *GormStore {
	return &GormStore{
		db:   database,
		subs: make(map[uint]map[uint64]func(Profile)),
	}
}

func (s *GormStore) GetProfile(ctx context.Context, userID uint) (Profile, error) {
	profile, err := s.db.GetProfile(userID)
	if err == db.ErrNotFound {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, err
	}
	var user db.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		return Profile{}, err
	}
	return Profile{
		UserID:   userID,
		Username: user.Username,
		Balance:  profile.Balance,
		LastWin:  profile.LastWin,
	}, nil
}

func (s *GormStore) SubscribeProfile(userID uint, onChange func(Profile)) func() {
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

func (s *GormStore) ApplyBalanceDelta(ctx context.Context, userID uint, delta decimal.Decimal) error {
	profile, err := s.db.ApplyBalanceDelta(userID, delta)
	if err == db.ErrNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if delta.IsPositive() {
		if err := s.db.SetLastWin(userID, delta); err != nil {
			return err
		}
		profile.LastWin = delta
	}
	s.notify(Profile{
		UserID:  userID,
		Balance: profile.Balance,
		LastWin: profile.LastWin,
	})
	return nil
}

func (s *GormStore) notify(profile Profile) {
	s.mu.Lock()
	callbacks := make([]func(Profile), 0, len(s.subs[profile.UserID]))
	for _, fn := range s.subs[profile.UserID] {
		callbacks = append(callbacks, fn)
	}
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn(profile)
	}
}
