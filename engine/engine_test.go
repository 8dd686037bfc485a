package engine

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nampwaztaken/skycast-ultra-casino/accounts"
	"github.com/nampwaztaken/skycast-ultra-casino/db"
	"github.com/nampwaztaken/skycast-ultra-casino/games"
)

type roundLog struct {
	mu     sync.Mutex
	rounds []db.Round
}

func (r *roundLog) CreateRound(round *db.Round) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	round.ID = uint(len(r.rounds) + 1)
	r.rounds = append(r.rounds, *round)
	return nil
}

func (r *roundLog) snapshot() []db.Round {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]db.Round(nil), r.rounds...)
}

func (r *roundLog) waitFor(t *testing.T, n int) []db.Round {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		rounds := r.snapshot()
		if len(rounds) >= n {
			return rounds
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d settled rounds, have %d", n, len(r.snapshot()))
	return nil
}

func newTestSession(t *testing.T, balance int64, seed int64) (*Session, *accounts.MemoryStore, *roundLog) {
	t.Helper()
	store := accounts.NewMemoryStore()
	store.Seed(accounts.Profile{UserID: 1, Username: "guest", Balance: decimal.NewFromInt(balance)})
	recorder := &roundLog{}

	rng := rand.New(rand.NewSource(seed))
	session, err := NewSession(context.Background(), store, recorder, nil, nil, 1, "guest",
		func() games.Rand { return rng }, nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	session.plinkoTick = 0
	session.dealerTick = 0
	return session, store, recorder
}

func TestSessionMinesImmediateCashout(t *testing.T) {
	ctx := context.Background()
	session, store, recorder := newTestSession(t, 1000, 1)

	state := session.StartMines(ctx, decimal.NewFromInt(10), 3)
	if state.Status != "active" {
		t.Fatalf("status = %s, want active", state.Status)
	}
	if !session.Balance().Equal(decimal.NewFromInt(990)) {
		t.Errorf("balance after debit = %s, want 990", session.Balance())
	}

	state = session.CashOutMines(ctx)
	if state.Status != "cashed_out" {
		t.Fatalf("status = %s, want cashed_out", state.Status)
	}
	// Multiplier is 1 before any reveal, so cashing out returns the stake.
	if !state.Payout.Equal(decimal.NewFromInt(10)) {
		t.Errorf("payout = %s, want 10", state.Payout)
	}
	if len(state.Mines) != 3 {
		t.Errorf("revealed %d mine cells, want 3", len(state.Mines))
	}
	if !session.Balance().Equal(decimal.NewFromInt(1000)) {
		t.Errorf("balance = %s, want 1000", session.Balance())
	}
	remote, _ := store.GetProfile(ctx, 1)
	if !remote.Balance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("remote = %s, want 1000", remote.Balance)
	}

	rounds := recorder.snapshot()
	if len(rounds) != 1 || rounds[0].Game != "mines" {
		t.Fatalf("rounds = %+v, want one mines round", rounds)
	}
}

func TestSessionMinesInvalidStakeIsNoop(t *testing.T) {
	ctx := context.Background()
	session, _, recorder := newTestSession(t, 1000, 1)

	state := session.StartMines(ctx, decimal.NewFromFloat(0.05), 3)
	if state.Status != "idle" {
		t.Errorf("status = %s, want idle", state.Status)
	}
	if !session.Balance().Equal(decimal.NewFromInt(1000)) {
		t.Errorf("balance = %s, want untouched 1000", session.Balance())
	}
	if len(recorder.snapshot()) != 0 {
		t.Error("rejected start recorded a round")
	}
}

func TestSessionInsufficientBalanceIsNoop(t *testing.T) {
	ctx := context.Background()
	session, _, _ := newTestSession(t, 5, 1)

	state := session.StartBlackjack(ctx, decimal.NewFromInt(10))
	if state.Status != "idle" {
		t.Errorf("status = %s, want idle", state.Status)
	}
	if !session.Balance().Equal(decimal.NewFromInt(5)) {
		t.Errorf("balance = %s, want untouched 5", session.Balance())
	}
}

func TestSessionActionsBeforeStartAreNoops(t *testing.T) {
	ctx := context.Background()
	session, _, recorder := newTestSession(t, 1000, 1)

	if state := session.RevealMine(ctx, 4); state.Status != "idle" {
		t.Errorf("mines status = %s, want idle", state.Status)
	}
	if state := session.DrawPoker(ctx); state.Status != "idle" {
		t.Errorf("poker status = %s, want idle", state.Status)
	}
	if state := session.HitBlackjack(ctx); state.Status != "idle" {
		t.Errorf("blackjack status = %s, want idle", state.Status)
	}
	if len(recorder.snapshot()) != 0 {
		t.Error("no-op actions recorded rounds")
	}
}

// Whatever the outcome, the balance after a settled round equals
// balance - stake + payout.
func TestSessionBlackjackBalanceConservation(t *testing.T) {
	ctx := context.Background()
	for seed := int64(0); seed < 20; seed++ {
		session, store, recorder := newTestSession(t, 1000, seed)

		state := session.StartBlackjack(ctx, decimal.NewFromInt(10))
		if state.Status != "player_turn" {
			t.Fatalf("seed %d: status = %s, want player_turn", seed, state.Status)
		}
		if !state.HoleHidden || len(state.Dealer) != 1 {
			t.Fatalf("seed %d: hole card exposed during player turn", seed)
		}
		session.StandBlackjack(ctx)

		rounds := recorder.waitFor(t, 1)
		want := decimal.NewFromInt(1000).Sub(rounds[0].Stake).Add(rounds[0].Payout)
		remote, _ := store.GetProfile(ctx, 1)
		if !remote.Balance.Equal(want) {
			t.Errorf("seed %d: remote = %s, want %s", seed, remote.Balance, want)
		}
		if !session.Balance().Equal(want) {
			t.Errorf("seed %d: mirror = %s, want %s", seed, session.Balance(), want)
		}
	}
}

func TestSessionPokerRound(t *testing.T) {
	ctx := context.Background()
	session, store, recorder := newTestSession(t, 1000, 3)

	state := session.DealPoker(ctx, decimal.NewFromInt(10))
	if state.Status != "dealt" || len(state.Hand) != 5 {
		t.Fatalf("state = %+v, want 5 dealt cards", state)
	}
	session.TogglePokerHold(0)
	session.TogglePokerHold(2)
	state = session.DrawPoker(ctx)
	if state.Status != "settled" || state.Category == "" {
		t.Fatalf("state = %+v, want settled with category", state)
	}

	rounds := recorder.snapshot()
	if len(rounds) != 1 || rounds[0].Game != "poker" {
		t.Fatalf("rounds = %+v, want one poker round", rounds)
	}
	want := decimal.NewFromInt(990).Add(rounds[0].Payout)
	remote, _ := store.GetProfile(ctx, 1)
	if !remote.Balance.Equal(want) {
		t.Errorf("remote = %s, want %s", remote.Balance, want)
	}
}

func TestSessionSlotsRound(t *testing.T) {
	ctx := context.Background()
	session, store, recorder := newTestSession(t, 1000, 5)

	result, ok := session.SpinSlots(ctx, decimal.NewFromInt(10))
	if !ok {
		t.Fatal("spin rejected")
	}
	for _, reel := range result.Reels {
		if reel == "" {
			t.Fatalf("reels = %v, want named symbols", result.Reels)
		}
	}

	rounds := recorder.snapshot()
	if len(rounds) != 1 || rounds[0].Game != "slots" {
		t.Fatalf("rounds = %+v, want one slots round", rounds)
	}
	want := decimal.NewFromInt(990).Add(result.Payout)
	remote, _ := store.GetProfile(ctx, 1)
	if !remote.Balance.Equal(want) {
		t.Errorf("remote = %s, want %s", remote.Balance, want)
	}
}

// Several balls in flight settle independently; their deltas commute, so the
// final balance does not depend on settlement order.
func TestSessionConcurrentPlinkoDrops(t *testing.T) {
	ctx := context.Background()
	store := accounts.NewMemoryStore()
	store.Seed(accounts.Profile{UserID: 1, Username: "guest", Balance: decimal.NewFromInt(1000)})
	recorder := &roundLog{}

	var mu sync.Mutex
	seeds := rand.New(rand.NewSource(9))
	session, err := NewSession(context.Background(), store, recorder, nil, nil, 1, "guest",
		func() games.Rand {
			mu.Lock()
			defer mu.Unlock()
			return rand.New(rand.NewSource(seeds.Int63()))
		}, nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	session.plinkoTick = 0

	const drops = 10
	stake := decimal.NewFromInt(10)
	for i := 0; i < drops; i++ {
		if !session.DropBall(ctx, stake, 8, games.PlinkoMedium) {
			t.Fatalf("drop %d rejected", i)
		}
	}

	rounds := recorder.waitFor(t, drops)
	total := decimal.NewFromInt(1000).Sub(stake.Mul(decimal.NewFromInt(drops)))
	for _, round := range rounds {
		if round.Game != "plinko" {
			t.Fatalf("round game = %s, want plinko", round.Game)
		}
		total = total.Add(round.Payout)
	}
	remote, _ := store.GetProfile(ctx, 1)
	if !remote.Balance.Equal(total) {
		t.Errorf("remote = %s, want %s", remote.Balance, total)
	}
}

func TestSessionRejectsOverlappingMinesRounds(t *testing.T) {
	ctx := context.Background()
	session, _, _ := newTestSession(t, 1000, 1)

	session.StartMines(ctx, decimal.NewFromInt(10), 3)
	state := session.StartMines(ctx, decimal.NewFromInt(10), 3)
	if state.Status != "active" {
		t.Fatalf("status = %s, want active", state.Status)
	}
	// Only one stake was taken.
	if !session.Balance().Equal(decimal.NewFromInt(990)) {
		t.Errorf("balance = %s, want 990", session.Balance())
	}
}
