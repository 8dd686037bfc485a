package games

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

func TestHandValue(t *testing.T) {
	tests := []struct {
		name string
		hand []Card
		want int
	}{
		{"ace king is natural 21", []Card{{Spades, "A", 11}, {Hearts, "K", 10}}, 21},
		{"hard twenty", []Card{{Spades, "K", 10}, {Hearts, "Q", 10}}, 20},
		{"soft seventeen", []Card{{Spades, "A", 11}, {Hearts, "6", 6}}, 17},
		{"ace downgrades once", []Card{{Spades, "A", 11}, {Hearts, "9", 9}, {Clubs, "5", 5}}, 15},
		{"two aces downgrade", []Card{{Spades, "A", 11}, {Hearts, "A", 11}, {Clubs, "9", 9}}, 21},
		{"all aces exhausted", []Card{{Spades, "A", 11}, {Hearts, "A", 11}, {Clubs, "K", 10}, {Diamonds, "Q", 10}}, 22},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HandValue(tt.hand); got != tt.want {
				t.Errorf("HandValue() = %d, want %d", got, tt.want)
			}
		})
	}
}

func playRound(t *testing.T, seed int64, stake decimal.Decimal) *Blackjack {
	t.Helper()
	g := NewBlackjack(rand.New(rand.NewSource(seed)))
	if err := g.Start(stake); err != nil {
		t.Fatalf("seed %d: Start: %v", seed, err)
	}
	if err := g.Stand(); err != nil {
		t.Fatalf("seed %d: Stand: %v", seed, err)
	}
	for !g.StepDealer() {
	}
	return g
}

// Settlement table: natural pays floor(stake*2.5), other wins 2x, push
// returns the stake, losses nothing.
func TestBlackjackSettlement(t *testing.T) {
	stake := decimal.NewFromInt(101)
	results := map[BlackjackResult]bool{}

	for seed := int64(0); seed < 400; seed++ {
		g := playRound(t, seed, stake)
		results[g.Result()] = true

		ps := HandValue(g.PlayerHand())
		ds := HandValue(g.DealerHand())
		if ds < 17 {
			t.Fatalf("seed %d: dealer stopped at %d", seed, ds)
		}

		var want decimal.Decimal
		switch g.Result() {
		case BlackjackNatural:
			if ps != 21 || len(g.PlayerHand()) != 2 {
				t.Fatalf("seed %d: natural with hand %v", seed, g.PlayerHand())
			}
			want = stake.Mul(decimal.NewFromFloat(2.5)).Floor()
		case BlackjackWin:
			if !(ds > 21 || ps > ds) {
				t.Fatalf("seed %d: win with player %d dealer %d", seed, ps, ds)
			}
			want = stake.Mul(decimal.NewFromInt(2))
		case BlackjackPush:
			if ps != ds {
				t.Fatalf("seed %d: push with player %d dealer %d", seed, ps, ds)
			}
			want = stake
		case BlackjackLoss:
			if !(ds > ps && ds <= 21) {
				t.Fatalf("seed %d: loss with player %d dealer %d", seed, ps, ds)
			}
			want = decimal.Zero
		default:
			t.Fatalf("seed %d: unexpected result %v", seed, g.Result())
		}
		if !g.Payout().Equal(want) {
			t.Errorf("seed %d: payout = %s, want %s (%v)", seed, g.Payout(), want, g.Result())
		}
	}

	for _, r := range []BlackjackResult{BlackjackWin, BlackjackLoss, BlackjackPush} {
		if !results[r] {
			t.Errorf("400 rounds never produced %v", r)
		}
	}
}

func TestBlackjackNaturalPaysFloor(t *testing.T) {
	stake := decimal.NewFromInt(101)
	found := false
	for seed := int64(0); seed < 3000 && !found; seed++ {
		g := playRound(t, seed, stake)
		if g.Result() == BlackjackNatural {
			found = true
			if !g.Payout().Equal(decimal.NewFromInt(252)) {
				t.Errorf("natural payout = %s, want 252", g.Payout())
			}
		}
	}
	if !found {
		t.Skip("no natural in 3000 seeded rounds")
	}
}

func TestBlackjackBustSettlesImmediately(t *testing.T) {
	g := NewBlackjack(rand.New(rand.NewSource(11)))
	if err := g.Start(decimal.NewFromInt(10)); err != nil {
		t.Fatalf("Start: %v", err)
	}
	// hitting from 21 or below always busts eventually
	for g.Status() == BlackjackPlayerTurn {
		if err := g.Hit(); err != nil {
			t.Fatalf("Hit: %v", err)
		}
	}
	if g.Status() != BlackjackSettled {
		t.Fatalf("status %v after hitting out", g.Status())
	}
	if HandValue(g.PlayerHand()) <= 21 {
		t.Fatalf("settled while hand is %d", HandValue(g.PlayerHand()))
	}
	if g.Result() != BlackjackBust || !g.Payout().IsZero() {
		t.Errorf("result %v payout %s, want bust 0", g.Result(), g.Payout())
	}
}

func TestBlackjackDeckInvariant(t *testing.T) {
	g := NewBlackjack(rand.New(rand.NewSource(3)))
	if err := g.Start(decimal.NewFromInt(10)); err != nil {
		t.Fatalf("Start: %v", err)
	}
	g.Hit()
	g.Stand()
	for !g.StepDealer() {
	}

	seen := map[Card]bool{}
	dealt := 0
	for _, c := range append(append([]Card{}, g.PlayerHand()...), g.DealerHand()...) {
		if seen[c] {
			t.Fatalf("duplicate card dealt: %s%s", c.Rank, c.Suit)
		}
		seen[c] = true
		dealt++
	}
	if len(g.deck) != 52-dealt {
		t.Errorf("deck holds %d cards after %d dealt, want %d", len(g.deck), dealt, 52-dealt)
	}
}

func TestBlackjackNoOps(t *testing.T) {
	g := NewBlackjack(rand.New(rand.NewSource(1)))

	if err := g.Hit(); err != ErrInvalidTransition {
		t.Errorf("Hit while idle: err = %v", err)
	}
	if err := g.Stand(); err != ErrInvalidTransition {
		t.Errorf("Stand while idle: err = %v", err)
	}
	if err := g.Start(decimal.Zero); err != ErrInvalidStake {
		t.Errorf("Start(0): err = %v", err)
	}
	if g.Status() != BlackjackIdle {
		t.Errorf("status = %v, want idle", g.Status())
	}

	if err := g.Start(decimal.NewFromInt(10)); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := g.Start(decimal.NewFromInt(10)); err != ErrInvalidTransition {
		t.Errorf("Start mid-round: err = %v", err)
	}
}
