package games

import (
	"github.com/shopspring/decimal"
)

type BlackjackStatus int

const (
	BlackjackIdle BlackjackStatus = iota
	BlackjackPlayerTurn
	BlackjackDealerTurn
	BlackjackSettled
)

func (s BlackjackStatus) String() string {
	switch s {
	case BlackjackPlayerTurn:
		return "player_turn"
	case BlackjackDealerTurn:
		return "dealer_turn"
	case BlackjackSettled:
		return "settled"
	}
	return "idle"
}

type BlackjackResult int

const (
	BlackjackNone BlackjackResult = iota
	BlackjackBust
	BlackjackWin
	BlackjackNatural
	BlackjackLoss
	BlackjackPush
)

func (r BlackjackResult) String() string {
	switch r {
	case BlackjackBust:
		return "bust"
	case BlackjackWin:
		return "win"
	case BlackjackNatural:
		return "natural"
	case BlackjackLoss:
		return "loss"
	case BlackjackPush:
		return "push"
	}
	return "none"
}

var (
	blackjackMinStake = decimal.NewFromInt(1)
	naturalMultiplier = decimal.NewFromFloat(2.5)
	two               = decimal.NewFromInt(2)
)

// Blackjack is one dealt round against the house. The round owns its deck
// exclusively; a fresh shuffle happens per Start and no card repeats within
// the round.
type Blackjack struct {
	rng    Rand
	status BlackjackStatus
	stake  decimal.Decimal
	deck   []Card
	player []Card
	dealer []Card
	result BlackjackResult
	payout decimal.Decimal
}

func NewBlackjack(rng Rand) *Blackjack {
	return &Blackjack{rng: rng}
}

// Start shuffles a fresh deck and deals two cards each, player first.
func (g *Blackjack) Start(stake decimal.Decimal) error {
	if g.status == BlackjackPlayerTurn || g.status == BlackjackDealerTurn {
		return ErrInvalidTransition
	}
	if stake.LessThan(blackjackMinStake) {
		return ErrInvalidStake
	}

	deck := NewBlackjackDeck()
	Shuffle(deck, g.rng)

	g.stake = stake
	g.deck = deck
	g.player = []Card{dealCard(&g.deck)}
	g.dealer = []Card{dealCard(&g.deck)}
	g.player = append(g.player, dealCard(&g.deck))
	g.dealer = append(g.dealer, dealCard(&g.deck))
	g.result = BlackjackNone
	g.payout = decimal.Zero
	g.status = BlackjackPlayerTurn
	return nil
}

// Hit deals the player one card. Going past 21 settles an immediate loss.
func (g *Blackjack) Hit() error {
	if g.status != BlackjackPlayerTurn {
		return ErrInvalidTransition
	}
	g.player = append(g.player, dealCard(&g.deck))
	if HandValue(g.player) > 21 {
		g.result = BlackjackBust
		g.payout = decimal.Zero
		g.status = BlackjackSettled
	}
	return nil
}

// Stand hands the round to the dealer. The dealer is driven tick by tick via
// StepDealer so the scheduler above can pace the draws.
func (g *Blackjack) Stand() error {
	if g.status != BlackjackPlayerTurn {
		return ErrInvalidTransition
	}
	g.status = BlackjackDealerTurn
	return nil
}

// StepDealer draws one dealer card while the dealer hand is under 17, then
// settles. Returns true once the round is settled.
func (g *Blackjack) StepDealer() bool {
	if g.status != BlackjackDealerTurn {
		return g.status == BlackjackSettled
	}
	if HandValue(g.dealer) < 17 {
		g.dealer = append(g.dealer, dealCard(&g.deck))
		return false
	}
	g.settle()
	return true
}

func (g *Blackjack) settle() {
	ps := HandValue(g.player)
	ds := HandValue(g.dealer)
	switch {
	case ds > 21 || ps > ds:
		if ps == 21 && len(g.player) == 2 {
			g.result = BlackjackNatural
			g.payout = g.stake.Mul(naturalMultiplier).Floor()
		} else {
			g.result = BlackjackWin
			g.payout = g.stake.Mul(two)
		}
	case ds > ps:
		g.result = BlackjackLoss
		g.payout = decimal.Zero
	default:
		g.result = BlackjackPush
		g.payout = g.stake
	}
	g.status = BlackjackSettled
}

func (g *Blackjack) Settled() bool { return g.status == BlackjackSettled }

func (g *Blackjack) Payout() decimal.Decimal { return g.payout }

func (g *Blackjack) Status() BlackjackStatus { return g.status }

func (g *Blackjack) Result() BlackjackResult { return g.result }

func (g *Blackjack) PlayerHand() []Card { return g.player }

func (g *Blackjack) DealerHand() []Card { return g.dealer }

// HandValue sums card values with aces downgraded from 11 to 1 one at a time
// while the total is over 21.
func HandValue(hand []Card) int {
	total := 0
	aces := 0
	for _, c := range hand {
		total += c.Value
		if c.Rank == "A" {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}
