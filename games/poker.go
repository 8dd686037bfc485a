package games

import (
	"sort"

	"github.com/shopspring/decimal"
)

type PokerStatus int

const (
	PokerIdle PokerStatus = iota
	PokerDealt
	PokerSettled
)

func (s PokerStatus) String() string {
	switch s {
	case PokerDealt:
		return "dealt"
	case PokerSettled:
		return "settled"
	}
	return "idle"
}

type HandCategory int

const (
	NoHand HandCategory = iota
	JacksOrBetter
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

func (c HandCategory) String() string {
	switch c {
	case JacksOrBetter:
		return "jacks or better"
	case TwoPair:
		return "two pair"
	case ThreeOfAKind:
		return "three of a kind"
	case Straight:
		return "straight"
	case Flush:
		return "flush"
	case FullHouse:
		return "full house"
	case FourOfAKind:
		return "four of a kind"
	case StraightFlush:
		return "straight flush"
	case RoyalFlush:
		return "royal flush"
	}
	return "no hand"
}

// Multiplier is the fixed payout multiplier per hand category.
func (c HandCategory) Multiplier() decimal.Decimal {
	switch c {
	case RoyalFlush:
		return decimal.NewFromInt(250)
	case StraightFlush:
		return decimal.NewFromInt(50)
	case FourOfAKind:
		return decimal.NewFromInt(25)
	case FullHouse:
		return decimal.NewFromInt(9)
	case Flush:
		return decimal.NewFromInt(6)
	case Straight:
		return decimal.NewFromInt(4)
	case ThreeOfAKind:
		return decimal.NewFromInt(3)
	case TwoPair:
		return decimal.NewFromInt(2)
	case JacksOrBetter:
		return decimal.NewFromInt(1)
	}
	return decimal.Zero
}

var pokerMinStake = decimal.NewFromInt(1)

// Poker is one jacks-or-better video poker round: deal five, toggle holds,
// draw exactly once, settle against the fixed category multipliers.
type Poker struct {
	rng      Rand
	status   PokerStatus
	stake    decimal.Decimal
	deck     []Card
	hand     []Card
	holds    [5]bool
	category HandCategory
	payout   decimal.Decimal
}

func NewPoker(rng Rand) *Poker {
	return &Poker{rng: rng}
}

func (g *Poker) Start(stake decimal.Decimal) error {
	if g.status == PokerDealt {
		return ErrInvalidTransition
	}
	if stake.LessThan(pokerMinStake) {
		return ErrInvalidStake
	}

	deck := NewPokerDeck()
	Shuffle(deck, g.rng)

	g.stake = stake
	g.deck = deck
	g.hand = make([]Card, 5)
	for i := range g.hand {
		g.hand[i] = dealCard(&g.deck)
	}
	g.holds = [5]bool{}
	g.category = NoHand
	g.payout = decimal.Zero
	g.status = PokerDealt
	return nil
}

// ToggleHold flips the hold flag on one card between deal and draw.
func (g *Poker) ToggleHold(i int) error {
	if g.status != PokerDealt {
		return ErrInvalidTransition
	}
	if i < 0 || i >= len(g.hand) {
		return ErrInvalidTransition
	}
	g.holds[i] = !g.holds[i]
	return nil
}

// Draw replaces every non-held card from the remaining deck and settles.
// There is exactly one draw phase per round.
func (g *Poker) Draw() error {
	if g.status != PokerDealt {
		return ErrInvalidTransition
	}
	for i := range g.hand {
		if !g.holds[i] {
			g.hand[i] = dealCard(&g.deck)
		}
	}
	g.category = Classify(g.hand)
	g.payout = g.stake.Mul(g.category.Multiplier())
	g.status = PokerSettled
	return nil
}

func (g *Poker) Settled() bool { return g.status == PokerSettled }

func (g *Poker) Payout() decimal.Decimal { return g.payout }

func (g *Poker) Status() PokerStatus { return g.status }

func (g *Poker) Hand() []Card { return g.hand }

func (g *Poker) Holds() [5]bool { return g.holds }

func (g *Poker) Category() HandCategory { return g.category }

// Classify scores a five-card hand in strict precedence order. Ace is high
// only; ace-low straights are not recognized.
func Classify(hand []Card) HandCategory {
	values := make([]int, len(hand))
	for i, c := range hand {
		values[i] = c.Value
	}
	sort.Ints(values)

	valueCounts := map[int]int{}
	for _, v := range values {
		valueCounts[v]++
	}
	counts := make([]int, 0, len(valueCounts))
	for _, n := range valueCounts {
		counts = append(counts, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))

	isFlush := true
	for _, c := range hand[1:] {
		if c.Suit != hand[0].Suit {
			isFlush = false
			break
		}
	}
	isStraight := true
	for i := 1; i < len(values); i++ {
		if values[i] != values[i-1]+1 {
			isStraight = false
			break
		}
	}

	switch {
	case isFlush && isStraight && values[0] == 10:
		return RoyalFlush
	case isFlush && isStraight:
		return StraightFlush
	case counts[0] == 4:
		return FourOfAKind
	case counts[0] == 3 && counts[1] == 2:
		return FullHouse
	case isFlush:
		return Flush
	case isStraight:
		return Straight
	case counts[0] == 3:
		return ThreeOfAKind
	case counts[0] == 2 && counts[1] == 2:
		return TwoPair
	case counts[0] == 2:
		for v, n := range valueCounts {
			if n == 2 && v >= 11 {
				return JacksOrBetter
			}
		}
	}
	return NoHand
}
