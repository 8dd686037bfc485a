package games

type Suit uint8

const (
	Spades Suit = iota
	Hearts
	Clubs
	Diamonds
)

func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Clubs:
		return "♣"
	case Diamonds:
		return "♦"
	}
	return "?"
}

var ranks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

type Card struct {
	Suit  Suit   `json:"suit"`
	Rank  string `json:"rank"`
	Value int    `json:"value"`
}

// blackjackValue maps a rank index (0=A .. 12=K) to its blackjack value:
// aces count 11 until downgraded, faces count 10.
func blackjackValue(rankIdx int) int {
	switch {
	case rankIdx == 0:
		return 11
	case rankIdx >= 9:
		return 10
	default:
		return rankIdx + 1
	}
}

// NewBlackjackDeck builds an unshuffled 52-card deck with blackjack values.
func NewBlackjackDeck() []Card {
	deck := make([]Card, 0, 52)
	for s := Spades; s <= Diamonds; s++ {
		for i, r := range ranks {
			deck = append(deck, Card{Suit: s, Rank: r, Value: blackjackValue(i)})
		}
	}
	return deck
}

// NewPokerDeck builds an unshuffled 52-card deck with poker values 2..14,
// ace high.
func NewPokerDeck() []Card {
	deck := make([]Card, 0, 52)
	for s := Spades; s <= Diamonds; s++ {
		for i, r := range ranks {
			value := i + 1
			if value == 1 {
				value = 14
			}
			deck = append(deck, Card{Suit: s, Rank: r, Value: value})
		}
	}
	return deck
}

// Shuffle permutes the deck in place, Fisher-Yates.
func Shuffle(deck []Card, rng Rand) {
	for i := len(deck) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// dealCard pops the top card. Cards are dealt without replacement; within one
// round no card repeats.
func dealCard(deck *[]Card) Card {
	d := *deck
	card := d[len(d)-1]
	*deck = d[:len(d)-1]
	return card
}
