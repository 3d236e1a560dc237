package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"holdem-server/internal/rng"
)

func TestNew_CanonicalOrder(t *testing.T) {
	a := assert.New(t)

	d := New()
	a.Equal(DeckSize, d.CardsLeft())
	a.Equal(Card{Rank: 2, Suit: Clubs}, d.cards[0])
	a.Equal(Card{Rank: Ace, Suit: Clubs}, d.cards[12])
	a.Equal(Card{Rank: 2, Suit: Diamonds}, d.cards[13])
	a.Equal(Card{Rank: Ace, Suit: Spades}, d.cards[51])

	// every card appears exactly once
	seen := make(map[Card]bool)
	for _, c := range d.cards {
		a.False(seen[c])
		seen[c] = true
	}
	a.Equal(DeckSize, len(seen))
}

func TestDeck_Shuffle(t *testing.T) {
	a := assert.New(t)

	d1 := New()
	d1.Shuffle(rng.NewSeeded(0))

	d2 := New()
	d2.Shuffle(rng.NewSeeded(0))
	a.Equal(d1.cards, d2.cards)

	d3 := New()
	d3.Shuffle(rng.NewSeeded(1))
	a.NotEqual(d1.cards, d3.cards)

	// shuffle preserves the 52-card multiset
	seen := make(map[Card]bool)
	for _, c := range d1.cards {
		seen[c] = true
	}
	a.Equal(DeckSize, len(seen))

	// shuffle resets the cursor
	_, err := d1.DealBoard()
	a.NoError(err)
	d1.Shuffle(rng.NewSeeded(2))
	a.Equal(DeckSize, d1.CardsLeft())
}

func TestDeck_Deal(t *testing.T) {
	a := assert.New(t)

	d := New()
	d.Shuffle(rng.NewSeeded(0))

	seen := make(map[Card]bool)
	for i := 0; i < 25; i++ {
		hole, err := d.DealHole()
		a.NoError(err)
		for _, c := range hole {
			a.False(seen[c], "card dealt twice: %s", c)
			seen[c] = true
		}
	}

	a.Equal(2, d.CardsLeft())

	_, err := d.DealBoard()
	a.Equal(ErrInvalidAmount, err)

	hole, err := d.DealHole()
	a.NoError(err)
	a.False(seen[hole[0]])
	a.False(seen[hole[1]])

	a.Equal(0, d.CardsLeft())

	_, err = d.DealHole()
	a.Equal(ErrOutOfCards, err)
	_, err = d.DealBoard()
	a.Equal(ErrOutOfCards, err)
}
