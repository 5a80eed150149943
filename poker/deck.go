package poker

import "math/rand"

// Deck represents a shuffled 52-card deck. The RNG is injected so hands can
// be replayed deterministically under a fixed seed.
type Deck struct {
	cards []Card
	next  int
}

// NewDeck creates a fresh 52-card deck shuffled with a Fisher-Yates pass
// over the provided RNG.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{cards: make([]Card, 0, 52)}
	for suit := Hearts; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(rank, suit))
		}
	}
	d.shuffle(rng)
	return d
}

// NewStackedDeck creates a deck that deals the given cards in order.
// For tests that need known holdings.
func NewStackedDeck(cards ...Card) *Deck {
	return &Deck{cards: cards}
}

func (d *Deck) shuffle(rng *rand.Rand) {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the top n cards
func (d *Deck) Deal(n int) []Card {
	if remaining := len(d.cards) - d.next; n > remaining {
		n = remaining
	}
	cards := d.cards[d.next : d.next+n]
	d.next += n
	return cards
}

// Remaining returns the number of undealt cards
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
