package poker

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// String returns the wire letter for the suit (first letter of its name)
func (s Suit) String() string {
	switch s {
	case Hearts:
		return "H"
	case Diamonds:
		return "D"
	case Clubs:
		return "C"
	case Spades:
		return "S"
	default:
		return "?"
	}
}

// Rank represents a card rank, two through ace. Aces are high (14).
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the wire character for the rank
func (r Rank) String() string {
	switch {
	case r >= Two && r <= Nine:
		return string(rune('0' + int(r)))
	case r == Ten:
		return "T"
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// Card represents a playing card
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// Code returns the 2-character wire code for the card, e.g. "AH" or "TD".
func (c Card) Code() string {
	return c.Rank.String() + c.Suit.String()
}

// String returns the wire code
func (c Card) String() string {
	return c.Code()
}

// ParseCard parses a wire code back into a card. Lowercase input and the
// long ten form ("10H") are accepted.
func ParseCard(code string) (Card, error) {
	s := strings.ToUpper(strings.TrimSpace(code))
	if len(s) == 3 && strings.HasPrefix(s, "10") {
		s = "T" + s[2:]
	}
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card code %q", code)
	}

	var rank Rank
	switch r := s[0]; {
	case r >= '2' && r <= '9':
		rank = Rank(r - '0')
	case r == 'T':
		rank = Ten
	case r == 'J':
		rank = Jack
	case r == 'Q':
		rank = Queen
	case r == 'K':
		rank = King
	case r == 'A':
		rank = Ace
	default:
		return Card{}, fmt.Errorf("invalid rank %q in card code %q", string(r), code)
	}

	var suit Suit
	switch s[1] {
	case 'H':
		suit = Hearts
	case 'D':
		suit = Diamonds
	case 'C':
		suit = Clubs
	case 'S':
		suit = Spades
	default:
		return Card{}, fmt.Errorf("invalid suit %q in card code %q", string(s[1]), code)
	}

	return Card{Rank: rank, Suit: suit}, nil
}

// MustParseCard parses a wire code and panics on error. Intended for tests
// and fixtures.
func MustParseCard(code string) Card {
	c, err := ParseCard(code)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseCards parses a space-separated list of card codes
func ParseCards(codes string) ([]Card, error) {
	fields := strings.Fields(codes)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// Codes renders a card slice as wire codes
func Codes(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Code()
	}
	return out
}
