package poker

import "testing"

func TestCardCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		card Card
		code string
	}{
		{NewCard(Ace, Hearts), "AH"},
		{NewCard(Ten, Diamonds), "TD"},
		{NewCard(Two, Clubs), "2C"},
		{NewCard(King, Spades), "KS"},
		{NewCard(Nine, Hearts), "9H"},
	}

	for _, tt := range tests {
		if got := tt.card.Code(); got != tt.code {
			t.Errorf("Code() = %q, want %q", got, tt.code)
		}
		parsed, err := ParseCard(tt.code)
		if err != nil {
			t.Fatalf("ParseCard(%q): %v", tt.code, err)
		}
		if parsed != tt.card {
			t.Errorf("ParseCard(%q) = %v, want %v", tt.code, parsed, tt.card)
		}
	}
}

func TestParseCardAlternateForms(t *testing.T) {
	t.Parallel()

	if c := MustParseCard("10s"); c != NewCard(Ten, Spades) {
		t.Errorf("expected ten of spades, got %v", c)
	}
	if c := MustParseCard("ah"); c != NewCard(Ace, Hearts) {
		t.Errorf("expected ace of hearts, got %v", c)
	}
}

func TestParseCardRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, code := range []string{"", "A", "AHH", "1H", "AX", "ZH"} {
		if _, err := ParseCard(code); err == nil {
			t.Errorf("ParseCard(%q) should fail", code)
		}
	}
}

func TestParseCards(t *testing.T) {
	t.Parallel()

	cards, err := ParseCards("AH KD 2C")
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(cards))
	}
	if cards[1] != NewCard(King, Diamonds) {
		t.Errorf("expected KD, got %v", cards[1])
	}
}
