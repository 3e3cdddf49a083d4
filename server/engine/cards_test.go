package engine

import (
	"math/rand"
	"testing"
)

func TestNewDeckHas52DistinctCards(t *testing.T) {
	deck := NewDeck()
	if len(deck) != 52 {
		t.Fatalf("expected 52 cards, got %d", len(deck))
	}
	seen := map[Card]bool{}
	for _, c := range deck {
		if seen[c] {
			t.Fatalf("duplicate card %v", c)
		}
		seen[c] = true
	}
}

func TestShuffleIsDeterministicPerSeed(t *testing.T) {
	a := NewDeck()
	b := NewDeck()
	Shuffle(rand.New(rand.NewSource(99)), a)
	Shuffle(rand.New(rand.NewSource(99)), b)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different decks at index %d", i)
		}
	}
}

func TestParseCardAcceptedForms(t *testing.T) {
	cases := []struct {
		in   string
		want Card
	}{
		{"As", Card{Ace, Spades}},
		{"as", Card{Ace, Spades}},
		{"T♠", Card{Ten, Spades}},
		{"10h", Card{Ten, Hearts}},
		{"2c", Card{Two, Clubs}},
		{"kD", Card{King, Diamonds}},
		{"Q♥", Card{Queen, Hearts}},
	}
	for _, tc := range cases {
		got, err := ParseCard(tc.in)
		if err != nil {
			t.Fatalf("ParseCard(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseCard(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseCardRejectsMalformedTokens(t *testing.T) {
	for _, in := range []string{"", "A", "1s", "Ax", "Tz", "♠A"} {
		if _, err := ParseCard(in); err == nil {
			t.Fatalf("ParseCard(%q) should fail", in)
		}
	}
}

func TestNotationRoundTrip(t *testing.T) {
	for _, c := range NewDeck() {
		got, err := ParseCard(c.Notation())
		if err != nil {
			t.Fatalf("reparse %q: %v", c.Notation(), err)
		}
		if got != c {
			t.Fatalf("round trip %v -> %q -> %v", c, c.Notation(), got)
		}
	}
}

func TestTenRendersAsT(t *testing.T) {
	if got := (Card{Ten, Spades}).Notation(); got != "T♠" {
		t.Fatalf("expected T♠, got %q", got)
	}
}
