package engine

import (
	"fmt"
	"math/rand"
	"strings"
	"unicode/utf8"
)

// Rank is a card rank, 2..14 with Ace high.
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

const rankLabels = "  23456789TJQKA"

func (r Rank) Label() string {
	if r < Two || r > Ace {
		return "?"
	}
	return string(rankLabels[r])
}

// ParseRank accepts case-insensitive single-character codes plus "10" for Ten.
func ParseRank(s string) (Rank, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "2":
		return Two, nil
	case "3":
		return Three, nil
	case "4":
		return Four, nil
	case "5":
		return Five, nil
	case "6":
		return Six, nil
	case "7":
		return Seven, nil
	case "8":
		return Eight, nil
	case "9":
		return Nine, nil
	case "T", "10":
		return Ten, nil
	case "J":
		return Jack, nil
	case "Q":
		return Queen, nil
	case "K":
		return King, nil
	case "A":
		return Ace, nil
	}
	return 0, fmt.Errorf("invalid rank %q", s)
}

// Suit is one of the four suits. Suits are unordered; only equality matters.
type Suit int

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

func (s Suit) Symbol() string {
	switch s {
	case Clubs:
		return "♣"
	case Diamonds:
		return "♦"
	case Hearts:
		return "♥"
	case Spades:
		return "♠"
	}
	return "?"
}

// ParseSuit accepts a suit letter (c/d/h/s, any case) or the suit symbol.
func ParseSuit(s string) (Suit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c", "♣":
		return Clubs, nil
	case "d", "♦":
		return Diamonds, nil
	case "h", "♥":
		return Hearts, nil
	case "s", "♠":
		return Spades, nil
	}
	return 0, fmt.Errorf("invalid suit %q", s)
}

// Card is an immutable (rank, suit) pair. The 52 distinct values form a deck.
type Card struct {
	Rank Rank
	Suit Suit
}

// Notation renders the card as rank label plus suit symbol, e.g. "T♠".
func (c Card) Notation() string {
	return c.Rank.Label() + c.Suit.Symbol()
}

func (c Card) String() string { return c.Notation() }

// ParseCard parses notation like "As", "T♠" or "10h". The suit is the final
// rune; everything before it is the rank.
func ParseCard(s string) (Card, error) {
	trimmed := strings.TrimSpace(s)
	if utf8.RuneCountInString(trimmed) < 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	_, size := utf8.DecodeLastRuneInString(trimmed)
	rank, err := ParseRank(trimmed[:len(trimmed)-size])
	if err != nil {
		return Card{}, fmt.Errorf("invalid card %q: %w", s, err)
	}
	suit, err := ParseSuit(trimmed[len(trimmed)-size:])
	if err != nil {
		return Card{}, fmt.Errorf("invalid card %q: %w", s, err)
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// NewDeck returns the 52 distinct cards in a fixed order.
func NewDeck() []Card {
	deck := make([]Card, 0, 52)
	for s := Clubs; s <= Spades; s++ {
		for r := Two; r <= Ace; r++ {
			deck = append(deck, Card{Rank: r, Suit: s})
		}
	}
	return deck
}

// Shuffle permutes deck in place using the provided stream.
func Shuffle(rng *rand.Rand, deck []Card) {
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}

// Notations renders a slice of cards for presentation layers.
func Notations(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Notation()
	}
	return out
}
