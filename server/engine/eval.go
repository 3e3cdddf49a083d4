package engine

import "fmt"

// HandCategory orders the poker hand classes from weakest to strongest.
type HandCategory int

const (
	HighCard HandCategory = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

func (hc HandCategory) String() string {
	switch hc {
	case HighCard:
		return "high card"
	case OnePair:
		return "one pair"
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
	}
	return "unknown"
}

// HandStrength is a totally ordered hand value: category first, then the
// tie-break ranks compared most-significant first. Ranks is always filled to
// length 5, zero-padded, so same-category hands compare correctly even when
// the category needs fewer significant ranks.
type HandStrength struct {
	Category HandCategory
	Ranks    [5]uint8
}

// Compare returns -1, 0 or +1 ordering h against o.
func (h HandStrength) Compare(o HandStrength) int {
	if h.Category != o.Category {
		if h.Category < o.Category {
			return -1
		}
		return 1
	}
	for i := 0; i < 5; i++ {
		if h.Ranks[i] != o.Ranks[i] {
			if h.Ranks[i] < o.Ranks[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func (h HandStrength) Beats(o HandStrength) bool { return h.Compare(o) > 0 }

func fill(values ...uint8) [5]uint8 {
	var out [5]uint8
	copy(out[:], values)
	return out
}

// Evaluate5 scores exactly five distinct cards. Pure and total: every 5-card
// combination maps to a HandStrength. Panics on any other input length — a
// wrong-arity call is a programming error, not a runtime condition.
func Evaluate5(cards []Card) HandStrength {
	if len(cards) != 5 {
		panic(fmt.Sprintf("engine: Evaluate5 requires 5 cards, got %d", len(cards)))
	}

	var counts [15]uint8
	var suits [4]uint8
	for _, c := range cards {
		counts[c.Rank]++
		suits[c.Suit]++
	}

	sorted := make([]uint8, 0, 5)
	for r := Ace; r >= Two; r-- {
		for i := uint8(0); i < counts[r]; i++ {
			sorted = append(sorted, uint8(r))
		}
	}

	isFlush := suits[Clubs] == 5 || suits[Diamonds] == 5 || suits[Hearts] == 5 || suits[Spades] == 5

	var mask uint32
	for r := Two; r <= Ace; r++ {
		if counts[r] > 0 {
			mask |= 1 << uint(r)
			if r == Ace {
				mask |= 1 << 1 // ace also counts low for the wheel
			}
		}
	}

	straightHigh := uint8(0)
	for high := uint8(14); high >= 5; high-- {
		var needed uint32
		for i := uint8(0); i < 5; i++ {
			needed |= 1 << uint(high-i)
		}
		if mask&needed == needed {
			straightHigh = high
			break
		}
	}

	// Rank groups ordered by (count desc, rank desc).
	type group struct {
		count uint8
		rank  uint8
	}
	groups := make([]group, 0, 5)
	for r := Ace; r >= Two; r-- {
		if counts[r] > 0 {
			groups = append(groups, group{count: counts[r], rank: uint8(r)})
		}
	}
	for i := 1; i < len(groups); i++ {
		for j := i; j > 0 && groups[j].count > groups[j-1].count; j-- {
			groups[j], groups[j-1] = groups[j-1], groups[j]
		}
	}

	if isFlush && straightHigh > 0 {
		return HandStrength{
			Category: StraightFlush,
			Ranks:    fill(straightHigh, straightHigh-1, straightHigh-2, straightHigh-3, straightHigh-4),
		}
	}

	if groups[0].count == 4 {
		kicker := uint8(0)
		for _, g := range groups[1:] {
			if g.count == 1 {
				kicker = g.rank
				break
			}
		}
		return HandStrength{Category: FourOfAKind, Ranks: fill(groups[0].rank, kicker)}
	}

	if groups[0].count == 3 && len(groups) > 1 && groups[1].count >= 2 {
		return HandStrength{Category: FullHouse, Ranks: fill(groups[0].rank, groups[1].rank)}
	}

	if isFlush {
		return HandStrength{Category: Flush, Ranks: fill(sorted...)}
	}

	if straightHigh > 0 {
		return HandStrength{
			Category: Straight,
			Ranks:    fill(straightHigh, straightHigh-1, straightHigh-2, straightHigh-3, straightHigh-4),
		}
	}

	switch groups[0].count {
	case 3:
		values := []uint8{groups[0].rank}
		for _, g := range groups[1:] {
			if g.count == 1 {
				values = append(values, g.rank)
			}
		}
		return HandStrength{Category: ThreeOfAKind, Ranks: fill(values...)}
	case 2:
		if len(groups) > 1 && groups[1].count == 2 {
			kicker := uint8(0)
			for _, g := range groups[2:] {
				if g.count == 1 {
					kicker = g.rank
					break
				}
			}
			return HandStrength{Category: TwoPair, Ranks: fill(groups[0].rank, groups[1].rank, kicker)}
		}
		values := []uint8{groups[0].rank}
		for _, g := range groups[1:] {
			if g.count == 1 {
				values = append(values, g.rank)
			}
		}
		return HandStrength{Category: OnePair, Ranks: fill(values...)}
	}

	return HandStrength{Category: HighCard, Ranks: fill(sorted...)}
}

// BestHand returns the strongest 5-card hand contained in cards, enumerating
// every 5-card subset (21 for a 7-card input). Any n >= 5 is valid; fewer
// cards is a programming error.
func BestHand(cards []Card) HandStrength {
	n := len(cards)
	if n < 5 {
		panic(fmt.Sprintf("engine: BestHand requires at least 5 cards, got %d", n))
	}

	var best HandStrength
	first := true
	choose := [5]int{}
	five := make([]Card, 5)
	var rec func(start, k int)
	rec = func(start, k int) {
		if k == 5 {
			for i := 0; i < 5; i++ {
				five[i] = cards[choose[i]]
			}
			s := Evaluate5(five)
			if first || s.Beats(best) {
				best = s
				first = false
			}
			return
		}
		for i := start; i <= n-(5-k); i++ {
			choose[k] = i
			rec(i+1, k+1)
		}
	}
	rec(0, 0)
	return best
}
