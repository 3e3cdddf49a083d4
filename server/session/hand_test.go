package session

import (
	"math/rand"
	"testing"

	"gto-trainer/server/engine"
	"gto-trainer/server/rival"
)

const testSamples = 80

func testProfile() rival.Profile {
	return rival.Resolve(rival.StyleBalanced)
}

func checkPotInvariant(t *testing.T, h *Hand) {
	t.Helper()
	want := h.state.heroInvestedBB + h.state.villainInvestedBB
	if h.state.potBB != want {
		t.Fatalf("pot invariant broken: pot=%.2f hero=%.2f villain=%.2f",
			h.state.potBB, h.state.heroInvestedBB, h.state.villainInvestedBB)
	}
}

func TestNewHandInitialState(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	h := NewHand(rng)

	if h.state.street != StreetPreflop {
		t.Fatalf("street = %v, want preflop", h.state.street)
	}
	if h.state.heroInvestedBB != 1.0 {
		t.Fatalf("hero invested = %.2f, want 1.0", h.state.heroInvestedBB)
	}
	sized := false
	for _, open := range openSizesBB {
		if h.openSizeBB == open {
			sized = true
		}
	}
	if !sized {
		t.Fatalf("open size %.2f not in %v", h.openSizeBB, openSizesBB)
	}
	if h.state.villainInvestedBB != h.openSizeBB {
		t.Fatalf("villain invested = %.2f, want open %.2f", h.state.villainInvestedBB, h.openSizeBB)
	}
	checkPotInvariant(t, h)

	seen := map[string]bool{}
	for _, c := range append(h.hero[:], append(h.villain[:], h.board[:]...)...) {
		if seen[c.Notation()] {
			t.Fatalf("duplicate card dealt: %s", c.Notation())
		}
		seen[c.Notation()] = true
	}
}

func TestPreflopMenuShape(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	h := NewHand(rng)
	h.ComputeOptions(rng, testProfile(), testSamples)

	opts := h.Options()
	if len(opts) != 3 {
		t.Fatalf("preflop menu has %d options, want 3", len(opts))
	}
	if opts[0].Action.Kind != ActionFold || opts[1].Action.Kind != ActionCall || opts[2].Action.Kind != ActionRaise {
		t.Fatalf("menu kinds = %v %v %v", opts[0].Action.Kind, opts[1].Action.Kind, opts[2].Action.Kind)
	}
	if opts[0].EVDeltaBB != -1.0 {
		t.Fatalf("fold EV = %.4f, want -1.0", opts[0].EVDeltaBB)
	}
	if opts[1].Action.SizeBB != h.openSizeBB {
		t.Fatalf("call size = %.2f, want open %.2f", opts[1].Action.SizeBB, h.openSizeBB)
	}
	if opts[2].Action.SizeBB != defaultThreeBetBB {
		t.Fatalf("raise size = %.2f, want %.2f", opts[2].Action.SizeBB, defaultThreeBetBB)
	}
}

func TestFoldEndsHand(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	h := NewHand(rng)
	h.ComputeOptions(rng, testProfile(), testSamples)

	result, done := h.Apply(Action{Kind: ActionFold}, rng, testProfile(), testSamples)
	if !done {
		t.Fatal("fold did not complete the hand")
	}
	if result.ProfitBB != -1.0 {
		t.Fatalf("fold profit = %.2f, want -1.0", result.ProfitBB)
	}
	if result.EVLossBB < 0 {
		t.Fatalf("EV loss negative: %.4f", result.EVLossBB)
	}
	if !h.Completed() {
		t.Fatal("hand not marked completed")
	}
	if h.state.street != StreetTerminal {
		t.Fatalf("street after fold = %v, want terminal", h.state.street)
	}
}

func TestCallAdvancesToFlop(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	h := NewHand(rng)
	h.ComputeOptions(rng, testProfile(), testSamples)

	_, done := h.Apply(Action{Kind: ActionCall, SizeBB: h.openSizeBB}, rng, testProfile(), testSamples)
	if done {
		t.Fatal("call ended the hand")
	}
	if h.state.street != StreetFlop {
		t.Fatalf("street after call = %v, want flop", h.state.street)
	}
	if h.state.boardRevealed != 3 {
		t.Fatalf("board revealed = %d, want 3", h.state.boardRevealed)
	}
	if h.state.heroInvestedBB != h.openSizeBB {
		t.Fatalf("hero invested after call = %.2f, want %.2f", h.state.heroInvestedBB, h.openSizeBB)
	}
	if h.state.potBB != 2.0*h.openSizeBB {
		t.Fatalf("pot after call = %.2f, want %.2f", h.state.potBB, 2.0*h.openSizeBB)
	}
	checkPotInvariant(t, h)
}

func TestUnknownActionIsNoOp(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	h := NewHand(rng)
	h.ComputeOptions(rng, testProfile(), testSamples)

	before := h.state
	_, done := h.Apply(Action{Kind: ActionBet, SizeBB: 42}, rng, testProfile(), testSamples)
	if done {
		t.Fatal("unknown action completed the hand")
	}
	if h.state != before {
		t.Fatalf("state changed on unknown action: %+v -> %+v", before, h.state)
	}
	if h.totalBestEV != 0 || h.totalChosenEV != 0 {
		t.Fatal("EV accumulators charged for unknown action")
	}
}

func TestCheckDownReachesShowdown(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	profile := testProfile()
	h := NewHand(rng)
	h.ComputeOptions(rng, profile, testSamples)

	if _, done := h.Apply(Action{Kind: ActionCall, SizeBB: h.openSizeBB}, rng, profile, testSamples); done {
		t.Fatal("hand ended on preflop call")
	}
	for _, street := range []Street{StreetFlop, StreetTurn, StreetRiver} {
		if h.state.street != street {
			t.Fatalf("expected street %v, got %v", street, h.state.street)
		}
		h.ComputeOptions(rng, profile, testSamples)
		opts := h.Options()
		if len(opts) != 2 {
			t.Fatalf("%v menu has %d options, want 2", street, len(opts))
		}
		_, done := h.Apply(Action{Kind: ActionCheck}, rng, profile, testSamples)
		if street == StreetRiver && !done {
			t.Fatal("river check did not resolve the hand")
		}
		if street != StreetRiver && done {
			t.Fatalf("hand ended early on %v check", street)
		}
		checkPotInvariant(t, h)
	}

	if !h.Completed() {
		t.Fatal("hand not completed after check-down")
	}
	if h.state.boardRevealed != 5 {
		t.Fatalf("board revealed = %d, want 5", h.state.boardRevealed)
	}
	if got := h.RivalCards(); len(got) != 2 {
		t.Fatalf("rival cards after showdown = %v, want 2 cards", got)
	}
	// Check-down means both sides only invested the open; profit is bounded
	// by that stake either way.
	hero := engine.BestHand(append(h.hero[:], h.board[:]...))
	villain := engine.BestHand(append(h.villain[:], h.board[:]...))
	var profit float64
	switch hero.Compare(villain) {
	case 1:
		profit = h.state.villainInvestedBB
	case -1:
		profit = -h.state.heroInvestedBB
	default:
		profit = (h.state.villainInvestedBB - h.state.heroInvestedBB) / 2.0
	}
	if profit < -h.openSizeBB || profit > h.openSizeBB {
		t.Fatalf("check-down profit %.2f outside [%.2f, %.2f]", profit, -h.openSizeBB, h.openSizeBB)
	}
}

func TestBetSizeRespectsFloorsAndStack(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	h := NewHand(rng)

	h.state.street = StreetFlop
	h.state.potBB = 0.6
	h.state.effectiveStackBB = 90
	if got := h.betSize(); got != minBetBB {
		t.Fatalf("tiny pot bet = %.2f, want floor %.2f", got, minBetBB)
	}

	h.state.potBB = 40
	h.state.effectiveStackBB = 5
	if got := h.betSize(); got != 5 {
		t.Fatalf("capped bet = %.2f, want stack 5", got)
	}

	h.state.street = StreetRiver
	h.state.potBB = 20
	h.state.effectiveStackBB = 90
	if got := h.betSize(); got != 15 {
		t.Fatalf("river bet = %.2f, want 0.75x pot = 15", got)
	}
}

func TestFoldProbabilityBounds(t *testing.T) {
	for _, style := range []rival.Style{rival.StyleBalanced, rival.StyleAggressive, rival.StylePassive} {
		profile := rival.Resolve(style)
		for _, street := range []Street{StreetFlop, StreetTurn, StreetRiver} {
			for _, eq := range []float64{0.0, 0.25, 0.5, 0.75, 1.0} {
				p := foldProbability(profile, eq, street)
				if p < foldProbFloor || p > foldProbCeil {
					t.Fatalf("foldProbability(%s, %.2f, %v) = %.3f outside [%.2f, %.2f]",
						style, eq, street, p, foldProbFloor, foldProbCeil)
				}
			}
		}
	}

	profile := testProfile()
	low := foldProbability(profile, 0.9, StreetFlop)
	high := foldProbability(profile, 0.1, StreetFlop)
	if high <= low {
		t.Fatalf("fold probability should rise as hero equity falls: low-eq %.3f <= high-eq %.3f", high, low)
	}
}
