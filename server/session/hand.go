package session

import (
	"fmt"
	"math/rand"

	"gto-trainer/server/engine"
	"gto-trainer/server/judge"
	"gto-trainer/server/rival"
)

// MaxStackBB is the fixed starting stack for both players.
const MaxStackBB = 100.0

const defaultThreeBetBB = 9.0

var openSizesBB = [...]float64{2.0, 2.5, 3.0}

// Postflop policy numbers. These are tuning constants carried over from the
// opponent model, kept in one place so they can be retuned without touching
// the state machine.
const (
	flopBetMultiplier  = 0.5
	turnBetMultiplier  = 0.6
	riverBetMultiplier = 0.75

	flopFoldBase  = 0.4
	turnFoldBase  = 0.35
	riverFoldBase = 0.3

	minBetBB = 0.5

	foldAggressionFactor = 0.3
	foldEquityFactor     = 0.35
	foldProbFloor        = 0.05
	foldProbCeil         = 0.9
)

type streetState struct {
	street            Street
	potBB             float64
	heroInvestedBB    float64
	villainInvestedBB float64
	boardRevealed     int
	effectiveStackBB  float64
}

// Hand owns one hand's betting state: hole cards, the pre-dealt board, the
// current decision menu and the EV accumulators behind the EV-loss metric.
// A Hand is not safe for concurrent use; the owning session serializes
// ComputeOptions and Apply.
type Hand struct {
	hero    [2]engine.Card
	villain [2]engine.Card
	board   [5]engine.Card

	openSizeBB  float64
	raiseSizeBB float64

	state   streetState
	options []ActionOption

	currentBestEV float64
	totalBestEV   float64
	totalChosenEV float64
	completed     bool
}

// NewHand deals a fresh hand from a shuffled deck: two hero cards, two
// villain cards and the full 5-card board (revealed street by street). The
// villain has already opened; hero sits on the blind facing the open.
func NewHand(rng *rand.Rand) *Hand {
	deck := engine.NewDeck()
	engine.Shuffle(rng, deck)

	h := &Hand{
		hero:        [2]engine.Card{deck[0], deck[1]},
		villain:     [2]engine.Card{deck[2], deck[3]},
		board:       [5]engine.Card{deck[4], deck[5], deck[6], deck[7], deck[8]},
		openSizeBB:  openSizesBB[rng.Intn(len(openSizesBB))],
		raiseSizeBB: defaultThreeBetBB,
	}
	h.state = streetState{
		street:            StreetPreflop,
		potBB:             h.openSizeBB + 1.0,
		heroInvestedBB:    1.0,
		villainInvestedBB: h.openSizeBB,
		boardRevealed:     0,
		effectiveStackBB:  effectiveStack(1.0, h.openSizeBB),
	}
	return h
}

func (h *Hand) Completed() bool { return h.completed }

// Options returns the current decision menu. Empty on absorbing streets.
func (h *Hand) Options() []ActionOption { return h.options }

// ComputeOptions regenerates the decision menu for the current street and
// records the menu's best EV for the EV-loss accounting.
func (h *Hand) ComputeOptions(rng *rand.Rand, profile rival.Profile, samples int) {
	var options []ActionOption
	switch h.state.street {
	case StreetPreflop:
		options = h.preflopOptions(rng, profile, samples)
	case StreetFlop, StreetTurn, StreetRiver:
		options = h.postflopOptions(rng, profile, samples)
	default:
		// Showdown/Terminal: no decisions left.
	}

	best := 0.0
	for i, opt := range options {
		if i == 0 || opt.EVDeltaBB > best {
			best = opt.EVDeltaBB
		}
	}
	h.currentBestEV = best
	h.options = options
}

func (h *Hand) preflopOptions(rng *rand.Rand, profile rival.Profile, samples int) []ActionOption {
	heroStrength := profile.HandStrengthHint(h.hero)
	equity := judge.Equity(h.hero, nil, nil, samples, rng)

	callCost := max0(h.openSizeBB - h.state.heroInvestedBB)
	potAfterCall := 2.0 * h.openSizeBB
	callEV := equity*potAfterCall - (1.0-equity)*callCost

	raiseTo := h.raiseSizeBB
	raiseCost := max0(raiseTo - h.state.heroInvestedBB)
	potWhenCalled := 2.0 * raiseTo
	foldProb := profile.FoldToThreeBet(heroStrength)
	raiseEV := foldProb*h.state.potBB +
		(1.0-foldProb)*(equity*potWhenCalled-(1.0-equity)*raiseCost)

	return []ActionOption{
		{
			Action:      Action{Kind: ActionFold},
			EVDeltaBB:   -h.state.heroInvestedBB,
			Description: "Fold and surrender the blind",
		},
		{
			Action:      Action{Kind: ActionCall, SizeBB: h.openSizeBB},
			EVDeltaBB:   callEV,
			Description: fmt.Sprintf("Flat call %.1fbb open (equity %.1f%%)", h.openSizeBB, equity*100),
		},
		{
			Action:      Action{Kind: ActionRaise, SizeBB: raiseTo},
			EVDeltaBB:   raiseEV,
			Description: fmt.Sprintf("3-bet to %.1fbb (fold equity %.0f%%)", raiseTo, foldProb*100),
		},
	}
}

func (h *Hand) postflopOptions(rng *rand.Rand, profile rival.Profile, samples int) []ActionOption {
	board := h.visibleBoard()
	equity := judge.Equity(h.hero, nil, board, samples, rng)
	pot := h.state.potBB

	// Expected pot share if the hand checks down from here.
	checkEV := (2.0*equity - 1.0) * pot

	betSize := h.betSize()
	foldProb := foldProbability(profile, equity, h.state.street)
	betEV := foldProb*pot +
		(1.0-foldProb)*(equity*(pot+2.0*betSize)-(1.0-equity)*betSize)

	return []ActionOption{
		{
			Action:      Action{Kind: ActionCheck},
			EVDeltaBB:   checkEV,
			Description: fmt.Sprintf("Check and realise equity (%.1f%% share)", equity*100),
		},
		{
			Action:      Action{Kind: ActionBet, SizeBB: betSize},
			EVDeltaBB:   betEV,
			Description: fmt.Sprintf("Bet %.1fbb (%.0f%% fold equity)", betSize, foldProb*100),
		},
	}
}

// betSize applies the street multiplier, floors at the minimum bet and caps
// at the effective stack; if even the floor does not fit, the bet is the
// remaining stack.
func (h *Hand) betSize() float64 {
	mult := flopBetMultiplier
	switch h.state.street {
	case StreetTurn:
		mult = turnBetMultiplier
	case StreetRiver:
		mult = riverBetMultiplier
	}
	size := h.state.potBB * mult
	if size < minBetBB {
		size = minBetBB
	}
	stack := max0(h.state.effectiveStackBB)
	if size > stack {
		size = stack
	}
	if size < minBetBB {
		size = stack
	}
	return size
}

// Apply looks the chosen action up in the current menu by exact (kind, size)
// match; an action not on the menu is a caller error and changes nothing.
// On a match the EV accumulators are charged first, then the street handler
// mutates state. The returned bool reports hand completion.
func (h *Hand) Apply(action Action, rng *rand.Rand, profile rival.Profile, samples int) (HandResult, bool) {
	var chosen *ActionOption
	for i := range h.options {
		if h.options[i].Action == action {
			chosen = &h.options[i]
			break
		}
	}
	if chosen == nil {
		return HandResult{}, false
	}

	h.totalBestEV += h.currentBestEV
	h.totalChosenEV += chosen.EVDeltaBB

	switch h.state.street {
	case StreetPreflop:
		return h.applyPreflop(action, *chosen, rng, profile)
	case StreetFlop, StreetTurn:
		return h.applyPostflop(action, *chosen, rng, profile, samples)
	case StreetRiver:
		return h.applyRiver(action, *chosen, rng, profile, samples)
	}
	return HandResult{EVLossBB: h.evLoss()}, true
}

func (h *Hand) applyPreflop(action Action, option ActionOption, rng *rand.Rand, profile rival.Profile) (HandResult, bool) {
	switch action.Kind {
	case ActionFold:
		return h.finish(-h.state.heroInvestedBB)
	case ActionCall:
		callCost := max0(h.openSizeBB - h.state.heroInvestedBB)
		h.state.heroInvestedBB += callCost
		h.refreshState()
		h.advanceStreet(StreetFlop)
		return HandResult{}, false
	case ActionRaise:
		raiseTo := option.Action.SizeBB
		if raiseTo <= 0 {
			raiseTo = h.raiseSizeBB
		}
		h.state.heroInvestedBB += max0(raiseTo - h.state.heroInvestedBB)
		h.refreshState()

		foldProb := profile.FoldToThreeBet(profile.HandStrengthHint(h.hero))
		if profile.RandomFold(rng, foldProb) {
			return h.finish(h.state.villainInvestedBB)
		}
		h.state.villainInvestedBB += max0(raiseTo - h.openSizeBB)
		h.refreshState()
		h.advanceStreet(StreetFlop)
		return HandResult{}, false
	}
	return HandResult{}, false
}

func (h *Hand) applyPostflop(action Action, option ActionOption, rng *rand.Rand, profile rival.Profile, samples int) (HandResult, bool) {
	switch action.Kind {
	case ActionCheck:
		h.advanceStreet(h.nextStreet())
		return HandResult{}, false
	case ActionBet:
		h.investBet(option)

		equity := judge.Equity(h.hero, nil, h.visibleBoard(), samples, rng)
		foldProb := foldProbability(profile, equity, h.state.street)
		if profile.RandomFold(rng, foldProb) {
			return h.finish(h.state.villainInvestedBB)
		}
		h.villainCall(option)
		h.advanceStreet(h.nextStreet())
		return HandResult{}, false
	}
	return HandResult{}, false
}

func (h *Hand) applyRiver(action Action, option ActionOption, rng *rand.Rand, profile rival.Profile, samples int) (HandResult, bool) {
	switch action.Kind {
	case ActionCheck:
		return h.resolveShowdown()
	case ActionBet:
		h.investBet(option)

		equity := judge.Equity(h.hero, nil, h.visibleBoard(), samples, rng)
		foldProb := foldProbability(profile, equity, StreetRiver)
		if profile.RandomFold(rng, foldProb) {
			return h.finish(h.state.villainInvestedBB)
		}
		h.villainCall(option)
		return h.resolveShowdown()
	}
	return HandResult{}, false
}

func (h *Hand) investBet(option ActionOption) {
	betSize := option.Action.SizeBB
	if betSize <= 0 {
		betSize = maxf(h.state.potBB*flopBetMultiplier, minBetBB)
	}
	if stack := max0(h.state.effectiveStackBB); betSize > stack {
		betSize = stack
	}
	h.state.heroInvestedBB += betSize
	h.refreshState()
}

func (h *Hand) villainCall(option ActionOption) {
	betSize := option.Action.SizeBB
	callSize := minf(betSize, max0(MaxStackBB-h.state.villainInvestedBB))
	h.state.villainInvestedBB += callSize
	h.refreshState()
}

func (h *Hand) resolveShowdown() (HandResult, bool) {
	h.state.boardRevealed = 5
	h.state.street = StreetShowdown

	heroStrength := engine.BestHand(append(h.hero[:], h.board[:]...))
	villainStrength := engine.BestHand(append(h.villain[:], h.board[:]...))

	var profit float64
	switch heroStrength.Compare(villainStrength) {
	case 1:
		profit = h.state.villainInvestedBB
	case -1:
		profit = -h.state.heroInvestedBB
	default:
		profit = (h.state.villainInvestedBB - h.state.heroInvestedBB) / 2.0
	}
	return h.finish(profit)
}

// Snapshot exposes the hand for presentation. Board cards are revealed per
// street; villain cards only once the hand is over.
func (h *Hand) Snapshot() NodeSnapshot {
	return NodeSnapshot{
		Street:           h.state.street,
		PotBB:            h.state.potBB,
		EffectiveStackBB: max0(h.state.effectiveStackBB),
		Board:            engine.Notations(h.visibleBoard()),
		HeroCards:        engine.Notations(h.hero[:]),
		RivalCardsKnown:  h.completed,
		ActionOptions:    h.options,
	}
}

// RivalCards returns the villain holding, only valid once the hand is done.
func (h *Hand) RivalCards() []string {
	if !h.completed {
		return nil
	}
	return engine.Notations(h.villain[:])
}

func (h *Hand) visibleBoard() []engine.Card {
	out := make([]engine.Card, h.state.boardRevealed)
	copy(out, h.board[:h.state.boardRevealed])
	return out
}

func (h *Hand) nextStreet() Street {
	if h.state.street == StreetFlop {
		return StreetTurn
	}
	return StreetRiver
}

func (h *Hand) advanceStreet(target Street) {
	h.state.street = target
	switch target {
	case StreetPreflop:
		h.state.boardRevealed = 0
	case StreetFlop:
		h.state.boardRevealed = 3
	case StreetTurn:
		h.state.boardRevealed = 4
	default:
		h.state.boardRevealed = 5
	}
	h.refreshState()
}

// refreshState maintains the invariants: pot is the sum of both investments,
// effective stack is the smaller remaining stack, floored at zero.
func (h *Hand) refreshState() {
	h.state.potBB = h.state.heroInvestedBB + h.state.villainInvestedBB
	h.state.effectiveStackBB = effectiveStack(h.state.heroInvestedBB, h.state.villainInvestedBB)
}

func (h *Hand) evLoss() float64 {
	return max0(h.totalBestEV - h.totalChosenEV)
}

func (h *Hand) finish(profitBB float64) (HandResult, bool) {
	h.completed = true
	h.state.street = StreetTerminal
	return HandResult{ProfitBB: profitBB, EVLossBB: h.evLoss()}, true
}

func effectiveStack(heroInvested, villainInvested float64) float64 {
	return minf(max0(MaxStackBB-heroInvested), max0(MaxStackBB-villainInvested))
}

// foldProbability derives the villain's postflop fold chance from a street
// baseline, the preset's aggression metric for that street and the hero's
// current equity. The 0.3/0.35 coefficients are inherited tuning constants.
func foldProbability(profile rival.Profile, equity float64, street Street) float64 {
	base := 0.45
	aggressionMetric := 0.5
	switch street {
	case StreetFlop:
		base, aggressionMetric = flopFoldBase, profile.FlopContinuationBet
	case StreetTurn:
		base, aggressionMetric = turnFoldBase, profile.TurnBarrelFrequency
	case StreetRiver:
		base, aggressionMetric = riverFoldBase, profile.RiverProbeFrequency
	}

	raw := base +
		(0.5-aggressionMetric)*foldAggressionFactor +
		(0.5-equity)*foldEquityFactor
	if raw < foldProbFloor {
		return foldProbFloor
	}
	if raw > foldProbCeil {
		return foldProbCeil
	}
	return raw
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
