package session

// Street is a betting round. Showdown and Terminal are absorbing; an early
// fold jumps straight to Terminal without visiting Showdown.
type Street string

const (
	StreetPreflop  Street = "preflop"
	StreetFlop     Street = "flop"
	StreetTurn     Street = "turn"
	StreetRiver    Street = "river"
	StreetShowdown Street = "showdown"
	StreetTerminal Street = "terminal"
)

// ActionKind tags a hero action.
type ActionKind string

const (
	ActionFold  ActionKind = "fold"
	ActionCall  ActionKind = "call"
	ActionCheck ActionKind = "check"
	ActionBet   ActionKind = "bet"
	ActionRaise ActionKind = "raise"
)

// Action is a tagged value: kind plus an optional size. SizeBB == 0 means the
// action carries no size (fold/check). Two actions are the same action iff
// both kind and size match.
type Action struct {
	Kind   ActionKind `json:"kind"`
	SizeBB float64    `json:"size_bb,omitempty"`
}

// ActionOption is one entry of the decision menu: a legal action annotated
// with its estimated EV delta in big blinds.
type ActionOption struct {
	Action      Action  `json:"action"`
	EVDeltaBB   float64 `json:"ev_delta_bb"`
	Description string  `json:"description"`
}

// NodeSnapshot is what the presentation layers see at a decision point.
// Villain cards stay hidden until the hand is terminal.
type NodeSnapshot struct {
	Street           Street         `json:"street"`
	PotBB            float64        `json:"pot_bb"`
	EffectiveStackBB float64        `json:"effective_stack_bb"`
	Board            []string       `json:"board"`
	HeroCards        []string       `json:"hero_cards"`
	RivalCardsKnown  bool           `json:"rival_cards_known"`
	ActionOptions    []ActionOption `json:"action_options"`
}

// HandResult is the terminal outcome of one hand.
type HandResult struct {
	ProfitBB float64 `json:"profit_bb"`
	EVLossBB float64 `json:"ev_loss_bb"`
}
