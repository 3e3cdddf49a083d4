package session

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"gto-trainer/server/rival"
)

// Config sets up a training session. Seed 0 draws a seed from the clock;
// any other value makes the whole session reproducible.
type Config struct {
	Hands      int         `json:"hands"`
	MCSamples  int         `json:"mc_samples"`
	Seed       int64       `json:"seed"`
	RivalStyle rival.Style `json:"rival_style"`
}

func (c Config) withDefaults() Config {
	if c.Hands <= 0 {
		c.Hands = 1
	}
	if c.MCSamples <= 0 {
		c.MCSamples = 200
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	if c.RivalStyle == "" {
		c.RivalStyle = rival.StyleBalanced
	}
	return c
}

// Status reports whether the session still wants input.
type Status string

const (
	StatusAwaitingInput Status = "awaiting_input"
	StatusCompleted     Status = "completed"
)

// Summary aggregates results across the session's hands, in big blinds.
type Summary struct {
	HandsPlayed   int     `json:"hands_played"`
	TotalEVLossBB float64 `json:"total_ev_loss_bb"`
	TotalProfitBB float64 `json:"total_profit_bb"`
}

// State is the full session view returned to presentation layers.
// RivalCards carries the holding revealed by the most recently completed
// hand (empty until one has ended).
type State struct {
	SessionID  uuid.UUID    `json:"session_id"`
	HandIndex  int          `json:"hand_index"`
	Node       NodeSnapshot `json:"node"`
	Status     Status       `json:"status"`
	Summary    Summary      `json:"summary"`
	RivalCards []string     `json:"rival_cards,omitempty"`
}

// DecisionRecord describes one applied decision for persistence.
type DecisionRecord struct {
	Street     Street
	PotBB      float64
	Action     Action
	EVChosenBB float64
	EVBestBB   float64
}

// Recorder receives decision- and hand-level results as they happen. A nil
// recorder disables persistence; implementations must not block the session
// on failures.
type Recorder interface {
	Decision(sessionID uuid.UUID, handIndex int, rec DecisionRecord)
	HandDone(sessionID uuid.UUID, handIndex int, result HandResult)
}

// Session owns the rng stream and the current hand, replacing it on
// completion until the configured hand count is reached. A Session is not
// safe for concurrent use; callers serialize access (one lock per session).
type Session struct {
	id        uuid.UUID
	rng       *rand.Rand
	config    Config
	profile   rival.Profile
	hand      *Hand
	summary   Summary
	recorder  Recorder
	lastRival []string
}

// New creates a session, deals the first hand and computes its first menu.
func New(config Config) *Session {
	config = config.withDefaults()
	s := &Session{
		id:      uuid.New(),
		rng:     rand.New(rand.NewSource(config.Seed)),
		config:  config,
		profile: rival.Resolve(config.RivalStyle),
	}
	s.hand = NewHand(s.rng)
	s.hand.ComputeOptions(s.rng, s.profile, s.config.MCSamples)
	return s
}

func (s *Session) ID() uuid.UUID { return s.id }

// SetRecorder attaches an optional persistence sink.
func (s *Session) SetRecorder(r Recorder) { s.recorder = r }

// Snapshot returns the current state. A live hand with an empty menu gets
// its options recomputed lazily.
func (s *Session) Snapshot() State {
	if s.hand == nil {
		return State{
			SessionID: s.id,
			HandIndex: s.summary.HandsPlayed,
			Node: NodeSnapshot{
				Street:          StreetTerminal,
				RivalCardsKnown: true,
				Board:           []string{},
				HeroCards:       []string{},
				ActionOptions:   []ActionOption{},
			},
			Status:     StatusCompleted,
			Summary:    s.summary,
			RivalCards: s.lastRival,
		}
	}

	if len(s.hand.Options()) == 0 && !s.hand.Completed() {
		s.hand.ComputeOptions(s.rng, s.profile, s.config.MCSamples)
	}
	return State{
		SessionID:  s.id,
		HandIndex:  s.summary.HandsPlayed + 1,
		Node:       s.hand.Snapshot(),
		Status:     StatusAwaitingInput,
		Summary:    s.summary,
		RivalCards: s.lastRival,
	}
}

// Apply feeds the chosen action to the current hand. Unknown actions are a
// no-op (the caller re-presents the menu). A completed hand rolls into the
// summary and, while hands remain, a fresh deal.
func (s *Session) Apply(action Action) {
	if s.hand == nil || s.hand.Completed() {
		return
	}

	handIndex := s.summary.HandsPlayed + 1
	bestEV := s.hand.currentBestEV
	snapshotPot := s.hand.state.potBB
	street := s.hand.state.street
	chosenEV, matched := s.hand.optionEV(action)

	result, done := s.hand.Apply(action, s.rng, s.profile, s.config.MCSamples)

	if matched && s.recorder != nil {
		s.recorder.Decision(s.id, handIndex, DecisionRecord{
			Street:     street,
			PotBB:      snapshotPot,
			Action:     action,
			EVChosenBB: chosenEV,
			EVBestBB:   bestEV,
		})
	}

	if !done {
		if matched {
			s.hand.ComputeOptions(s.rng, s.profile, s.config.MCSamples)
		}
		return
	}

	s.summary.HandsPlayed++
	s.summary.TotalEVLossBB += result.EVLossBB
	s.summary.TotalProfitBB += result.ProfitBB
	s.lastRival = s.hand.RivalCards()
	if s.recorder != nil {
		s.recorder.HandDone(s.id, handIndex, result)
	}

	if s.summary.HandsPlayed < s.config.Hands {
		s.hand = NewHand(s.rng)
		s.hand.ComputeOptions(s.rng, s.profile, s.config.MCSamples)
	} else {
		s.hand = nil
	}
}

// Config returns the effective (defaulted) configuration.
func (s *Session) Config() Config { return s.config }

func (h *Hand) optionEV(action Action) (float64, bool) {
	for _, opt := range h.options {
		if opt.Action == action {
			return opt.EVDeltaBB, true
		}
	}
	return 0, false
}
