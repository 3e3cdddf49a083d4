// Package rival models the opponent as a small set of probability-like
// tendencies resolved from a named style preset. The numbers are tuning
// constants, not solver output: they shape fold frequencies, they do not
// approximate an equilibrium strategy.
package rival

import (
	"fmt"
	"math/rand"
	"strings"

	"gto-trainer/server/engine"
)

// Style selects one of the built-in opponent presets.
type Style string

const (
	StyleBalanced   Style = "balanced"
	StyleAggressive Style = "aggressive"
	StylePassive    Style = "passive"
)

// ParseStyle resolves user/config input into a Style.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case StyleBalanced, "":
		return StyleBalanced, nil
	case StyleAggressive:
		return StyleAggressive, nil
	case StylePassive:
		return StylePassive, nil
	}
	return "", fmt.Errorf("unknown rival style %q", s)
}

// Profile is the immutable per-session parameter set. All fields are in
// [0, 1].
type Profile struct {
	Name                string
	FoldToThreeBetBase  float64
	FlopContinuationBet float64
	TurnBarrelFrequency float64
	RiverProbeFrequency float64
	Aggression          float64
}

// Resolve is a pure lookup; unknown styles fall back to balanced.
func Resolve(style Style) Profile {
	switch style {
	case StyleAggressive:
		return Profile{
			Name:                "aggressive",
			FoldToThreeBetBase:  0.38,
			FlopContinuationBet: 0.71,
			TurnBarrelFrequency: 0.64,
			RiverProbeFrequency: 0.47,
			Aggression:          0.68,
		}
	case StylePassive:
		return Profile{
			Name:                "passive",
			FoldToThreeBetBase:  0.57,
			FlopContinuationBet: 0.44,
			TurnBarrelFrequency: 0.36,
			RiverProbeFrequency: 0.21,
			Aggression:          0.32,
		}
	default:
		return Profile{
			Name:                "balanced",
			FoldToThreeBetBase:  0.48,
			FlopContinuationBet: 0.62,
			TurnBarrelFrequency: 0.52,
			RiverProbeFrequency: 0.33,
			Aggression:          0.5,
		}
	}
}

// FoldToThreeBet adjusts the preset baseline by the hero strength hint:
// stronger perceived hands induce more folds, clamped so the opponent never
// degenerates into always-fold or always-call.
func (p Profile) FoldToThreeBet(heroStrengthHint float64) float64 {
	adjustment := (0.5 - heroStrengthHint) * 0.35
	return clamp(p.FoldToThreeBetBase+adjustment, 0.05, 0.85)
}

// HandStrengthHint is a cheap preflop heuristic in [0, 1]: normalized rank
// sum plus bonuses for pairs, near-connectors and suitedness. It is a read,
// not an equity estimate.
func (p Profile) HandStrengthHint(hole [2]engine.Card) float64 {
	a, b := int(hole[0].Rank), int(hole[1].Rank)
	strength := float64(a+b) / 28.0
	gap := a - b
	if gap < 0 {
		gap = -gap
	}
	if hole[0].Rank == hole[1].Rank {
		strength += 0.25
	} else if gap <= 1 {
		strength += 0.08
	}
	if hole[0].Suit == hole[1].Suit {
		strength += 0.05
	}
	return clamp(strength, 0, 1)
}

// RandomFold consumes exactly one uniform draw and reports whether the
// opponent folds at the given probability.
func (p Profile) RandomFold(rng *rand.Rand, probability float64) bool {
	return rng.Float64() < probability
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
