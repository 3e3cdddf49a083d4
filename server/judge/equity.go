// Package judge estimates showdown equity by Monte Carlo simulation.
package judge

import (
	"fmt"
	"math/rand"

	"gto-trainer/server/engine"
)

// Equity estimates the probability that hero's hand beats a villain hand at
// showdown, counting ties as half a win. villain == nil samples a random
// villain holding each iteration; board holds the 0-5 known board cards.
//
// The estimate is deterministic for a given rng state: each sample consumes
// the stream in a fixed order (shuffle, villain draw, board completion).
// Panics if board exceeds 5 cards — that is a caller bug, not a runtime
// condition.
func Equity(hero [2]engine.Card, villain *[2]engine.Card, board []engine.Card, samples int, rng *rand.Rand) float64 {
	if len(board) > 5 {
		panic(fmt.Sprintf("judge: board has %d cards, max 5", len(board)))
	}
	if samples < 1 {
		samples = 1
	}

	sum := 0.0
	for i := 0; i < samples; i++ {
		deck := engine.NewDeck()
		deck = remove(deck, hero[:])
		if villain != nil {
			deck = remove(deck, villain[:])
		}
		deck = remove(deck, board)
		engine.Shuffle(rng, deck)

		next := 0
		var villainHole [2]engine.Card
		if villain != nil {
			villainHole = *villain
		} else {
			villainHole = [2]engine.Card{deck[0], deck[1]}
			next = 2
		}

		fullBoard := make([]engine.Card, 0, 5)
		fullBoard = append(fullBoard, board...)
		for len(fullBoard) < 5 {
			fullBoard = append(fullBoard, deck[next])
			next++
		}

		heroStrength := engine.BestHand(withBoard(hero, fullBoard))
		villainStrength := engine.BestHand(withBoard(villainHole, fullBoard))

		switch heroStrength.Compare(villainStrength) {
		case 1:
			sum += 1.0
		case 0:
			sum += 0.5
		}
	}

	return sum / float64(samples)
}

func remove(deck []engine.Card, cards []engine.Card) []engine.Card {
	out := deck[:0]
	for _, d := range deck {
		keep := true
		for _, c := range cards {
			if d == c {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, d)
		}
	}
	return out
}

func withBoard(hole [2]engine.Card, board []engine.Card) []engine.Card {
	out := make([]engine.Card, 0, 7)
	out = append(out, hole[:]...)
	out = append(out, board...)
	return out
}
