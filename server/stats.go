package main

import (
	"math"
	"math/rand"
	"sort"
)

// trainingStats accumulates per-decision and per-hand observations for the
// end-of-session report.
type trainingStats struct {
	decisions    int
	bestDecision int
	profits      []float64
}

func (t *trainingStats) addDecision(tookBest bool) {
	t.decisions++
	if tookBest {
		t.bestDecision++
	}
}

func (t *trainingStats) addProfit(profitBB float64) {
	t.profits = append(t.profits, profitBB)
}

func (t *trainingStats) bestRate() float64 {
	if t.decisions == 0 {
		return 0
	}
	return float64(t.bestDecision) / float64(t.decisions)
}

// WilsonCI95 bounds a Bernoulli proportion (here: rate of best-EV decisions)
// from successes out of total.
func WilsonCI95(successes, total int) (low, hi float64) {
	if total <= 0 {
		return 0, 1
	}
	z := 1.96
	n := float64(total)
	p := float64(successes) / n
	den := 1 + (z*z)/n
	center := p + (z*z)/(2*n)
	half := z * math.Sqrt((p*(1-p))/n+(z*z)/(4*n*n))
	return (center - half) / den, (center + half) / den
}

// BootstrapCI95 bounds the mean of vals (here: per-hand profit in bb) by
// resampling with replacement B times.
func BootstrapCI95(vals []float64, B int) (low, hi float64) {
	n := len(vals)
	if n == 0 || B <= 1 {
		return 0, 0
	}
	res := make([]float64, B)
	for b := 0; b < B; b++ {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += vals[rand.Intn(n)]
		}
		res[b] = sum / float64(n)
	}
	sort.Float64s(res)
	l := int(0.025 * float64(B-1))
	h := int(0.975 * float64(B-1))
	return res[l], res[h]
}
