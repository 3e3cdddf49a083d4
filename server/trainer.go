package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/pterm/pterm"

	"gto-trainer/server/rival"
	"gto-trainer/server/session"
	"gto-trainer/server/store"
)

const quitChoice = "Quit session"

// runTrainer drives an interactive session at the terminal. With autoplay
// set, the best-EV action is taken on every node instead of prompting, which
// doubles as a smoke run for CI boxes without a TTY.
func runTrainer(cfg appConfig, db *store.DB, autoplay bool) {
	if cfg.NoColor {
		pterm.DisableColor()
	}

	style, _ := rival.ParseStyle(cfg.RivalStyle)
	s := session.New(session.Config{
		Hands:      cfg.Hands,
		MCSamples:  cfg.MCSamples,
		Seed:       cfg.Seed,
		RivalStyle: style,
	})
	if db != nil {
		if err := db.InsertSession(context.Background(), s.ID(), s.Config()); err != nil {
			log.Printf("DB disabled for this session: %v", err)
			db = nil
		} else {
			s.SetRecorder(store.Recorder{DB: db})
			defer func() {
				if err := db.CloseSession(context.Background(), s.ID()); err != nil {
					log.Printf("close session row: %v", err)
				}
			}()
		}
	}

	pterm.DefaultBox.WithTitle("EV Trainer").Println(fmt.Sprintf(
		"%d hand(s) vs %s rival, %d equity samples per node",
		cfg.Hands, style, cfg.MCSamples))

	stats := &trainingStats{}
	lastHand := 0
	for {
		state := s.Snapshot()
		if state.Status == session.StatusCompleted {
			printSummary(state.Summary, stats)
			return
		}
		if state.HandIndex != lastHand {
			lastHand = state.HandIndex
			printHandHeader(state)
		}
		printNode(state.Node)

		var action session.Action
		if autoplay {
			action = bestAction(state.Node.ActionOptions)
			pterm.Info.Printfln("auto: %s", describeAction(action))
		} else {
			chosen, quit := promptAction(state.Node.ActionOptions)
			if quit {
				printSummary(state.Summary, stats)
				return
			}
			action = chosen
		}
		stats.addDecision(tookBestOption(action, state.Node.ActionOptions))

		before := state.Summary.HandsPlayed
		s.Apply(action)
		after := s.Snapshot()
		if after.Summary.HandsPlayed > before {
			stats.addProfit(after.Summary.TotalProfitBB - state.Summary.TotalProfitBB)
			printHandResult(state, after)
		}
	}
}

func tookBestOption(chosen session.Action, options []session.ActionOption) bool {
	chosenEV := 0.0
	bestEV := math.Inf(-1)
	for _, opt := range options {
		if opt.Action == chosen {
			chosenEV = opt.EVDeltaBB
		}
		if opt.EVDeltaBB > bestEV {
			bestEV = opt.EVDeltaBB
		}
	}
	return chosenEV >= bestEV-1e-9
}

func printHandHeader(state session.State) {
	pterm.Println()
	pterm.DefaultSection.Printfln("Hand %d", state.HandIndex)
	pterm.Printfln("Your cards: %s", pterm.LightCyan(strings.Join(state.Node.HeroCards, " ")))
}

func printNode(node session.NodeSnapshot) {
	board := "--"
	if len(node.Board) > 0 {
		board = strings.Join(node.Board, " ")
	}
	pterm.Printfln("%s | board %s | pot %.1fbb | stack %.1fbb",
		strings.ToUpper(string(node.Street)), pterm.LightGreen(board),
		node.PotBB, node.EffectiveStackBB)
}

func promptAction(options []session.ActionOption) (session.Action, bool) {
	labels := make([]string, 0, len(options)+1)
	for _, opt := range options {
		labels = append(labels, fmt.Sprintf("%-18s EV %+6.2fbb  %s",
			describeAction(opt.Action), opt.EVDeltaBB, opt.Description))
	}
	labels = append(labels, quitChoice)

	selected, _ := pterm.DefaultInteractiveSelect.
		WithDefaultText("Select your action").
		WithOptions(labels).
		Show()
	if selected == quitChoice || selected == "" {
		return session.Action{}, true
	}
	for i, label := range labels[:len(options)] {
		if label == selected {
			return options[i].Action, false
		}
	}
	return session.Action{}, true
}

func bestAction(options []session.ActionOption) session.Action {
	best := options[0]
	for _, opt := range options[1:] {
		if opt.EVDeltaBB > best.EVDeltaBB {
			best = opt
		}
	}
	return best.Action
}

func describeAction(a session.Action) string {
	if a.SizeBB > 0 {
		return fmt.Sprintf("%s %.1fbb", a.Kind, a.SizeBB)
	}
	return string(a.Kind)
}

func printHandResult(before, after session.State) {
	profit := after.Summary.TotalProfitBB - before.Summary.TotalProfitBB
	evLoss := after.Summary.TotalEVLossBB - before.Summary.TotalEVLossBB

	shown := "mucked"
	if len(after.RivalCards) == 2 {
		shown = strings.Join(after.RivalCards, " ")
	}
	line := fmt.Sprintf("profit %+.2fbb | EV lost %.2fbb | rival: %s", profit, evLoss, shown)
	if profit >= 0 {
		pterm.Success.Println(line)
	} else {
		pterm.Warning.Println(line)
	}
}

func printSummary(summary session.Summary, stats *trainingStats) {
	pterm.Println()
	lines := fmt.Sprintf("hands: %d\nprofit: %+.2fbb\nEV lost vs best line: %.2fbb",
		summary.HandsPlayed, summary.TotalProfitBB, summary.TotalEVLossBB)
	if stats.decisions > 0 {
		lo, hi := WilsonCI95(stats.bestDecision, stats.decisions)
		lines += fmt.Sprintf("\nbest action taken: %d/%d (%.0f%%, 95%% CI %.0f-%.0f%%)",
			stats.bestDecision, stats.decisions, stats.bestRate()*100, lo*100, hi*100)
	}
	if len(stats.profits) >= 2 {
		lo, hi := BootstrapCI95(stats.profits, 1000)
		lines += fmt.Sprintf("\nprofit per hand 95%% CI: [%+.2f, %+.2f]bb", lo, hi)
	}
	pterm.DefaultBox.WithTitle("Session summary").Println(lines)
}
