package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/mwl313/yuuka-grow-sub000/internal/engine"
	"github.com/mwl313/yuuka-grow-sub000/internal/game"
)

// policy picks the next action for the autoplayer.
type policy func(state game.GameState) game.ActionType

func balancedPolicy(state game.GameState) game.ActionType {
	switch state.ActionCounts.Total % 3 {
	case 0:
		return game.ActionWork
	case 1:
		return game.ActionEat
	default:
		return game.ActionGuest
	}
}

func workaholicPolicy(state game.GameState) game.ActionType {
	if !state.AteToday && state.ActionsRemaining == 1 {
		return game.ActionEat
	}
	return game.ActionWork
}

func gourmetPolicy(state game.GameState) game.ActionType {
	if state.Money < 3000 {
		return game.ActionWork
	}
	return game.ActionEat
}

func gamblerPolicy(state game.GameState) game.ActionType {
	if !state.AteToday && state.ActionsRemaining == 1 {
		return game.ActionEat
	}
	if state.Money > 5000 {
		return game.ActionGuest
	}
	return game.ActionWork
}

var policies = map[string]policy{
	"balanced":   balancedPolicy,
	"workaholic": workaholicPolicy,
	"gourmet":    gourmetPolicy,
	"gambler":    gamblerPolicy,
}

// pickCard takes the highest-rarity offer, preferring the earlier slot on
// ties.
func pickCard(cards []game.BuffCardSelection) game.BuffCardSelection {
	best := cards[0]
	for _, card := range cards[1:] {
		if card.RarityScore > best.RarityScore {
			best = card
		}
	}
	return best
}

// collection is the in-memory stand-in for the persistent ending collection
// the real client keeps.
type collection map[string]bool

func (c collection) has(endingID string) bool { return c[endingID] }

func playRun(serverSeed, clientSeed string, round uint64, play policy, col collection) game.RunResult {
	env := game.Env{
		Src:               engine.NewByteGenerator(serverSeed, clientSeed, round, 0),
		Now:               time.Now,
		IsEndingCollected: col.has,
	}

	state := game.NewGameState()
	for {
		var result game.StepResult
		switch play(state) {
		case game.ActionWork:
			result = game.Work(state, env)
		case game.ActionEat:
			result = game.Eat(state, env)
		default:
			result = game.Guest(state, env)
		}

		state = result.State
		if result.Ended != nil {
			col[result.Ended.EndingID] = true
			return *result.Ended
		}

		if offered, cards, ok := game.OfferBuffCards(state, env); ok {
			state = game.AcceptBuffCard(offered, pickCard(cards))
		}
	}
}

func main() {
	serverSeed := flag.String("server-seed", "simulate_server", "server seed for the deterministic RNG stream")
	clientSeed := flag.String("client-seed", "simulate_client", "client seed for the deterministic RNG stream")
	policyName := flag.String("policy", "balanced", "autoplayer policy: balanced, workaholic, gourmet, gambler")
	runs := flag.Int("runs", 10, "number of runs to play")
	flag.Parse()

	play, ok := policies[*policyName]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown policy: %s\n", *policyName)
		os.Exit(1)
	}

	col := collection{}
	histogram := map[string]int{}

	for i := 0; i < *runs; i++ {
		result := playRun(*serverSeed, *clientSeed, uint64(i), play, col)
		histogram[result.EndingID]++

		fmt.Printf("run %3d: day=%3d ending=%s (%s) money=%d thigh=%.1fcm stage=%d\n",
			i+1, result.Day, result.EndingID, result.Category,
			result.FinalMoney, result.FinalThighCm, result.FinalStage())
	}

	fmt.Printf("\n=== Ending histogram (%d runs, policy=%s) ===\n", *runs, *policyName)
	ids := make([]string, 0, len(histogram))
	for id := range histogram {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if histogram[ids[i]] != histogram[ids[j]] {
			return histogram[ids[i]] > histogram[ids[j]]
		}
		return ids[i] < ids[j]
	})
	for _, id := range ids {
		fmt.Printf("%4d  %s\n", histogram[id], id)
	}
	fmt.Printf("collected %d distinct endings\n", len(col))
}
