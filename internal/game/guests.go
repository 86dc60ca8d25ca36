package game

import (
	"github.com/mwl313/yuuka-grow-sub000/internal/engine"
)

// GuestID identifies one of the seven possible visitors.
type GuestID string

const (
	GuestAlice  GuestID = "alice"
	GuestMomoi  GuestID = "momoi"
	GuestMidori GuestID = "midori"
	GuestYuzu   GuestID = "yuzu"
	GuestNoa    GuestID = "noa"
	GuestAris   GuestID = "aris"
	GuestKoyuki GuestID = "koyuki"
)

// guestOrder fixes the column order of the stress weight table.
var guestOrder = []GuestID{
	GuestAlice, GuestMomoi, GuestMidori, GuestYuzu, GuestNoa, GuestAris, GuestKoyuki,
}

// GuestOutcome is one possible result of a visit. Money and thigh deltas are
// percentages of the current value; stress is an absolute delta applied
// before the caller clamps.
type GuestOutcome struct {
	ID          string
	MoneyPct    float64
	ThighPct    float64
	StressDelta int
	RefillNoa   bool
}

// GuestDef describes a guest: either a single deterministic outcome, or a
// random branch between two outcomes.
type GuestDef struct {
	ID       GuestID
	Random   bool
	Outcomes []GuestOutcome
}

var guestTable = map[GuestID]GuestDef{
	GuestAlice: {ID: GuestAlice, Outcomes: []GuestOutcome{
		{ID: "play", MoneyPct: 0.02, ThighPct: 0.04, StressDelta: 5},
	}},
	GuestMomoi: {ID: GuestMomoi, Outcomes: []GuestOutcome{
		{ID: "stream", MoneyPct: 0.05, ThighPct: 0.01, StressDelta: 8},
	}},
	GuestMidori: {ID: GuestMidori, Outcomes: []GuestOutcome{
		{ID: "sketch", MoneyPct: 0.01, ThighPct: 0.02, StressDelta: -5},
	}},
	GuestYuzu: {ID: GuestYuzu, Outcomes: []GuestOutcome{
		{ID: "feast", MoneyPct: 0, ThighPct: 0.06, StressDelta: 10},
	}},
	GuestNoa: {ID: GuestNoa, Outcomes: []GuestOutcome{
		{ID: "assist", MoneyPct: 0.03, ThighPct: 0, StressDelta: -3, RefillNoa: true},
	}},
	GuestAris: {ID: GuestAris, Random: true, Outcomes: []GuestOutcome{
		{ID: "big", MoneyPct: 0.08, ThighPct: 0.08, StressDelta: 12},
		{ID: "small", MoneyPct: 0.01, ThighPct: 0.01, StressDelta: 2},
	}},
	GuestKoyuki: {ID: GuestKoyuki, Random: true, Outcomes: []GuestOutcome{
		{ID: "win", MoneyPct: 0.25, ThighPct: 0, StressDelta: 15},
		{ID: "lose", MoneyPct: -0.20, ThighPct: 0, StressDelta: 20},
	}},
}

// koyukiBaseWinRate is the unbuffed probability of the "win" branch.
const koyukiBaseWinRate = 0.5

// guestStressWeights maps stress band (row) to per-guest weights in
// guestOrder. Low-stress bands favor the safe visitors; high-stress bands
// shift toward the risky ones.
var guestStressWeights = [5][7]float64{
	{30, 15, 25, 10, 10, 8, 2},
	{22, 18, 20, 12, 12, 10, 6},
	{15, 15, 15, 15, 15, 13, 12},
	{10, 12, 10, 15, 18, 15, 20},
	{5, 8, 5, 12, 20, 20, 30},
}

// GetStressBand maps a stress value to a weighting band 0..4.
func GetStressBand(stress int) int {
	for band, breakpoint := range stressBandBreakpoints {
		if stress < breakpoint {
			return band
		}
	}
	return len(stressBandBreakpoints)
}

// PickGuestByStress selects the visiting guest, weighted by the current
// stress band.
func PickGuestByStress(stress int, src engine.Source) GuestID {
	row := guestStressWeights[GetStressBand(stress)]

	items := make([]engine.Weighted[GuestID], len(guestOrder))
	for i, id := range guestOrder {
		items[i] = engine.Weighted[GuestID]{Value: id, Weight: row[i]}
	}
	return engine.PickWeighted(items, src)
}

// GuestVisit reports which guest arrived and which outcome resolved.
type GuestVisit struct {
	Guest   GuestID
	Outcome string
}

// resolveGuestOutcome picks the branch for a guest. Deterministic guests
// return their single outcome. Koyuki's win branch is weighted by the
// adjusted win probability; other random guests split evenly.
func resolveGuestOutcome(def GuestDef, buffs MultiplierSet, src engine.Source) GuestOutcome {
	if !def.Random {
		return def.Outcomes[0]
	}

	items := make([]engine.Weighted[GuestOutcome], len(def.Outcomes))
	for i, out := range def.Outcomes {
		items[i] = engine.Weighted[GuestOutcome]{Value: out, Weight: 1}
	}

	if def.ID == GuestKoyuki {
		winP := AdjustedWinProbability(koyukiBaseWinRate, buffs.Get(BuffKoyukiWinRate))
		items[0].Weight = winP
		items[1].Weight = 1 - winP
	}

	return engine.PickWeighted(items, src)
}

// ApplyRandomGuestEffect selects a guest by stress band, resolves their
// outcome, and applies it to a copy of the state. Stress is left unclamped
// for the caller.
func ApplyRandomGuestEffect(state GameState, src engine.Source) (GameState, GuestVisit) {
	next := state.clone()

	guestID := PickGuestByStress(next.Stress, src)
	def := guestTable[guestID]
	outcome := resolveGuestOutcome(def, next.Buffs, src)

	next.ThighCm *= 1 + outcome.ThighPct
	next.Money = roundInt(float64(next.Money) * (1 + outcome.MoneyPct))
	next.Stress += outcome.StressDelta
	if outcome.RefillNoa {
		next.NoaWorkCharges = noaChargeRefill
	}

	next.GuestCounts[guestID]++
	if guestID == GuestKoyuki && outcome.ID == "lose" {
		next.KoyukiLossCount++
	}

	return next, GuestVisit{Guest: guestID, Outcome: outcome.ID}
}

// GuestCost returns the money cost of hosting a visit at the given stage,
// after the guestCost multiplier.
func GuestCost(stage int, buffs MultiplierSet) int {
	return roundInt(float64(guestCostPerStage*stage) * buffs.Get(BuffGuestCost))
}
