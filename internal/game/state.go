package game

import (
	"encoding/json"
	"math"
)

// ActionType identifies one of the three daily actions.
type ActionType string

const (
	ActionWork  ActionType = "work"
	ActionEat   ActionType = "eat"
	ActionGuest ActionType = "guest"
)

// LogEvent is one structured entry in the run log. The core only appends
// these; formatting and localization happen in the presentation layer, keyed
// by Key.
type LogEvent struct {
	Key    string         `json:"key"`
	Params map[string]any `json:"params,omitempty"`
}

// Encode renders the event as its canonical JSON string form.
func (e LogEvent) Encode() string {
	b, err := json.Marshal(e)
	if err != nil {
		return `{"key":"encode_error"}`
	}
	return string(b)
}

// ActionCounts tracks lifetime action usage.
type ActionCounts struct {
	Work  int `json:"work"`
	Eat   int `json:"eat"`
	Guest int `json:"guest"`
	Total int `json:"total"`
}

// GameState is a full snapshot of one run. Resolvers never mutate a state in
// place; every transition copies, edits, and returns a new value.
type GameState struct {
	Day              int                 `json:"day"`
	ActionsRemaining int                 `json:"actionsRemaining"`
	Money            int                 `json:"money"`
	Stress           int                 `json:"stress"`
	ThighCm          float64             `json:"thighCm"`
	Stress100Days    int                 `json:"stress100Days"`
	AteToday         bool                `json:"ateToday"`
	NoaWorkCharges   int                 `json:"noaWorkCharges"`
	ActionCounts     ActionCounts        `json:"actionCounts"`
	GuestCounts      map[GuestID]int     `json:"guestCounts"`
	KoyukiLossCount  int                 `json:"koyukiLossCount"`
	EatSlotsMask     int                 `json:"eatSlotsMask"`
	Day1Actions      []ActionType        `json:"day1Actions"`
	MilestonesHit    map[int]bool        `json:"milestonesHit"`
	Buffs            MultiplierSet       `json:"buffs"`
	BuffHistory      []BuffCardSelection `json:"buffHistory"`
	Logs             []LogEvent          `json:"logs"`
}

// NewGameState returns the canonical day-1 starting state.
func NewGameState() GameState {
	return GameState{
		Day:              1,
		ActionsRemaining: ActionsPerDay,
		Money:            InitialMoney,
		Stress:           0,
		ThighCm:          InitialThighCm,
		GuestCounts:      make(map[GuestID]int),
		Day1Actions:      []ActionType{},
		MilestonesHit:    make(map[int]bool),
		Buffs:            NewMultiplierSet(),
		BuffHistory:      []BuffCardSelection{},
		Logs:             []LogEvent{},
	}
}

// clone deep-copies the state so a resolver can edit freely without touching
// the caller's snapshot.
func (g GameState) clone() GameState {
	next := g

	next.GuestCounts = make(map[GuestID]int, len(g.GuestCounts))
	for k, v := range g.GuestCounts {
		next.GuestCounts[k] = v
	}

	next.MilestonesHit = make(map[int]bool, len(g.MilestonesHit))
	for k, v := range g.MilestonesHit {
		next.MilestonesHit[k] = v
	}

	next.Buffs = g.Buffs.clone()

	next.Day1Actions = append([]ActionType(nil), g.Day1Actions...)
	next.BuffHistory = append([]BuffCardSelection(nil), g.BuffHistory...)
	next.Logs = append([]LogEvent(nil), g.Logs...)

	return next
}

// Stage returns the current growth stage of this state.
func (g GameState) Stage() int {
	return Stage(g.ThighCm)
}

func (g *GameState) appendLog(key string, params map[string]any) {
	g.Logs = append(g.Logs, LogEvent{Key: key, Params: params})
}

// recordDay1Action tracks the first three action types of day 1 for ending
// predicates.
func (g *GameState) recordDay1Action(action ActionType) {
	if g.Day == 1 && len(g.Day1Actions) < ActionsPerDay {
		g.Day1Actions = append(g.Day1Actions, action)
	}
}

func (g *GameState) clampVitals() {
	g.Stress = clampInt(g.Stress, 0, StressMax)
	if g.ThighCm < ThighMinCm {
		g.ThighCm = ThighMinCm
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// roundInt rounds half away from zero, matching how the game rounds every
// money and stress delta.
func roundInt(v float64) int {
	return int(math.Round(v))
}
