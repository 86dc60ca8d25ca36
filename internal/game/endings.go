package game

import "time"

// EndingCategory is the base classification of a terminal run.
type EndingCategory string

const (
	CategoryNormal   EndingCategory = "normal"
	CategoryBankrupt EndingCategory = "bankrupt"
	CategoryStress   EndingCategory = "stress"
	CategorySpecial  EndingCategory = "special"
	// CategoryAny marks rules eligible under every base category.
	CategoryAny EndingCategory = "any"
)

// TriggerKind distinguishes endings fired mid-action from those resolved at
// day end.
type TriggerKind string

const (
	TriggerInstant TriggerKind = "instant"
	TriggerOnEnd   TriggerKind = "on_end"
)

// EndingContext carries the evaluation-time facts a predicate can see beyond
// the state itself.
type EndingContext struct {
	// Now is the wall-clock end time as "HH:MM".
	Now string
	// Stage is the growth stage at evaluation time.
	Stage int
}

// CollectionCheck reports whether an ending id is already in the player's
// persistent collection. Supplied by the persistence collaborator.
type CollectionCheck func(endingID string) bool

// EndingDef is one declarative rule in the static ending table. Table order
// is part of the contract: equal effective priorities resolve to the earlier
// entry.
type EndingDef struct {
	ID             string
	Category       EndingCategory
	Trigger        TriggerKind
	PriorityFirst  int
	PriorityRepeat int
	// OneTime endings drop out of candidacy entirely once collected.
	OneTime bool
	Match   func(state GameState, ctx EndingContext) bool
}

func (d EndingDef) effectivePriority(collected bool) int {
	if collected {
		return d.PriorityRepeat
	}
	return d.PriorityFirst
}

// RunResult is the immutable terminal snapshot of a finished run.
type RunResult struct {
	EndedAt      time.Time      `json:"endedAt"`
	Category     EndingCategory `json:"category"`
	EndingID     string         `json:"endingId"`
	Day          int            `json:"day"`
	FinalThighCm float64        `json:"finalThighCm"`
	FinalMoney   int            `json:"finalMoney"`
	FinalStress  int            `json:"finalStress"`
}

// FinalStage is the stage of the final growth metric, as submitted to the
// leaderboard.
func (r RunResult) FinalStage() int {
	return Stage(r.FinalThighCm)
}

var defaultEndingIDs = map[EndingCategory]string{
	CategoryNormal:   "normal_plain",
	CategoryBankrupt: "bankrupt_plain",
	CategoryStress:   "stress_plain",
	CategorySpecial:  "special_plain",
}

func categoryEligible(def EndingDef, base EndingCategory) bool {
	return def.Category == base || def.Category == CategoryAny
}

// SelectEnding resolves the concrete ending id for a run that terminated with
// the given base category. Candidates are every on_end rule whose category
// matches and whose predicate holds; the winner has the highest effective
// priority, ties broken by table order. With no candidates the category's
// fixed default applies.
func SelectEnding(base EndingCategory, state GameState, ctx EndingContext, isCollected CollectionCheck) string {
	bestID := ""
	bestPriority := 0

	for _, def := range endingTable {
		if def.Trigger != TriggerOnEnd {
			continue
		}
		if !categoryEligible(def, base) {
			continue
		}

		collected := isCollected != nil && isCollected(def.ID)
		if def.OneTime && collected {
			continue
		}
		if !def.Match(state, ctx) {
			continue
		}

		priority := def.effectivePriority(collected)
		if bestID == "" || priority > bestPriority {
			bestID = def.ID
			bestPriority = priority
		}
	}

	if bestID == "" {
		return defaultEndingIDs[base]
	}
	return bestID
}

// SelectInstantSpecialEndingID scans the instant special rules. It is called
// only from the guest action handler; there is no fallback default, the
// second return reports whether anything fired.
func SelectInstantSpecialEndingID(state GameState, ctx EndingContext, isCollected CollectionCheck) (string, bool) {
	bestID := ""
	bestPriority := 0

	for _, def := range endingTable {
		if def.Trigger != TriggerInstant || def.Category != CategorySpecial {
			continue
		}

		collected := isCollected != nil && isCollected(def.ID)
		if def.OneTime && collected {
			continue
		}
		if !def.Match(state, ctx) {
			continue
		}

		priority := def.effectivePriority(collected)
		if bestID == "" || priority > bestPriority {
			bestID = def.ID
			bestPriority = priority
		}
	}

	return bestID, bestID != ""
}
