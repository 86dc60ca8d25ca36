package game

import (
	"testing"
)

func neverCollected(string) bool { return false }

func collectedSet(ids ...string) CollectionCheck {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return func(id string) bool { return set[id] }
}

func TestSelectEndingFallsBackToDefault(t *testing.T) {
	state := NewGameState()
	ctx := EndingContext{Now: "12:00", Stage: 1}

	// The special category has no on_end rules, so the default applies.
	if got := SelectEnding(CategorySpecial, state, ctx, neverCollected); got != "special_plain" {
		t.Errorf("special base resolved to %s, want special_plain", got)
	}
}

func TestSelectEndingPicksHighestPriority(t *testing.T) {
	state := NewGameState()
	state.Day = MaxDay
	state.Money = 777777 // all same digit, priority 80
	state.ThighCm = 100
	ctx := EndingContext{Now: "12:00", Stage: Stage(state.ThighCm)}

	got := SelectEnding(CategoryNormal, state, ctx, neverCollected)
	if got != "any_same_digit_money" {
		t.Errorf("resolved to %s, want any_same_digit_money", got)
	}
}

func TestSelectEndingRepeatPriorityDemotion(t *testing.T) {
	state := NewGameState()
	state.Day = MaxDay
	state.Money = 777777          // any_same_digit_money: first 80, repeat 35
	state.ThighCm = 56            // stage 2
	state.EatSlotsMask = EatSlotMorning // normal_morning_eater: first 65, repeat 25
	ctx := EndingContext{Now: "12:00", Stage: 2}

	// First encounter: the digit ending wins on first-time priority.
	if got := SelectEnding(CategoryNormal, state, ctx, neverCollected); got != "any_same_digit_money" {
		t.Fatalf("first encounter resolved to %s, want any_same_digit_money", got)
	}

	// Once collected, its repeat priority (35) loses to the uncollected
	// morning-eater rule (65).
	got := SelectEnding(CategoryNormal, state, ctx, collectedSet("any_same_digit_money"))
	if got != "normal_morning_eater" {
		t.Errorf("repeat encounter resolved to %s, want normal_morning_eater", got)
	}
}

func TestSelectEndingTieBreaksByTableOrder(t *testing.T) {
	// normal_workaholic and normal_gourmet share both priorities and can
	// match simultaneously; the earlier table entry must win.
	state := NewGameState()
	state.Day = MaxDay
	state.Money = 12345
	state.ThighCm = 100
	state.ActionCounts = ActionCounts{Work: 200, Eat: 150, Guest: 0, Total: 350}
	ctx := EndingContext{Now: "12:00", Stage: Stage(state.ThighCm)}

	if got := SelectEnding(CategoryNormal, state, ctx, neverCollected); got != "normal_workaholic" {
		t.Errorf("tie resolved to %s, want normal_workaholic (table order)", got)
	}
}

func TestOneTimeEndingExcludedAfterCollection(t *testing.T) {
	state := NewGameState()
	state.Day = 50
	state.Money = 2000000 // special_millionaire_meme, one-time, priority 99
	ctx := EndingContext{Now: "12:00", Stage: 1}

	if got := SelectEnding(CategoryNormal, state, ctx, neverCollected); got != "special_millionaire_meme" {
		t.Fatalf("first resolution = %s, want special_millionaire_meme", got)
	}

	// Collected one-time endings leave candidacy entirely, not just drop
	// priority.
	got := SelectEnding(CategoryNormal, state, ctx, collectedSet("special_millionaire_meme"))
	if got == "special_millionaire_meme" {
		t.Error("one-time ending selected again after collection")
	}
}

func TestInstantSpecialSelection(t *testing.T) {
	state := NewGameState()
	ctx := EndingContext{Now: "12:00", Stage: 1}

	if id, ok := SelectInstantSpecialEndingID(state, ctx, neverCollected); ok {
		t.Fatalf("fresh state triggered instant ending %s", id)
	}

	state.GuestCounts[GuestKoyuki] = 15
	id, ok := SelectInstantSpecialEndingID(state, ctx, neverCollected)
	if !ok || id != "special_koyuki_jackpot" {
		t.Errorf("got (%s, %v), want special_koyuki_jackpot", id, ok)
	}

	// The jackpot is one-time; once collected the same state triggers
	// nothing.
	if id, ok := SelectInstantSpecialEndingID(state, ctx, collectedSet("special_koyuki_jackpot")); ok {
		t.Errorf("collected one-time instant ending fired again: %s", id)
	}

	// With both jackpot and ruin conditions live, the higher first-time
	// priority wins.
	state.KoyukiLossCount = 8
	if id, _ := SelectInstantSpecialEndingID(state, ctx, neverCollected); id != "special_koyuki_jackpot" {
		t.Errorf("priority resolution = %s, want special_koyuki_jackpot", id)
	}
}

func TestInstantSpecialIgnoresOnEndRules(t *testing.T) {
	state := NewGameState()
	state.Money = 2000000 // matches the on_end millionaire rule only
	ctx := EndingContext{Now: "12:00", Stage: 1}

	if id, ok := SelectInstantSpecialEndingID(state, ctx, neverCollected); ok {
		t.Errorf("on_end rule leaked into instant selection: %s", id)
	}
}

func TestAnyCategoryEligibleUnderEveryBase(t *testing.T) {
	state := NewGameState()
	state.Money = 1145140
	ctx := EndingContext{Now: "12:00", Stage: 1}

	for _, base := range []EndingCategory{CategoryNormal, CategoryBankrupt, CategoryStress} {
		if got := SelectEnding(base, state, ctx, collectedSet("special_millionaire_meme")); got != "any_meme_money" {
			t.Errorf("base %s resolved to %s, want any_meme_money", base, got)
		}
	}
}

func TestMidnightEnding(t *testing.T) {
	state := NewGameState()
	state.Day = MaxDay
	state.Money = 12345
	state.ThighCm = 100 // keep normal_untouched out of the running
	ctx := EndingContext{Now: "00:00", Stage: Stage(state.ThighCm)}

	if got := SelectEnding(CategoryNormal, state, ctx, neverCollected); got != "any_midnight" {
		t.Errorf("midnight context resolved to %s, want any_midnight", got)
	}
}

func TestAllSameDigit(t *testing.T) {
	tests := []struct {
		n    int
		want bool
	}{
		{7, false}, // single digit does not count
		{77, true},
		{777777, true},
		{767777, false},
		{0, false},
		{-777, false},
	}

	for _, tt := range tests {
		if got := allSameDigit(tt.n); got != tt.want {
			t.Errorf("allSameDigit(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestContainsMemeDigits(t *testing.T) {
	tests := []struct {
		n    int
		want bool
	}{
		{114514, true},
		{1145140, true},
		{21145141, true},
		{114513, false},
		{-114514, false},
	}

	for _, tt := range tests {
		if got := containsMemeDigits(tt.n); got != tt.want {
			t.Errorf("containsMemeDigits(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestBalancedActionUse(t *testing.T) {
	tests := []struct {
		name   string
		counts ActionCounts
		want   bool
	}{
		{"exact thirds", ActionCounts{Work: 100, Eat: 100, Guest: 100, Total: 300}, true},
		{"within tolerance", ActionCounts{Work: 105, Eat: 95, Guest: 100, Total: 300}, true},
		{"lopsided", ActionCounts{Work: 200, Eat: 50, Guest: 50, Total: 300}, false},
		{"no actions", ActionCounts{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := balancedActionUse(tt.counts); got != tt.want {
				t.Errorf("balancedActionUse(%+v) = %v, want %v", tt.counts, got, tt.want)
			}
		})
	}
}

func TestEndingTableIDsUniqueAndKnown(t *testing.T) {
	seen := map[string]bool{}
	for _, def := range endingTable {
		if seen[def.ID] {
			t.Errorf("duplicate ending id %s", def.ID)
		}
		seen[def.ID] = true

		if def.Trigger != TriggerInstant && def.Trigger != TriggerOnEnd {
			t.Errorf("ending %s has invalid trigger %s", def.ID, def.Trigger)
		}
		if !IsKnownEndingID(def.ID) {
			t.Errorf("ending %s not reported as known", def.ID)
		}
	}

	for _, fallback := range defaultEndingIDs {
		if !IsKnownEndingID(fallback) {
			t.Errorf("default ending %s not reported as known", fallback)
		}
	}

	if IsKnownEndingID("no_such_ending") {
		t.Error("unknown id reported as known")
	}
}
