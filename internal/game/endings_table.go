package game

import (
	"math"
	"strconv"
	"strings"
)

// Predicate helpers over accumulated state.

// allSameDigit reports whether n renders as a repeated single digit, like
// 7777. Needs at least two digits to count.
func allSameDigit(n int) bool {
	if n < 0 {
		return false
	}
	s := strconv.Itoa(n)
	if len(s) < 2 {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// containsMemeDigits reports whether n's decimal form contains the 114514
// sequence.
func containsMemeDigits(n int) bool {
	if n < 0 {
		return false
	}
	return strings.Contains(strconv.Itoa(n), "114514")
}

// balancedActionUse is true when each action type's share of total actions is
// within the tolerance band around 1/3.
func balancedActionUse(counts ActionCounts) bool {
	const tolerance = 0.05
	if counts.Total == 0 {
		return false
	}
	total := float64(counts.Total)
	for _, c := range []int{counts.Work, counts.Eat, counts.Guest} {
		if math.Abs(float64(c)/total-1.0/3.0) > tolerance {
			return false
		}
	}
	return true
}

func day1Sequence(state GameState, actions ...ActionType) bool {
	if len(state.Day1Actions) != len(actions) {
		return false
	}
	for i, a := range actions {
		if state.Day1Actions[i] != a {
			return false
		}
	}
	return true
}

func alwaysMatch(GameState, EndingContext) bool { return true }

// endingTable is the full static rule table. Order matters: equal effective
// priorities resolve to the earlier entry, so this slice is part of the
// observable contract and must not be reordered.
var endingTable = []EndingDef{
	// Instant specials, reachable only through the guest action.
	{
		ID: "special_noa_devotion", Category: CategorySpecial, Trigger: TriggerInstant,
		PriorityFirst: 95, PriorityRepeat: 60,
		Match: func(s GameState, _ EndingContext) bool { return s.GuestCounts[GuestNoa] >= 10 },
	},
	{
		ID: "special_koyuki_jackpot", Category: CategorySpecial, Trigger: TriggerInstant,
		PriorityFirst: 100, PriorityRepeat: 100, OneTime: true,
		Match: func(s GameState, _ EndingContext) bool { return s.GuestCounts[GuestKoyuki] >= 15 },
	},
	{
		ID: "special_koyuki_ruin", Category: CategorySpecial, Trigger: TriggerInstant,
		PriorityFirst: 90, PriorityRepeat: 55,
		Match: func(s GameState, _ EndingContext) bool { return s.KoyukiLossCount >= 8 },
	},

	// Cross-category novelty rules.
	{
		ID: "special_millionaire_meme", Category: CategoryAny, Trigger: TriggerOnEnd,
		PriorityFirst: 99, PriorityRepeat: 99, OneTime: true,
		Match: func(s GameState, _ EndingContext) bool { return s.Money >= 1000000 },
	},
	{
		ID: "any_meme_money", Category: CategoryAny, Trigger: TriggerOnEnd,
		PriorityFirst: 85, PriorityRepeat: 40,
		Match: func(s GameState, _ EndingContext) bool { return containsMemeDigits(s.Money) },
	},
	{
		ID: "any_same_digit_money", Category: CategoryAny, Trigger: TriggerOnEnd,
		PriorityFirst: 80, PriorityRepeat: 35,
		Match: func(s GameState, _ EndingContext) bool { return allSameDigit(s.Money) },
	},
	{
		ID: "any_midnight", Category: CategoryAny, Trigger: TriggerOnEnd,
		PriorityFirst: 70, PriorityRepeat: 20,
		Match: func(_ GameState, ctx EndingContext) bool { return ctx.Now == "00:00" },
	},

	// Normal endings, day-100 survivors.
	{
		ID: "normal_thigh_810", Category: CategoryNormal, Trigger: TriggerOnEnd,
		PriorityFirst: 82, PriorityRepeat: 38,
		Match: func(s GameState, _ EndingContext) bool { return int(math.Floor(s.ThighCm)) == 810 },
	},
	{
		ID: "normal_same_digit_thigh", Category: CategoryNormal, Trigger: TriggerOnEnd,
		PriorityFirst: 78, PriorityRepeat: 33,
		Match: func(s GameState, _ EndingContext) bool { return allSameDigit(int(math.Floor(s.ThighCm))) },
	},
	{
		ID: "normal_giantess", Category: CategoryNormal, Trigger: TriggerOnEnd,
		PriorityFirst: 75, PriorityRepeat: 45,
		Match: func(_ GameState, ctx EndingContext) bool { return ctx.Stage >= 20 },
	},
	{
		ID: "normal_untouched", Category: CategoryNormal, Trigger: TriggerOnEnd,
		PriorityFirst: 72, PriorityRepeat: 30,
		Match: func(s GameState, _ EndingContext) bool { return s.ThighCm <= InitialThighCm },
	},
	{
		ID: "normal_morning_eater", Category: CategoryNormal, Trigger: TriggerOnEnd,
		PriorityFirst: 65, PriorityRepeat: 25,
		Match: func(s GameState, _ EndingContext) bool { return s.EatSlotsMask == EatSlotMorning },
	},
	{
		ID: "normal_evening_eater", Category: CategoryNormal, Trigger: TriggerOnEnd,
		PriorityFirst: 65, PriorityRepeat: 25,
		Match: func(s GameState, _ EndingContext) bool { return s.EatSlotsMask == EatSlotEvening },
	},
	{
		ID: "normal_full_schedule", Category: CategoryNormal, Trigger: TriggerOnEnd,
		PriorityFirst: 55, PriorityRepeat: 18,
		Match: func(s GameState, _ EndingContext) bool { return s.EatSlotsMask == EatSlotsAll },
	},
	{
		ID: "normal_day1_work3", Category: CategoryNormal, Trigger: TriggerOnEnd,
		PriorityFirst: 50, PriorityRepeat: 15,
		Match: func(s GameState, _ EndingContext) bool {
			return day1Sequence(s, ActionWork, ActionWork, ActionWork)
		},
	},
	{
		ID: "normal_day1_eat3", Category: CategoryNormal, Trigger: TriggerOnEnd,
		PriorityFirst: 50, PriorityRepeat: 15,
		Match: func(s GameState, _ EndingContext) bool {
			return day1Sequence(s, ActionEat, ActionEat, ActionEat)
		},
	},
	{
		ID: "normal_day1_guest3", Category: CategoryNormal, Trigger: TriggerOnEnd,
		PriorityFirst: 50, PriorityRepeat: 15,
		Match: func(s GameState, _ EndingContext) bool {
			return day1Sequence(s, ActionGuest, ActionGuest, ActionGuest)
		},
	},
	{
		ID: "normal_balanced", Category: CategoryNormal, Trigger: TriggerOnEnd,
		PriorityFirst: 45, PriorityRepeat: 12,
		Match: func(s GameState, _ EndingContext) bool { return balancedActionUse(s.ActionCounts) },
	},
	{
		ID: "normal_workaholic", Category: CategoryNormal, Trigger: TriggerOnEnd,
		PriorityFirst: 40, PriorityRepeat: 10,
		Match: func(s GameState, _ EndingContext) bool { return s.ActionCounts.Work >= 200 },
	},
	{
		ID: "normal_gourmet", Category: CategoryNormal, Trigger: TriggerOnEnd,
		PriorityFirst: 40, PriorityRepeat: 10,
		Match: func(s GameState, _ EndingContext) bool { return s.ActionCounts.Eat >= 150 },
	},
	{
		ID: "normal_socialite", Category: CategoryNormal, Trigger: TriggerOnEnd,
		PriorityFirst: 40, PriorityRepeat: 10,
		Match: func(s GameState, _ EndingContext) bool { return s.ActionCounts.Guest >= 120 },
	},
	{
		ID: "normal_plain", Category: CategoryNormal, Trigger: TriggerOnEnd,
		PriorityFirst: 0, PriorityRepeat: 0,
		Match: alwaysMatch,
	},

	// Bankrupt endings.
	{
		ID: "bankrupt_day1", Category: CategoryBankrupt, Trigger: TriggerOnEnd,
		PriorityFirst: 60, PriorityRepeat: 20,
		Match: func(s GameState, _ EndingContext) bool { return s.Day == 1 },
	},
	{
		ID: "bankrupt_koyuki", Category: CategoryBankrupt, Trigger: TriggerOnEnd,
		PriorityFirst: 55, PriorityRepeat: 18,
		Match: func(s GameState, _ EndingContext) bool { return s.KoyukiLossCount >= 5 },
	},
	{
		ID: "bankrupt_glutton", Category: CategoryBankrupt, Trigger: TriggerOnEnd,
		PriorityFirst: 50, PriorityRepeat: 15,
		Match: func(s GameState, _ EndingContext) bool {
			return s.ActionCounts.Eat >= 50 && s.ActionCounts.Eat > s.ActionCounts.Work*2
		},
	},
	{
		ID: "bankrupt_plain", Category: CategoryBankrupt, Trigger: TriggerOnEnd,
		PriorityFirst: 0, PriorityRepeat: 0,
		Match: alwaysMatch,
	},

	// Stress-exhaustion endings.
	{
		ID: "stress_workaholic", Category: CategoryStress, Trigger: TriggerOnEnd,
		PriorityFirst: 55, PriorityRepeat: 18,
		Match: func(s GameState, _ EndingContext) bool { return s.ActionCounts.Work >= 150 },
	},
	{
		ID: "stress_party", Category: CategoryStress, Trigger: TriggerOnEnd,
		PriorityFirst: 50, PriorityRepeat: 15,
		Match: func(s GameState, _ EndingContext) bool { return s.ActionCounts.Guest >= 100 },
	},
	{
		ID: "stress_plain", Category: CategoryStress, Trigger: TriggerOnEnd,
		PriorityFirst: 0, PriorityRepeat: 0,
		Match: alwaysMatch,
	},
}

// EndingIDs returns every id in the table, in table order. The backend uses
// it to validate submissions and seed collection stats.
func EndingIDs() []string {
	ids := make([]string, 0, len(endingTable)+1)
	for _, def := range endingTable {
		ids = append(ids, def.ID)
	}
	ids = append(ids, defaultEndingIDs[CategorySpecial])
	return ids
}

// IsKnownEndingID reports whether id appears in the rule table or defaults.
func IsKnownEndingID(id string) bool {
	for _, def := range endingTable {
		if def.ID == id {
			return true
		}
	}
	for _, fallback := range defaultEndingIDs {
		if fallback == id {
			return true
		}
	}
	return false
}
