package game

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"go.uber.org/multierr"
)

// DecodeState reconstructs a GameState from an untrusted persisted snapshot.
// It never fails: any missing, mistyped, non-finite, or out-of-range field
// falls back to its default, and the returned error (possibly nil) aggregates
// what was corrected so the caller can log it. The returned state always
// satisfies every invariant the core expects.
func DecodeState(data []byte) (GameState, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return NewGameState(), fmt.Errorf("snapshot is not an object: %w", err)
	}
	return SanitizeSnapshot(raw)
}

// SanitizeSnapshot normalizes a decoded snapshot map into a valid GameState.
func SanitizeSnapshot(raw map[string]any) (GameState, error) {
	def := NewGameState()
	var errs error

	s := &fieldSanitizer{raw: raw}

	state := GameState{
		Day:              s.intField("day", def.Day, 1, math.MaxInt32),
		ActionsRemaining: s.intField("actionsRemaining", def.ActionsRemaining, 0, ActionsPerDay),
		Money:            s.intField("money", def.Money, math.MinInt32, math.MaxInt32),
		Stress:           s.intField("stress", def.Stress, 0, StressMax),
		ThighCm:          s.floatField("thighCm", def.ThighCm, ThighMinCm, math.MaxFloat64),
		Stress100Days:    s.intField("stress100Days", 0, 0, math.MaxInt32),
		AteToday:         s.boolField("ateToday", false),
		NoaWorkCharges:   s.intField("noaWorkCharges", 0, 0, math.MaxInt32),
		KoyukiLossCount:  s.intField("koyukiLossCount", 0, 0, math.MaxInt32),
		EatSlotsMask:     s.intField("eatSlotsMask", 0, 0, EatSlotsAll),
	}

	state.ActionCounts = s.actionCounts()
	state.GuestCounts = s.guestCounts()
	state.MilestonesHit = s.milestones()
	state.Buffs = s.buffs()
	state.Day1Actions = s.day1Actions()
	state.BuffHistory = s.buffHistory()
	state.Logs = s.logs()

	errs = multierr.Combine(s.errs...)
	return state, errs
}

// fieldSanitizer accumulates one error per corrected field.
type fieldSanitizer struct {
	raw  map[string]any
	errs []error
}

func (s *fieldSanitizer) fallback(field, reason string) {
	s.errs = append(s.errs, fmt.Errorf("field %s: %s, using default", field, reason))
}

// number coerces a JSON value to a finite float64.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func (s *fieldSanitizer) floatField(field string, def, lo, hi float64) float64 {
	v, ok := s.raw[field]
	if !ok {
		return def
	}
	f, ok := number(v)
	if !ok {
		s.fallback(field, "not a finite number")
		return def
	}
	if f < lo || f > hi {
		s.fallback(field, "out of range")
		return def
	}
	return f
}

func (s *fieldSanitizer) intField(field string, def, lo, hi int) int {
	v, ok := s.raw[field]
	if !ok {
		return def
	}
	f, ok := number(v)
	if !ok {
		s.fallback(field, "not a finite number")
		return def
	}
	n := int(f)
	if n < lo || n > hi {
		s.fallback(field, "out of range")
		return def
	}
	return n
}

func (s *fieldSanitizer) boolField(field string, def bool) bool {
	v, ok := s.raw[field]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		s.fallback(field, "not a boolean")
		return def
	}
	return b
}

func (s *fieldSanitizer) object(field string) map[string]any {
	v, ok := s.raw[field]
	if !ok {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		s.fallback(field, "not an object")
		return nil
	}
	return m
}

func (s *fieldSanitizer) array(field string) []any {
	v, ok := s.raw[field]
	if !ok {
		return nil
	}
	a, ok := v.([]any)
	if !ok {
		s.fallback(field, "not an array")
		return nil
	}
	return a
}

func (s *fieldSanitizer) actionCounts() ActionCounts {
	m := s.object("actionCounts")
	if m == nil {
		return ActionCounts{}
	}

	counts := ActionCounts{}
	counts.Work = nonNegInt(m["work"])
	counts.Eat = nonNegInt(m["eat"])
	counts.Guest = nonNegInt(m["guest"])
	counts.Total = nonNegInt(m["total"])
	return counts
}

func nonNegInt(v any) int {
	f, ok := number(v)
	if !ok || f < 0 {
		return 0
	}
	return int(f)
}

func (s *fieldSanitizer) guestCounts() map[GuestID]int {
	counts := make(map[GuestID]int)
	m := s.object("guestCounts")
	for key, v := range m {
		id := GuestID(key)
		if _, known := guestTable[id]; !known {
			s.fallback("guestCounts."+key, "unknown guest")
			continue
		}
		counts[id] = nonNegInt(v)
	}
	return counts
}

func (s *fieldSanitizer) milestones() map[int]bool {
	hit := make(map[int]bool)
	m := s.object("milestonesHit")
	for key, v := range m {
		stage, err := strconv.Atoi(key)
		if err != nil || stage < 2 {
			s.fallback("milestonesHit."+key, "not a valid stage")
			continue
		}
		if b, ok := v.(bool); ok && b {
			hit[stage] = true
		}
	}
	return hit
}

func (s *fieldSanitizer) buffs() MultiplierSet {
	buffs := NewMultiplierSet()
	m := s.object("buffs")
	for key, v := range m {
		k := BuffKey(key)
		if _, known := buffProfiles[k]; !known {
			s.fallback("buffs."+key, "unknown dimension")
			continue
		}
		f, ok := number(v)
		if !ok || f < multiplierFloor {
			s.fallback("buffs."+key, "not a valid multiplier")
			continue
		}
		buffs[k] = f
	}
	return buffs
}

func (s *fieldSanitizer) day1Actions() []ActionType {
	actions := []ActionType{}
	for i, v := range s.array("day1Actions") {
		if len(actions) >= ActionsPerDay {
			break
		}
		str, ok := v.(string)
		if !ok {
			s.fallback(fmt.Sprintf("day1Actions[%d]", i), "not a string")
			continue
		}
		switch a := ActionType(str); a {
		case ActionWork, ActionEat, ActionGuest:
			actions = append(actions, a)
		default:
			s.fallback(fmt.Sprintf("day1Actions[%d]", i), "unknown action")
		}
	}
	return actions
}

func (s *fieldSanitizer) buffHistory() []BuffCardSelection {
	history := []BuffCardSelection{}
	for i, v := range s.array("buffHistory") {
		encoded, err := json.Marshal(v)
		if err != nil {
			s.fallback(fmt.Sprintf("buffHistory[%d]", i), "not encodable")
			continue
		}
		var card BuffCardSelection
		if err := json.Unmarshal(encoded, &card); err != nil {
			s.fallback(fmt.Sprintf("buffHistory[%d]", i), "not a card")
			continue
		}
		if !validCardEffect(card.Buff) || !validCardEffect(card.Debuff) {
			s.fallback(fmt.Sprintf("buffHistory[%d]", i), "invalid effect")
			continue
		}
		history = append(history, card)
	}
	return history
}

func validCardEffect(e BuffEffect) bool {
	if _, known := buffProfiles[e.Key]; !known {
		return false
	}
	return !math.IsNaN(e.Delta) && !math.IsInf(e.Delta, 0)
}

func (s *fieldSanitizer) logs() []LogEvent {
	logs := []LogEvent{}
	for i, v := range s.array("logs") {
		m, ok := v.(map[string]any)
		if !ok {
			s.fallback(fmt.Sprintf("logs[%d]", i), "not an object")
			continue
		}
		key, ok := m["key"].(string)
		if !ok || key == "" {
			s.fallback(fmt.Sprintf("logs[%d]", i), "missing key")
			continue
		}
		ev := LogEvent{Key: key}
		if params, ok := m["params"].(map[string]any); ok {
			ev.Params = params
		}
		logs = append(logs, ev)
	}
	return logs
}
