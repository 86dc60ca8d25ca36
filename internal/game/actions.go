package game

import (
	"math"
	"time"

	"github.com/mwl313/yuuka-grow-sub000/internal/engine"
)

// Env bundles the capabilities a resolver needs from its caller: the random
// source, a clock, and the persistent ending-collection check. The core never
// constructs any of these itself.
type Env struct {
	Src               engine.Source
	Now               func() time.Time
	IsEndingCollected CollectionCheck
}

func (e Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// StepResult is the outcome of one resolved action: the new state, whether
// the day rolled over, and the terminal result if the run ended.
type StepResult struct {
	State    GameState
	Ended    *RunResult
	DayEnded bool
}

func (e Env) endingContext(state GameState, at time.Time) EndingContext {
	return EndingContext{
		Now:   at.Format("15:04"),
		Stage: state.Stage(),
	}
}

func (e Env) finishRun(state GameState, base EndingCategory) StepResult {
	at := e.now()
	ctx := e.endingContext(state, at)
	id := SelectEnding(base, state, ctx, e.IsEndingCollected)

	return StepResult{
		State: state,
		Ended: &RunResult{
			EndedAt:      at,
			Category:     base,
			EndingID:     id,
			Day:          state.Day,
			FinalThighCm: state.ThighCm,
			FinalMoney:   state.Money,
			FinalStress:  state.Stress,
		},
	}
}

// Work resolves one work action: pay scales with the day, stress accrues, and
// a held Noa charge boosts pay while halving the stress hit.
func Work(state GameState, env Env) StepResult {
	next := state.clone()

	moneyGain := (workBasePay + float64(next.Day)*workPaySlope) * next.Buffs.Get(BuffCreditGain)
	stressGain := workStressGain * next.Buffs.Get(BuffWorkStress)

	usedCharge := false
	if next.NoaWorkCharges > 0 {
		moneyGain *= noaMoneyMultiplier
		stressGain *= noaStressMultiplier
		next.NoaWorkCharges--
		usedCharge = true
	}

	gained := roundInt(moneyGain)
	stressed := roundInt(stressGain)
	next.Money += gained
	next.Stress += stressed

	next.appendLog("action.work", map[string]any{
		"money":     gained,
		"stress":    stressed,
		"noaCharge": usedCharge,
	})

	next.ActionCounts.Work++
	return finishAction(next, ActionWork, env)
}

// Eat resolves one eat action. The growth gain derives from the actual paid
// cost, so cost buffs indirectly shrink growth.
func Eat(state GameState, env Env) StepResult {
	next := state.clone()

	slotBit := eatSlotBit(next.ActionsRemaining)

	cost := roundInt((eatBaseCost + next.ThighCm*eatCostPerCm) * next.Buffs.Get(BuffEatCost))
	rawGain := math.Max(eatMinGainCm, math.Round(float64(cost)*eatCostToThigh))
	gain := math.Round(rawGain * next.Buffs.Get(BuffThighGain))
	relief := roundInt(eatStressRelief * next.Buffs.Get(BuffEatRelief))

	next.Money -= cost
	next.Stress -= relief
	next.ThighCm += gain
	next.AteToday = true
	next.EatSlotsMask |= slotBit

	next.appendLog("action.eat", map[string]any{
		"cost":   cost,
		"gainCm": gain,
		"relief": relief,
		"slot":   slotBit,
	})

	next.ActionCounts.Eat++
	return finishAction(next, ActionEat, env)
}

// eatSlotBit maps the actions remaining before the eat to a time-of-day bit:
// 3 means morning, 2 noon, anything else evening.
func eatSlotBit(actionsRemaining int) int {
	switch actionsRemaining {
	case 3:
		return EatSlotMorning
	case 2:
		return EatSlotNoon
	default:
		return EatSlotEvening
	}
}

// Guest resolves one guest action: pay the stage-scaled cost, let the
// stress-weighted guest effect play out, then check the instant special
// endings before the normal end-of-action pipeline.
func Guest(state GameState, env Env) StepResult {
	next := state.clone()

	cost := GuestCost(next.Stage(), next.Buffs)
	next.Money -= cost

	next, visit := ApplyRandomGuestEffect(next, env.Src)

	next.appendLog("action.guest", map[string]any{
		"cost":    cost,
		"guest":   string(visit.Guest),
		"outcome": visit.Outcome,
	})

	next.ActionCounts.Guest++
	next.ActionCounts.Total++
	next.recordDay1Action(ActionGuest)
	next.ActionsRemaining--
	next.clampVitals()

	// Instant specials preempt everything, including the bankruptcy check
	// and day-end evaluation. The timestamp is captured fresh here, not at
	// the logical day boundary.
	at := env.now()
	if id, ok := SelectInstantSpecialEndingID(next, env.endingContext(next, at), env.IsEndingCollected); ok {
		return StepResult{
			State: next,
			Ended: &RunResult{
				EndedAt:      at,
				Category:     CategorySpecial,
				EndingID:     id,
				Day:          next.Day,
				FinalThighCm: next.ThighCm,
				FinalMoney:   next.Money,
				FinalStress:  next.Stress,
			},
		}
	}

	return finishResolvedAction(next, env)
}

// finishAction runs the shared bookkeeping tail for work and eat.
func finishAction(next GameState, action ActionType, env Env) StepResult {
	next.ActionCounts.Total++
	next.recordDay1Action(action)
	next.ActionsRemaining--
	next.clampVitals()
	return finishResolvedAction(next, env)
}

// finishResolvedAction applies the terminal checks common to every action:
// bankruptcy ends the run regardless of remaining actions, and spending the
// last action triggers day-end evaluation.
func finishResolvedAction(next GameState, env Env) StepResult {
	if next.Money <= 0 {
		return env.finishRun(next, CategoryBankrupt)
	}
	if next.ActionsRemaining == 0 {
		return endDay(next, env)
	}
	return StepResult{State: next}
}

// endDay applies the no-meal penalty, advances the stress-exhaustion counter,
// and evaluates the day-end ending conditions in fixed priority order:
// bankruptcy, stress exhaustion, day limit. If none fire the next day starts.
func endDay(state GameState, env Env) StepResult {
	next := state.clone()

	if !next.AteToday {
		factor := NoEatEffectiveFactor(next.Buffs.Get(BuffNoEatPenalty), noEatBaseFactor)
		next.ThighCm *= factor
		next.clampVitals()
		next.appendLog("day.no_meal", map[string]any{"factor": factor})
	}

	if next.Stress >= StressMax {
		next.Stress100Days++
	} else {
		next.Stress100Days = 0
	}

	switch {
	case next.Money <= 0:
		return env.finishRun(next, CategoryBankrupt)
	case next.Stress100Days >= StressExhaustDays:
		return env.finishRun(next, CategoryStress)
	case next.Day >= MaxDay:
		return env.finishRun(next, CategoryNormal)
	}

	next.Day++
	next.ActionsRemaining = ActionsPerDay
	next.AteToday = false
	next.appendLog("day.start", map[string]any{"day": next.Day})

	return StepResult{State: next, DayEnded: true}
}

// PendingMilestone reports the stage milestone that should offer buff cards
// now, if any. A milestone is the current stage, from 2 up, not yet offered.
func PendingMilestone(state GameState) (int, bool) {
	stage := state.Stage()
	if stage < 2 || state.MilestonesHit[stage] {
		return 0, false
	}
	return stage, true
}

// OfferBuffCards marks the pending milestone as offered and rolls its three
// candidate cards. The caller presents them and feeds the chosen one back
// through AcceptBuffCard; declining all three is allowed.
func OfferBuffCards(state GameState, env Env) (GameState, []BuffCardSelection, bool) {
	milestone, ok := PendingMilestone(state)
	if !ok {
		return state, nil, false
	}

	next := state.clone()
	next.MilestonesHit[milestone] = true
	cards := GenerateBuffCards(milestone, next.Day, next.Stage(), env.Src)

	next.appendLog("buff.offer", map[string]any{"milestone": milestone})
	return next, cards, true
}

// AcceptBuffCard folds an accepted card into the persistent multipliers and
// records it in the buff history.
func AcceptBuffCard(state GameState, card BuffCardSelection) GameState {
	next := state.clone()
	next.Buffs = ApplyCardToMultipliers(next.Buffs, card)
	next.BuffHistory = append(next.BuffHistory, card)

	next.appendLog("buff.accept", map[string]any{
		"card":   card.ID,
		"rarity": card.Rarity,
		"buff":   string(card.Buff.Key),
		"debuff": string(card.Debuff.Key),
	})
	return next
}
