package game

import (
	"fmt"

	"github.com/mwl313/yuuka-grow-sub000/internal/engine"
)

// BuffKey names one of the eight persistent multiplier dimensions.
type BuffKey string

const (
	BuffCreditGain    BuffKey = "creditGain"    // work payout, higher is better
	BuffWorkStress    BuffKey = "workStress"    // work stress gain, lower is better
	BuffEatCost       BuffKey = "eatCost"       // meal cost, lower is better
	BuffThighGain     BuffKey = "thighGain"     // meal growth gain, higher is better
	BuffEatRelief     BuffKey = "eatRelief"     // meal stress relief, higher is better
	BuffGuestCost     BuffKey = "guestCost"     // guest visit cost, lower is better
	BuffNoEatPenalty  BuffKey = "noEatPenalty"  // no-meal shrink severity, lower is better
	BuffKoyukiWinRate BuffKey = "koyukiWinRate" // gamble win probability, higher is better
)

// buffKeys fixes the draw and iteration order of the dimensions.
var buffKeys = []BuffKey{
	BuffCreditGain,
	BuffWorkStress,
	BuffEatCost,
	BuffThighGain,
	BuffEatRelief,
	BuffGuestCost,
	BuffNoEatPenalty,
	BuffKoyukiWinRate,
}

// multiplierFloor keeps an adverse run of debuffs from driving any dimension
// to zero or negative.
const multiplierFloor = 0.05

// MultiplierSet is the persistent 8-dimension multiplier vector.
type MultiplierSet map[BuffKey]float64

// NewMultiplierSet returns all dimensions at the neutral 1.0.
func NewMultiplierSet() MultiplierSet {
	m := make(MultiplierSet, len(buffKeys))
	for _, k := range buffKeys {
		m[k] = 1.0
	}
	return m
}

func (m MultiplierSet) clone() MultiplierSet {
	next := make(MultiplierSet, len(m))
	for k, v := range m {
		next[k] = v
	}
	return next
}

// Get returns the multiplier for a dimension, defaulting to neutral for a
// key that was never set (e.g. a sanitized save missing a dimension).
func (m MultiplierSet) Get(key BuffKey) float64 {
	if v, ok := m[key]; ok {
		return v
	}
	return 1.0
}

// buffProfile describes a dimension's signed delta ranges. Buff deltas move
// the multiplier in the beneficial direction for that dimension, debuff
// deltas in the harmful one, so "lower is better" dimensions carry negative
// buff ranges.
type buffProfile struct {
	buffLo, buffHi     float64
	debuffLo, debuffHi float64
}

var buffProfiles = map[BuffKey]buffProfile{
	BuffCreditGain:    {buffLo: 0.10, buffHi: 0.50, debuffLo: -0.40, debuffHi: -0.10},
	BuffWorkStress:    {buffLo: -0.50, buffHi: -0.10, debuffLo: 0.10, debuffHi: 0.60},
	BuffEatCost:       {buffLo: -0.30, buffHi: -0.05, debuffLo: 0.05, debuffHi: 0.40},
	BuffThighGain:     {buffLo: 0.10, buffHi: 0.60, debuffLo: -0.40, debuffHi: -0.10},
	BuffEatRelief:     {buffLo: 0.10, buffHi: 0.50, debuffLo: -0.50, debuffHi: -0.10},
	BuffGuestCost:     {buffLo: -0.30, buffHi: -0.05, debuffLo: 0.05, debuffHi: 0.40},
	BuffNoEatPenalty:  {buffLo: -0.60, buffHi: -0.15, debuffLo: 0.15, debuffHi: 0.80},
	BuffKoyukiWinRate: {buffLo: 0.05, buffHi: 0.40, debuffLo: -0.30, debuffHi: -0.05},
}

// BuffEffect is one half of a card: a signed delta applied to a dimension.
type BuffEffect struct {
	Key   BuffKey `json:"key"`
	Delta float64 `json:"delta"`
}

// BuffCardSelection is a generated card. Accepting it folds both effects into
// the persistent multipliers and appends it to the state's buff history.
type BuffCardSelection struct {
	ID          string     `json:"id"`
	RarityScore int        `json:"rarityScore"`
	Rarity      string     `json:"rarity"`
	Buff        BuffEffect `json:"buff"`
	Debuff      BuffEffect `json:"debuff"`
	Milestone   int        `json:"milestone"`
	Day         int        `json:"day"`
	Stage       int        `json:"stage"`
}

// Rarity tiers by composite score (two 1-5 component scores, summed).
var rarityTiers = []struct {
	min, max int
	name     string
}{
	{2, 3, "common"},
	{4, 5, "uncommon"},
	{6, 7, "rare"},
	{8, 9, "epic"},
	{10, 10, "legendary"},
}

func rarityName(score int) string {
	for _, tier := range rarityTiers {
		if score >= tier.min && score <= tier.max {
			return tier.name
		}
	}
	return "common"
}

// effectScore rates an effect 1-5 by where its magnitude sits within the
// dimension's range for that direction. Direction-aware: a strong buff and a
// strong debuff both score high.
func effectScore(key BuffKey, delta float64, isBuff bool) int {
	p := buffProfiles[key]
	lo, hi := p.buffLo, p.buffHi
	if !isBuff {
		lo, hi = p.debuffLo, p.debuffHi
	}

	magLo, magHi := abs(lo), abs(hi)
	if magLo > magHi {
		magLo, magHi = magHi, magLo
	}
	span := magHi - magLo
	if span <= 0 {
		return 3
	}

	pos := (abs(delta) - magLo) / span
	score := 1 + int(pos*5)
	if score < 1 {
		score = 1
	}
	if score > 5 {
		score = 5
	}
	return score
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// GenerateBuffCards rolls the three candidate cards offered at a milestone.
// Each card pairs one buff and one debuff on distinct dimensions, with
// magnitudes drawn uniformly from each dimension's range.
func GenerateBuffCards(milestone, day, stage int, src engine.Source) []BuffCardSelection {
	cards := make([]BuffCardSelection, 0, 3)

	for slot := 0; slot < 3; slot++ {
		buffKey := drawBuffKey(src)
		debuffKey := drawBuffKey(src)
		for debuffKey == buffKey {
			debuffKey = drawBuffKey(src)
		}

		buffProfileFor := buffProfiles[buffKey]
		debuffProfileFor := buffProfiles[debuffKey]

		buff := BuffEffect{
			Key:   buffKey,
			Delta: engine.UniformRange(buffProfileFor.buffLo, buffProfileFor.buffHi, src),
		}
		debuff := BuffEffect{
			Key:   debuffKey,
			Delta: engine.UniformRange(debuffProfileFor.debuffLo, debuffProfileFor.debuffHi, src),
		}

		score := effectScore(buffKey, buff.Delta, true) + effectScore(debuffKey, debuff.Delta, false)

		cards = append(cards, BuffCardSelection{
			ID:          fmt.Sprintf("card_m%d_s%d", milestone, slot),
			RarityScore: score,
			Rarity:      rarityName(score),
			Buff:        buff,
			Debuff:      debuff,
			Milestone:   milestone,
			Day:         day,
			Stage:       stage,
		})
	}

	return cards
}

func drawBuffKey(src engine.Source) BuffKey {
	idx := int(src.Next01() * float64(len(buffKeys)))
	if idx >= len(buffKeys) {
		idx = len(buffKeys) - 1
	}
	return buffKeys[idx]
}

// ApplyCardToMultipliers folds an accepted card into the multiplier vector:
// buff first, then debuff, clamping to the floor after each step.
func ApplyCardToMultipliers(base MultiplierSet, card BuffCardSelection) MultiplierSet {
	next := base.clone()

	for _, effect := range []BuffEffect{card.Buff, card.Debuff} {
		v := next.Get(effect.Key) * (1 + effect.Delta)
		if v < multiplierFloor {
			v = multiplierFloor
		}
		next[effect.Key] = v
	}

	return next
}

// NoEatEffectiveFactor scales the no-meal shrink severity by the noEatPenalty
// multiplier. At mult 0 the penalty vanishes (factor 1); at mult 1 the base
// factor applies unchanged; mults above 1 over-apply the penalty. The result
// is clamped to [0, 1].
func NoEatEffectiveFactor(penaltyMult, baseFactor float64) float64 {
	return clamp01(1 - (1-baseFactor)*penaltyMult)
}

// AdjustedWinProbability scales a base win probability by a multiplier,
// clamped to [0, 1].
func AdjustedWinProbability(base, mult float64) float64 {
	return clamp01(base * mult)
}
