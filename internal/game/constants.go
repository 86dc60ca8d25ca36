package game

// Run bounds.
const (
	MaxDay            = 100
	ActionsPerDay     = 3
	StressMax         = 100
	StressExhaustDays = 10
	ThighMinCm        = 1.0
)

// Initial state.
const (
	InitialMoney   = 10000
	InitialThighCm = 53.0
)

// Work formula: moneyGain = (workBasePay + day*workPaySlope) * creditGain mult.
const (
	workBasePay    = 800
	workPaySlope   = 20
	workStressGain = 15
)

// Noa's consumable work boost.
const (
	noaChargeRefill     = 3
	noaMoneyMultiplier  = 1.5
	noaStressMultiplier = 0.5
)

// Eat formula: cost = (eatBaseCost + thighCm*eatCostPerCm) * eatCost mult,
// gain derives from the actual paid cost.
const (
	eatBaseCost     = 500
	eatCostPerCm    = 1.5
	eatCostToThigh  = 0.01
	eatMinGainCm    = 1.0
	eatStressRelief = 10
	noEatBaseFactor = 0.92
)

// Guest visit cost before the guestCost multiplier.
const guestCostPerStage = 500

// Stage table: stage 1..15 by threshold, geometric extrapolation beyond.
const (
	stageGrowthFactor = 1.32
	stageEpsilon      = 1e-9
)

var stageThresholds = []float64{
	1, 55, 60, 68, 78, 92, 110, 140, 180, 240, 330, 480, 760, 1400, 2579,
}

// Stress bands for guest weighting: [0,25) [25,50) [50,75) [75,90) [90,100].
var stressBandBreakpoints = []int{25, 50, 75, 90}

// Eat slot bits, by how many actions remained before the eat.
const (
	EatSlotMorning = 1 << 0
	EatSlotNoon    = 1 << 1
	EatSlotEvening = 1 << 2
	EatSlotsAll    = EatSlotMorning | EatSlotNoon | EatSlotEvening
)
