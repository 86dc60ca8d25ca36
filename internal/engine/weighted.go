package engine

// Weighted pairs a candidate value with its selection weight.
type Weighted[T any] struct {
	Value  T
	Weight float64
}

// PickWeighted selects one item proportionally to its weight using a single
// draw from src. Negative weights are treated as zero. If every weight is
// zero the pick degrades to a uniform choice by index, so a fully suppressed
// table still resolves to something.
//
// Calling PickWeighted with an empty slice is a programming error and panics.
func PickWeighted[T any](items []Weighted[T], src Source) T {
	if len(items) == 0 {
		panic("engine: PickWeighted called with no items")
	}
	if len(items) == 1 {
		return items[0].Value
	}

	total := 0.0
	for _, it := range items {
		if it.Weight > 0 {
			total += it.Weight
		}
	}

	if total <= 0 {
		idx := int(src.Next01() * float64(len(items)))
		if idx >= len(items) {
			idx = len(items) - 1
		}
		return items[idx].Value
	}

	point := src.Next01() * total
	cumulative := 0.0
	for _, it := range items {
		if it.Weight > 0 {
			cumulative += it.Weight
		}
		if point < cumulative {
			return it.Value
		}
	}

	// Floating-point accumulation can leave point a hair past the last
	// cumulative bound.
	return items[len(items)-1].Value
}

// PickIndexWeighted is PickWeighted over a bare weight slice, returning the
// chosen index. Used when the caller keeps values and weights in parallel
// tables.
func PickIndexWeighted(weights []float64, src Source) int {
	if len(weights) == 0 {
		panic("engine: PickIndexWeighted called with no weights")
	}

	items := make([]Weighted[int], len(weights))
	for i, w := range weights {
		items[i] = Weighted[int]{Value: i, Weight: w}
	}
	return PickWeighted(items, src)
}

// UniformRange draws a float uniformly from [lo, hi).
func UniformRange(lo, hi float64, src Source) float64 {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + src.Next01()*(hi-lo)
}
