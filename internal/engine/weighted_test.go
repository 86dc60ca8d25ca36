package engine

import (
	"math"
	"testing"
)

func TestPickWeightedSingleItem(t *testing.T) {
	items := []Weighted[string]{{Value: "only", Weight: 0}}

	if got := PickWeighted(items, NewSeqSource(0.99)); got != "only" {
		t.Errorf("single-item pick = %q, want %q", got, "only")
	}
}

func TestPickWeightedEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("PickWeighted with empty input did not panic")
		}
	}()
	PickWeighted([]Weighted[int]{}, NewSeqSource(0.5))
}

func TestPickWeightedZeroWeightsFallsBackToUniform(t *testing.T) {
	items := []Weighted[int]{
		{Value: 0, Weight: 0},
		{Value: 1, Weight: 0},
		{Value: 2, Weight: 0},
	}

	tests := []struct {
		draw float64
		want int
	}{
		{0.0, 0},
		{0.34, 1},
		{0.67, 2},
		{0.9999, 2},
	}

	for _, tt := range tests {
		if got := PickWeighted(items, NewSeqSource(tt.draw)); got != tt.want {
			t.Errorf("uniform fallback at draw %f = %d, want %d", tt.draw, got, tt.want)
		}
	}
}

func TestPickWeightedSkipsZeroWeightItems(t *testing.T) {
	items := []Weighted[string]{
		{Value: "never", Weight: 0},
		{Value: "always", Weight: 1},
	}

	for _, draw := range []float64{0, 0.25, 0.5, 0.9999} {
		if got := PickWeighted(items, NewSeqSource(draw)); got != "always" {
			t.Errorf("draw %f picked %q, want %q", draw, got, "always")
		}
	}
}

func TestPickWeightedDistribution(t *testing.T) {
	// Three equal weights over a deterministic seeded stream: each item
	// should land within ±2% of 1/3 over 100k draws.
	const draws = 100000

	items := []Weighted[int]{
		{Value: 0, Weight: 1},
		{Value: 1, Weight: 1},
		{Value: 2, Weight: 1},
	}

	src := NewByteGenerator("dist_server", "dist_client", 1, 0)
	counts := [3]int{}
	for i := 0; i < draws; i++ {
		counts[PickWeighted(items, src)]++
	}

	for i, c := range counts {
		freq := float64(c) / draws
		if math.Abs(freq-1.0/3.0) > 0.02 {
			t.Errorf("item %d frequency %f outside 1/3 ± 0.02 (count %d)", i, freq, c)
		}
	}
}

func TestPickIndexWeightedProportions(t *testing.T) {
	const draws = 100000

	weights := []float64{1, 3}
	src := NewByteGenerator("prop_server", "prop_client", 1, 0)

	hits := 0
	for i := 0; i < draws; i++ {
		if PickIndexWeighted(weights, src) == 1 {
			hits++
		}
	}

	freq := float64(hits) / draws
	if math.Abs(freq-0.75) > 0.02 {
		t.Errorf("weight-3 item frequency %f, want 0.75 ± 0.02", freq)
	}
}

func TestUniformRange(t *testing.T) {
	src := NewByteGenerator("range_server", "range_client", 1, 0)

	for i := 0; i < 1000; i++ {
		v := UniformRange(-0.5, -0.1, src)
		if v < -0.5 || v >= -0.1 {
			t.Fatalf("draw %d out of range [-0.5, -0.1): %f", i, v)
		}
	}
}
