package game

import "testing"

func TestStageTableLookup(t *testing.T) {
	tests := []struct {
		thighCm float64
		want    int
	}{
		{1, 1},
		{53, 1},
		{54.9, 1},
		{55, 2},
		{60, 3},
		{67.9, 3},
		{68, 4},
		{100, 6},
		{140, 8},
		{760, 13},
		{1399.9, 13},
		{1400, 14},
		{2578.9, 14},
	}

	for _, tt := range tests {
		if got := Stage(tt.thighCm); got != tt.want {
			t.Errorf("Stage(%v) = %d, want %d", tt.thighCm, got, tt.want)
		}
	}
}

func TestStageGeometricExtrapolation(t *testing.T) {
	// At the max threshold exactly the stage equals the table length; one
	// growth factor above it the stage advances by one.
	if got := Stage(2579); got != 15 {
		t.Errorf("Stage(2579) = %d, want 15", got)
	}
	if got := Stage(2579 * 1.32); got != 16 {
		t.Errorf("Stage(2579*1.32) = %d, want 16", got)
	}
	if got := Stage(2579 * 1.32 * 1.32); got != 17 {
		t.Errorf("Stage(2579*1.32^2) = %d, want 17", got)
	}
	if got := Stage(2579*1.32 - 0.01); got != 15 {
		t.Errorf("Stage(just below 2579*1.32) = %d, want 15", got)
	}
}

func TestStageMonotonicity(t *testing.T) {
	prev := Stage(1)
	for thigh := 1.0; thigh < 20000; thigh += 0.7 {
		got := Stage(thigh)
		if got < prev {
			t.Fatalf("Stage(%v) = %d dropped below previous stage %d", thigh, got, prev)
		}
		prev = got
	}
}
