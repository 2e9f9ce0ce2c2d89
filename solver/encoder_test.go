package solver

import (
	"math"
	"testing"
)

func TestEncodeSeriesRoundTrip(t *testing.T) {
	xs := []float64{293.7, 301.3, 455.9, 1203.4, 1199.8, 880.0, 115.3}
	enc := encodeSeries(xs, 1.0)
	got := enc.Decode()
	if len(got) != len(xs) {
		t.Fatalf("length %d, want %d", len(got), len(xs))
	}
	if got[0] != xs[0] {
		t.Errorf("first value must round trip exactly: %v vs %v", got[0], xs[0])
	}
	for i := range xs {
		if math.Abs(got[i]-xs[i]) > 0.5 {
			t.Errorf("station %d: %v decoded as %v", i, xs[i], got[i])
		}
	}
}

func TestEncodeSeriesNoDrift(t *testing.T) {
	// 长单调序列的量化误差不得沿程累积
	xs := make([]float64, 500)
	for i := range xs {
		xs[i] = 100 + 3.7*float64(i)
	}
	got := encodeSeries(xs, 1.0).Decode()
	for i := range xs {
		if math.Abs(got[i]-xs[i]) > 0.5 {
			t.Fatalf("drift at %d: %v vs %v", i, got[i], xs[i])
		}
	}
}

func TestEncodeSeriesFineResolution(t *testing.T) {
	xs := []float64{1.0, 1.66, 2.31, 3.52}
	got := encodeSeries(xs, 1e-3).Decode()
	for i := range xs {
		if math.Abs(got[i]-xs[i]) > 5e-4 {
			t.Errorf("station %d: %v vs %v", i, got[i], xs[i])
		}
	}
}

func TestEncodeSeriesSingle(t *testing.T) {
	enc := encodeSeries([]float64{42}, 1.0)
	got := enc.Decode()
	if len(got) != 1 || got[0] != 42 {
		t.Errorf("single sample round trip: %v", got)
	}
}
