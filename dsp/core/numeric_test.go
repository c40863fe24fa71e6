package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSaturatingClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 2, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 2, expected: 0},
		{name: "above", value: 3, min: 0, max: 2, expected: 2},
		{name: "pos inf", value: math.Inf(1), min: 0, max: 2, expected: 2},
		{name: "neg inf", value: math.Inf(-1), min: 0, max: 2, expected: 0},
		{name: "nan", value: math.NaN(), min: 0, max: 2, expected: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SaturatingClamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("SaturatingClamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Fatal("expected values to be nearly equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-3) {
		t.Fatal("expected values to differ")
	}
}

func TestDBConversions(t *testing.T) {
	linear := DBToLinear(-6)
	db := LinearToDB(linear)
	if !NearlyEqual(db, -6, 1e-10) {
		t.Fatalf("LinearToDB(DBToLinear(-6)) = %v, want -6", db)
	}
	if !math.IsInf(LinearToDB(0), -1) {
		t.Fatal("expected -Inf for zero")
	}
	if !math.IsNaN(LinearToDB(-1)) {
		t.Fatal("expected NaN for negative amplitude")
	}
}

func TestFastDBConversionsTrackExact(t *testing.T) {
	for _, linear := range []float64{1e-4, 0.01, 0.25, 0.5, 1, 2, 10} {
		exact := LinearToDB(linear)
		fast := FastLinearToDB(linear)
		if math.Abs(exact-fast) > 0.05 {
			t.Fatalf("FastLinearToDB(%v) = %v, exact %v", linear, fast, exact)
		}
	}

	for _, db := range []float64{-60, -12, -6, 0, 6, 20} {
		exact := DBToLinear(db)
		fast := FastDBToLinear(db)
		if math.Abs(exact-fast) > 0.01*math.Abs(exact)+1e-9 {
			t.Fatalf("FastDBToLinear(%v) = %v, exact %v", db, fast, exact)
		}
	}

	if !math.IsInf(FastLinearToDB(0), -1) {
		t.Fatal("expected -Inf for zero")
	}
	if !math.IsNaN(FastLinearToDB(-1)) {
		t.Fatal("expected NaN for negative amplitude")
	}
}
