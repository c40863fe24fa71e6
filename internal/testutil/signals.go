package testutil

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Zeros returns a slice of length n filled with 0.
func Zeros(n int) []float64 {
	return make([]float64, n)
}

// TriggerAt generates a sync trigger signal: 1.0 at the given position,
// 0.0 elsewhere.
func TriggerAt(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// PulseTrain generates a sync trigger signal with 1.0 every period samples,
// starting at start.
func PulseTrain(length, period, start int) []float64 {
	out := make([]float64, length)
	if period <= 0 {
		return out
	}
	for i := start; i >= 0 && i < length; i += period {
		out[i] = 1
	}
	return out
}
