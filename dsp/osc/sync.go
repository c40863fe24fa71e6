package osc

// findSync returns the index of the first sample in sig[first:last] at or
// above SyncThreshold, or -1 when there is none.
func findSync(sig []float64, first, last int) int {
	for i := first; i < last; i++ {
		if sig[i] >= SyncThreshold {
			return i
		}
	}
	return -1
}
