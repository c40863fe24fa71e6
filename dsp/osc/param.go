package osc

import "math"

// Input selects how one control is sourced for a process block: either a
// per-sample buffer (audio rate) or a single value that is ramped linearly
// across the block. A value repeated over consecutive blocks behaves as a
// constant after the first block.
type Input struct {
	buf   []float64
	value float64
}

// AudioRate wraps a per-sample control buffer. The buffer must hold at least
// as many samples as the block being processed.
func AudioRate(buf []float64) Input {
	return Input{buf: buf}
}

// BlockRate wraps a single control value updated at block granularity.
func BlockRate(value float64) Input {
	return Input{value: value}
}

func (in Input) audioRate() bool { return in.buf != nil }

// feed tracks the per-sample value of one block-rate control across blocks.
// The first block jumps straight to the supplied value; later blocks ramp
// from the tracked value to the new target over the block length, snapping
// exactly to the target once within one increment so a finished ramp cannot
// oscillate around it.
type feed struct {
	value   float64
	target  float64
	change  float64
	started bool
}

// begin refreshes the feed at the start of a block of n samples.
func (f *feed) begin(in Input, n int) {
	if in.audioRate() {
		return
	}

	if !f.started {
		f.value = in.value
		f.target = in.value
		f.started = true
		return
	}

	f.setTarget(in.value, 1.0/float64(n))
}

func (f *feed) setTarget(target, changeRate float64) {
	f.target = target
	f.change = (f.target - f.value) * changeRate
}

// next returns the control value for sample i of the current block.
func (f *feed) next(in Input, i int) float64 {
	if in.audioRate() {
		f.value = in.buf[i]
		return f.value
	}

	if math.Abs(f.target-f.value) <= math.Abs(f.change) {
		f.value = f.target
		f.change = 0
	} else {
		f.value += f.change
	}
	return f.value
}

func (f *feed) reset() {
	*f = feed{}
}
