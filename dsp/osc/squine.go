package osc

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-squine/dsp/core"
)

const (
	// SyncThreshold is the level at which a sync input sample counts as a
	// trigger.
	SyncThreshold = 1.0

	minSweepFloor = 4.0

	defaultFreqHz = 220.0

	// wrapEps absorbs accumulated rounding of the warp increments at the
	// end of the final sweep; it is far below one warp step per sample.
	wrapEps = 1e-9
)

// SquineOption configures a Squine at construction.
type SquineOption func(*squineConfig)

type squineConfig struct {
	minSweep    float64
	freq        float64
	clip        float64
	skew        float64
	initPhase   float64
	hasPhase    bool
	throughZero bool
}

// WithMinSweep sets the minimum sweep length in samples. Valid range is
// [4, sampleRate/100]; out-of-range or unset values are replaced with a
// random value in [5, 15], which also gives stacked voices slightly
// different edge shapes.
func WithMinSweep(samples float64) SquineOption {
	return func(cfg *squineConfig) {
		cfg.minSweep = samples
	}
}

// WithFreq sets the initial frequency in Hz.
func WithFreq(hz float64) SquineOption {
	return func(cfg *squineConfig) {
		cfg.freq = hz
	}
}

// WithClip sets the initial clip (squareness) in [0, 1].
func WithClip(clip float64) SquineOption {
	return func(cfg *squineConfig) {
		cfg.clip = clip
	}
}

// WithSkew sets the initial skew (left/right symmetry) in [-1, 1].
func WithSkew(skew float64) SquineOption {
	return func(cfg *squineConfig) {
		cfg.skew = skew
	}
}

// WithInitialPhase seeds the oscillator at a specific point of the cycle,
// see InitPhase for the phase layout. Negative means "start at the upward
// zero crossing", which makes the first cycle look like a sine.
func WithInitialPhase(phase float64) SquineOption {
	return func(cfg *squineConfig) {
		cfg.initPhase = phase
		cfg.hasPhase = true
	}
}

// WithThroughZeroFM enables through-zero frequency modulation: negative
// frequencies play the waveform backwards instead of being clamped to zero.
func WithThroughZeroFM(enabled bool) SquineOption {
	return func(cfg *squineConfig) {
		cfg.throughZero = enabled
	}
}

// Squine is a morphing sine/trapezoid/triangle/pulse oscillator with hard
// sync. One instance is owned by one voice; methods must not be called
// concurrently.
type Squine struct {
	sampleRate float64

	// Control values after input transforms, refreshed every sample.
	freq float64 // Hz, >= 0
	clip float64 // inverted: 0 = square limit, 1 = sine/triangle limit
	skew float64 // rescaled to phase domain 0-2 (cycle midpoint)

	syncIn bool

	// Through-zero FM state.
	throughZero bool
	rawFreq     float64
	negFreq     bool

	// phase and warpedPhase range 0-2, which makes clip/skew into simple
	// proportions and the output cos(pi * warpedPhase).
	phase         float64
	warpedPhase   float64
	hardsyncPhase float64
	hardsyncInc   float64

	syncOut float64

	// Derived once from sample rate and minSweep.
	minSweep     float64
	maxphaseBySR float64
	maxWarpFreq  float64
	maxWarp      float64
	maxSyncFreq  float64
	syncPhaseInc float64

	// Ramp state for block-rate controls, see ProcessBlock.
	freqFeed feed
	clipFeed feed
	skewFeed feed
}

// NewSquine creates a squinewave oscillator for the given sample rate.
func NewSquine(sampleRate float64, opts ...SquineOption) (*Squine, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("squine sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := squineConfig{freq: defaultFreqHz}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	minSweep := cfg.minSweep
	if !(minSweep >= minSweepFloor && minSweep <= sampleRate*0.01) {
		// Silent replacement rather than an error: any value in range
		// sounds fine, and a small spread between voices is desirable.
		minSweep = core.Clamp(10*rand.Float64()+5, 5, 15)
	}

	s := &Squine{
		sampleRate:   sampleRate,
		throughZero:  cfg.throughZero,
		minSweep:     minSweep,
		maxphaseBySR: 2.0 / sampleRate,
		maxWarpFreq:  sampleRate / (2.0 * minSweep),
		maxWarp:      1.0 / minSweep,
		maxSyncFreq:  sampleRate / (3.0 * math.Log(minSweep)),
		syncPhaseInc: 1.0 / math.Log(minSweep),
	}

	s.SetFreq(cfg.freq)
	s.SetClip(cfg.clip)
	s.SetSkew(cfg.skew)

	if cfg.hasPhase {
		s.InitPhase(cfg.initPhase)
	}

	return s, nil
}

// SetFreq sets the frequency in Hz for the next Generate call. Negative
// values are clamped to zero unless through-zero FM is enabled; Inf and NaN
// saturate at the Nyquist frequency.
func (s *Squine) SetFreq(hz float64) {
	if s.throughZero {
		s.rawFreq = hz
		hz = math.Abs(hz)
	}
	s.freq = core.SaturatingClamp(hz, 0, 0.5*s.sampleRate)
}

// SetClip sets the waveform squareness in [0, 1] for the next Generate call.
// Internally inverted so it becomes the proportion of each half spent
// sweeping.
func (s *Squine) SetClip(clip float64) {
	s.clip = 1.0 - core.SaturatingClamp(clip, 0, 1)
}

// SetSkew sets the waveform symmetry in [-1, 1] for the next Generate call.
// Internally rescaled onto the phase domain 0-2 as the cycle midpoint.
func (s *Squine) SetSkew(skew float64) {
	s.skew = 1.0 - core.SaturatingClamp(skew, -1, 1)
}

// SetSync feeds the sync input for the next Generate call. A value at or
// above SyncThreshold requests a hard sync.
func (s *Squine) SetSync(v float64) {
	s.syncIn = v >= SyncThreshold
}

// Sync returns 1 if the last Generate call wrapped the cycle, else 0. Useful
// for chaining oscillators (slave hard sync) or as a per-cycle trigger.
func (s *Squine) Sync() float64 { return s.syncOut }

// Phase returns the current cycle phase in [0, 2].
func (s *Squine) Phase() float64 { return s.phase }

// WarpedPhase returns the current cosine-lookup phase in [0, 2]. The warped
// phase decides which waveform segment is active.
func (s *Squine) WarpedPhase() float64 { return s.warpedPhase }

// SampleRate returns the sample rate in Hz.
func (s *Squine) SampleRate() float64 { return s.sampleRate }

// MinSweep returns the minimum sweep length in samples.
func (s *Squine) MinSweep() float64 { return s.minSweep }

// MaxWarpFreq returns the frequency at and above which the waveform
// degenerates to a pure sine (sweep segments would be shorter than MinSweep).
func (s *Squine) MaxWarpFreq() float64 { return s.maxWarpFreq }

// MaxSyncFreq returns the ceiling frequency for hard sync; triggers arriving
// at a higher pitch are dropped.
func (s *Squine) MaxSyncFreq() float64 { return s.maxSyncFreq }

// Reset returns the oscillator to the start of a cycle and clears any
// pending sync state. Fade the signal out first, or you get a click.
func (s *Squine) Reset() {
	s.phase = 0
	s.warpedPhase = 0
	s.hardsyncPhase = 0
	s.hardsyncInc = 0
	s.syncIn = false
	s.syncOut = 0
	s.negFreq = false
	s.freqFeed.reset()
	s.clipFeed.reset()
	s.skewFeed.reset()
}

// InitPhase seeds phase and warped phase to a consistent pair for an
// arbitrary starting point in the cycle. The phase layout is:
//
//	0.0-0.5  first sweep down (zero crossing at 0.25)
//	0.5-1.0  flat low part, -1
//	1.0-1.5  sweep up (zero crossing at 1.25)
//	1.5-2.0  flat high part, +1
//
// Negative input selects 1.25, the upward zero crossing, so the waveform
// starts like a sine; values above 2 are folded modulo 2. Only call this at
// voice start (or after fading out): it jumps the output discontinuously.
func (s *Squine) InitPhase(phaseIn float64) {
	phaseInc := s.maxphaseBySR * s.freq
	minSweep := phaseInc * s.minSweep
	midpoint := core.SaturatingClamp(s.skew, minSweep, 2.0-minSweep)

	s.warpedPhase = phaseIn
	if s.warpedPhase < 0 {
		s.warpedPhase = 1.25
	}
	if s.warpedPhase > 2 {
		s.warpedPhase = math.Mod(s.warpedPhase, 2)
	}

	// Select segment, then scale position within it.
	if s.warpedPhase < 1 {
		sweepLength := math.Max(s.clip*midpoint, minSweep)
		if s.warpedPhase < 0.5 {
			s.phase = sweepLength * (s.warpedPhase * 2)
			s.warpedPhase *= 2
		} else {
			flatLength := midpoint - sweepLength
			s.phase = sweepLength + flatLength*((s.warpedPhase-0.5)*2)
			s.warpedPhase = 1
		}
	} else {
		sweepLength := math.Max(s.clip*(2.0-midpoint), minSweep)
		if s.warpedPhase < 1.5 {
			s.phase = midpoint + sweepLength*((s.warpedPhase-1)*2)
			s.warpedPhase = 1 + (s.warpedPhase-1)*2
		} else {
			flatLength := 2.0 - (midpoint + sweepLength)
			s.phase = midpoint + sweepLength + flatLength*((s.warpedPhase-1.5)*2)
			s.warpedPhase = 2
		}
	}
}

// hardsyncInit arms a hard-sync sweep: a raised-cosine frequency ramp toward
// maxSyncFreq that lands the next cycle start within roughly MinSweep
// samples, instead of an instantaneous (clicking) phase reset.
func (s *Squine) hardsyncInit() {
	// Ignore sync request if already in hardsync.
	if s.hardsyncPhase != 0 {
		return
	}

	// On the last flat part we are just done now.
	// (Could also start a full spike here, it's an option...)
	if s.warpedPhase == 2.0 {
		s.phase = 2.0
		return
	}

	// Inaudible and unstable up there.
	if s.freq > s.maxSyncFreq {
		return
	}

	s.hardsyncInc = s.syncPhaseInc
	s.hardsyncPhase = s.hardsyncInc * 0.5
}

// Generate produces one output sample in [-1, 1] from the current control
// values and advances the oscillator state. Sync() reports whether this
// sample wrapped the cycle.
func (s *Squine) Generate() float64 {
	if s.syncIn {
		s.hardsyncInit()
		s.syncIn = false
	}

	// The stored frequency target stays untouched while hard sync overrides
	// the effective frequency, so the external value is authoritative again
	// on the next sample.
	freq := s.freq
	if s.hardsyncPhase != 0 {
		syncsweep := 0.5 * (1.0 - math.Cos(s.hardsyncPhase))
		freq += syncsweep * (s.maxSyncFreq - freq)
		s.hardsyncPhase += s.hardsyncInc
		if s.hardsyncPhase > math.Pi {
			s.hardsyncPhase = math.Pi
			s.hardsyncInc = 0
		}
	}

	skew := s.skew
	if s.throughZero {
		// On a frequency sign change, jump to the mirrored position of the
		// waveform so it continues seamlessly backwards.
		zeroCrossing := (s.rawFreq < 0) != s.negFreq
		if zeroCrossing && s.hardsyncPhase == 0 {
			s.phase = 1.5 - s.phase
			if s.phase < 0 {
				s.phase += 2.0
			}
			// Mirror the cosine lookup around 1.
			s.warpedPhase = 2.0 - s.warpedPhase
		}
		s.negFreq = s.rawFreq < 0
		if s.negFreq {
			// Inverted symmetry for the backward waveform.
			skew = core.SaturatingClamp(2.0-skew, 0, 2)
		}
	}

	phaseInc := s.maxphaseBySR * freq

	var out float64

	if freq >= s.maxWarpFreq {
		// Degenerate to pure sine: sweeps would be sub-sample up here, so
		// warp math would only distort. Continue from the warped phase.
		out = math.Cos(math.Pi * s.warpedPhase)
		s.phase = s.warpedPhase
		s.warpedPhase += phaseInc
	} else {
		minSweep := phaseInc * s.minSweep
		midpoint := core.SaturatingClamp(skew, minSweep, 2.0-minSweep)

		// 1st half: sweep down to cos(warpedPhase <= pi), then flat -1
		// until phase >= midpoint.
		if s.warpedPhase < 1 || (s.warpedPhase == 1 && s.phase < midpoint) {
			if s.warpedPhase < 1 {
				sweepLength := math.Max(s.clip*midpoint, minSweep)

				out = math.Cos(math.Pi * s.warpedPhase)
				s.warpedPhase += core.SaturatingClamp(phaseInc/sweepLength, 0, s.maxWarp)

				// Handle fractional warped-phase overshoot after the sweep
				// ends. phase and warpedPhase may disagree where we are in
				// the waveform (FM plus clip/skew changes); warpedPhase
				// dominates to keep the waveform stable, the flat part
				// decides where we are in time.
				if s.warpedPhase > 1 {
					flatLength := midpoint - sweepLength
					// Overshoot scaled to the main phase rate.
					phaseOvershoot := (s.warpedPhase - 1) * sweepLength

					s.phase = midpoint - flatLength + phaseOvershoot - phaseInc

					// Flat if the next sample is still before the midpoint.
					if flatLength >= phaseOvershoot {
						s.warpedPhase = 1
						// phase may be > midpoint here (meaning no actual
						// flat part); the 2nd half corrects that since
						// warpedPhase == 1.
					} else {
						nextSweepLength := math.Max(s.clip*(2.0-midpoint), minSweep)
						s.warpedPhase = 1 + (phaseOvershoot-flatLength)/nextSweepLength
					}
				}
			} else {
				// Flat up to midpoint.
				out = -1
				s.warpedPhase = 1
			}
		} else {
			// 2nd half: sweep up to cos(warpedPhase <= 2pi), then flat +1
			// until phase >= 2.
			if s.warpedPhase < 2 {
				sweepLength := math.Max(s.clip*(2.0-midpoint), minSweep)
				if s.warpedPhase == 1 {
					// Entry overshoot after the flat part.
					s.warpedPhase = 1 + core.SaturatingClamp(
						math.Min(s.phase-midpoint, phaseInc)/sweepLength, 0, s.maxWarp)
				}
				out = math.Cos(math.Pi * s.warpedPhase)
				s.warpedPhase += core.SaturatingClamp(phaseInc/sweepLength, 0, s.maxWarp)

				if s.warpedPhase > 2 {
					flatLength := 2.0 - (midpoint + sweepLength)
					phaseOvershoot := (s.warpedPhase - 2) * sweepLength

					s.phase = 2.0 - flatLength + phaseOvershoot - phaseInc

					if flatLength >= phaseOvershoot {
						s.warpedPhase = 2
					} else {
						nextSweepLength := math.Max(s.clip*midpoint, minSweep)
						s.warpedPhase = 2 + (phaseOvershoot-flatLength)/nextSweepLength
					}
				}
			} else {
				out = 1
				s.warpedPhase = 2
			}
		}
	}

	s.phase += phaseInc

	// Cycle wraparound. Rounding in the accumulated warp increments can
	// leave warpedPhase a few ulps short of 2.0 on the sample where phase
	// crosses 2; count that as the cycle end, otherwise the wrap lands one
	// sample late and phase exceeds 2 at a sample boundary.
	if s.phase >= 2 && s.warpedPhase >= 2-wrapEps {
		if s.hardsyncPhase != 0 {
			// Sync landing point: restart the cycle exactly here.
			s.warpedPhase = 0
			s.phase = 0
			s.hardsyncPhase = 0
			s.hardsyncInc = 0
		} else {
			s.phase -= 2.0
			if s.phase > phaseInc {
				// Wild aliasing freq - just reset.
				s.phase = phaseInc * 0.5
			}
			if freq < s.maxWarpFreq {
				minSweep := phaseInc * s.minSweep
				midpoint := core.SaturatingClamp(skew, minSweep, 2.0-minSweep)
				nextSweepLength := math.Max(s.clip*midpoint, minSweep)
				s.warpedPhase = core.SaturatingClamp(s.phase/nextSweepLength, 0, s.maxWarp)
			} else {
				// About to enter the pure-sine path.
				s.warpedPhase = s.phase
			}
		}
		s.syncOut = 1
	} else {
		s.syncOut = 0
	}

	return out
}
