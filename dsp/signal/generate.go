// Package signal renders whole oscillator buffers from a shared
// configuration, for offline rendering, measurement and tooling.
package signal

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-squine/dsp/osc"
)

// Generator creates deterministic signals from a shared configuration.
type Generator struct {
	sampleRate float64
	minSweep   float64
	initPhase  float64
	hasPhase   bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithMinSweep sets the minimum sweep length in samples for generated
// squinewaves. Set it explicitly for reproducible buffers; the oscillator
// randomizes it otherwise.
func WithMinSweep(samples float64) Option {
	return func(g *Generator) {
		g.minSweep = samples
	}
}

// WithInitialPhase seeds generated squinewaves at a specific cycle position,
// see osc.Squine.InitPhase.
func WithInitialPhase(phase float64) Option {
	return func(g *Generator) {
		g.initPhase = phase
		g.hasPhase = true
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(sampleRate float64, opts ...Option) (*Generator, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("generator sample rate must be > 0 and finite: %f", sampleRate)
	}
	g := &Generator{sampleRate: sampleRate}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g, nil
}

// SampleRate returns the generator sample rate in Hz.
func (g *Generator) SampleRate() float64 { return g.sampleRate }

// Squinewave renders a free-running squinewave buffer. clip is the host
// range [0, 1], skew the host range [-1, 1].
func (g *Generator) Squinewave(freqHz, clip, skew float64, samples int) ([]float64, error) {
	return g.SyncedSquinewave(freqHz, clip, skew, 0, samples)
}

// SyncedSquinewave renders a squinewave that receives a hard-sync trigger
// every syncEvery samples (0 disables sync).
func (g *Generator) SyncedSquinewave(freqHz, clip, skew float64, syncEvery, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("squinewave samples must be > 0: %d", samples)
	}
	if syncEvery < 0 {
		return nil, fmt.Errorf("squinewave sync period must be >= 0: %d", syncEvery)
	}

	sq, err := g.newSquine()
	if err != nil {
		return nil, err
	}

	sync := osc.BlockRate(0)
	if syncEvery > 0 {
		trig := make([]float64, samples)
		for i := syncEvery; i < samples; i += syncEvery {
			trig[i] = 1
		}
		sync = osc.AudioRate(trig)
	}

	out := make([]float64, samples)
	err = sq.ProcessBlock(
		osc.BlockRate(freqHz), osc.BlockRate(clip), osc.BlockRate(skew),
		sync, out, nil)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

func (g *Generator) newSquine() (*osc.Squine, error) {
	opts := []osc.SquineOption{}
	if g.minSweep != 0 {
		opts = append(opts, osc.WithMinSweep(g.minSweep))
	}
	if g.hasPhase {
		opts = append(opts, osc.WithInitialPhase(g.initPhase))
	}
	return osc.NewSquine(g.sampleRate, opts...)
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	maxAbs := 0.0
	for _, v := range data {
		av := math.Abs(v)
		if av > maxAbs {
			maxAbs = av
		}
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}
