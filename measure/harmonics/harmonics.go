// Package harmonics measures the harmonic content of oscillator output:
// fundamental level, per-harmonic levels and total harmonic distortion.
// Its main use here is verifying waveshaping claims, e.g. that a morphing
// oscillator near its sine setting is actually spectrally clean and that a
// square setting carries the expected odd harmonics.
package harmonics

import (
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-squine/dsp/core"
)

const defaultMaxHarmonics = 10

// Config holds analysis parameters.
type Config struct {
	// SampleRate of the analyzed signal in Hz. Required.
	SampleRate float64
	// FFTSize, 0 selects the next power of two at or above the signal
	// length.
	FFTSize int
	// FundamentalHz pins the fundamental search; 0 selects the strongest
	// bin.
	FundamentalHz float64
	// MaxHarmonics bounds how many harmonics above the fundamental are
	// collected (default 10).
	MaxHarmonics int
}

// Result holds harmonic measurement results.
type Result struct {
	// FundamentalHz is the detected (or pinned) fundamental frequency.
	FundamentalHz float64
	// FundamentalLevel is the fundamental's linear magnitude.
	FundamentalLevel float64
	// Harmonics holds linear magnitudes of harmonics 2..N relative to the
	// fundamental (1.0 = as strong as the fundamental).
	Harmonics []float64
	// THD is sqrt(sum of squared relative harmonic levels).
	THD float64
	// THDdB is THD expressed in dB (approximate log, analysis grade).
	THDdB float64
}

// Analyze measures the harmonic content of a time-domain signal.
func Analyze(signal []float64, cfg Config) (Result, error) {
	if len(signal) < 4 {
		return Result{}, fmt.Errorf("harmonics signal too short: %d", len(signal))
	}
	if cfg.SampleRate <= 0 || math.IsNaN(cfg.SampleRate) || math.IsInf(cfg.SampleRate, 0) {
		return Result{}, fmt.Errorf("harmonics sample rate must be > 0 and finite: %f", cfg.SampleRate)
	}

	fftSize := cfg.FFTSize
	if fftSize <= 0 {
		fftSize = nextPowerOf2(len(signal))
	}
	if fftSize < len(signal) {
		return Result{}, fmt.Errorf("harmonics FFT size %d smaller than signal %d", fftSize, len(signal))
	}

	maxHarmonics := cfg.MaxHarmonics
	if maxHarmonics <= 0 {
		maxHarmonics = defaultMaxHarmonics
	}

	mags, err := magnitudeSpectrum(signal, fftSize)
	if err != nil {
		return Result{}, err
	}

	binHz := cfg.SampleRate / float64(fftSize)
	maxBin := len(mags) - 1

	fundBin := 1
	if cfg.FundamentalHz > 0 {
		fundBin = int(math.Round(cfg.FundamentalHz / binHz))
	} else {
		for k := 2; k <= maxBin; k++ {
			if mags[k] > mags[fundBin] {
				fundBin = k
			}
		}
	}
	fundBin = peakAround(mags, fundBin)
	if fundBin < 1 || fundBin > maxBin || mags[fundBin] == 0 {
		return Result{}, fmt.Errorf("harmonics found no fundamental")
	}

	res := Result{
		FundamentalHz:    float64(fundBin) * binHz,
		FundamentalLevel: mags[fundBin],
	}

	sumSq := 0.0
	for h := 2; h <= maxHarmonics+1; h++ {
		bin := fundBin * h
		if bin > maxBin {
			break
		}
		level := mags[peakAround(mags, bin)] / res.FundamentalLevel
		res.Harmonics = append(res.Harmonics, level)
		sumSq += level * level
	}

	res.THD = math.Sqrt(sumSq)
	res.THDdB = core.FastLinearToDB(res.THD)

	return res, nil
}

// magnitudeSpectrum returns |X[k]| for the non-negative frequency bins of a
// Hann-windowed, zero-padded FFT of the signal.
func magnitudeSpectrum(signal []float64, fftSize int) ([]float64, error) {
	coeffs := hann(len(signal))
	windowed := make([]float64, len(signal))
	copy(windowed, signal)
	vecmath.MulBlockInPlace(windowed, coeffs)

	in := make([]complex128, fftSize)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("harmonics FFT plan: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("harmonics FFT: %w", err)
	}

	binCount := fftSize/2 + 1
	re := make([]float64, binCount)
	im := make([]float64, binCount)
	for k := 0; k < binCount; k++ {
		re[k] = real(out[k])
		im[k] = imag(out[k])
	}

	mags := make([]float64, binCount)
	vecmath.Magnitude(mags, re, im)
	return mags, nil
}

// peakAround nudges bin to the strongest of its direct neighbors, absorbing
// off-by-one bin placement of a windowed peak.
func peakAround(mags []float64, bin int) int {
	if bin < 0 {
		bin = 0
	}
	if bin >= len(mags) {
		bin = len(mags) - 1
	}
	best := bin
	for _, k := range []int{bin - 1, bin + 1} {
		if k >= 0 && k < len(mags) && mags[k] > mags[best] {
			best = k
		}
	}
	return best
}

func hann(n int) []float64 {
	coeffs := make([]float64, n)
	if n == 1 {
		coeffs[0] = 1
		return coeffs
	}
	for i := range coeffs {
		coeffs[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return coeffs
}

func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}
