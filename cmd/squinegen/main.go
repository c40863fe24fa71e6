// Command squinegen renders a squinewave oscillator to a WAV file or to
// CSV on stdout.
//
// Usage:
//
//	squinegen [flags]
//
// Examples:
//
//	squinegen -freq 220 -clip 0.8 -skew -0.3 -dur 2 -o squine.wav
//	squinegen -freq 100 -clip 1 -sync-every 240 -dur 0.1 -csv
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/arl/blip/wave"

	"github.com/cwbudde/algo-squine/dsp/signal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "squinegen:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		sampleRate = flag.Float64("sr", 48000, "sample rate in Hz")
		freq       = flag.Float64("freq", 220, "oscillator frequency in Hz")
		clip       = flag.Float64("clip", 0, "squareness, 0 (sine) to 1 (square)")
		skew       = flag.Float64("skew", 0, "symmetry, -1 to 1")
		minSweep   = flag.Float64("minsweep", 10, "minimum sweep length in samples (0 = randomized)")
		duration   = flag.Float64("dur", 1, "duration in seconds")
		amplitude  = flag.Float64("amp", 0.8, "peak amplitude, 0 to 1")
		syncEvery  = flag.Int("sync-every", 0, "hard-sync trigger period in samples (0 = off)")
		outPath    = flag.String("o", "squine.wav", "output WAV path")
		asCSV      = flag.Bool("csv", false, "write sample values as CSV to stdout instead of WAV")
	)
	flag.Parse()

	samples := int(*duration * *sampleRate)
	if samples <= 0 {
		return fmt.Errorf("duration %g too short at %g Hz", *duration, *sampleRate)
	}

	opts := []signal.Option{signal.WithInitialPhase(-1)}
	if *minSweep != 0 {
		opts = append(opts, signal.WithMinSweep(*minSweep))
	}
	gen, err := signal.NewGenerator(*sampleRate, opts...)
	if err != nil {
		return err
	}

	buf, err := gen.SyncedSquinewave(*freq, *clip, *skew, *syncEvery, samples)
	if err != nil {
		return err
	}
	buf, err = signal.Normalize(buf, *amplitude)
	if err != nil {
		return err
	}

	if *asCSV {
		for i, v := range buf {
			fmt.Printf("%d,%.8f\n", i, v)
		}
		return nil
	}

	return writeWAV(*outPath, int(*sampleRate), buf)
}

func writeWAV(path string, sampleRate int, buf []float64) error {
	w, err := wave.NewFile(path, sampleRate)
	if err != nil {
		return err
	}

	pcm := make([]int16, len(buf))
	for i, v := range buf {
		pcm[i] = int16(math.Round(math.Max(-1, math.Min(1, v)) * 32767))
	}
	if _, err := w.Write(pcm); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
