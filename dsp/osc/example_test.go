package osc_test

import (
	"fmt"

	"github.com/cwbudde/algo-squine/dsp/osc"
)

func ExampleSquine_ProcessBlock() {
	squine, err := osc.NewSquine(48000,
		osc.WithMinSweep(8),
		osc.WithFreq(1500),
	)
	if err != nil {
		fmt.Println("error")
		return
	}

	out := make([]float64, 480)
	syncOut := make([]float64, 480)
	err = squine.ProcessBlock(
		osc.BlockRate(1500), // freq, Hz
		osc.BlockRate(0.5),  // clip: halfway to square
		osc.BlockRate(0),    // skew: symmetric
		osc.BlockRate(0),    // no hard sync
		out, syncOut)
	if err != nil {
		fmt.Println("error")
		return
	}

	cycles := 0
	for _, v := range syncOut {
		if v == 1 {
			cycles++
		}
	}
	fmt.Printf("samples=%d cycles=%d\n", len(out), cycles)
	// Output:
	// samples=480 cycles=15
}

func ExampleSquine_Generate() {
	// Per-sample driving style, e.g. inside a voice loop.
	squine, err := osc.NewSquine(48000,
		osc.WithMinSweep(10),
		osc.WithInitialPhase(-1), // start at the upward zero crossing
	)
	if err != nil {
		fmt.Println("error")
		return
	}

	var out []float64
	for i := 0; i < 4; i++ {
		squine.SetFreq(440)
		squine.SetClip(0.3)
		squine.SetSkew(0)
		out = append(out, squine.Generate())
	}

	fmt.Printf("samples=%d\n", len(out))
	// Output:
	// samples=4
}
