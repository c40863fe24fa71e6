package signal_test

import (
	"fmt"

	"github.com/cwbudde/algo-squine/dsp/signal"
)

func ExampleGenerator_Squinewave() {
	gen, err := signal.NewGenerator(48000,
		signal.WithMinSweep(10),
		signal.WithInitialPhase(-1),
	)
	if err != nil {
		fmt.Println("error")
		return
	}

	// Halfway between sine and square, slightly right-leaning.
	buf, err := gen.Squinewave(440, 0.5, 0.2, 4800)
	if err != nil {
		fmt.Println("error")
		return
	}

	fmt.Printf("samples=%d\n", len(buf))
	// Output:
	// samples=4800
}
