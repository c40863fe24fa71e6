package osc

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cwbudde/algo-squine/internal/testutil"
)

func TestProcessBlockValidatesBuffers(t *testing.T) {
	s := newTestSquine(t)

	noSync := BlockRate(0)
	if err := s.ProcessBlock(BlockRate(440), BlockRate(0), BlockRate(0), noSync, nil, nil); err == nil {
		t.Fatal("expected error for empty output")
	}

	out := make([]float64, 64)
	short := make([]float64, 32)
	if err := s.ProcessBlock(AudioRate(short), BlockRate(0), BlockRate(0), noSync, out, nil); err == nil {
		t.Fatal("expected error for short freq buffer")
	}
	if err := s.ProcessBlock(BlockRate(440), BlockRate(0), BlockRate(0), AudioRate(short), out, nil); err == nil {
		t.Fatal("expected error for short sync buffer")
	}
	if err := s.ProcessBlock(BlockRate(440), BlockRate(0), BlockRate(0), noSync, out, short); err == nil {
		t.Fatal("expected error for short sync output")
	}
}

func TestProcessBlockMatchesPerSampleAPI(t *testing.T) {
	const n = 480

	blocked := newTestSquine(t)
	manual := newTestSquine(t)

	out := make([]float64, n)
	err := blocked.ProcessBlock(
		AudioRate(testutil.DC(440, n)),
		AudioRate(testutil.DC(0.5, n)),
		AudioRate(testutil.DC(0.25, n)),
		AudioRate(testutil.Zeros(n)),
		out, nil)
	if err != nil {
		t.Fatalf("ProcessBlock() error = %v", err)
	}

	want := make([]float64, n)
	for i := range want {
		manual.SetFreq(440)
		manual.SetClip(0.5)
		manual.SetSkew(0.25)
		want[i] = manual.Generate()
	}

	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("block output differs from per-sample output (-want +got):\n%s", diff)
	}
}

func TestProcessBlockRampsBlockRateControls(t *testing.T) {
	const n = 480
	s := newTestSquine(t)

	out := make([]float64, n)
	noSync := BlockRate(0)

	// First block establishes the tracked values.
	if err := s.ProcessBlock(BlockRate(440), BlockRate(0), BlockRate(0), noSync, out, nil); err != nil {
		t.Fatalf("ProcessBlock() error = %v", err)
	}

	// Second block ramps to a new clip target; the waveform must morph
	// without a discontinuity larger than one sweep step.
	if err := s.ProcessBlock(BlockRate(440), BlockRate(1), BlockRate(0), noSync, out, nil); err != nil {
		t.Fatalf("ProcessBlock() error = %v", err)
	}
	for i := 1; i < n; i++ {
		if jump := math.Abs(out[i] - out[i-1]); jump > 1.0 {
			t.Fatalf("sample %d: jump %v while ramping clip", i, jump)
		}
	}
}

func TestProcessBlockWritesSyncPulses(t *testing.T) {
	// 1500 Hz at 48 kHz with MinSweep 8 keeps every phase step exactly
	// representable, so the cycle wraps exactly every 32 samples.
	const n = 480
	s := newTestSquine(t, WithFreq(1500), WithMinSweep(8))

	out := make([]float64, n)
	syncOut := make([]float64, n)
	err := s.ProcessBlock(
		BlockRate(1500), BlockRate(0.5), BlockRate(0), BlockRate(0),
		out, syncOut)
	if err != nil {
		t.Fatalf("ProcessBlock() error = %v", err)
	}

	testutil.RequireFinite(t, out)
	testutil.RequireWithinRange(t, out, -1, 1)

	for i, v := range syncOut {
		want := 0.0
		if (i+1)%32 == 0 {
			want = 1.0
		}
		if v != want {
			t.Fatalf("syncOut[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestProcessBlockHardSyncReArmsWithinBlock(t *testing.T) {
	// Two triggers in one block: the second must fire after the first
	// sync has completed.
	const n = 480
	s := newTestSquine(t, WithFreq(100))

	trig := testutil.TriggerAt(n, 50)
	trig[300] = 1

	out := make([]float64, n)
	syncOut := make([]float64, n)
	err := s.ProcessBlock(
		BlockRate(100), BlockRate(0), BlockRate(0), AudioRate(trig),
		out, syncOut)
	if err != nil {
		t.Fatalf("ProcessBlock() error = %v", err)
	}

	first, second := -1, -1
	for i, v := range syncOut {
		if v != 1 {
			continue
		}
		if first < 0 {
			first = i
		} else if second < 0 {
			second = i
		}
	}
	if first <= 50 || first > 90 {
		t.Fatalf("first sync landed at %d, want in (50, 90]", first)
	}
	if second <= 300 || second > 340 {
		t.Fatalf("second sync landed at %d, want in (300, 340]", second)
	}
}

func TestProcessBlockSyncIgnoredAboveCeiling(t *testing.T) {
	// A trigger above MaxSyncFreq must leave the output bit-identical to
	// the no-trigger rendering.
	const n = 480

	withTrig := newTestSquine(t)
	without := newTestSquine(t)
	freq := withTrig.MaxSyncFreq() * 1.1

	a := make([]float64, n)
	b := make([]float64, n)

	err := withTrig.ProcessBlock(
		BlockRate(freq), BlockRate(0.5), BlockRate(0),
		AudioRate(testutil.TriggerAt(n, 37)), a, nil)
	if err != nil {
		t.Fatalf("ProcessBlock() error = %v", err)
	}
	err = without.ProcessBlock(
		BlockRate(freq), BlockRate(0.5), BlockRate(0),
		AudioRate(testutil.Zeros(n)), b, nil)
	if err != nil {
		t.Fatalf("ProcessBlock() error = %v", err)
	}

	if diff := cmp.Diff(b, a); diff != "" {
		t.Fatalf("suppressed sync changed output (-want +got):\n%s", diff)
	}
}

func TestProcessBlockEndToEnd1kHz(t *testing.T) {
	// sr=48000, 1000 Hz, clip 0.5, skew 0, one 480-sample block:
	// one four-segment cycle every 48 samples, no NaN/Inf anywhere.
	const n = 480
	s := newTestSquine(t, WithFreq(1000))

	out := make([]float64, n)
	syncOut := make([]float64, n)
	err := s.ProcessBlock(
		BlockRate(1000), BlockRate(0.5), BlockRate(0), BlockRate(0),
		out, syncOut)
	if err != nil {
		t.Fatalf("ProcessBlock() error = %v", err)
	}

	testutil.RequireFinite(t, out)
	testutil.RequireWithinRange(t, out, -1, 1)

	var wraps []int
	for i, v := range syncOut {
		if v == 1 {
			wraps = append(wraps, i)
		}
	}
	if len(wraps) < 9 || len(wraps) > 11 {
		t.Fatalf("cycle count = %d, want 10 +- 1", len(wraps))
	}
	for i := 1; i < len(wraps); i++ {
		if d := wraps[i] - wraps[i-1]; d < 47 || d > 49 {
			t.Fatalf("cycle length = %d samples, want 48 +- 1", d)
		}
	}
}
