package osc

import "fmt"

// ProcessBlock renders len(out) samples into out. Each control is either an
// audio-rate buffer or a block-rate value, see Input. A sync input sample at
// or above SyncThreshold triggers a hard sync; after a completed sync the
// rest of the block is searched again so a second trigger in the same block
// is not missed.
//
// syncOut may be nil; when supplied it is written in full, with 1 at every
// sample that wrapped a cycle and 0 elsewhere.
func (s *Squine) ProcessBlock(freq, clip, skew, sync Input, out, syncOut []float64) error {
	n := len(out)
	if n == 0 {
		return fmt.Errorf("squine output buffer must not be empty")
	}
	if syncOut != nil && len(syncOut) < n {
		return fmt.Errorf("squine sync output too short: %d < %d", len(syncOut), n)
	}
	for _, in := range []struct {
		name string
		in   Input
	}{
		{"freq", freq}, {"clip", clip}, {"skew", skew}, {"sync", sync},
	} {
		if in.in.audioRate() && len(in.in.buf) < n {
			return fmt.Errorf("squine %s input too short: %d < %d", in.name, len(in.in.buf), n)
		}
	}

	s.freqFeed.begin(freq, n)
	s.clipFeed.begin(clip, n)
	s.skewFeed.begin(skew, n)

	syncIdx := -1
	if sync.audioRate() {
		syncIdx = findSync(sync.buf, 0, n)
	} else if sync.value >= SyncThreshold {
		syncIdx = 0
	}

	for i := 0; i < n; i++ {
		s.SetFreq(s.freqFeed.next(freq, i))
		s.SetClip(s.clipFeed.next(clip, i))
		s.SetSkew(s.skewFeed.next(skew, i))

		if i == syncIdx {
			s.syncIn = true
		}

		syncing := s.hardsyncPhase != 0 || s.syncIn
		out[i] = s.Generate()

		if syncOut != nil {
			syncOut[i] = s.syncOut
		}

		// Re-arm on sync completion so a later trigger in this block fires.
		if syncing && s.syncOut != 0 && s.hardsyncPhase == 0 && sync.audioRate() {
			syncIdx = findSync(sync.buf, i+1, n)
		}
	}

	return nil
}
