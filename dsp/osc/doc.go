// Package osc provides the squinewave oscillator: a morphing waveform that
// sweeps continuously between sine, trapezoid, triangle and variable-duty
// pulse shapes under three live controls (frequency, clip, skew), with
// click-free hard sync.
//
// One cycle spans phase 0-2 and is built from four segments: a raised-cosine
// sweep down, a flat part at -1, a sweep up, and a flat part at +1. Clip sets
// the proportion of sweep vs. flat, skew moves the down/up midpoint. A second
// "warped" phase drives the cosine lookup at a locally rescaled rate so that
// sweep duration can differ from raw phase duration without changing the
// cycle frequency. Every sweep is at least MinSweep samples long, which is
// the oscillator's anti-aliasing floor.
//
// Squine supports two driving styles: a per-sample API (SetFreq/SetClip/
// SetSkew/SetSync followed by Generate) and a per-block API (ProcessBlock)
// where each control is either an audio-rate buffer or a block-rate value
// that is ramped linearly across the block.
package osc
