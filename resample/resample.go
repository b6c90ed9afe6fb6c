// Copyright (c) 2026 The dsdnexus Authors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of dsdnexus/core.
//
// dsdnexus/core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// dsdnexus/core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with dsdnexus/core.  If not, see <https://www.gnu.org/licenses/>.

// Package resample implements the one-bit-to-multibit PCM transform: a
// decimating FIR low-pass filter that turns one-bit raw frames into float
// PCM at source_rate/N. Integer/float output conversion happens at the
// sink boundary (see the To* helpers in convert.go), not here.
package resample

import (
	"math"

	"github.com/dsdnexus/core/xerr"
)

// Quality selects the FIR filter length and internal float precision.
type Quality int

const (
	Fast Quality = iota
	Normal
	High
)

func (q Quality) String() string {
	switch q {
	case Fast:
		return "Fast"
	case Normal:
		return "Normal"
	case High:
		return "High"
	default:
		return "Unknown"
	}
}

// tapCount returns the FIR filter length for the quality tier. Higher
// quality trades latency and CPU for a sharper stopband.
func (q Quality) tapCount() int {
	switch q {
	case Fast:
		return 48
	case High:
		return 192
	default:
		return 96
	}
}

// useFloat64 reports whether the quality tier accumulates in float64
// rather than float32.
func (q Quality) useFloat64() bool {
	return q == High
}

// Config describes one resampler instance.
type Config struct {
	SourceRateHz uint32
	TargetRateHz uint32 // 0 selects source_rate/32
	ChannelCount int
	Quality      Quality
}

// DecimationFactor returns source/target, validating that it divides
// evenly and falls within a sane range.
func DecimationFactor(sourceHz, targetHz uint32) (int, error) {
	if sourceHz == 0 || targetHz == 0 {
		return 0, xerr.New(xerr.InvalidArg, "sample rates must be nonzero")
	}
	if sourceHz%targetHz != 0 {
		return 0, xerr.New(xerr.InvalidArg, "source rate is not an integer multiple of target rate")
	}
	n := int(sourceHz / targetHz)
	if n < 2 || n > 1024 {
		return 0, xerr.New(xerr.InvalidArg, "decimation factor out of range")
	}
	return n, nil
}

// Resampler is a stateful, per-channel decimating FIR filter. It must be
// flushed at track boundaries (see Flush).
type Resampler struct {
	n            int
	channelCount int
	taps         []float64
	history      [][]float64 // per channel, most recent len(taps) bipolar samples, newest at the end
	phase        int         // samples produced since the last decimation output, shared across channels
	float64Accum bool        // High quality accumulates in float64; Fast/Normal round-trip through float32
}

// New constructs a Resampler for cfg. TargetRateHz of 0 resolves to
// source_rate/32, the documented fallback.
func New(cfg Config) (*Resampler, error) {
	if cfg.ChannelCount <= 0 || cfg.ChannelCount > 6 {
		return nil, xerr.New(xerr.InvalidArg, "channel count out of range")
	}
	target := cfg.TargetRateHz
	if target == 0 {
		target = cfg.SourceRateHz / 32
	}
	n, err := DecimationFactor(cfg.SourceRateHz, target)
	if err != nil {
		return nil, err
	}

	taps := designLowpass(cfg.Quality.tapCount(), n)

	history := make([][]float64, cfg.ChannelCount)
	for ch := range history {
		history[ch] = make([]float64, len(taps))
	}

	return &Resampler{
		n:            n,
		channelCount: cfg.ChannelCount,
		taps:         taps,
		history:      history,
		float64Accum: cfg.Quality.useFloat64(),
	}, nil
}

// designLowpass builds a windowed-sinc low-pass FIR with cutoff at
// 1/(2*decimation) of the input sample rate (the output Nyquist
// frequency), using a Hamming window.
func designLowpass(taps, decimation int) []float64 {
	if taps < 4 {
		taps = 4
	}
	cutoff := 1.0 / float64(decimation)
	out := make([]float64, taps)
	m := float64(taps - 1)
	var sum float64
	for i := 0; i < taps; i++ {
		x := float64(i) - m/2
		var sinc float64
		if x == 0 {
			sinc = cutoff
		} else {
			sinc = math.Sin(math.Pi*cutoff*x) / (math.Pi * x)
		}
		window := 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/m)
		out[i] = sinc * window
		sum += out[i]
	}
	if sum != 0 {
		for i := range out {
			out[i] /= sum
		}
	}
	return out
}

// Process consumes one one-bit raw frame (channel-interleaved per byte,
// MSB first, matching codec.DecodeFrame's output) and returns PCM samples
// as float64, channel-interleaved, clamped to [-1.0, 1.0]. Every 8/N
// output samples per channel are produced for each input byte per
// channel (8 is the number of one-bit samples per byte).
func (r *Resampler) Process(frame []byte) ([]float64, error) {
	if r.channelCount == 0 {
		return nil, xerr.New(xerr.InvalidState, "resampler not initialised")
	}
	bytesPerChannel := len(frame) / r.channelCount
	if bytesPerChannel*r.channelCount != len(frame) {
		return nil, xerr.New(xerr.InvalidArg, "frame length is not a multiple of channel count")
	}

	var out []float64
	for byteIdx := 0; byteIdx < bytesPerChannel; byteIdx++ {
		for bit := 7; bit >= 0; bit-- {
			for ch := 0; ch < r.channelCount; ch++ {
				b := frame[byteIdx*r.channelCount+ch]
				sample := -1.0
				if b&(1<<uint(bit)) != 0 {
					sample = 1.0
				}
				r.pushSample(ch, sample)
			}
			r.phase++
			if r.phase == r.n {
				r.phase = 0
				for ch := 0; ch < r.channelCount; ch++ {
					out = append(out, clamp(r.convolve(ch)))
				}
			}
		}
	}
	return out, nil
}

func (r *Resampler) pushSample(ch int, sample float64) {
	h := r.history[ch]
	copy(h, h[1:])
	h[len(h)-1] = sample
}

func (r *Resampler) convolve(ch int) float64 {
	h := r.history[ch]
	if r.float64Accum {
		var sum float64
		for i, tap := range r.taps {
			sum += tap * h[i]
		}
		return sum
	}
	var sum float32
	for i, tap := range r.taps {
		sum += float32(tap) * float32(h[i])
	}
	return float64(sum)
}

// Flush drains any samples still pending from a partial decimation cycle
// at a track boundary, returning the final (possibly empty, possibly
// zero-padded) output block. The PCM resampler is stateful across frames;
// the decompressor upstream of it is not.
func (r *Resampler) Flush() []float64 {
	if r.phase == 0 {
		return nil
	}
	remaining := r.n - r.phase
	for i := 0; i < remaining; i++ {
		for ch := 0; ch < r.channelCount; ch++ {
			r.pushSample(ch, 0)
		}
	}
	r.phase = 0
	out := make([]float64, r.channelCount)
	for ch := 0; ch < r.channelCount; ch++ {
		out[ch] = clamp(r.convolve(ch))
	}
	return out
}

func clamp(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	if v < -1.0 {
		return -1.0
	}
	return v
}
