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

package pipeline

import (
	"github.com/dsdnexus/core/audio"
	"github.com/dsdnexus/core/codec"
	"github.com/dsdnexus/core/resample"
)

// decompressTransform wraps codec.DecodeFrame. It is stateless across
// frames, so Flush never has anything to emit.
type decompressTransform struct {
	channelCount    int
	samplesPerFrame int
	outFormat       audio.Format
}

func newDecompressTransform(format audio.Format) *decompressTransform {
	out := format
	out.Type = audio.OneBitRaw
	return &decompressTransform{
		channelCount:    format.ChannelCount,
		samplesPerFrame: codec.SamplesPerFrame(int(format.SampleRateHz)),
		outFormat:       out,
	}
}

func (t *decompressTransform) Process(frame audio.Frame) ([]audio.Frame, error) {
	data, err := codec.DecodeFrame(frame.Data, t.channelCount, t.samplesPerFrame)
	if err != nil {
		return nil, err
	}
	return []audio.Frame{{Format: t.outFormat, Data: data, Sequence: frame.Sequence}}, nil
}

func (t *decompressTransform) Flush() ([]audio.Frame, error) { return nil, nil }

// resampleTransform wraps a resample.Resampler. It is stateful: Flush
// drains the partial decimation cycle at track boundaries.
type resampleTransform struct {
	r         *resample.Resampler
	outFormat audio.Format
}

func newResampleTransform(format audio.Format, pcfg Config) *resampleTransform {
	rcfg := resample.Config{
		SourceRateHz: format.SampleRateHz,
		TargetRateHz: pcfg.PCMSampleRateHz,
		ChannelCount: format.ChannelCount,
		Quality:      toResampleQuality(pcfg.PCMQuality),
	}
	r, err := resample.New(rcfg)
	if err != nil {
		// Malformed source format: surfaced as an InvalidState error on the
		// first Process call instead of here, keeping construction
		// infallible for the chain builder.
		return &resampleTransform{r: nil, outFormat: format}
	}
	out := format
	out.Type = audio.PcmFloat64
	return &resampleTransform{r: r, outFormat: out}
}

func (t *resampleTransform) Process(frame audio.Frame) ([]audio.Frame, error) {
	if t.r == nil {
		return nil, errNoResampler()
	}
	samples, err := t.r.Process(frame.Data)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, nil
	}
	return []audio.Frame{{Format: t.outFormat, Data: floatsToBytes(samples), Sequence: frame.Sequence}}, nil
}

func toResampleQuality(q PCMQuality) resample.Quality {
	switch q {
	case QualityFast:
		return resample.Fast
	case QualityHigh:
		return resample.High
	default:
		return resample.Normal
	}
}

func (t *resampleTransform) Flush() ([]audio.Frame, error) {
	if t.r == nil {
		return nil, nil
	}
	samples := t.r.Flush()
	if len(samples) == 0 {
		return nil, nil
	}
	return []audio.Frame{{Format: t.outFormat, Data: floatsToBytes(samples)}}, nil
}
