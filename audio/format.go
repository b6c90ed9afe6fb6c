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

// Package audio holds the sample-format and frame types shared by every
// source, transform, and sink in the pipeline.
package audio

import "fmt"

// SampleType identifies the encoding of a Format's samples.
type SampleType int

const (
	OneBitRaw SampleType = iota
	OneBitCompressed
	PcmInt16
	PcmInt24
	PcmInt32
	PcmFloat32
	PcmFloat64
)

func (t SampleType) String() string {
	switch t {
	case OneBitRaw:
		return "OneBitRaw"
	case OneBitCompressed:
		return "OneBitCompressed"
	case PcmInt16:
		return "PcmInt16"
	case PcmInt24:
		return "PcmInt24"
	case PcmInt32:
		return "PcmInt32"
	case PcmFloat32:
		return "PcmFloat32"
	case PcmFloat64:
		return "PcmFloat64"
	default:
		return "Unknown"
	}
}

// IsPCM reports whether t is one of the multibit PCM encodings.
func (t SampleType) IsPCM() bool {
	switch t {
	case PcmInt16, PcmInt24, PcmInt32, PcmFloat32, PcmFloat64:
		return true
	default:
		return false
	}
}

// ChannelLayout names a channel arrangement.
type ChannelLayout int

const (
	Mono ChannelLayout = iota
	Stereo
	Multi3
	Multi4
	Multi5
	Multi6
)

// Count returns the number of channels implied by the layout.
func (l ChannelLayout) Count() int {
	switch l {
	case Mono:
		return 1
	case Stereo:
		return 2
	case Multi3:
		return 3
	case Multi4:
		return 4
	case Multi5:
		return 5
	case Multi6:
		return 6
	default:
		return 0
	}
}

// LayoutForChannelCount returns the canonical layout for n channels.
func LayoutForChannelCount(n int) (ChannelLayout, error) {
	switch n {
	case 1:
		return Mono, nil
	case 2:
		return Stereo, nil
	case 3:
		return Multi3, nil
	case 4:
		return Multi4, nil
	case 5:
		return Multi5, nil
	case 6:
		return Multi6, nil
	default:
		return 0, fmt.Errorf("channel count %d has no canonical layout", n)
	}
}

// Format describes one audio stream.
type Format struct {
	Type          SampleType
	SampleRateHz  uint32
	ChannelCount  int
	ChannelLayout ChannelLayout
}

// Validate checks the channel-count/layout invariant.
func (f Format) Validate() error {
	if f.ChannelLayout.Count() != f.ChannelCount {
		return fmt.Errorf("channel count %d does not match layout %v (expects %d)",
			f.ChannelCount, f.ChannelLayout, f.ChannelLayout.Count())
	}
	return nil
}

// Frame is one unit of audio moving through the pipeline: an opaque byte
// payload tagged with the format it was produced in and a sequence number
// that is monotonic and contiguous within one track.
type Frame struct {
	Format   Format
	Data     []byte
	Sequence uint64
}

// Warning carries a message about caller-supplied configuration that was
// adjusted, as a typed value rather than a log line. No function in this
// module returns one; the FLAC sink rejects a 32-bit depth (flac.New)
// instead of downgrading it.
type Warning struct {
	Message string
}

func (w Warning) String() string {
	return w.Message
}
