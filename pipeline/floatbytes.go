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
	"encoding/binary"
	"math"

	"github.com/dsdnexus/core/xerr"
)

// floatsToBytes packs interleaved float64 PCM samples as little-endian
// IEEE-754 doubles, the wire form resample transforms hand downstream to
// sinks; sinks convert to their native sample format at the boundary.
func floatsToBytes(samples []float64) []byte {
	out := make([]byte, len(samples)*8)
	for i, s := range samples {
		binary.LittleEndian.PutUint64(out[i*8:], math.Float64bits(s))
	}
	return out
}

// BytesToFloats is the sink-side inverse of floatsToBytes.
func BytesToFloats(data []byte) ([]float64, error) {
	if len(data)%8 != 0 {
		return nil, xerr.New(xerr.InvalidData, "pcm float64 payload is not a multiple of 8 bytes")
	}
	out := make([]float64, len(data)/8)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
	}
	return out, nil
}

func errNoResampler() error {
	return xerr.New(xerr.InvalidState, "resample transform not initialised")
}
