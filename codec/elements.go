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

package codec

import "github.com/dsdnexus/core/bitstream"

// readElementMap decodes a channel -> element index map: one
// bitstream.ElementMapBits(elementCount)-wide code per channel.
func readElementMap(r *bitstream.Reader, channelCount, elementCount int) ([]int, error) {
	width := bitstream.ElementMapBits(elementCount)
	m := make([]int, channelCount)
	for ch := 0; ch < channelCount; ch++ {
		v, err := r.Bits(width)
		if err != nil {
			return nil, err
		}
		if int(v) >= elementCount {
			return nil, errInvalidData("element map index out of range")
		}
		m[ch] = int(v)
	}
	return m, nil
}

// status is the 128-bit per-channel sliding window, 16 one-byte lanes.
type status [16]byte

func newStatus() status {
	var s status
	for i := range s {
		s[i] = 0xAA
	}
	return s
}

// shiftIn shifts the 128-bit value left by one bit, injecting bit (0 or
// 1) at the least-significant position.
func (s *status) shiftIn(bit byte) {
	carry := bit & 1
	for i := len(s) - 1; i >= 0; i-- {
		next := (s[i] >> 7) & 1
		s[i] = (s[i] << 1) | carry
		carry = next
	}
}

// filterTable is the materialised filter[e][lane][byteValue] lookup: the
// signed sum of ±coeff for whichever bits of byteValue are set, restricted
// to the coefficients covered by lane.
type filterTable [][16][256]int32

// buildFilterTable materialises the lookup table for every filter
// element. Each element's coefficients are split into 16 lanes of up to 8
// coefficients apiece (one lane per status byte); a lane's contribution to
// byteValue v is the sum of coeff[k] if bit k of v is set, else -coeff[k].
// Overflow of the 16-bit signed sum is reported as InvalidData.
func buildFilterTable(coeffs [][]int32) (filterTable, error) {
	out := make(filterTable, len(coeffs))
	for e, c := range coeffs {
		for lane := 0; lane < 16; lane++ {
			base := lane * 8
			for v := 0; v < 256; v++ {
				var sum int32
				for bit := 0; bit < 8; bit++ {
					idx := base + bit
					if idx >= len(c) {
						break
					}
					if v&(1<<uint(bit)) != 0 {
						sum += c[idx]
					} else {
						sum -= c[idx]
					}
				}
				if sum > 32767 || sum < -32768 {
					return nil, errInvalidData("filter coefficient sum overflows 16 bits")
				}
				out[e][lane][v] = sum
			}
		}
	}
	return out, nil
}

// predict returns the 16-bit prediction for element e given the current
// 128-bit status.
func (t filterTable) predict(e int, s status) int32 {
	var sum int32
	for lane := 0; lane < 16; lane++ {
		sum += t[e][lane][s[lane]]
	}
	return sum
}
