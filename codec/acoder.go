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

// arithDecoder is a symmetric binary arithmetic decoder: interval A in
// [0,4095], code value C holding the next arithCoderTotalBits worth of
// input. Renormalisation shifts fresh bits in from src whenever A drops
// below 2048; once src is exhausted, zero bits are shifted in instead of
// erroring, matching the fixed frame-size contract (no sentinel byte).
type arithDecoder struct {
	a   uint32
	c   uint32
	src *bitstream.Reader
}

func newArithDecoder(src *bitstream.Reader) (*arithDecoder, error) {
	d := &arithDecoder{a: initialA, src: src}
	for i := 0; i < arithCoderTotalBits; i++ {
		d.c = (d.c << 1) | uint32(d.nextInputBit())
	}
	return d, nil
}

// decodeBit decodes one symbol against probability p (p is the 7-bit
// "chance of zero" scaled value used by the probability table, 0..128).
func (d *arithDecoder) decodeBit(p uint32) (bit int, err error) {
	q := (d.a >> 8) | ((d.a >> 7) & 1)
	split := q * p

	if d.c < split {
		d.a = split
		bit = 0
	} else {
		d.a -= split
		d.c -= split
		bit = 1
	}

	for d.a < 2048 {
		shift := 0
		for (d.a << uint(shift)) < 2048 {
			shift++
		}
		for i := 0; i < shift; i++ {
			d.c = (d.c << 1) | uint32(d.nextInputBit())
		}
		d.a <<= uint(shift)
		d.a &= 0xFFFF
	}

	return bit, nil
}

// nextInputBit pulls one bit from src. Once the input is exhausted (the
// end of the fixed-size frame), it shifts in zero bits rather than
// failing: the final renormalisations of a frame routinely run past the
// last coded bit.
func (d *arithDecoder) nextInputBit() int {
	b, err := d.src.Bit()
	if err != nil || !b {
		return 0
	}
	return 1
}
