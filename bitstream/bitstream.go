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

// Package bitstream wraps icza/bitio with the MSB-first bit primitives the
// lossless decoder's frame grammar is built from: fixed-width unsigned
// fields, a single flag bit, and ⌈log2(n+1)⌉-wide element-map codes.
package bitstream

import (
	"bytes"

	"github.com/icza/bitio"

	"github.com/dsdnexus/core/xerr"
)

// Reader reads MSB-first bit fields from an in-memory compressed frame.
type Reader struct {
	br *bitio.Reader
}

// NewReader wraps frame for bit-at-a-time reading.
func NewReader(frame []byte) *Reader {
	return &Reader{br: bitio.NewReader(bytes.NewReader(frame))}
}

// Bit reads a single flag bit.
func (r *Reader) Bit() (bool, error) {
	b, err := r.br.ReadBool()
	if err != nil {
		return false, xerr.Wrap(xerr.UnexpectedEOF, "read bit", err)
	}
	return b, nil
}

// Bits reads an n-bit (n in [1,64]) unsigned field, MSB first.
func (r *Reader) Bits(n uint8) (uint64, error) {
	if n == 0 {
		return 0, nil
	}
	v, err := r.br.ReadBits(n)
	if err != nil {
		return 0, xerr.Wrap(xerr.UnexpectedEOF, "read bits", err)
	}
	return v, nil
}

// SignedBits reads an n-bit two's-complement signed field.
func (r *Reader) SignedBits(n uint8) (int32, error) {
	v, err := r.Bits(n)
	if err != nil {
		return 0, err
	}
	if v&(1<<(n-1)) != 0 {
		return int32(v) - (1 << n), nil
	}
	return int32(v), nil
}

// ElementMapBits returns the bit width of an element-map code for a table
// with n elements: ⌈log2(n+1)⌉, per the frame grammar.
func ElementMapBits(n int) uint8 {
	bits := uint8(0)
	for (1 << bits) < n+1 {
		bits++
	}
	return bits
}

// Byte reads a full byte (8 bits, MSB first). Used when re-synchronising on
// byte boundaries, e.g. uncompressed-passthrough frames.
func (r *Reader) Byte() (byte, error) {
	v, err := r.Bits(8)
	if err != nil {
		return 0, err
	}
	return byte(v), nil
}
