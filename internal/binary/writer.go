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

package binary

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WriteUint32LE writes a little-endian uint32.
func WriteUint32LE(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	if err != nil {
		return fmt.Errorf("write uint32 le: %w", err)
	}
	return nil
}

// WriteUint32BE writes a big-endian uint32.
func WriteUint32BE(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	if err != nil {
		return fmt.Errorf("write uint32 be: %w", err)
	}
	return nil
}

// WriteUint64LE writes a little-endian uint64.
func WriteUint64LE(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	if err != nil {
		return fmt.Errorf("write uint64 le: %w", err)
	}
	return nil
}

// WriteUint64BE writes a big-endian uint64.
func WriteUint64BE(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	if err != nil {
		return fmt.Errorf("write uint64 be: %w", err)
	}
	return nil
}

// PutUint32LEAt writes a little-endian uint32 into buf at offset, for
// back-patching size fields at finalize.
func PutUint32LEAt(buf []byte, offset int64, v uint32) {
	binary.LittleEndian.PutUint32(buf[offset:offset+4], v)
}

// PutUint64BEAt writes a big-endian uint64 into buf at offset.
func PutUint64BEAt(buf []byte, offset int64, v uint64) {
	binary.BigEndian.PutUint64(buf[offset:offset+8], v)
}

// PutUint64LEAt writes a little-endian uint64 into buf at offset.
func PutUint64LEAt(buf []byte, offset int64, v uint64) {
	binary.LittleEndian.PutUint64(buf[offset:offset+8], v)
}

// WriteAtBE32 writes a big-endian uint32 field directly into an
// io.WriterAt-backed file at offset, used for finalize-time back-patching
// without re-reading the whole buffer.
func WriteAtBE32(w io.WriterAt, offset int64, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	if _, err := w.WriteAt(buf[:], offset); err != nil {
		return fmt.Errorf("write at offset %d: %w", offset, err)
	}
	return nil
}

// WriteAtBE64 writes a big-endian uint64 at offset via io.WriterAt.
func WriteAtBE64(w io.WriterAt, offset int64, v uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	if _, err := w.WriteAt(buf[:], offset); err != nil {
		return fmt.Errorf("write at offset %d: %w", offset, err)
	}
	return nil
}

// WriteAtLE32 writes a little-endian uint32 at offset via io.WriterAt.
func WriteAtLE32(w io.WriterAt, offset int64, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	if _, err := w.WriteAt(buf[:], offset); err != nil {
		return fmt.Errorf("write at offset %d: %w", offset, err)
	}
	return nil
}

// WriteAtLE64 writes a little-endian uint64 at offset via io.WriterAt.
func WriteAtLE64(w io.WriterAt, offset int64, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	if _, err := w.WriteAt(buf[:], offset); err != nil {
		return fmt.Errorf("write at offset %d: %w", offset, err)
	}
	return nil
}

// ReverseBits reverses the bit order within a single byte, implementing
// the LSB-first <-> MSB-first conversion law between Format A and Format B.
func ReverseBits(b byte) byte {
	b = (b&0xF0)>>4 | (b&0x0F)<<4
	b = (b&0xCC)>>2 | (b&0x33)<<2
	b = (b&0xAA)>>1 | (b&0x55)<<1
	return b
}

// ReverseBitsSlice bit-reverses every byte of data in place and also
// returns data for chaining.
func ReverseBitsSlice(data []byte) []byte {
	for i, b := range data {
		data[i] = ReverseBits(b)
	}
	return data
}
