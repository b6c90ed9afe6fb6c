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

import (
	"bytes"
	"testing"

	"github.com/icza/bitio"
)

func TestSamplesPerFrame(t *testing.T) {
	if got := SamplesPerFrame(44100); got != 588 {
		t.Errorf("SamplesPerFrame(44100) = %d, want 588", got)
	}
	if got := SamplesPerFrame(2822400); got != 588*64 {
		t.Errorf("SamplesPerFrame(2822400) = %d, want %d", got, 588*64)
	}
}

func TestDecodeFrameUncompressedPassthrough(t *testing.T) {
	raw := []byte{0xAA, 0x55}
	var buf bytes.Buffer
	bw := bitio.NewWriter(&buf)
	bw.WriteBool(false) // header bit: uncompressed
	bw.WriteBits(0, 7)  // reserved
	bw.Write(raw)
	bw.Align()

	out, err := DecodeFrame(buf.Bytes(), 1, 16)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if !bytes.Equal(out, raw) {
		t.Errorf("DecodeFrame passthrough = %v, want %v", out, raw)
	}
}

func TestDecodeFrameRejectsUnsupportedSegmentation(t *testing.T) {
	var buf bytes.Buffer
	bw := bitio.NewWriter(&buf)
	bw.WriteBool(true)  // header bit: compressed
	bw.WriteBool(true)  // flag 0
	bw.WriteBool(false) // flag 1: differs, not implemented
	bw.WriteBool(true)  // flag 2
	bw.Align()

	_, err := DecodeFrame(buf.Bytes(), 1, 8)
	if err == nil {
		t.Fatalf("expected error for unsupported segmentation flags")
	}
}

func TestDecodeFrameCompressedSmoke(t *testing.T) {
	var buf bytes.Buffer
	bw := bitio.NewWriter(&buf)

	bw.WriteBool(true) // compressed
	bw.WriteBool(true) // segmentation flags: all "same for whole frame"
	bw.WriteBool(true)
	bw.WriteBool(true)

	bw.WriteBits(0, 2) // filter element count code -> 1 element
	bw.WriteBits(0, 1) // filter map: channel 0 -> element 0

	bw.WriteBits(0, 2) // probability element count code -> 1 element
	bw.WriteBits(0, 1) // probability map: channel 0 -> element 0

	bw.WriteBool(false) // half-probability bit, channel 0

	bw.WriteBits(1, 7) // filter table: length 1
	bw.WriteBits(0, 2) // method 0 (1 raw coefficient)
	bw.WriteBits(5, 9) // raw coefficient value 5

	bw.WriteBits(1, 6)  // probability table: length 1
	bw.WriteBits(0, 2)  // method 0 (1 raw coefficient)
	bw.WriteBits(10, 7) // raw coefficient value 10 (bias -1 applied -> 9)

	bw.Align()

	// Decoding beyond the header runs the arithmetic coder past the
	// written bits; DecodeFrame treats exhausted input as zero bits, so
	// this exercises the full decode loop without requiring a real
	// encoder fixture.
	out, err := DecodeFrame(buf.Bytes(), 1, 8)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}

	out2, err := DecodeFrame(buf.Bytes(), 1, 8)
	if err != nil {
		t.Fatalf("DecodeFrame (second call): %v", err)
	}
	if !bytes.Equal(out, out2) {
		t.Errorf("decoder is not stateless across calls: %v != %v", out, out2)
	}
}
