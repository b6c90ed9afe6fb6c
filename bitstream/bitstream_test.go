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

package bitstream

import "testing"

func TestBitsRoundTrip(t *testing.T) {
	// 0b1 0110100 1111111 0000000 = header bit, 7-bit, 7-bit, 7-bit
	frame := []byte{0b10110100, 0b11111110, 0b00000000}
	r := NewReader(frame)

	b, err := r.Bit()
	if err != nil || !b {
		t.Fatalf("Bit() = %v, %v; want true, nil", b, err)
	}
	v, err := r.Bits(7)
	if err != nil || v != 0b0110100 {
		t.Fatalf("Bits(7) = %v, %v; want 0b0110100", v, err)
	}
	v, err = r.Bits(7)
	if err != nil || v != 0b1111111 {
		t.Fatalf("Bits(7) = %v, %v; want 0b1111111", v, err)
	}
}

func TestSignedBits(t *testing.T) {
	// 9-bit field: 0b101111111 = -129 in two's complement? check math below.
	r := NewReader([]byte{0b10111111, 0b10000000})
	v, err := r.SignedBits(9)
	if err != nil {
		t.Fatalf("SignedBits: %v", err)
	}
	want := int32(0b101111111) - (1 << 9)
	if v != want {
		t.Fatalf("SignedBits(9) = %d, want %d", v, want)
	}
}

func TestElementMapBits(t *testing.T) {
	cases := []struct {
		n    int
		want uint8
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 2},
		{4, 3},
		{7, 3},
		{8, 4},
	}
	for _, c := range cases {
		if got := ElementMapBits(c.n); got != c.want {
			t.Errorf("ElementMapBits(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}
