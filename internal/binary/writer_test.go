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
	"bytes"
	"testing"
)

func TestReverseBitsRoundTrip(t *testing.T) {
	original := []byte{0x01, 0xA5, 0xFF, 0x00, 0x80, 0x3C}
	reversed := append([]byte(nil), original...)
	ReverseBitsSlice(reversed)
	twice := append([]byte(nil), reversed...)
	ReverseBitsSlice(twice)

	if bytes.Equal(reversed, original) {
		t.Fatalf("single reversal should change non-palindromic bytes")
	}
	if !bytes.Equal(twice, original) {
		t.Fatalf("double reversal should cancel: got %v want %v", twice, original)
	}
}

func TestReverseBitsKnownValues(t *testing.T) {
	cases := map[byte]byte{
		0x01: 0x80,
		0x80: 0x01,
		0xFF: 0xFF,
		0x00: 0x00,
		0xAA: 0x55,
	}
	for in, want := range cases {
		if got := ReverseBits(in); got != want {
			t.Errorf("ReverseBits(%#x) = %#x, want %#x", in, got, want)
		}
	}
}
