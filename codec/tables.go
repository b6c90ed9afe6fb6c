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

// filterPredictorMatrix and probPredictorMatrix are the fixed 3x3
// predictor coefficient matrices used to reconstruct Rice-coded filter
// and probability table residuals (see tableRow). Each row predicts the
// next raw coefficient from the previous three already-decoded ones.
var filterPredictorMatrix = [3][3]int32{
	{2, -1, 0},
	{3, -3, 1},
	{4, -6, 4},
}

var probPredictorMatrix = [3][3]int32{
	{2, -1, 0},
	{3, -3, 1},
	{4, -6, 4},
}

// riceDecode decodes one Rice-coded (k-bit remainder, unary quotient)
// signed residual.
func riceDecode(r *bitstream.Reader, k uint8) (int32, error) {
	var quotient uint32
	for {
		b, err := r.Bit()
		if err != nil {
			return 0, err
		}
		if !b {
			break
		}
		quotient++
		if quotient > 1<<20 {
			return 0, errInvalidData("rice quotient runaway")
		}
	}
	remainder, err := r.Bits(k)
	if err != nil {
		return 0, err
	}
	u := (quotient << k) | uint32(remainder)
	// zig-zag undo
	if u&1 == 0 {
		return int32(u >> 1), nil
	}
	return -int32((u + 1) >> 1), nil
}

// tableRow decodes one coefficient table entry (filter-set table row or
// probability table row): a length field, then either raw coefficients
// or a predicted+Rice-residual coding, per the frame grammar.
func tableRow(r *bitstream.Reader, lengthBits, coeffBits uint8, matrix [3][3]int32, biasPlusOne bool) ([]int32, error) {
	length, err := r.Bits(lengthBits)
	if err != nil {
		return nil, err
	}
	n := int(length)
	coeffs := make([]int32, n)
	if n == 0 {
		return coeffs, nil
	}

	methodBits, err := r.Bits(2)
	if err != nil {
		return nil, err
	}
	method := int(methodBits)
	if method > 2 {
		method = 2
	}
	rawCount := method + 1
	if rawCount > n {
		rawCount = n
	}

	for i := 0; i < rawCount; i++ {
		v, err := r.SignedBits(coeffBits)
		if err != nil {
			return nil, err
		}
		if biasPlusOne {
			coeffs[i] = v - 1
		} else {
			coeffs[i] = v
		}
	}

	for i := rawCount; i < n; i++ {
		var predicted int32
		row := i % 3
		for k := 0; k < 3 && i-1-k >= 0; k++ {
			predicted += matrix[row][k] * coeffs[i-1-k]
		}
		residual, err := riceDecode(r, 2)
		if err != nil {
			return nil, err
		}
		v := predicted + residual
		if biasPlusOne {
			if v < -1 || v > 126 {
				return nil, errInvalidData("probability coefficient out of range")
			}
		} else if v < -256 || v > 255 {
			return nil, errInvalidData("filter coefficient out of range")
		}
		coeffs[i] = v
	}

	return coeffs, nil
}
