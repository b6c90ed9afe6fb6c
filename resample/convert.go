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

package resample

import "math"

// roundTiesAway rounds to the nearest integer, ties away from zero (not
// Go's round-half-to-even default behaviour for some float paths).
func roundTiesAway(v float64) float64 {
	if v >= 0 {
		return math.Floor(v + 0.5)
	}
	return math.Ceil(v - 0.5)
}

// ToInt16 converts a clamped [-1.0,1.0] float sample to int16 using scale
// 2^15-1.
func ToInt16(v float64) int16 {
	return int16(roundTiesAway(clamp(v) * 32767))
}

// ToInt24LE converts a clamped float sample to a little-endian packed
// 24-bit signed integer using scale 2^23-1.
func ToInt24LE(v float64) [3]byte {
	iv := int32(roundTiesAway(clamp(v) * 8388607))
	return [3]byte{byte(iv), byte(iv >> 8), byte(iv >> 16)}
}

// ToInt32 converts a clamped float sample to int32 using scale 2^31-1.
func ToInt32(v float64) int32 {
	return int32(roundTiesAway(clamp(v) * 2147483647))
}

// ToInt24 converts a clamped float sample to a sign-extended 24-bit value
// held in an int32, for sinks that want a plain integer sample rather than
// ToInt24LE's packed byte form.
func ToInt24(v float64) int32 {
	return int32(roundTiesAway(clamp(v) * 8388607))
}

// ToFloat32 clamps and narrows to float32, for WAV's IEEE-float sample
// format.
func ToFloat32(v float64) float32 {
	return float32(clamp(v))
}
