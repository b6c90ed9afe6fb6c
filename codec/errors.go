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

// Package codec implements the lossless one-bit bitstream decoder: each
// call consumes one compressed frame and produces one raw one-bit frame,
// channel-interleaved per byte, MSB first. The decoder holds no state
// across frames.
package codec

import "github.com/dsdnexus/core/xerr"

const (
	maxChannels        = 6
	arithCoderTotalBits = 12
	initialA            = 4095
)

func errInvalidData(msg string) error {
	return xerr.New(xerr.InvalidData, msg)
}

func errNotImplemented(msg string) error {
	return xerr.New(xerr.InvalidData, "not implemented: "+msg)
}
