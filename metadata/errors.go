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

package metadata

import "errors"

// Sentinel errors for track-selection parsing.
var (
	ErrEmptySelection = errors.New("track selection: empty expression")
	ErrBadRange       = errors.New("track selection: malformed range")
	ErrOutOfBounds    = errors.New("track selection: index out of bounds")
)
