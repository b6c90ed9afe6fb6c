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

// Package dsdiff implements Format B (the hierarchical, big-endian DSD
// container) and Format C (the DST compressed-frame stream embedded in
// it), including its optional frame-index chunk.
package dsdiff

import "errors"

var (
	ErrBadMagic        = errors.New("dsdiff: bad chunk id")
	ErrMissingRequired = errors.New("dsdiff: missing required chunk")
	ErrSizeTooLarge    = errors.New("dsdiff: chunk size exceeds 10 GiB sanity cap")
	ErrMetadataTooBig  = errors.New("dsdiff: tag data exceeds 100 MiB cap")
	ErrNoIndex         = errors.New("dsdiff: random-access seek requires a DSTI index")
	ErrReadOnly        = errors.New("dsdiff: file opened read-only")
	ErrFinalized       = errors.New("dsdiff: operation invalid after finalize")
	ErrUnknownFormType = errors.New("dsdiff: form type is neither DSD nor DST")
)

// maxChunkSize bounds any declared chunk payload size.
const maxChunkSize = 10 * 1024 * 1024 * 1024

// maxMetadataSize bounds the total of all metadata/comment chunk payloads.
const maxMetadataSize = 100 * 1024 * 1024
