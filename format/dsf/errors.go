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

// Package dsf implements Format A: the little-endian, flat-chunked
// per-track DSD container (header + fmt + data, 4096-byte per-channel
// block interleave, LSB-first bit order).
package dsf

import "errors"

var (
	ErrBadMagic       = errors.New("dsf: bad chunk magic")
	ErrSizeOverflow   = errors.New("dsf: chunk size arithmetic overflow")
	ErrSizeTooLarge   = errors.New("dsf: chunk size exceeds 10 GiB sanity cap")
	ErrMetadataTooBig = errors.New("dsf: tag blob exceeds 100 MiB cap")
	ErrAlreadyOpen    = errors.New("dsf: file already open")
	ErrNotOpen        = errors.New("dsf: file not open")
	ErrReadOnly       = errors.New("dsf: file opened read-only")
	ErrFinalized      = errors.New("dsf: operation invalid after finalize")
)

// maxChunkSize bounds any declared size field to 10 GiB, per the
// container invariant that protects against hostile headers.
const maxChunkSize = 10 * 1024 * 1024 * 1024

// maxTagBlobSize bounds the trailing free-form metadata blob to 100 MiB.
const maxTagBlobSize = 100 * 1024 * 1024

// blockSize is the fixed per-channel block-interleave unit.
const blockSize = 4096
