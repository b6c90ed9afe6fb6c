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

package dsdiff

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dsdnexus/core/xerr"
)

// chunkHeader is the twelve-byte {id(4), payload_size(8)} header shared by
// every chunk in Format B. Payload size excludes this header and excludes
// the even-padding byte, if any.
type chunkHeader struct {
	ID   [4]byte
	Size uint64
}

// readChunkHeader reads one chunk header from r.
func readChunkHeader(r io.Reader) (chunkHeader, error) {
	var buf [12]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return chunkHeader{}, xerr.Wrap(xerr.UnexpectedEOF, "read chunk header", err)
	}
	h := chunkHeader{
		ID:   [4]byte(buf[0:4]),
		Size: binary.BigEndian.Uint64(buf[4:12]),
	}
	if h.Size > maxChunkSize {
		return chunkHeader{}, xerr.Wrap(xerr.InvalidChunk, fmt.Sprintf("chunk %q declares oversized payload", h.ID), ErrSizeTooLarge)
	}
	return h, nil
}

// paddedSize returns size rounded up to the next even number, matching the
// even-byte chunk padding rule.
func paddedSize(size uint64) uint64 {
	if size%2 == 1 {
		return size + 1
	}
	return size
}

// writeChunkHeader writes a twelve-byte chunk header.
func writeChunkHeader(w io.Writer, id [4]byte, size uint64) error {
	var buf [12]byte
	copy(buf[0:4], id[:])
	binary.BigEndian.PutUint64(buf[4:12], size)
	if _, err := w.Write(buf[:]); err != nil {
		return xerr.Wrap(xerr.IoWrite, "write chunk header", err)
	}
	return nil
}

// writeChunk writes a complete chunk (header + payload + even pad byte).
func writeChunk(w io.Writer, id [4]byte, payload []byte) error {
	if err := writeChunkHeader(w, id, uint64(len(payload))); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return xerr.Wrap(xerr.IoWrite, "write chunk payload", err)
	}
	if len(payload)%2 == 1 {
		if _, err := w.Write([]byte{0}); err != nil {
			return xerr.Wrap(xerr.IoWrite, "write chunk pad byte", err)
		}
	}
	return nil
}

// skipChunkPayload discards size (padded) bytes from r, for unknown
// non-required chunks encountered while reading.
func skipChunkPayload(r io.Reader, size uint64) error {
	n := paddedSize(size)
	if seeker, ok := r.(io.Seeker); ok {
		if _, err := seeker.Seek(int64(n), io.SeekCurrent); err != nil {
			return xerr.Wrap(xerr.IoRead, "skip chunk", err)
		}
		return nil
	}
	_, err := io.CopyN(io.Discard, r, int64(n))
	if err != nil {
		return xerr.Wrap(xerr.IoRead, "skip chunk", err)
	}
	return nil
}

func be32(b []byte) uint32 { return binary.BigEndian.Uint32(b) }
func be16(b []byte) uint16 { return binary.BigEndian.Uint16(b) }

func putBE32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func putBE16(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return b
}
