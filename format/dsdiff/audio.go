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
	"io"

	"github.com/dsdnexus/core/xerr"
)

// WriteAudio appends channel-interleaved, MSB-first one-bit raw audio to
// the DSD-form chunk. Unlike Format A there is no block interleave: bytes
// are appended directly in producer order.
func (d *File) WriteAudio(data []byte) (int, error) {
	if d.mode != modeCreate {
		return 0, ErrReadOnly
	}
	if d.format.Compressed {
		return 0, xerr.New(xerr.InvalidState, "write audio: file is in compressed (DST) form, use WriteFrame")
	}
	n, err := d.f.Write(data)
	if err != nil {
		return n, xerr.Wrap(xerr.IoWrite, "write audio", err)
	}
	d.audioSize += uint64(n)
	return n, nil
}

// ReadAudio reads raw one-bit audio sequentially from the current cursor.
func (d *File) ReadAudio(buf []byte) (int, error) {
	if d.format.Compressed {
		return 0, xerr.New(xerr.InvalidState, "read audio: file is in compressed (DST) form, use AudioReader")
	}
	if d.posBytes >= d.audioSize {
		return 0, io.EOF
	}
	readAt, ok := d.f.(io.ReaderAt)
	if !ok {
		return 0, xerr.New(xerr.InvalidState, "underlying file does not support random access")
	}
	toRead := int64(len(buf))
	remaining := int64(d.audioSize - d.posBytes)
	if toRead > remaining {
		toRead = remaining
	}
	n, err := readAt.ReadAt(buf[:toRead], d.audioOffset+int64(d.posBytes))
	if err != nil && err != io.EOF {
		return n, xerr.Wrap(xerr.IoRead, "read audio", err)
	}
	d.posBytes += uint64(n)
	return n, nil
}

// SeekWhence mirrors io.Seek's whence constants for the raw-form seek
// contract (byte offsets into the channel-interleaved audio).
type SeekWhence int

const (
	SeekStart SeekWhence = iota
	SeekCurrent
	SeekEnd
)

// Seek repositions the raw-audio cursor. Only valid for the uncompressed
// (DSD) form.
func (d *File) Seek(offset int64, whence SeekWhence) (int64, error) {
	if d.format.Compressed {
		return 0, xerr.New(xerr.InvalidState, "seek: compressed form requires SeekFrame with a DSTI index")
	}
	var base int64
	switch whence {
	case SeekStart:
		base = 0
	case SeekCurrent:
		base = int64(d.posBytes)
	case SeekEnd:
		base = int64(d.audioSize)
	default:
		return 0, xerr.New(xerr.InvalidArg, "seek: invalid whence")
	}
	newPos := base + offset
	if newPos < 0 {
		return 0, xerr.New(xerr.InvalidArg, "seek: negative resulting position")
	}
	d.posBytes = uint64(newPos)
	return newPos, nil
}

// WriteFrame appends one coded (DST) frame and records its position in
// the in-memory DSTI index, written out at Finalize.
func (d *File) WriteFrame(frame []byte) error {
	if d.mode != modeCreate {
		return ErrReadOnly
	}
	if !d.format.Compressed {
		return xerr.New(xerr.InvalidState, "write frame: file is in raw (DSD) form, use WriteAudio")
	}
	d.frameOffsets = append(d.frameOffsets, d.audioSize)
	d.frameLengths = append(d.frameLengths, uint32(len(frame)))
	n, err := d.f.Write(frame)
	if err != nil {
		return xerr.Wrap(xerr.IoWrite, "write frame", err)
	}
	d.audioSize += uint64(n)
	return nil
}

// AudioReader returns a reader over the full compressed-frame stream, for
// a decoder to consume sequentially and determine its own frame
// boundaries (Format C frames are not self-delimited by the container).
func (d *File) AudioReader() (io.Reader, error) {
	if !d.format.Compressed {
		return nil, xerr.New(xerr.InvalidState, "audio reader: file is in raw (DSD) form")
	}
	readAt, ok := d.f.(io.ReaderAt)
	if !ok {
		return nil, xerr.New(xerr.InvalidState, "underlying file does not support random access")
	}
	return io.NewSectionReader(readAt, d.audioOffset, int64(d.audioSize)), nil
}

// SeekFrame returns a reader bounded to exactly one coded frame by index,
// using the DSTI index. Returns ErrNoIndex if the file carries none.
func (d *File) SeekFrame(index int) (io.Reader, error) {
	if len(d.frameOffsets) == 0 {
		return nil, ErrNoIndex
	}
	if index < 0 || index >= len(d.frameOffsets) {
		return nil, xerr.New(xerr.InvalidArg, "seek frame: index out of range")
	}
	readAt, ok := d.f.(io.ReaderAt)
	if !ok {
		return nil, xerr.New(xerr.InvalidState, "underlying file does not support random access")
	}
	off := d.audioOffset + int64(d.frameOffsets[index])
	return io.NewSectionReader(readAt, off, int64(d.frameLengths[index])), nil
}
