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
	"bytes"

	dbinary "github.com/dsdnexus/core/internal/binary"
	"github.com/dsdnexus/core/xerr"
)

// Finalize writes any even-pad byte owed on the audio chunk, writes
// pending COMT/DIIN/DSTI chunks, and back-patches the FRM8 and
// audio-chunk size fields. Valid at most once. On a file opened with
// Modify it only marks the file finalized and writes nothing.
func (d *File) Finalize() error {
	if d.finalized {
		return ErrFinalized
	}
	if d.mode == modeOpen {
		return ErrReadOnly
	}
	if d.mode != modeCreate {
		d.finalized = true
		return nil
	}

	if d.audioSize%2 == 1 {
		if _, err := d.f.Write([]byte{0}); err != nil {
			return xerr.Wrap(xerr.IoWrite, "write audio chunk pad byte", err)
		}
	}

	var trailerSize uint64
	for _, c := range d.comments {
		if err := writeChunk(d.f, idCOMT, []byte(c)); err != nil {
			return err
		}
		trailerSize += 12 + paddedSize(uint64(len(c)))
	}

	if d.discArtist != "" || d.discTitle != "" || d.editionID != "" || len(d.markers) > 0 || len(d.manufacturerData) > 0 {
		n, err := d.writeDiin()
		if err != nil {
			return err
		}
		trailerSize += n
	}

	if len(d.frameOffsets) > 0 {
		n, err := d.writeDsti()
		if err != nil {
			return err
		}
		trailerSize += n
	}

	totalMetadata := trailerSize
	if totalMetadata > maxMetadataSize {
		return ErrMetadataTooBig
	}

	audioChunkPayload := d.audioSize
	if err := dbinary.WriteAtBE64(d.f, d.audioSizeOffset, audioChunkPayload); err != nil {
		return err
	}

	// FRM8 payload = 4 (form type) + FVER(12+4) + PROP(...) + audio chunk
	// (12 + padded payload) + trailer chunks. Recompute from current file
	// size rather than re-deriving each component's contribution.
	info, err := d.f.Stat()
	if err != nil {
		return xerr.Wrap(xerr.IoRead, "stat for finalize", err)
	}
	frm8Payload := uint64(info.Size()) - 12 // minus the FRM8 header itself
	if err := dbinary.WriteAtBE64(d.f, d.frm8SizeOffset, frm8Payload); err != nil {
		return err
	}

	d.finalized = true
	return nil
}

func (d *File) writeDiin() (uint64, error) {
	var body bytes.Buffer
	body.WriteString("diin") // DIIN form-type sub-id, mirroring PROP's "SND "

	if d.editionID != "" {
		if err := writeChunk(&body, idEMID, []byte(d.editionID)); err != nil {
			return 0, err
		}
	}
	if d.discArtist != "" {
		if err := writeChunk(&body, idDIAR, []byte(d.discArtist)); err != nil {
			return 0, err
		}
	}
	if d.discTitle != "" {
		if err := writeChunk(&body, idDITI, []byte(d.discTitle)); err != nil {
			return 0, err
		}
	}
	for _, m := range d.markers {
		if err := writeChunk(&body, idMARK, encodeMarker(m)); err != nil {
			return 0, err
		}
	}
	if len(d.manufacturerData) > 0 {
		if err := writeChunk(&body, idMANF, d.manufacturerData); err != nil {
			return 0, err
		}
	}

	if err := writeChunk(d.f, idDIIN, body.Bytes()); err != nil {
		return 0, err
	}
	return 12 + paddedSize(uint64(body.Len())), nil
}

func (d *File) writeDsti() (uint64, error) {
	var body bytes.Buffer
	for i := range d.frameOffsets {
		body.Write(putBE64(d.frameOffsets[i]))
		body.Write(putBE32(d.frameLengths[i]))
	}
	if err := writeChunk(d.f, idDSTI, body.Bytes()); err != nil {
		return 0, err
	}
	return 12 + paddedSize(uint64(body.Len())), nil
}
