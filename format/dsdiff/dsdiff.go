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
	"io"

	"github.com/spf13/afero"

	"github.com/dsdnexus/core/xerr"
)

var (
	idFRM8 = [4]byte{'F', 'R', 'M', '8'}
	idFVER = [4]byte{'F', 'V', 'E', 'R'}
	idPROP = [4]byte{'P', 'R', 'O', 'P'}
	idSND  = [4]byte{'S', 'N', 'D', ' '}
	idFS   = [4]byte{'F', 'S', ' ', ' '}
	idCHNL = [4]byte{'C', 'H', 'N', 'L'}
	idCMPR = [4]byte{'C', 'M', 'P', 'R'}
	idDSD  = [4]byte{'D', 'S', 'D', ' '}
	idDST  = [4]byte{'D', 'S', 'T', ' '}
	idCOMT = [4]byte{'C', 'O', 'M', 'T'}
	idDIIN = [4]byte{'D', 'I', 'I', 'N'}
	idEMID = [4]byte{'E', 'M', 'I', 'D'}
	idDIAR = [4]byte{'D', 'I', 'A', 'R'}
	idDITI = [4]byte{'D', 'I', 'T', 'I'}
	idMARK = [4]byte{'M', 'A', 'R', 'K'}
	idMANF = [4]byte{'M', 'A', 'N', 'F'}
	idDSTI = [4]byte{'D', 'S', 'T', 'I'}
)

const formatVersion uint32 = 0x01050000

// FormatInfo mirrors the PROP/CMPR sub-chunk fields.
type FormatInfo struct {
	SampleRateHz    uint32
	ChannelCount    int
	ChannelIDs      []string // four-character channel identifiers
	Compressed      bool     // true selects the DST form, false the DSD (raw) form
	CompressionName string
}

// Marker is one entry of a MARK chunk. Position is in samples, the
// conventional unit for Format B markers.
type Marker struct {
	PositionSamples uint64
	MarkType        uint16
	Channel         uint16
	Name            string
}

type mode int

const (
	modeCreate mode = iota
	modeOpen
	modeModify
)

// File is an open Format B (DSDIFF-style) container, also covering Format
// C (the DST compressed-frame stream) when FormatInfo.Compressed is set.
type File struct {
	fs   afero.Fs
	f    afero.File
	mode mode

	format FormatInfo

	discArtist, discTitle, editionID string
	comments                         []string
	markers                          []Marker
	manufacturerData                 []byte

	audioOffset int64 // absolute offset of the first byte of DSD/DST payload
	audioSize   uint64

	frameOffsets []uint64 // DSTI index, relative to audioOffset
	frameLengths []uint32

	posBytes  uint64 // raw-form read/write cursor, a byte offset into the channel-interleaved audio
	finalized bool

	frm8SizeOffset      int64
	audioSizeOffset     int64
}

// Create opens path for writing a fresh Format B container.
func Create(fs afero.Fs, path string, format FormatInfo) (*File, error) {
	if format.ChannelCount <= 0 || format.ChannelCount > 6 {
		return nil, xerr.New(xerr.InvalidArg, "channel count must be in [1,6]")
	}
	f, err := fs.Create(path)
	if err != nil {
		return nil, xerr.Wrap(xerr.IoWrite, "create dsdiff file", err)
	}
	d := &File{fs: fs, f: f, mode: modeCreate, format: format}
	if err := d.writeHeaders(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return d, nil
}

func (d *File) audioFormID() [4]byte {
	if d.format.Compressed {
		return idDST
	}
	return idDSD
}

func (d *File) writeHeaders() error {
	// FRM8 payload begins with the four-byte form type, then children.
	// The FRM8 and audio-chunk sizes are only known once all audio and
	// trailing metadata chunks are written, so their size fields are
	// written as placeholders here and back-patched at Finalize.
	d.frm8SizeOffset = 4
	if err := writeChunkHeader(d.f, idFRM8, 0); err != nil { // placeholder
		return err
	}
	formType := d.audioFormID()
	if _, err := d.f.Write(formType[:]); err != nil {
		return xerr.Wrap(xerr.IoWrite, "write form type", err)
	}

	if err := writeChunk(d.f, idFVER, putBE32(formatVersion)); err != nil {
		return err
	}

	var prop bytes.Buffer
	prop.Write(idSND[:])
	if err := writeChunkToBuf(&prop, idFS, putBE32(d.format.SampleRateHz)); err != nil {
		return err
	}
	var chnl bytes.Buffer
	chnl.Write(putBE16(uint16(d.format.ChannelCount)))
	for _, id := range d.format.ChannelIDs {
		var b [4]byte
		copy(b[:], id)
		chnl.Write(b[:])
	}
	if err := writeChunkToBuf(&prop, idCHNL, chnl.Bytes()); err != nil {
		return err
	}
	var cmpr bytes.Buffer
	compID := d.audioFormID()
	cmpr.Write(compID[:])
	name := d.format.CompressionName
	if name == "" {
		if d.format.Compressed {
			name = "DST Encoded"
		} else {
			name = "not compressed"
		}
	}
	cmpr.WriteByte(byte(len(name)))
	cmpr.WriteString(name)
	if err := writeChunkToBuf(&prop, idCMPR, cmpr.Bytes()); err != nil {
		return err
	}
	if err := writeChunk(d.f, idPROP, prop.Bytes()); err != nil {
		return err
	}

	// Audio chunk header, size back-patched at finalize.
	headerPos, err := d.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return xerr.Wrap(xerr.IoWrite, "seek before audio header", err)
	}
	d.audioSizeOffset = headerPos + 4
	if err := writeChunkHeader(d.f, d.audioFormID(), 0); err != nil {
		return err
	}
	pos, err := d.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return xerr.Wrap(xerr.IoWrite, "seek after audio header", err)
	}
	d.audioOffset = pos
	return nil
}

func writeChunkToBuf(buf *bytes.Buffer, id [4]byte, payload []byte) error {
	return writeChunk(buf, id, payload)
}

// Open opens an existing Format B container for reading.
func Open(fs afero.Fs, path string) (*File, error) {
	return openFile(fs, path, modeOpen)
}

// Modify opens an existing container read-mostly. Metadata setters update
// the in-memory copy only; Finalize in this mode writes nothing back to
// the file.
func Modify(fs afero.Fs, path string) (*File, error) {
	return openFile(fs, path, modeModify)
}

func openFile(fs afero.Fs, path string, m mode) (*File, error) {
	var f afero.File
	var err error
	if m == modeModify {
		f, err = fs.OpenFile(path, 0, 0)
	} else {
		f, err = fs.Open(path)
	}
	if err != nil {
		return nil, xerr.Wrap(xerr.IoRead, "open dsdiff file", err)
	}
	d := &File{fs: fs, f: f, mode: m}
	if err := d.readAll(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return d, nil
}

func (d *File) readAll() error {
	root, err := readChunkHeader(d.f)
	if err != nil {
		return err
	}
	if root.ID != idFRM8 {
		return xerr.New(xerr.InvalidFile, "missing FRM8 root chunk")
	}

	var formType [4]byte
	if _, err := io.ReadFull(d.f, formType[:]); err != nil {
		return xerr.Wrap(xerr.UnexpectedEOF, "read form type", err)
	}
	switch formType {
	case idDSD:
		d.format.Compressed = false
	case idDST:
		d.format.Compressed = true
	default:
		return ErrUnknownFormType
	}

	remaining := int64(paddedSize(root.Size)) - 4
	haveFVER, haveProp, haveAudio := false, false, false

	for remaining > 0 {
		ch, err := readChunkHeader(d.f)
		if err != nil {
			return err
		}
		consumed := int64(12 + paddedSize(ch.Size))
		remaining -= consumed

		switch ch.ID {
		case idFVER:
			if _, err := io.CopyN(io.Discard, d.f, int64(paddedSize(ch.Size))); err != nil {
				return xerr.Wrap(xerr.UnexpectedEOF, "read FVER", err)
			}
			haveFVER = true
		case idPROP:
			if err := d.readProp(ch.Size); err != nil {
				return err
			}
			haveProp = true
		case idDSD, idDST:
			d.audioOffset, _ = d.f.Seek(0, io.SeekCurrent)
			d.audioSize = ch.Size
			if _, err := io.CopyN(io.Discard, d.f, int64(paddedSize(ch.Size))); err != nil {
				return xerr.Wrap(xerr.UnexpectedEOF, "read audio chunk", err)
			}
			haveAudio = true
		case idCOMT:
			data := make([]byte, paddedSize(ch.Size))
			if _, err := io.ReadFull(d.f, data); err != nil {
				return xerr.Wrap(xerr.UnexpectedEOF, "read COMT", err)
			}
			d.comments = append(d.comments, string(bytes.TrimRight(data[:ch.Size], "\x00")))
		case idDIIN:
			if err := d.readDiin(ch.Size); err != nil {
				return err
			}
		case idDSTI:
			if err := d.readDsti(ch.Size); err != nil {
				return err
			}
		default:
			// Unknown non-required chunk: skip silently per the local
			// recovery rule.
			if err := skipChunkPayload(d.f, ch.Size); err != nil {
				return err
			}
		}
	}

	if !haveFVER || !haveProp || !haveAudio {
		return ErrMissingRequired
	}
	return nil
}

func (d *File) readProp(size uint64) error {
	var formType [4]byte
	if _, err := io.ReadFull(d.f, formType[:]); err != nil {
		return xerr.Wrap(xerr.UnexpectedEOF, "read PROP form type", err)
	}
	remaining := int64(paddedSize(size)) - 4
	for remaining > 0 {
		ch, err := readChunkHeader(d.f)
		if err != nil {
			return err
		}
		remaining -= int64(12 + paddedSize(ch.Size))
		switch ch.ID {
		case idFS:
			buf := make([]byte, paddedSize(ch.Size))
			if _, err := io.ReadFull(d.f, buf); err != nil {
				return xerr.Wrap(xerr.UnexpectedEOF, "read FS", err)
			}
			d.format.SampleRateHz = be32(buf[0:4])
		case idCHNL:
			buf := make([]byte, paddedSize(ch.Size))
			if _, err := io.ReadFull(d.f, buf); err != nil {
				return xerr.Wrap(xerr.UnexpectedEOF, "read CHNL", err)
			}
			count := int(be16(buf[0:2]))
			d.format.ChannelCount = count
			for i := 0; i < count && 2+4*(i+1) <= len(buf); i++ {
				d.format.ChannelIDs = append(d.format.ChannelIDs, string(bytes.TrimRight(buf[2+4*i:2+4*i+4], " ")))
			}
		case idCMPR:
			buf := make([]byte, paddedSize(ch.Size))
			if _, err := io.ReadFull(d.f, buf); err != nil {
				return xerr.Wrap(xerr.UnexpectedEOF, "read CMPR", err)
			}
			if len(buf) > 4 {
				nameLen := int(buf[4])
				if 5+nameLen <= len(buf) {
					d.format.CompressionName = string(buf[5 : 5+nameLen])
				}
			}
		default:
			if err := skipChunkPayload(d.f, ch.Size); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *File) readDiin(size uint64) error {
	var formType [4]byte
	if _, err := io.ReadFull(d.f, formType[:]); err != nil {
		return xerr.Wrap(xerr.UnexpectedEOF, "read DIIN form type", err)
	}
	remaining := int64(paddedSize(size)) - 4
	for remaining > 0 {
		ch, err := readChunkHeader(d.f)
		if err != nil {
			return err
		}
		remaining -= int64(12 + paddedSize(ch.Size))
		buf := make([]byte, paddedSize(ch.Size))
		if _, err := io.ReadFull(d.f, buf); err != nil {
			return xerr.Wrap(xerr.UnexpectedEOF, "read DIIN child", err)
		}
		payload := buf[:ch.Size]
		switch ch.ID {
		case idEMID:
			d.editionID = string(bytes.TrimRight(payload, "\x00"))
		case idDIAR:
			d.discArtist = string(bytes.TrimRight(payload, "\x00"))
		case idDITI:
			d.discTitle = string(bytes.TrimRight(payload, "\x00"))
		case idMARK:
			m, err := decodeMarker(payload)
			if err != nil {
				return err
			}
			d.markers = append(d.markers, m)
		case idMANF:
			d.manufacturerData = append([]byte(nil), payload...)
		}
	}
	return nil
}

func (d *File) readDsti(size uint64) error {
	buf := make([]byte, paddedSize(size))
	if _, err := io.ReadFull(d.f, buf); err != nil {
		return xerr.Wrap(xerr.UnexpectedEOF, "read DSTI", err)
	}
	payload := buf[:size]
	const entrySize = 12
	n := len(payload) / entrySize
	d.frameOffsets = make([]uint64, n)
	d.frameLengths = make([]uint32, n)
	for i := 0; i < n; i++ {
		off := i * entrySize
		d.frameOffsets[i] = be64(payload[off : off+8])
		d.frameLengths[i] = be32(payload[off+8 : off+12])
	}
	return nil
}

func be64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(b[i])
	}
	return v
}

func putBE64(v uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b
}

// Format returns the parsed PROP/CMPR contents.
func (d *File) Format() FormatInfo { return d.format }

// DiscArtist, DiscTitle, EditionID return the DIIN-chunk detail fields.
func (d *File) DiscArtist() string { return d.discArtist }
func (d *File) DiscTitle() string  { return d.discTitle }
func (d *File) EditionID() string  { return d.editionID }

// SetDiscArtist, SetDiscTitle, SetEditionID stage DIIN-chunk fields for
// the next Finalize.
func (d *File) SetDiscArtist(s string) { d.discArtist = s }
func (d *File) SetDiscTitle(s string)  { d.discTitle = s }
func (d *File) SetEditionID(s string)  { d.editionID = s }

// AddComment stages a COMT entry for the next Finalize.
func (d *File) AddComment(s string) { d.comments = append(d.comments, s) }

// AddMarker stages a MARK entry, used by the edit-master sink to record a
// track boundary.
func (d *File) AddMarker(m Marker) { d.markers = append(d.markers, m) }

// Markers returns the markers read from (or staged into) the file.
func (d *File) Markers() []Marker { return d.markers }

// FrameCount returns the number of entries in the DSTI index, or 0 if none.
func (d *File) FrameCount() int { return len(d.frameOffsets) }

// Close releases the underlying file handle.
func (d *File) Close() error {
	if d.f == nil {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	if err != nil {
		return xerr.Wrap(xerr.IoWrite, "close dsdiff file", err)
	}
	return nil
}
