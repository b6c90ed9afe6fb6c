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

package dsf

import (
	"bytes"
	"io"
	"os"

	"github.com/spf13/afero"

	dbinary "github.com/dsdnexus/core/internal/binary"
	"github.com/dsdnexus/core/xerr"
)

// Magic words for the three fixed-order chunks.
var (
	magicHeader = [4]byte{'D', 'S', 'D', ' '}
	magicFormat = [4]byte{'f', 'm', 't', ' '}
	magicData   = [4]byte{'d', 'a', 't', 'a'}
)

const (
	headerChunkSize = 28
	formatChunkSize = 52
	dataHeaderSize  = 12
)

// FormatInfo mirrors the fmt chunk's fields.
type FormatInfo struct {
	Version      uint32
	Encoding     uint32
	ChannelType  uint32
	ChannelCount uint32
	SampleRateHz uint32
	Bits         uint32
	SampleCount  uint64
	BlockSize    uint32
	Reserved     uint32
}

// mode tracks which of create/open/modify produced this File.
type mode int

const (
	modeCreate mode = iota
	modeOpen
	modeModify
)

// File is an open Format A container.
//
// Seek primitives operate in one-bit-frame units, where one frame is
// defined here at one-byte-per-channel granularity (8 one-bit samples);
// sub-byte seeking is never required by any caller in this pipeline, so
// this is the resolution adopted for the ambiguous "frame units" seek
// contract.
type File struct {
	fs   afero.Fs
	f    afero.File
	mode mode

	format     FormatInfo
	tagOffset  uint64
	totalSize  uint64
	tags       map[string]string
	finalized  bool

	dataOffset int64 // absolute file offset of first audio byte
	posBytes   uint64 // current one-bit-frame (byte) position, per channel

	// writeBuf holds one partially-filled block per channel while writing.
	writeBuf [][]byte
	writeLen int // bytes filled in the current block group (same for every channel)

	audioBytesWritten uint64
}

// Create opens path for writing a fresh Format A container.
func Create(fs afero.Fs, path string, format FormatInfo) (*File, error) {
	if format.ChannelCount == 0 || format.ChannelCount > 6 {
		return nil, xerr.New(xerr.InvalidArg, "channel count must be in [1,6]")
	}
	if format.Bits != 1 && format.Bits != 8 {
		return nil, xerr.New(xerr.InvalidArg, "bits-per-sample must be 1 or 8")
	}
	format.BlockSize = blockSize

	f, err := fs.Create(path)
	if err != nil {
		return nil, xerr.Wrap(xerr.IoWrite, "create dsf file", err)
	}

	df := &File{
		fs:         fs,
		f:          f,
		mode:       modeCreate,
		format:     format,
		tags:       make(map[string]string),
		dataOffset: headerChunkSize + formatChunkSize + dataHeaderSize,
		writeBuf:   make([][]byte, format.ChannelCount),
	}
	for i := range df.writeBuf {
		df.writeBuf[i] = make([]byte, 0, blockSize)
	}

	if err := df.writePlaceholderHeaders(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return df, nil
}

func (d *File) writePlaceholderHeaders() error {
	// Header chunk, written with placeholder size fields to be back-patched
	// at finalize.
	if err := writeChunkMagic(d.f, magicHeader); err != nil {
		return err
	}
	if err := dbinary.WriteUint64LE(d.f, headerChunkSize); err != nil {
		return err
	}
	if err := dbinary.WriteUint64LE(d.f, 0); err != nil { // total_file_size placeholder
		return err
	}
	if err := dbinary.WriteUint64LE(d.f, 0); err != nil { // tag_offset placeholder
		return err
	}

	if err := writeChunkMagic(d.f, magicFormat); err != nil {
		return err
	}
	if err := dbinary.WriteUint64LE(d.f, formatChunkSize); err != nil {
		return err
	}
	fields := []uint32{1, 0, d.format.ChannelType, d.format.ChannelCount, d.format.SampleRateHz, d.format.Bits}
	for _, v := range fields {
		if err := dbinary.WriteUint32LE(d.f, v); err != nil {
			return err
		}
	}
	if err := dbinary.WriteUint64LE(d.f, 0); err != nil { // sample_count placeholder
		return err
	}
	if err := dbinary.WriteUint32LE(d.f, blockSize); err != nil {
		return err
	}
	if err := dbinary.WriteUint32LE(d.f, 0); err != nil { // reserved
		return err
	}

	if err := writeChunkMagic(d.f, magicData); err != nil {
		return err
	}
	if err := dbinary.WriteUint64LE(d.f, dataHeaderSize); err != nil { // placeholder, back-patched
		return err
	}
	return nil
}

func writeChunkMagic(w io.Writer, magic [4]byte) error {
	if _, err := w.Write(magic[:]); err != nil {
		return xerr.Wrap(xerr.IoWrite, "write chunk magic", err)
	}
	return nil
}

// Open opens an existing Format A container for reading.
func Open(fs afero.Fs, path string) (*File, error) {
	return openFile(fs, path, modeOpen)
}

// Modify opens an existing container in read-mostly mode where metadata
// may be edited but audio is not rewritten.
func Modify(fs afero.Fs, path string) (*File, error) {
	return openFile(fs, path, modeModify)
}

func openFile(fs afero.Fs, path string, m mode) (*File, error) {
	var f afero.File
	var err error
	if m == modeModify {
		f, err = fs.OpenFile(path, os.O_RDWR, 0)
	} else {
		f, err = fs.Open(path)
	}
	if err != nil {
		return nil, xerr.Wrap(xerr.IoRead, "open dsf file", err)
	}

	d := &File{fs: fs, f: f, mode: m, tags: make(map[string]string)}
	if err := d.readHeaders(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return d, nil
}

func (d *File) readHeaders() error {
	info, err := d.f.Stat()
	if err != nil {
		return xerr.Wrap(xerr.IoRead, "stat dsf file", err)
	}
	actualSize := info.Size()

	header := make([]byte, headerChunkSize)
	if _, err := io.ReadFull(d.f, header); err != nil {
		return xerr.Wrap(xerr.UnexpectedEOF, "read header chunk", err)
	}
	if [4]byte(header[0:4]) != magicHeader {
		return xerr.New(xerr.InvalidFile, "missing DSD header chunk magic")
	}
	headerSize := leUint64(header[4:12])
	if headerSize != headerChunkSize {
		return xerr.New(xerr.InvalidChunk, "unexpected header chunk size")
	}
	d.totalSize = leUint64(header[12:20])
	d.tagOffset = leUint64(header[20:28])
	if d.totalSize > maxChunkSize {
		return xerr.New(xerr.InvalidFile, "declared total file size exceeds sanity cap")
	}
	// Format A tolerates up to one block (4096 bytes) of slack between the
	// declared and observed file size.
	if d.totalSize > 0 {
		diff := d.totalSize - uint64(actualSize)
		if d.totalSize < uint64(actualSize) {
			diff = uint64(actualSize) - d.totalSize
		}
		if diff > blockSize {
			return xerr.New(xerr.InvalidFile, "declared total file size disagrees with actual file size")
		}
	}

	fmtChunk := make([]byte, formatChunkSize)
	if _, err := io.ReadFull(d.f, fmtChunk); err != nil {
		return xerr.Wrap(xerr.UnexpectedEOF, "read fmt chunk", err)
	}
	if [4]byte(fmtChunk[0:4]) != magicFormat {
		return xerr.New(xerr.InvalidFile, "missing fmt chunk magic")
	}
	d.format = FormatInfo{
		Version:      leUint32(fmtChunk[12:16]),
		Encoding:     leUint32(fmtChunk[16:20]),
		ChannelType:  leUint32(fmtChunk[20:24]),
		ChannelCount: leUint32(fmtChunk[24:28]),
		SampleRateHz: leUint32(fmtChunk[28:32]),
		Bits:         leUint32(fmtChunk[32:36]),
		SampleCount:  leUint64(fmtChunk[36:44]),
		BlockSize:    leUint32(fmtChunk[44:48]),
		Reserved:     leUint32(fmtChunk[48:52]),
	}
	if d.format.ChannelCount == 0 || d.format.ChannelCount > 6 {
		return xerr.New(xerr.InvalidChunk, "fmt chunk declares invalid channel count")
	}

	dataHeader := make([]byte, dataHeaderSize)
	if _, err := io.ReadFull(d.f, dataHeader); err != nil {
		return xerr.Wrap(xerr.UnexpectedEOF, "read data chunk header", err)
	}
	if [4]byte(dataHeader[0:4]) != magicData {
		return xerr.New(xerr.InvalidFile, "missing data chunk magic")
	}
	dataSize := leUint64(dataHeader[4:12])
	if dataSize > maxChunkSize {
		return xerr.New(xerr.InvalidFile, "data chunk size exceeds sanity cap")
	}
	if dataSize < dataHeaderSize {
		return xerr.New(xerr.InvalidChunk, "data chunk size smaller than its own header")
	}
	d.audioBytesWritten = dataSize - dataHeaderSize
	d.dataOffset = headerChunkSize + formatChunkSize + dataHeaderSize

	if d.tagOffset > 0 && d.tagOffset < uint64(actualSize) && uint64(actualSize)-d.tagOffset <= maxTagBlobSize {
		blob := make([]byte, uint64(actualSize)-d.tagOffset)
		if _, err := d.f.ReadAt(blob, int64(d.tagOffset)); err != nil && err != io.EOF {
			return xerr.Wrap(xerr.IoRead, "read tag blob", err)
		}
		fields := bytes.Split(blob, []byte{0})
		for i := 0; i+1 < len(fields); i += 2 {
			d.tags[string(fields[i])] = string(fields[i+1])
		}
	}

	return nil
}

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func leUint64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// Format returns the parsed fmt-chunk contents.
func (d *File) Format() FormatInfo {
	return d.format
}

// SetTag sets a free-form trailing tag. Tags are written at finalize.
func (d *File) SetTag(key, value string) {
	d.tags[key] = value
}

// Tag returns a previously set or read tag.
func (d *File) Tag(key string) (string, bool) {
	v, ok := d.tags[key]
	return v, ok
}

// Close releases the underlying file handle.
func (d *File) Close() error {
	if d.f == nil {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	if err != nil {
		return xerr.Wrap(xerr.IoWrite, "close dsf file", err)
	}
	return nil
}

// Finalize back-patches size fields, writes pending tags, and updates the
// trailing tag offset. It is valid to call at most once.
func (d *File) Finalize() error {
	if d.finalized {
		return ErrFinalized
	}
	if d.mode == modeOpen {
		return ErrReadOnly
	}

	if d.mode == modeCreate {
		if err := d.flushPartialBlock(); err != nil {
			return err
		}
	}

	var tagOffset uint64
	if len(d.tags) > 0 {
		blob := encodeTagBlob(d.tags)
		if len(blob) > maxTagBlobSize {
			return ErrMetadataTooBig
		}
		end, err := d.f.Seek(0, io.SeekEnd)
		if err != nil {
			return xerr.Wrap(xerr.IoWrite, "seek to end for tag blob", err)
		}
		tagOffset = uint64(end)
		if _, err := d.f.Write(blob); err != nil {
			return xerr.Wrap(xerr.IoWrite, "write tag blob", err)
		}
	}

	info, err := d.f.Stat()
	if err != nil {
		return xerr.Wrap(xerr.IoRead, "stat for finalize", err)
	}
	totalSize := uint64(info.Size())

	if err := dbinary.WriteAtLE64(d.f, 12, totalSize); err != nil {
		return err
	}
	if err := dbinary.WriteAtLE64(d.f, 20, tagOffset); err != nil {
		return err
	}

	sampleCount := d.audioBytesWritten * 8 / uint64(d.format.ChannelCount)
	if err := dbinary.WriteAtLE64(d.f, int64(headerChunkSize+36), sampleCount); err != nil {
		return err
	}

	dataChunkSize := dataHeaderSize + d.audioBytesWritten
	if err := dbinary.WriteAtLE64(d.f, int64(headerChunkSize+formatChunkSize+4), dataChunkSize); err != nil {
		return err
	}

	d.totalSize = totalSize
	d.tagOffset = tagOffset
	d.finalized = true
	return nil
}

func encodeTagBlob(tags map[string]string) []byte {
	var out []byte
	for k, v := range tags {
		out = append(out, []byte(k)...)
		out = append(out, 0)
		out = append(out, []byte(v)...)
		out = append(out, 0)
	}
	return out
}

// WriteAudio accepts channel-interleaved per-byte one-bit audio (the
// pipeline's canonical Frame representation: ch0 byte, ch1 byte, ...,
// chN byte, repeating) and buffers it into 4096-byte per-channel blocks,
// flushing each completed block group to disk in round-robin order.
func (d *File) WriteAudio(data []byte) (int, error) {
	if d.mode != modeCreate {
		return 0, ErrReadOnly
	}
	ch := int(d.format.ChannelCount)
	if len(data)%ch != 0 {
		return 0, xerr.New(xerr.InvalidArg, "write audio: data length not a multiple of channel count")
	}

	n := len(data) / ch
	for i := 0; i < n; i++ {
		for c := 0; c < ch; c++ {
			d.writeBuf[c] = append(d.writeBuf[c], data[i*ch+c])
		}
		d.writeLen++
		if d.writeLen == blockSize {
			if err := d.flushBlockGroup(); err != nil {
				return i * ch, err
			}
		}
	}
	return len(data), nil
}

func (d *File) flushBlockGroup() error {
	for c := range d.writeBuf {
		if _, err := d.f.Write(d.writeBuf[c]); err != nil {
			return xerr.Wrap(xerr.IoWrite, "write audio block", err)
		}
		d.audioBytesWritten += uint64(len(d.writeBuf[c]))
		d.writeBuf[c] = d.writeBuf[c][:0]
	}
	d.writeLen = 0
	return nil
}

// flushPartialBlock zero-pads and writes any buffered partial block group,
// per the "last block zero-padded" invariant.
func (d *File) flushPartialBlock() error {
	if d.writeLen == 0 {
		return nil
	}
	for c := range d.writeBuf {
		for len(d.writeBuf[c]) < blockSize {
			d.writeBuf[c] = append(d.writeBuf[c], 0)
		}
	}
	return d.flushBlockGroup()
}

// ReadAudio reads up to len(buf) bytes of channel-interleaved per-byte
// one-bit audio, reconstituting it from the container's per-channel block
// storage. Returns the number of bytes read.
func (d *File) ReadAudio(buf []byte) (int, error) {
	if d.mode == modeCreate {
		return 0, xerr.New(xerr.InvalidState, "read audio: file opened for writing")
	}
	ch := int(d.format.ChannelCount)
	if len(buf)%ch != 0 {
		return 0, xerr.New(xerr.InvalidArg, "read audio: buffer length not a multiple of channel count")
	}

	groupSize := int64(ch) * blockSize
	n := 0
	for n < len(buf) {
		if d.posBytes*uint64(ch) >= d.audioBytesWritten {
			break
		}
		blockIdx := int64(d.posBytes) / blockSize
		offInBlock := int64(d.posBytes) % blockSize
		groupOffset := d.dataOffset + blockIdx*groupSize

		for c := 0; c < ch && n < len(buf); c++ {
			var b [1]byte
			if _, err := d.f.(io.ReaderAt).ReadAt(b[:], groupOffset+int64(c)*blockSize+offInBlock); err != nil {
				if err == io.EOF {
					b[0] = 0
				} else {
					return n, xerr.Wrap(xerr.IoRead, "read audio block", err)
				}
			}
			buf[n] = b[0]
			n++
		}
		d.posBytes++
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// SeekWhence mirrors io.Seek's whence constants, scoped to this package's
// one-bit-frame seek contract.
type SeekWhence int

const (
	SeekStart SeekWhence = iota
	SeekCurrent
	SeekEnd
)

// Seek repositions the audio read/write cursor in one-bit-frame (one
// byte per channel) units.
func (d *File) Seek(offset int64, whence SeekWhence) (int64, error) {
	var base int64
	switch whence {
	case SeekStart:
		base = 0
	case SeekCurrent:
		base = int64(d.posBytes)
	case SeekEnd:
		base = int64(d.audioBytesWritten / uint64(d.format.ChannelCount))
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
