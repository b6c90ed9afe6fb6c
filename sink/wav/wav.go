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

// Package wav implements the PCM WAV sink: one RIFF/WAVE file per track,
// written with a streaming chunk writer that back-patches the RIFF and
// data chunk sizes once a track's sample count is known.
package wav

import (
	"encoding/binary"
	"io"
	"path/filepath"

	"github.com/spf13/afero"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/riff"

	"github.com/dsdnexus/core/audio"
	intbin "github.com/dsdnexus/core/internal/binary"
	"github.com/dsdnexus/core/internal/names"
	"github.com/dsdnexus/core/metadata"
	"github.com/dsdnexus/core/pipeline"
	"github.com/dsdnexus/core/resample"
	"github.com/dsdnexus/core/xerr"
)

// Sink writes one WAV file per track.
type Sink struct {
	fs         afero.Fs
	bitDepth   pipeline.PCMBitDepth
	namePolicy pipeline.TrackFilenamePolicy
	dirPolicy  pipeline.AlbumDirPolicy
	writeTags  bool

	albumDir string
	album    metadata.Album
	format   audio.Format

	file         afero.File
	dataSizeOff  int64
	riffSizeOff  int64
	dataBytes    uint32
	channelCount int
	sampleRateHz uint32
}

// New constructs a WAV sink. writeTags controls whether a LIST/INFO
// metadata chunk is emitted per track.
func New(fs afero.Fs, bitDepth pipeline.PCMBitDepth, namePolicy pipeline.TrackFilenamePolicy, dirPolicy pipeline.AlbumDirPolicy, writeTags bool) *Sink {
	return &Sink{fs: fs, bitDepth: bitDepth, namePolicy: namePolicy, dirPolicy: dirPolicy, writeTags: writeTags}
}

func (s *Sink) Capabilities() pipeline.Capability { return pipeline.CapPCM }

func (s *Sink) Open(basePath string, format audio.Format, album metadata.Album) error {
	if !format.Type.IsPCM() {
		return xerr.New(xerr.InvalidArg, "wav sink requires a PCM source format")
	}
	s.album = album
	s.format = format
	s.channelCount = format.ChannelCount
	s.sampleRateHz = format.SampleRateHz
	s.albumDir = filepath.Join(basePath, names.AlbumDir(s.dirPolicy, album))
	if err := s.fs.MkdirAll(s.albumDir, 0o755); err != nil {
		return xerr.Wrap(xerr.IoWrite, "create album directory", err)
	}
	return nil
}

func (s *Sink) TrackStart(track int, meta metadata.Track) error {
	name := names.TrackFilename(s.namePolicy, s.album, meta) + ".wav"
	f, err := s.fs.Create(filepath.Join(s.albumDir, name))
	if err != nil {
		return xerr.Wrap(xerr.IoWrite, "create wav file", err)
	}
	s.file = f
	s.dataBytes = 0

	if err := s.writeHeader(meta); err != nil {
		f.Close()
		return err
	}
	return nil
}

func (s *Sink) writeHeader(meta metadata.Track) error {
	f := s.file
	bitsPerSample := uint16(s.bitDepth)
	blockAlign := uint16(s.channelCount) * (bitsPerSample / 8)
	byteRate := s.sampleRateHz * uint32(blockAlign)

	if _, err := f.Write(riff.RiffID[:]); err != nil {
		return xerr.Wrap(xerr.IoWrite, "write RIFF id", err)
	}
	s.riffSizeOff = 4
	if err := intbin.WriteUint32LE(f, 0); err != nil { // placeholder, back-patched at TrackEnd
		return xerr.Wrap(xerr.IoWrite, "write riff size placeholder", err)
	}
	if _, err := f.Write(riff.WavID[:]); err != nil {
		return xerr.Wrap(xerr.IoWrite, "write WAVE id", err)
	}

	if _, err := f.Write(riff.FmtID[:]); err != nil {
		return xerr.Wrap(xerr.IoWrite, "write fmt id", err)
	}
	if err := intbin.WriteUint32LE(f, 16); err != nil {
		return err
	}
	fmtBody := make([]byte, 16)
	binary.LittleEndian.PutUint16(fmtBody[0:], 1) // PCM
	binary.LittleEndian.PutUint16(fmtBody[2:], uint16(s.channelCount))
	binary.LittleEndian.PutUint32(fmtBody[4:], s.sampleRateHz)
	binary.LittleEndian.PutUint32(fmtBody[8:], byteRate)
	binary.LittleEndian.PutUint16(fmtBody[12:], blockAlign)
	binary.LittleEndian.PutUint16(fmtBody[14:], bitsPerSample)
	if _, err := f.Write(fmtBody); err != nil {
		return xerr.Wrap(xerr.IoWrite, "write fmt body", err)
	}

	if s.writeTags {
		if err := s.writeInfoList(meta); err != nil {
			return err
		}
	}

	if _, err := f.Write(riff.DataFormatID[:]); err != nil {
		return xerr.Wrap(xerr.IoWrite, "write data id", err)
	}
	pos, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return xerr.Wrap(xerr.IoWrite, "seek for data size offset", err)
	}
	s.dataSizeOff = pos
	if err := intbin.WriteUint32LE(f, 0); err != nil {
		return xerr.Wrap(xerr.IoWrite, "write data size placeholder", err)
	}
	return nil
}

func (s *Sink) writeInfoList(meta metadata.Track) error {
	type tag struct {
		id   [4]byte
		text string
	}
	tags := []tag{
		{[4]byte{'I', 'N', 'A', 'M'}, meta.Title},
		{[4]byte{'I', 'A', 'R', 'T'}, firstNonEmpty(meta.Performer, s.album.Artist)},
		{[4]byte{'I', 'P', 'R', 'D'}, s.album.Title},
		{[4]byte{'I', 'G', 'N', 'R'}, s.album.Genre},
		{[4]byte{'I', 'C', 'O', 'P'}, s.album.Copyright},
	}
	var body []byte
	for _, t := range tags {
		if t.text == "" {
			continue
		}
		text := append([]byte(t.text), 0) // NUL-terminated, per the INFO convention
		sizeBuf := make([]byte, 4)
		binary.LittleEndian.PutUint32(sizeBuf, uint32(len(text)))
		body = append(body, t.id[:]...)
		body = append(body, sizeBuf...)
		body = append(body, text...)
		if len(text)%2 == 1 {
			body = append(body, 0)
		}
	}
	if len(body) == 0 {
		return nil
	}
	if _, err := s.file.Write([]byte{'L', 'I', 'S', 'T'}); err != nil {
		return xerr.Wrap(xerr.IoWrite, "write LIST id", err)
	}
	if err := intbin.WriteUint32LE(s.file, uint32(4+len(body))); err != nil {
		return err
	}
	if _, err := s.file.Write([]byte{'I', 'N', 'F', 'O'}); err != nil {
		return xerr.Wrap(xerr.IoWrite, "write INFO id", err)
	}
	if _, err := s.file.Write(body); err != nil {
		return xerr.Wrap(xerr.IoWrite, "write INFO body", err)
	}
	return nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func (s *Sink) WriteFrame(frame audio.Frame) error {
	if s.file == nil {
		return xerr.New(xerr.InvalidState, "wav sink has no open track")
	}
	samples, err := pipeline.BytesToFloats(frame.Data)
	if err != nil {
		return err
	}
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: s.channelCount, SampleRate: int(s.sampleRateHz)},
		Data:           make([]int, len(samples)),
		SourceBitDepth: int(s.bitDepth),
	}
	for i, v := range samples {
		buf.Data[i] = int(resample.ToInt32(v))
	}

	raw := make([]byte, 0, len(buf.Data)*4)
	for _, iv := range buf.Data {
		raw = append(raw, packSample(iv, s.bitDepth)...)
	}
	if _, err := s.file.Write(raw); err != nil {
		return xerr.Wrap(xerr.IoWrite, "write pcm samples", err)
	}
	s.dataBytes += uint32(len(raw))
	return nil
}

// packSample narrows a full-scale int32 sample (from resample.ToInt32) down
// to the configured bit depth's little-endian wire width.
func packSample(iv int, depth pipeline.PCMBitDepth) []byte {
	switch depth {
	case pipeline.Depth16:
		v := int16(iv >> 16)
		return []byte{byte(v), byte(v >> 8)}
	case pipeline.Depth24:
		v := iv >> 8
		return []byte{byte(v), byte(v >> 8), byte(v >> 16)}
	default: // Depth32
		v := int32(iv)
		return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
	}
}

func (s *Sink) TrackEnd(track int) error {
	if s.file == nil {
		return nil
	}
	if s.dataBytes%2 == 1 {
		if _, err := s.file.Write([]byte{0}); err != nil {
			return xerr.Wrap(xerr.IoWrite, "write data pad byte", err)
		}
	}
	fileSize, err := s.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return xerr.Wrap(xerr.IoWrite, "seek end", err)
	}
	if err := intbin.WriteAtLE32(s.file, s.dataSizeOff, s.dataBytes); err != nil {
		return err
	}
	if err := intbin.WriteAtLE32(s.file, s.riffSizeOff, uint32(fileSize)-8); err != nil {
		return err
	}
	err = s.file.Close()
	s.file = nil
	if err != nil {
		return xerr.Wrap(xerr.IoWrite, "close wav file", err)
	}
	return nil
}

func (s *Sink) Finalize() error { return nil }

func (s *Sink) Close() error {
	if s.file != nil {
		err := s.file.Close()
		s.file = nil
		return err
	}
	return nil
}
