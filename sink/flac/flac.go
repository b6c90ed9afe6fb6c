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

// Package flac implements the lossless-compressed PCM sink. It writes
// 16- or 24-bit samples only: New rejects any other bit depth (32-bit
// integer or float) with FeatureUnavailable. Frames arrive as float64 PCM
// and are converted to the configured depth in WriteFrame. Open reports
// FeatureUnavailable for a channel count outside 1-6.
package flac

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"

	"github.com/dsdnexus/core/audio"
	"github.com/dsdnexus/core/internal/names"
	"github.com/dsdnexus/core/metadata"
	"github.com/dsdnexus/core/pipeline"
	"github.com/dsdnexus/core/resample"
	"github.com/dsdnexus/core/xerr"
)

const blockSize = 4096

// Sink writes one FLAC file per track.
type Sink struct {
	fs          afero.Fs
	bitDepth    pipeline.PCMBitDepth
	namePolicy  pipeline.TrackFilenamePolicy
	dirPolicy   pipeline.AlbumDirPolicy
	compression int // [0,8]; only constant-subframe detection is gated on it

	albumDir string
	album    metadata.Album
	format   audio.Format

	file afero.File
	enc  *flac.Encoder

	channels  frame.Channels
	pending   []int32 // interleaved-decoded, deinterleaved below per channel
	nchannels int
}

// New constructs a FLAC sink. Returns FeatureUnavailable if bitDepth is
// not 16 or 24, per the sink's accepted-format restriction.
func New(fs afero.Fs, bitDepth pipeline.PCMBitDepth, namePolicy pipeline.TrackFilenamePolicy, dirPolicy pipeline.AlbumDirPolicy, compression int) (*Sink, error) {
	if bitDepth != pipeline.Depth16 && bitDepth != pipeline.Depth24 {
		return nil, xerr.New(xerr.FeatureUnavailable, "flac sink accepts only 16 or 24-bit PCM")
	}
	if compression < 0 || compression > 8 {
		compression = 5
	}
	return &Sink{fs: fs, bitDepth: bitDepth, namePolicy: namePolicy, dirPolicy: dirPolicy, compression: compression}, nil
}

func (s *Sink) Capabilities() pipeline.Capability { return pipeline.CapPCM }

func (s *Sink) Open(basePath string, format audio.Format, album metadata.Album) error {
	if !format.Type.IsPCM() {
		return xerr.New(xerr.InvalidArg, "flac sink requires a PCM source format")
	}
	channels, err := channelsFor(format.ChannelCount)
	if err != nil {
		return xerr.Wrap(xerr.FeatureUnavailable, "flac channel assignment", err)
	}
	s.channels = channels
	s.nchannels = format.ChannelCount
	s.album = album
	s.format = format
	s.albumDir = filepath.Join(basePath, names.AlbumDir(s.dirPolicy, album))
	return s.fs.MkdirAll(s.albumDir, 0o755)
}

func (s *Sink) TrackStart(track int, meta_ metadata.Track) error {
	name := names.TrackFilename(s.namePolicy, s.album, meta_) + ".flac"
	f, err := s.fs.Create(filepath.Join(s.albumDir, name))
	if err != nil {
		return xerr.Wrap(xerr.IoWrite, "create flac file", err)
	}
	s.file = f

	info := &meta.StreamInfo{
		BlockSizeMin:  16,
		BlockSizeMax:  65535,
		SampleRate:    s.format.SampleRateHz,
		NChannels:     uint8(s.nchannels),
		BitsPerSample: uint8(s.bitDepth),
	}
	enc, err := flac.NewEncoder(f, info)
	if err != nil {
		f.Close()
		s.file = nil
		return xerr.Wrap(xerr.InvalidState, "create flac encoder", err)
	}
	s.enc = enc
	s.pending = s.pending[:0]
	return nil
}

func (s *Sink) WriteFrame(fr audio.Frame) error {
	if s.enc == nil {
		return xerr.New(xerr.InvalidState, "flac sink has no open track")
	}
	samples, err := pipeline.BytesToFloats(fr.Data)
	if err != nil {
		return err
	}
	for _, v := range samples {
		if s.bitDepth == pipeline.Depth16 {
			s.pending = append(s.pending, int32(resample.ToInt16(v)))
		} else {
			s.pending = append(s.pending, resample.ToInt24(v))
		}
	}
	for len(s.pending) >= blockSize*s.nchannels {
		if err := s.encodeBlock(s.pending[:blockSize*s.nchannels]); err != nil {
			return err
		}
		s.pending = s.pending[blockSize*s.nchannels:]
	}
	return nil
}

func (s *Sink) encodeBlock(interleaved []int32) error {
	nsamplesPerChannel := len(interleaved) / s.nchannels
	subframes := make([]*frame.Subframe, s.nchannels)
	for ch := range subframes {
		subframes[ch] = &frame.Subframe{
			SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
			Samples:   make([]int32, nsamplesPerChannel),
			NSamples:  nsamplesPerChannel,
		}
	}
	for i, v := range interleaved {
		ch := i % s.nchannels
		subframes[ch].Samples[i/s.nchannels] = v
	}
	if s.compression > 0 {
		for _, sf := range subframes {
			constant := true
			for _, v := range sf.Samples[1:] {
				if v != sf.Samples[0] {
					constant = false
					break
				}
			}
			if constant {
				sf.SubHeader.Pred = frame.PredConstant
			}
		}
	}
	hdr := frame.Header{
		HasFixedBlockSize: false,
		BlockSize:         uint16(nsamplesPerChannel),
		SampleRate:        s.format.SampleRateHz,
		Channels:          s.channels,
		BitsPerSample:     uint8(s.bitDepth),
	}
	f := &frame.Frame{Header: hdr, Subframes: subframes}
	if err := s.enc.WriteFrame(f); err != nil {
		return xerr.Wrap(xerr.IoWrite, "write flac frame", err)
	}
	return nil
}

func (s *Sink) TrackEnd(track int) error {
	if s.enc == nil {
		return nil
	}
	if len(s.pending) > 0 {
		if err := s.encodeBlock(s.pending); err != nil {
			return err
		}
		s.pending = s.pending[:0]
	}
	err := s.enc.Close()
	s.enc = nil
	if s.file != nil {
		if cerr := s.file.Close(); cerr != nil && err == nil {
			err = cerr
		}
		s.file = nil
	}
	if err != nil {
		return xerr.Wrap(xerr.IoWrite, "close flac encoder", err)
	}
	return nil
}

func (s *Sink) Finalize() error { return nil }

func (s *Sink) Close() error {
	if s.enc != nil {
		_ = s.enc.Close()
		s.enc = nil
	}
	if s.file != nil {
		err := s.file.Close()
		s.file = nil
		return err
	}
	return nil
}

func channelsFor(n int) (frame.Channels, error) {
	switch n {
	case 1:
		return frame.ChannelsMono, nil
	case 2:
		return frame.ChannelsLR, nil
	case 3:
		return frame.ChannelsLRC, nil
	case 4:
		return frame.ChannelsLRLsRs, nil
	case 5:
		return frame.ChannelsLRCLsRs, nil
	case 6:
		return frame.ChannelsLRCLfeLsRs, nil
	default:
		return 0, xerr.New(xerr.FeatureUnavailable, "unsupported flac channel count")
	}
}
