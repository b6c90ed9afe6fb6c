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

// Package dsdcontainer implements the one-bit DSD container sinks: one
// file per track, and a single edit-master file spanning every selected
// track with MARK entries at each track boundary. Both wrap format/dsdiff,
// which natively covers the raw (Format B) and DST-compressed (Format C)
// forms the sink is asked to produce.
package dsdcontainer

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/dsdnexus/core/audio"
	"github.com/dsdnexus/core/format/dsdiff"
	"github.com/dsdnexus/core/internal/names"
	"github.com/dsdnexus/core/metadata"
	"github.com/dsdnexus/core/pipeline"
	"github.com/dsdnexus/core/xerr"
)

// PerTrackSink writes one DSDIFF file per track.
type PerTrackSink struct {
	fs          afero.Fs
	namePolicy  pipeline.TrackFilenamePolicy
	dirPolicy   pipeline.AlbumDirPolicy
	passthrough bool

	albumDir string
	album    metadata.Album
	format   audio.Format

	f *dsdiff.File
}

// NewPerTrack constructs a per-track DSD container sink. passthrough
// selects the compressed-passthrough (DST, Format C) form; otherwise the
// raw (Format B) form is written.
func NewPerTrack(fs afero.Fs, namePolicy pipeline.TrackFilenamePolicy, dirPolicy pipeline.AlbumDirPolicy, passthrough bool) *PerTrackSink {
	return &PerTrackSink{fs: fs, namePolicy: namePolicy, dirPolicy: dirPolicy, passthrough: passthrough}
}

func (s *PerTrackSink) Capabilities() pipeline.Capability {
	if s.passthrough {
		return pipeline.CapOneBitPassthrough
	}
	return pipeline.CapOneBitRaw
}

func (s *PerTrackSink) Open(basePath string, format audio.Format, album metadata.Album) error {
	s.album = album
	s.format = format
	s.albumDir = filepath.Join(basePath, names.AlbumDir(s.dirPolicy, album))
	return s.fs.MkdirAll(s.albumDir, 0o755)
}

func (s *PerTrackSink) channelIDs() []string {
	ids := make([]string, s.format.ChannelCount)
	chanNames := []string{"SLFT", "SRGT", "MLFT", "C", "MRGT", "LS", "RS"}
	for i := range ids {
		if i < len(chanNames) {
			ids[i] = chanNames[i]
		} else {
			ids[i] = "CH"
		}
	}
	return ids
}

func (s *PerTrackSink) TrackStart(track int, meta metadata.Track) error {
	ext := ".dff"
	name := names.TrackFilename(s.namePolicy, s.album, meta) + ext
	info := dsdiff.FormatInfo{
		SampleRateHz: s.format.SampleRateHz,
		ChannelCount: s.format.ChannelCount,
		ChannelIDs:   s.channelIDs(),
		Compressed:   s.passthrough,
	}
	f, err := dsdiff.Create(s.fs, filepath.Join(s.albumDir, name), info)
	if err != nil {
		return err
	}
	if meta.Title != "" {
		f.SetDiscTitle(meta.Title)
	}
	if meta.Performer != "" {
		f.SetDiscArtist(meta.Performer)
	} else if s.album.Artist != "" {
		f.SetDiscArtist(s.album.Artist)
	}
	s.f = f
	return nil
}

func (s *PerTrackSink) WriteFrame(frame audio.Frame) error {
	if s.f == nil {
		return xerr.New(xerr.InvalidState, "dsd container sink has no open track")
	}
	if s.passthrough {
		return s.f.WriteFrame(frame.Data)
	}
	_, err := s.f.WriteAudio(frame.Data)
	return err
}

func (s *PerTrackSink) TrackEnd(track int) error {
	if s.f == nil {
		return nil
	}
	if err := s.f.Finalize(); err != nil {
		return err
	}
	err := s.f.Close()
	s.f = nil
	return err
}

func (s *PerTrackSink) Finalize() error { return nil }

func (s *PerTrackSink) Close() error {
	if s.f != nil {
		err := s.f.Close()
		s.f = nil
		return err
	}
	return nil
}
