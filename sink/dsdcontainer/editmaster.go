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

// EditMasterSink writes a single DSDIFF file spanning every selected
// track, with a MARK entry dropped at each track_start so the edit
// master can be split back into tracks later.
type EditMasterSink struct {
	fs          afero.Fs
	dirPolicy   pipeline.AlbumDirPolicy
	passthrough bool

	albumDir      string
	album         metadata.Album
	format        audio.Format
	samplesPerByte uint64 // 8 one-bit samples per channel-interleaved byte group

	f            *dsdiff.File
	bytesWritten uint64
}

// NewEditMaster constructs an edit-master DSD container sink.
func NewEditMaster(fs afero.Fs, dirPolicy pipeline.AlbumDirPolicy, passthrough bool) *EditMasterSink {
	return &EditMasterSink{fs: fs, dirPolicy: dirPolicy, passthrough: passthrough}
}

func (s *EditMasterSink) Capabilities() pipeline.Capability {
	if s.passthrough {
		return pipeline.CapOneBitPassthrough
	}
	return pipeline.CapOneBitRaw
}

func (s *EditMasterSink) Open(basePath string, format audio.Format, album metadata.Album) error {
	s.album = album
	s.format = format
	s.albumDir = filepath.Join(basePath, names.AlbumDir(s.dirPolicy, album))
	if err := s.fs.MkdirAll(s.albumDir, 0o755); err != nil {
		return err
	}

	ids := make([]string, format.ChannelCount)
	chanNames := []string{"SLFT", "SRGT", "MLFT", "C", "MRGT", "LS", "RS"}
	for i := range ids {
		if i < len(chanNames) {
			ids[i] = chanNames[i]
		} else {
			ids[i] = "CH"
		}
	}
	info := dsdiff.FormatInfo{
		SampleRateHz: format.SampleRateHz,
		ChannelCount: format.ChannelCount,
		ChannelIDs:   ids,
		Compressed:   s.passthrough,
	}
	name := names.AlbumDir(pipeline.TitleOnly, album) + " (edit master).dff"
	f, err := dsdiff.Create(s.fs, filepath.Join(s.albumDir, name), info)
	if err != nil {
		return err
	}
	if album.Title != "" {
		f.SetDiscTitle(album.Title)
	}
	if album.Artist != "" {
		f.SetDiscArtist(album.Artist)
	}
	s.f = f
	return nil
}

func (s *EditMasterSink) TrackStart(track int, meta metadata.Track) error {
	if s.f == nil {
		return xerr.New(xerr.InvalidState, "edit master sink not opened")
	}
	markName := meta.Title
	if markName == "" {
		markName = "Track"
	}
	s.f.AddMarker(dsdiff.Marker{
		PositionSamples: s.bytesWritten * 8,
		MarkType:        0, // start-of-track
		Channel:         0,
		Name:            markName,
	})
	return nil
}

func (s *EditMasterSink) WriteFrame(frame audio.Frame) error {
	if s.f == nil {
		return xerr.New(xerr.InvalidState, "edit master sink has no open file")
	}
	if s.passthrough {
		if err := s.f.WriteFrame(frame.Data); err != nil {
			return err
		}
	} else {
		n, err := s.f.WriteAudio(frame.Data)
		if err != nil {
			return err
		}
		s.bytesWritten += uint64(n) / uint64(s.format.ChannelCount)
	}
	return nil
}

func (s *EditMasterSink) TrackEnd(track int) error { return nil }

func (s *EditMasterSink) Finalize() error {
	if s.f == nil {
		return nil
	}
	return s.f.Finalize()
}

func (s *EditMasterSink) Close() error {
	if s.f != nil {
		err := s.f.Close()
		s.f = nil
		return err
	}
	return nil
}
