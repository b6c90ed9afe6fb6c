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

package main

import (
	"errors"
	"io"

	"github.com/dsdnexus/core/audio"
	"github.com/dsdnexus/core/format/dsf"
	"github.com/dsdnexus/core/metadata"
	"github.com/dsdnexus/core/xerr"
)

// chunkFrames is how many one-bit-frame units singleFileSource reads per
// NextFrame call. A .dsf file carries no internal track boundaries, so
// there is no natural frame size to mirror; this is just a convenient
// read granularity.
const chunkFrames = 4096

// singleFileSource adapts an already-open Format A container into a
// pipeline.Source exposing it as a one-track album, the way a standalone
// .dsf rip (no disc table of contents) naturally is.
type singleFileSource struct {
	file   *dsf.File
	format audio.Format
	track  metadata.Track

	started bool
}

func newSingleFileSource(file *dsf.File) (*singleFileSource, error) {
	info := file.Format()
	layout, err := audio.LayoutForChannelCount(int(info.ChannelCount))
	if err != nil {
		return nil, err
	}

	format := audio.Format{
		Type:          audio.OneBitRaw,
		SampleRateHz:  info.SampleRateHz,
		ChannelCount:  int(info.ChannelCount),
		ChannelLayout: layout,
	}
	if err := format.Validate(); err != nil {
		return nil, err
	}

	title, _ := file.Tag("title")
	artist, _ := file.Tag("artist")

	return &singleFileSource{
		file:   file,
		format: format,
		track: metadata.Track{
			Title:          title,
			Performer:      artist,
			Number:         1,
			Total:          1,
			DurationFrames: info.SampleCount / 8,
		},
	}, nil
}

func (s *singleFileSource) AudioFormat() audio.Format { return s.format }

func (s *singleFileSource) TrackCount() int { return 1 }

func (s *singleFileSource) TrackMetadata(track int) metadata.Track {
	if track != 1 {
		return metadata.Track{}
	}
	return s.track.Clone()
}

func (s *singleFileSource) Album() metadata.Album {
	title, _ := s.file.Tag("album")
	return metadata.Album{Title: title}
}

func (s *singleFileSource) SeekTrackStart(track int) error {
	if track != 1 {
		return xerr.New(xerr.InvalidArg, "track index out of range")
	}
	if _, err := s.file.Seek(0, dsf.SeekStart); err != nil {
		return err
	}
	s.started = true
	return nil
}

func (s *singleFileSource) NextFrame() (audio.Frame, bool, error) {
	if !s.started {
		return audio.Frame{}, false, xerr.New(xerr.InvalidState, "NextFrame called before SeekTrackStart")
	}

	buf := make([]byte, chunkFrames*s.format.ChannelCount)
	n, err := s.file.ReadAudio(buf)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return audio.Frame{}, false, nil
		}
		return audio.Frame{}, false, err
	}
	return audio.Frame{Format: s.format, Data: buf[:n]}, true, nil
}
