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

// Package disc implements the disc-image ingest path: a sector-level
// reader that works identically over a plain image file or an
// authenticated optical drive, and a pipeline.Source that turns a disc's
// track layout into framed one-bit audio.
package disc

import (
	"github.com/dsdnexus/core/audio"
	"github.com/dsdnexus/core/metadata"
	"github.com/dsdnexus/core/xerr"
)

// TrackEntry describes one track's placement within the disc image.
//
// For a OneBitRaw layout, StartFrame and FrameCount are one-bit-frame
// offsets/counts and each frame occupies Layout.UnitBytes bytes. For a
// OneBitCompressed layout, they are coded-frame indices/counts into
// Layout.FrameTable, which holds byte offsets (len(FrameTable) ==
// total coded frame count + 1).
type TrackEntry struct {
	Metadata   metadata.Track
	StartFrame uint64
	FrameCount uint64
}

// Layout describes a disc image's track table and audio format, as
// recovered from the disc's table of contents before the Source can be
// constructed.
type Layout struct {
	Format     audio.Format
	Album      metadata.Album
	Tracks     []TrackEntry
	UnitBytes  int      // bytes per one-bit-frame unit (OneBitRaw layouts)
	FrameTable []uint64 // coded-frame byte-offset table (OneBitCompressed layouts)
}

// Source implements pipeline.Source over a disc image's SectorReader.
type Source struct {
	reader *SectorReader
	layout Layout

	track int // 1-based; 0 before the first SeekTrackStart
	pos   uint64
	seq   uint64
}

// NewSource constructs a Source from an already-opened SectorReader (file
// or authenticated drive) and the disc's parsed track layout.
func NewSource(reader *SectorReader, layout Layout) (*Source, error) {
	if err := layout.Format.Validate(); err != nil {
		return nil, xerr.Wrap(xerr.InvalidArg, "disc layout audio format", err)
	}
	if layout.Format.Type == audio.OneBitCompressed && len(layout.FrameTable) < 2 {
		return nil, xerr.New(xerr.InvalidArg, "compressed disc layout requires a frame offset table")
	}
	if layout.Format.Type == audio.OneBitRaw && layout.UnitBytes <= 0 {
		return nil, xerr.New(xerr.InvalidArg, "raw disc layout requires a positive unit size")
	}
	return &Source{reader: reader, layout: layout}, nil
}

func (s *Source) AudioFormat() audio.Format { return s.layout.Format }

func (s *Source) TrackCount() int { return len(s.layout.Tracks) }

func (s *Source) TrackMetadata(track int) metadata.Track {
	if track < 1 || track > len(s.layout.Tracks) {
		return metadata.Track{}
	}
	return s.layout.Tracks[track-1].Metadata.Clone()
}

func (s *Source) Album() metadata.Album { return s.layout.Album }

// SeekTrackStart positions the Source at track's first frame.
func (s *Source) SeekTrackStart(track int) error {
	if track < 1 || track > len(s.layout.Tracks) {
		return xerr.New(xerr.InvalidArg, "track index out of range")
	}
	s.track = track
	s.pos = 0
	s.seq = 0
	return nil
}

// NextFrame returns the next frame of the current track, or ok=false once
// the track's frame count has been exhausted.
func (s *Source) NextFrame() (audio.Frame, bool, error) {
	if s.track < 1 {
		return audio.Frame{}, false, xerr.New(xerr.InvalidState, "NextFrame called before SeekTrackStart")
	}
	entry := s.layout.Tracks[s.track-1]
	if s.pos >= entry.FrameCount {
		return audio.Frame{}, false, nil
	}

	index := entry.StartFrame + s.pos
	var data []byte
	var err error
	if s.layout.Format.Type == audio.OneBitCompressed {
		data, err = s.reader.ReadRange(s.layout.FrameTable[index], s.layout.FrameTable[index+1]-s.layout.FrameTable[index])
	} else {
		//nolint:gosec // UnitBytes validated positive in NewSource
		data, err = s.reader.ReadRange(index*uint64(s.layout.UnitBytes), uint64(s.layout.UnitBytes))
	}
	if err != nil {
		return audio.Frame{}, false, err
	}

	frame := audio.Frame{Format: s.layout.Format, Data: data, Sequence: s.seq}
	s.seq++
	s.pos++
	return frame, true, nil
}
