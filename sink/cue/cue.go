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

// Package cue implements the cue-sheet metadata-only sink. Track index
// positions are expressed in the standard cue-sheet MM:SS:FF unit, where
// FF is 1/75th of a second, referencing a single target audio filename
// (the edit master or the first per-track file, as configured).
package cue

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/dsdnexus/core/audio"
	"github.com/dsdnexus/core/metadata"
	"github.com/dsdnexus/core/pipeline"
	"github.com/dsdnexus/core/xerr"
)

const framesPerSecond = 75

// Sink writes a single .cue file referencing one target audio file.
type Sink struct {
	fs             afero.Fs
	targetFilename string
	targetFileType string // "WAVE", "BINARY", ...

	basePath     string
	album        metadata.Album
	sampleRateHz uint32
	lines        []string
}

// New constructs a cue sheet sink. targetFilename and targetFileType name
// the single audio file every INDEX entry is relative to.
func New(fs afero.Fs, targetFilename, targetFileType string) *Sink {
	return &Sink{fs: fs, targetFilename: targetFilename, targetFileType: targetFileType}
}

func (s *Sink) Capabilities() pipeline.Capability { return pipeline.CapMetadataOnly }

func (s *Sink) Open(basePath string, format audio.Format, album metadata.Album) error {
	s.basePath = basePath
	s.album = album
	s.sampleRateHz = format.SampleRateHz
	if album.Catalog != "" {
		s.lines = append(s.lines, fmt.Sprintf("CATALOG %s", album.Catalog))
	}
	if album.Artist != "" {
		s.lines = append(s.lines, fmt.Sprintf("PERFORMER %q", album.Artist))
	}
	if album.Title != "" {
		s.lines = append(s.lines, fmt.Sprintf("TITLE %q", album.Title))
	}
	s.lines = append(s.lines, fmt.Sprintf("FILE %q %s", s.targetFilename, s.targetFileType))
	return s.fs.MkdirAll(basePath, 0o755)
}

func (s *Sink) TrackStart(track int, meta metadata.Track) error {
	s.lines = append(s.lines, fmt.Sprintf("  TRACK %02d AUDIO", meta.Number))
	if meta.Title != "" {
		s.lines = append(s.lines, fmt.Sprintf("    TITLE %q", meta.Title))
	}
	performer := meta.Performer
	if performer == "" {
		performer = s.album.Artist
	}
	if performer != "" {
		s.lines = append(s.lines, fmt.Sprintf("    PERFORMER %q", performer))
	}
	if meta.ISRC != "" {
		s.lines = append(s.lines, fmt.Sprintf("    ISRC %s", meta.ISRC))
	}
	s.lines = append(s.lines, fmt.Sprintf("    INDEX 01 %s", toCueTime(meta.StartFrame, s.sampleRateHz)))
	return nil
}

func (s *Sink) WriteFrame(frame audio.Frame) error { return nil }

func (s *Sink) TrackEnd(track int) error { return nil }

func (s *Sink) Finalize() error {
	path := filepath.Join(s.basePath, "album.cue")
	if err := afero.WriteFile(s.fs, path, []byte(strings.Join(s.lines, "\n")+"\n"), 0o644); err != nil {
		return xerr.Wrap(xerr.IoWrite, "write cue sheet", err)
	}
	return nil
}

func (s *Sink) Close() error { return nil }

// toCueTime converts a one-bit-frame offset into MM:SS:FF, where FF is
// 1/75th of a second, per the cue-sheet convention.
func toCueTime(oneBitFrameOffset uint64, sampleRateHz uint32) string {
	if sampleRateHz == 0 {
		return "00:00:00"
	}
	totalSeconds := float64(oneBitFrameOffset) / float64(sampleRateHz)
	minutes := int(totalSeconds) / 60
	seconds := int(totalSeconds) % 60
	frames := int((totalSeconds - float64(int(totalSeconds))) * framesPerSecond)
	return fmt.Sprintf("%02d:%02d:%02d", minutes, seconds, frames)
}
