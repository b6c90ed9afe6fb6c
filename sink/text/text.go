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

// Package text implements the human-readable text stream sink. It writes
// no audio, just a line of progress-free commentary at each lifecycle
// event, to an io.Writer (os.Stdout by default).
package text

import (
	"fmt"
	"io"
	"os"

	"github.com/dsdnexus/core/audio"
	"github.com/dsdnexus/core/metadata"
	"github.com/dsdnexus/core/pipeline"
)

// Sink streams one line per lifecycle event to w.
type Sink struct {
	w io.Writer
}

// New constructs a text sink. A nil w defaults to os.Stdout.
func New(w io.Writer) *Sink {
	if w == nil {
		w = os.Stdout
	}
	return &Sink{w: w}
}

func (s *Sink) Capabilities() pipeline.Capability { return pipeline.CapMetadataOnly }

func (s *Sink) Open(basePath string, format audio.Format, album metadata.Album) error {
	_, err := fmt.Fprintf(s.w, "album: %s — %s (%d channel(s) @ %d Hz)\n",
		album.Artist, album.Title, format.ChannelCount, format.SampleRateHz)
	return err
}

func (s *Sink) TrackStart(track int, meta metadata.Track) error {
	_, err := fmt.Fprintf(s.w, "track %02d: %s\n", meta.Number, meta.Title)
	return err
}

func (s *Sink) WriteFrame(frame audio.Frame) error { return nil }

func (s *Sink) TrackEnd(track int) error {
	_, err := fmt.Fprintf(s.w, "track %d done\n", track)
	return err
}

func (s *Sink) Finalize() error {
	_, err := fmt.Fprintln(s.w, "run finalized")
	return err
}

func (s *Sink) Close() error { return nil }
