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

package cue

import (
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/dsdnexus/core/audio"
	"github.com/dsdnexus/core/metadata"
)

func TestFinalizeWritesCueSheet(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := New(fs, "album.wav", "WAVE")

	format := audio.Format{Type: audio.PcmInt16, SampleRateHz: 44100, ChannelCount: 2, ChannelLayout: audio.Stereo}
	album := metadata.Album{Title: "Test Album", Artist: "Test Artist"}
	if err := s.Open("/out", format, album); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.TrackStart(1, metadata.Track{Number: 1, Title: "One", StartFrame: 0}); err != nil {
		t.Fatalf("TrackStart: %v", err)
	}
	if err := s.TrackStart(2, metadata.Track{Number: 2, Title: "Two", StartFrame: 44100 * 10}); err != nil {
		t.Fatalf("TrackStart: %v", err)
	}
	if err := s.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	data, err := afero.ReadFile(fs, "/out/album.cue")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, `FILE "album.wav" WAVE`) {
		t.Errorf("missing FILE line: %s", text)
	}
	if !strings.Contains(text, "INDEX 01 00:10:00") {
		t.Errorf("expected second track at 00:10:00, got: %s", text)
	}
}

func TestToCueTime(t *testing.T) {
	got := toCueTime(44100*65, 44100)
	if got != "01:05:00" {
		t.Errorf("toCueTime = %s, want 01:05:00", got)
	}
}
