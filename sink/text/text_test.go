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

package text

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dsdnexus/core/audio"
	"github.com/dsdnexus/core/metadata"
)

func TestSinkStreamsLifecycleLines(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf)

	format := audio.Format{Type: audio.OneBitRaw, SampleRateHz: 2822400, ChannelCount: 2, ChannelLayout: audio.Stereo}
	album := metadata.Album{Title: "Test Album", Artist: "Test Artist"}
	if err := s.Open("/out", format, album); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.TrackStart(1, metadata.Track{Number: 1, Title: "One"}); err != nil {
		t.Fatalf("TrackStart: %v", err)
	}
	if err := s.TrackEnd(1); err != nil {
		t.Fatalf("TrackEnd: %v", err)
	}
	if err := s.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Test Album", "track 01: One", "track 1 done", "run finalized"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q, got: %s", want, out)
		}
	}
}
