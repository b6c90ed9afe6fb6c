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

package disc

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"

	"github.com/dsdnexus/core/audio"
	"github.com/dsdnexus/core/metadata"
)

func TestSourceReadsFramesAcrossSectorBoundary(t *testing.T) {
	fs := afero.NewMemMapFs()

	// One track, 3-byte one-bit-frame units. 3 does not divide sectorSize
	// (2048) evenly, so some unit's byte range straddles the sector
	// boundary: unit 682 covers bytes [2046, 2049), crossing byte 2048.
	unitBytes := 3
	totalUnits := 700
	image := make([]byte, sectorSize*2)
	for i := range image {
		image[i] = byte(i % 256)
	}
	if err := afero.WriteFile(fs, "/disc.img", image, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := fs.Open("/disc.img")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	reader, err := NewSectorReader(f, 4)
	if err != nil {
		t.Fatalf("NewSectorReader: %v", err)
	}

	layout := Layout{
		Format: audio.Format{Type: audio.OneBitRaw, SampleRateHz: 2822400, ChannelCount: 2, ChannelLayout: audio.Stereo},
		Album:  metadata.Album{Title: "Test"},
		Tracks: []TrackEntry{
			{Metadata: metadata.Track{Number: 1}, StartFrame: 0, FrameCount: uint64(totalUnits)},
		},
		UnitBytes: unitBytes,
	}

	src, err := NewSource(reader, layout)
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}
	if src.TrackCount() != 1 {
		t.Fatalf("TrackCount = %d, want 1", src.TrackCount())
	}
	if err := src.SeekTrackStart(1); err != nil {
		t.Fatalf("SeekTrackStart: %v", err)
	}

	straddleUnit := 682
	for i := 0; i < straddleUnit; i++ {
		if _, ok, err := src.NextFrame(); err != nil || !ok {
			t.Fatalf("NextFrame at %d: ok=%v err=%v", i, ok, err)
		}
	}

	frame, ok, err := src.NextFrame()
	if err != nil || !ok {
		t.Fatalf("NextFrame at straddle: ok=%v err=%v", ok, err)
	}
	wantOffset := straddleUnit * unitBytes
	want := image[wantOffset : wantOffset+unitBytes]
	if !bytes.Equal(frame.Data, want) {
		t.Errorf("straddling frame = %x, want %x", frame.Data, want)
	}
	if frame.Format.Type != audio.OneBitRaw {
		t.Errorf("frame format = %v, want OneBitRaw", frame.Format.Type)
	}

	// Drain the rest and confirm end-of-track.
	for {
		_, ok, err := src.NextFrame()
		if err != nil {
			t.Fatalf("NextFrame: %v", err)
		}
		if !ok {
			break
		}
	}
}

func TestSourceRejectsSeekOutOfRange(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/disc.img", make([]byte, sectorSize), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	f, err := fs.Open("/disc.img")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	reader, err := NewSectorReader(f, 1)
	if err != nil {
		t.Fatalf("NewSectorReader: %v", err)
	}

	layout := Layout{
		Format:    audio.Format{Type: audio.OneBitRaw, SampleRateHz: 2822400, ChannelCount: 1, ChannelLayout: audio.Mono},
		Tracks:    []TrackEntry{{Metadata: metadata.Track{Number: 1}, FrameCount: 1}},
		UnitBytes: 1,
	}
	src, err := NewSource(reader, layout)
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}
	if err := src.SeekTrackStart(2); err == nil {
		t.Error("expected error seeking to out-of-range track")
	}
}
