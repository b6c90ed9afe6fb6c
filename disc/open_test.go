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

func TestOpenImageFileReadsFrames(t *testing.T) {
	fs := afero.NewMemMapFs()
	image := make([]byte, sectorSize)
	for i := range image {
		image[i] = byte(i)
	}
	if err := afero.WriteFile(fs, "/disc.img", image, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	layout := Layout{
		Format: audio.Format{Type: audio.OneBitRaw, SampleRateHz: 2822400, ChannelCount: 1, ChannelLayout: audio.Mono},
		Tracks: []TrackEntry{
			{Metadata: metadata.Track{Number: 1}, StartFrame: 0, FrameCount: 4},
		},
		UnitBytes: 8,
	}

	src, err := OpenImageFile(fs, "/disc.img", layout, 2)
	if err != nil {
		t.Fatalf("OpenImageFile: %v", err)
	}
	if err := src.SeekTrackStart(1); err != nil {
		t.Fatalf("SeekTrackStart: %v", err)
	}

	frame, ok, err := src.NextFrame()
	if err != nil || !ok {
		t.Fatalf("NextFrame: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(frame.Data, image[0:8]) {
		t.Errorf("frame data = %x, want %x", frame.Data, image[0:8])
	}
}

func TestOpenImageFileMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	layout := Layout{
		Format:    audio.Format{Type: audio.OneBitRaw, SampleRateHz: 2822400, ChannelCount: 1, ChannelLayout: audio.Mono},
		Tracks:    []TrackEntry{{Metadata: metadata.Track{Number: 1}, FrameCount: 1}},
		UnitBytes: 1,
	}
	if _, err := OpenImageFile(fs, "/missing.img", layout, 0); err == nil {
		t.Fatal("expected error opening missing image")
	}
}
