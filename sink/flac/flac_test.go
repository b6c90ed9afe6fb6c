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

package flac

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/spf13/afero"

	dsdaudio "github.com/dsdnexus/core/audio"
	"github.com/dsdnexus/core/metadata"
	"github.com/dsdnexus/core/pipeline"
)

func TestNewRejectsUnsupportedBitDepth(t *testing.T) {
	if _, err := New(afero.NewMemMapFs(), pipeline.Depth32, pipeline.NumberOnly, pipeline.TitleOnly, 5); err == nil {
		t.Fatal("expected FeatureUnavailable for 32-bit depth")
	}
}

func TestWriteTrackProducesNonEmptyFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, err := New(fs, pipeline.Depth16, pipeline.NumberOnly, pipeline.TitleOnly, 5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	format := dsdaudio.Format{Type: dsdaudio.PcmFloat64, SampleRateHz: 44100, ChannelCount: 2, ChannelLayout: dsdaudio.Stereo}
	album := metadata.Album{Title: "Test Album"}
	if err := s.Open("/out", format, album); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.TrackStart(1, metadata.Track{Number: 1}); err != nil {
		t.Fatalf("TrackStart: %v", err)
	}

	samples := make([]float64, 32)
	for i := range samples {
		samples[i] = 0.1
	}
	if err := s.WriteFrame(dsdaudio.Frame{Format: format, Data: floatsToWireBytes(samples)}); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	if err := s.TrackEnd(1); err != nil {
		t.Fatalf("TrackEnd: %v", err)
	}

	info, err := fs.Stat("/out/Test Album/01.flac")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("expected non-empty flac file")
	}
}

func floatsToWireBytes(samples []float64) []byte {
	out := make([]byte, len(samples)*8)
	for i, v := range samples {
		binary.LittleEndian.PutUint64(out[i*8:], math.Float64bits(v))
	}
	return out
}
