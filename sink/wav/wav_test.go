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

package wav

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/spf13/afero"

	dsdaudio "github.com/dsdnexus/core/audio"
	"github.com/dsdnexus/core/metadata"
	"github.com/dsdnexus/core/pipeline"
)

func TestWriteTrackProducesValidRiffHeader(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := New(fs, pipeline.Depth16, pipeline.NumberOnly, pipeline.TitleOnly, true)

	format := dsdaudio.Format{Type: dsdaudio.PcmFloat64, SampleRateHz: 44100, ChannelCount: 2, ChannelLayout: dsdaudio.Stereo}
	album := metadata.Album{Title: "Test Album", Artist: "Test Artist"}
	if err := s.Open("/out", format, album); err != nil {
		t.Fatalf("Open: %v", err)
	}
	track := metadata.Track{Number: 1, Title: "Track One"}
	if err := s.TrackStart(1, track); err != nil {
		t.Fatalf("TrackStart: %v", err)
	}

	samples := []float64{0.5, -0.5, 0.25, -0.25}
	frame := dsdaudio.Frame{Format: format, Data: floatsToWireBytes(samples)}
	if err := s.WriteFrame(frame); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	if err := s.TrackEnd(1); err != nil {
		t.Fatalf("TrackEnd: %v", err)
	}

	data, err := afero.ReadFile(fs, "/out/Test Album/01.wav")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatalf("malformed RIFF/WAVE header: %x", data[:12])
	}
	if string(data[12:16]) != "fmt " {
		t.Fatalf("expected fmt chunk, got %q", data[12:16])
	}
}

func floatsToWireBytes(samples []float64) []byte {
	out := make([]byte, len(samples)*8)
	for i, v := range samples {
		binary.LittleEndian.PutUint64(out[i*8:], math.Float64bits(v))
	}
	return out
}
