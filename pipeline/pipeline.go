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

// Package pipeline implements the Coordinator: the state machine that
// pulls frames from one Source, runs them through a negotiated transform
// chain, and fans them out to an ordered list of Sinks.
package pipeline

import (
	"github.com/dsdnexus/core/audio"
	"github.com/dsdnexus/core/metadata"
)

// State is one node of the Coordinator's run state machine.
type State int

const (
	Configured State = iota
	Negotiating
	OpeningSinks
	TrackLoop
	EndOfTracks
	Finalizing
	Ended
)

func (s State) String() string {
	switch s {
	case Configured:
		return "Configured"
	case Negotiating:
		return "Negotiating"
	case OpeningSinks:
		return "OpeningSinks"
	case TrackLoop:
		return "TrackLoop"
	case EndOfTracks:
		return "EndOfTracks"
	case Finalizing:
		return "Finalizing"
	case Ended:
		return "Ended"
	default:
		return "Unknown"
	}
}

// Capability is one of the input forms a Sink declares it accepts.
type Capability int

const (
	CapOneBitRaw Capability = iota
	CapOneBitPassthrough
	CapPCM
	CapMetadataOnly
)

// Source produces track-ordered audio frames, one-bit raw or compressed.
type Source interface {
	AudioFormat() audio.Format
	TrackCount() int
	TrackMetadata(track int) metadata.Track
	Album() metadata.Album
	// SeekTrackStart positions the source at the given track's first
	// frame (a one-bit-frame offset recorded in the track's metadata).
	SeekTrackStart(track int) error
	// NextFrame returns the next frame of the current track, or ok=false
	// once the track-end offset has been reached.
	NextFrame() (frame audio.Frame, ok bool, err error)
}

// Transform maps one input frame to zero or more output frames.
type Transform interface {
	Process(frame audio.Frame) ([]audio.Frame, error)
	// Flush drains any buffered output at a track boundary. Stateless
	// transforms (the decompressor) return nil, nil.
	Flush() ([]audio.Frame, error)
}

// Sink consumes a negotiated frame stream and produces one output.
type Sink interface {
	Capabilities() Capability
	Open(basePath string, format audio.Format, album metadata.Album) error
	TrackStart(track int, meta metadata.Track) error
	WriteFrame(frame audio.Frame) error
	TrackEnd(track int) error
	Finalize() error
	Close() error
}

// Decision is the progress callback's return value.
type Decision int

const (
	ContinueRun Decision = iota
	CancelRun
)

// Snapshot is one progress report.
type Snapshot struct {
	TrackNumber    int
	TrackCount     int
	BytesWritten   uint64
	PercentTrack   float64
	PercentRun     float64
	DisplayTitle   string
}

// ProgressFunc is invoked at most every ~250ms and at track boundaries.
type ProgressFunc func(Snapshot) Decision

// PCMBitDepth is one of the allowed pcm_bit_depth config values.
type PCMBitDepth int

const (
	Depth16 PCMBitDepth = 16
	Depth24 PCMBitDepth = 24
	Depth32 PCMBitDepth = 32
)

// PCMQuality mirrors resample.Quality at the configuration boundary.
type PCMQuality int

const (
	QualityFast PCMQuality = iota
	QualityNormal
	QualityHigh
)

// TrackFilenamePolicy controls per-track sink filename generation.
type TrackFilenamePolicy int

const (
	NumberOnly TrackFilenamePolicy = iota
	NumberTitle
	NumberArtistTitle
)

// AlbumDirPolicy controls album-directory naming.
type AlbumDirPolicy int

const (
	TitleOnly AlbumDirPolicy = iota
	ArtistTitle
)

// ChannelArea selects which channel set a disc-image source exposes.
type ChannelArea int

const (
	Stereo ChannelArea = iota
	Multichannel
)

// Config holds every enumerated run-time option from the component's
// configuration surface.
type Config struct {
	PCMBitDepth                PCMBitDepth
	PCMSampleRateHz             uint32 // 0 = auto = source_rate/32
	PCMQuality                  PCMQuality
	FLACCompression             int // [0,8]
	WriteID3                    bool
	WriteCompressedPassthrough  bool
	TrackFilenamePolicy         TrackFilenamePolicy
	AlbumDirPolicy              AlbumDirPolicy
	ChannelArea                 ChannelArea
	BasePath                    string
}
