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

package pipeline

import (
	"time"

	"github.com/dsdnexus/core/audio"
)

// runTrack executes steps 1-6 of the per-track loop for one track number.
func (c *Coordinator) runTrack(track int, p plan, idx, total int, lastProgress *time.Time) error {
	if err := c.source.SeekTrackStart(track); err != nil {
		return err
	}

	meta := c.source.TrackMetadata(track)

	started := make([]Sink, 0, len(c.sinks))
	for _, s := range c.sinks {
		if err := s.TrackStart(track, meta); err != nil {
			for _, d := range started {
				_ = d.TrackEnd(track)
			}
			return err
		}
		started = append(started, s)
	}

	chain := newTransformChain(p, c.source.AudioFormat(), c.cfg)

	for {
		if c.cancelled.Load() {
			break
		}
		frame, ok, err := c.source.NextFrame()
		if err != nil {
			for _, d := range started {
				_ = d.TrackEnd(track)
			}
			return err
		}
		if !ok {
			break
		}

		outFrames, err := chain.process(frame)
		if err != nil {
			for _, d := range started {
				_ = d.TrackEnd(track)
			}
			return err
		}
		if err := c.fanOut(outFrames); err != nil {
			for _, d := range started {
				_ = d.TrackEnd(track)
			}
			return err
		}

		if time.Since(*lastProgress) >= progressInterval {
			*lastProgress = time.Now()
			if c.reportProgress(idx, total, track) == CancelRun {
				c.cancelled.Store(true)
			}
		}
	}

	flushed, err := chain.flush()
	if err != nil {
		for _, d := range started {
			_ = d.TrackEnd(track)
		}
		return err
	}
	if err := c.fanOut(flushed); err != nil {
		for _, d := range started {
			_ = d.TrackEnd(track)
		}
		return err
	}

	for _, s := range c.sinks {
		if err := s.TrackEnd(track); err != nil {
			return err
		}
	}

	*lastProgress = time.Now()
	c.reportProgress(idx, total, track)

	return nil
}

func (c *Coordinator) fanOut(frames []audio.Frame) error {
	for _, f := range frames {
		for _, s := range c.sinks {
			if s.Capabilities() == CapMetadataOnly {
				continue
			}
			if err := s.WriteFrame(f); err != nil {
				return err
			}
			c.bytesTotal += uint64(len(f.Data))
		}
	}
	return nil
}

func (c *Coordinator) reportProgress(trackIdx, totalTracks, trackNumber int) Decision {
	if c.onProg == nil {
		return ContinueRun
	}
	var percentRun float64
	if totalTracks > 0 {
		percentRun = float64(trackIdx+1) / float64(totalTracks) * 100
	}
	return c.onProg(Snapshot{
		TrackNumber:  trackNumber,
		TrackCount:   totalTracks,
		BytesWritten: c.bytesTotal,
		PercentTrack: 0,
		PercentRun:   percentRun,
	})
}
