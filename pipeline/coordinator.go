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
	"sync/atomic"
	"time"

	"github.com/dsdnexus/core/metadata"
)

const progressInterval = 250 * time.Millisecond

// Coordinator runs one Source through a negotiated transform chain and an
// ordered list of Sinks, implementing the
// Configured -> Negotiating -> OpeningSinks -> TrackLoop -> EndOfTracks ->
// Finalizing -> Ended state machine.
type Coordinator struct {
	source Source
	sinks  []Sink
	cfg    Config
	onProg ProgressFunc

	state      State
	cancelled  atomic.Bool
	bytesTotal uint64
}

// New builds a Coordinator in the Configured state.
func New(source Source, sinks []Sink, cfg Config, onProg ProgressFunc) *Coordinator {
	return &Coordinator{source: source, sinks: sinks, cfg: cfg, onProg: onProg, state: Configured}
}

// Cancel requests cooperative cancellation; safe to call from any
// goroutine. Observed by Run between frames.
func (c *Coordinator) Cancel() {
	c.cancelled.Store(true)
}

// State returns the Coordinator's current state.
func (c *Coordinator) State() State { return c.state }

// Run executes the full state machine for the given track selection
// (1-based track numbers, as produced by metadata.ParseSelection).
func (c *Coordinator) Run(tracks []int) error {
	c.state = Negotiating
	p, err := negotiate(c.source.AudioFormat(), c.sinks)
	if err != nil {
		return err
	}

	c.state = OpeningSinks
	album := c.source.Album()
	if err := c.openSinks(album); err != nil {
		return err
	}

	c.state = TrackLoop
	lastProgress := time.Time{}
	for idx, track := range tracks {
		if err := c.runTrack(track, p, idx, len(tracks), &lastProgress); err != nil {
			c.closeSinksBestEffort()
			return err
		}
		if c.cancelled.Load() {
			break
		}
	}

	c.state = EndOfTracks
	c.state = Finalizing
	var finalizeErr error
	for _, s := range c.sinks {
		if err := s.Finalize(); err != nil && finalizeErr == nil {
			finalizeErr = err
		}
	}
	c.closeSinksBestEffort()
	c.state = Ended
	return finalizeErr
}

func (c *Coordinator) openSinks(album metadata.Album) error {
	format := c.source.AudioFormat()
	var opened []Sink
	for _, s := range c.sinks {
		if err := s.Open(c.cfg.BasePath, format, album); err != nil {
			for _, o := range opened {
				_ = o.Close()
			}
			return err
		}
		opened = append(opened, s)
	}
	return nil
}

func (c *Coordinator) closeSinksBestEffort() {
	for _, s := range c.sinks {
		_ = s.Close()
	}
}
