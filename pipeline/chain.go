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

import "github.com/dsdnexus/core/audio"

// transformChain runs every source frame through the Transforms negotiate
// decided were necessary, in a strictly linear order: decompress, then
// resample. Either stage may be absent.
type transformChain struct {
	stages []Transform
	// passthroughOnly mirrors the negotiated decision to skip every
	// transform and deliver compressed frames verbatim.
	passthroughOnly bool
}

func newTransformChain(p plan, format audio.Format, cfg Config) *transformChain {
	if p.passthroughOnly {
		return &transformChain{passthroughOnly: true}
	}
	var stages []Transform
	if p.needsDecompress {
		stages = append(stages, newDecompressTransform(format))
	}
	if p.needsResample {
		stages = append(stages, newResampleTransform(format, cfg))
	}
	return &transformChain{stages: stages}
}

func (tc *transformChain) process(frame audio.Frame) ([]audio.Frame, error) {
	if tc.passthroughOnly {
		return []audio.Frame{frame}, nil
	}
	frames := []audio.Frame{frame}
	for _, stage := range tc.stages {
		var next []audio.Frame
		for _, f := range frames {
			out, err := stage.Process(f)
			if err != nil {
				return nil, err
			}
			next = append(next, out...)
		}
		frames = next
	}
	return frames, nil
}

func (tc *transformChain) flush() ([]audio.Frame, error) {
	if tc.passthroughOnly {
		return nil, nil
	}
	var out []audio.Frame
	for _, stage := range tc.stages {
		flushed, err := stage.Flush()
		if err != nil {
			return nil, err
		}
		out = append(out, flushed...)
	}
	return out, nil
}
