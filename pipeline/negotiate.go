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
	"github.com/dsdnexus/core/audio"
	"github.com/dsdnexus/core/xerr"
)

// plan is the result of negotiation: the transform chain to run every
// source frame through, and whether compressed frames must pass straight
// to a designated passthrough sink instead.
type plan struct {
	needsDecompress bool
	needsResample   bool
	passthroughOnly bool
}

// negotiate computes the required union of sink input capabilities and
// decides which transforms the chain needs, per §4.3's rules. It rejects
// at configure time when a passthrough sink is mixed with a one-bit raw
// sink while the source is compressed and no PCM sink is requested;
// metadata-only sinks take no frames and are not part of that check.
func negotiate(sourceFormat audio.Format, sinks []Sink) (plan, error) {
	var havePCM, haveRaw, havePassthrough, haveMetadataOnly bool
	for _, s := range sinks {
		switch s.Capabilities() {
		case CapPCM:
			havePCM = true
		case CapOneBitRaw:
			haveRaw = true
		case CapOneBitPassthrough:
			havePassthrough = true
		case CapMetadataOnly:
			haveMetadataOnly = true
		}
	}
	_ = haveMetadataOnly

	sourceCompressed := sourceFormat.Type == audio.OneBitCompressed

	if sourceCompressed && havePassthrough && !havePCM && haveRaw {
		return plan{}, xerr.New(xerr.InvalidState,
			"a non-passthrough raw sink cannot be combined with a passthrough sink and a compressed source unless a PCM sink is also present")
	}

	if sourceCompressed && havePassthrough && !havePCM {
		// Compressed frames can be delivered verbatim; no decompressor
		// needed, and since haveRaw is false here, no conflict exists.
		return plan{passthroughOnly: true}, nil
	}

	p := plan{}
	if sourceCompressed && (haveRaw || havePCM) {
		p.needsDecompress = true
	}
	if havePCM {
		p.needsResample = true
	}
	return p, nil
}
