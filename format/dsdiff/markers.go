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

package dsdiff

import "github.com/dsdnexus/core/xerr"

// encodeMarker serialises a Marker as:
//
//	offset 0:  position in samples (8 bytes, BE)
//	offset 8:  mark type           (2 bytes, BE)
//	offset 10: channel             (2 bytes, BE)
//	offset 12: name length         (2 bytes, BE)
//	offset 14: name bytes
func encodeMarker(m Marker) []byte {
	out := make([]byte, 0, 14+len(m.Name))
	out = append(out, putBE64(m.PositionSamples)...)
	out = append(out, putBE16(m.MarkType)...)
	out = append(out, putBE16(m.Channel)...)
	out = append(out, putBE16(uint16(len(m.Name)))...)
	out = append(out, []byte(m.Name)...)
	return out
}

func decodeMarker(data []byte) (Marker, error) {
	if len(data) < 14 {
		return Marker{}, xerr.New(xerr.InvalidChunk, "MARK chunk shorter than fixed fields")
	}
	m := Marker{
		PositionSamples: be64(data[0:8]),
		MarkType:        be16(data[8:10]),
		Channel:         be16(data[10:12]),
	}
	nameLen := int(be16(data[12:14]))
	if 14+nameLen > len(data) {
		return Marker{}, xerr.New(xerr.InvalidChunk, "MARK chunk name length exceeds payload")
	}
	m.Name = string(data[14 : 14+nameLen])
	return m, nil
}
