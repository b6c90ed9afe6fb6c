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

package codec

import (
	"github.com/dsdnexus/core/bitstream"
	"github.com/dsdnexus/core/xerr"
)

// SamplesPerFrame returns 588 * sampleRate/44100, the per-channel sample
// count of one frame at sampleRate.
func SamplesPerFrame(sampleRateHz int) int {
	return 588 * sampleRateHz / 44100
}

// DecodeFrame decodes one compressed frame into one raw one-bit frame of
// samplesPerFrame samples per channel, channel-interleaved per byte, MSB
// first. The decoder holds no state across calls: the same frame bytes
// always decode to the same output.
func DecodeFrame(frame []byte, channelCount, samplesPerFrame int) ([]byte, error) {
	if channelCount <= 0 || channelCount > maxChannels {
		return nil, xerr.New(xerr.InvalidArg, "channel count out of range")
	}
	if samplesPerFrame <= 0 || samplesPerFrame%8 != 0 {
		return nil, xerr.New(xerr.InvalidArg, "samples per frame must be a positive multiple of 8")
	}
	if len(frame) < 1 {
		return nil, xerr.New(xerr.InvalidData, "empty frame")
	}

	r := bitstream.NewReader(frame)

	header, err := r.Bit()
	if err != nil {
		return nil, err
	}
	if !header {
		if _, err := r.Bits(7); err != nil {
			return nil, err
		}
		out := make([]byte, len(frame)-1)
		copy(out, frame[1:])
		want := samplesPerFrame / 8 * channelCount
		if len(out) != want {
			return nil, errInvalidData("uncompressed passthrough frame size mismatch")
		}
		return out, nil
	}

	same0, err := r.Bit()
	if err != nil {
		return nil, err
	}
	same1, err := r.Bit()
	if err != nil {
		return nil, err
	}
	same2, err := r.Bit()
	if err != nil {
		return nil, err
	}
	if !same0 || !same1 || !same2 {
		return nil, errNotImplemented("segmentation flag combination")
	}

	maxElements := 2 * channelCount

	filterCountBits := bitstream.ElementMapBits(maxElements)
	filterElementCount64, err := r.Bits(filterCountBits)
	if err != nil {
		return nil, err
	}
	filterElementCount := int(filterElementCount64) + 1
	if filterElementCount > maxElements {
		return nil, errInvalidData("filter element count exceeds 2x channel count")
	}
	filterMap, err := readElementMap(r, channelCount, filterElementCount)
	if err != nil {
		return nil, err
	}

	probCountBits := bitstream.ElementMapBits(maxElements)
	probElementCount64, err := r.Bits(probCountBits)
	if err != nil {
		return nil, err
	}
	probElementCount := int(probElementCount64) + 1
	if probElementCount > maxElements {
		return nil, errInvalidData("probability element count exceeds 2x channel count")
	}
	probMap, err := readElementMap(r, channelCount, probElementCount)
	if err != nil {
		return nil, err
	}

	halfProb := make([]bool, channelCount)
	for ch := range halfProb {
		b, err := r.Bit()
		if err != nil {
			return nil, err
		}
		halfProb[ch] = b
	}

	filterCoeffs := make([][]int32, filterElementCount)
	for e := range filterCoeffs {
		c, err := tableRow(r, 7, 9, filterPredictorMatrix, false)
		if err != nil {
			return nil, err
		}
		filterCoeffs[e] = c
	}
	filters, err := buildFilterTable(filterCoeffs)
	if err != nil {
		return nil, err
	}

	probTables := make([][]int32, probElementCount)
	for e := range probTables {
		c, err := tableRow(r, 6, 7, probPredictorMatrix, true)
		if err != nil {
			return nil, err
		}
		probTables[e] = c
	}

	ac, err := newArithDecoder(r)
	if err != nil {
		return nil, err
	}

	// Leading x-bit against a fixed initial probability derived from the
	// first filter element's leading coefficient.
	initialP := uint32(64)
	if len(filterCoeffs) > 0 && len(filterCoeffs[0]) > 0 {
		v := filterCoeffs[0][0]
		p := 64 + v
		if p < 1 {
			p = 1
		}
		if p > 127 {
			p = 127
		}
		initialP = uint32(p)
	}
	if _, err := ac.decodeBit(initialP); err != nil {
		return nil, err
	}

	statuses := make([]status, channelCount)
	for ch := range statuses {
		statuses[ch] = newStatus()
	}

	bytesPerChannelSample := samplesPerFrame / 8
	out := make([]byte, bytesPerChannelSample*channelCount)

	for byteIdx := 0; byteIdx < bytesPerChannelSample; byteIdx++ {
		for ch := 0; ch < channelCount; ch++ {
			var outByte byte
			for bit := 7; bit >= 0; bit-- {
				i := byteIdx*8 + (7 - bit)
				fe := filterMap[ch]
				predict := filters.predict(fe, statuses[ch])

				var p uint32
				fLen := len(filterCoeffs[fe])
				if halfProb[ch] && i < fLen {
					p = 128
				} else {
					pe := probMap[ch]
					table := probTables[pe]
					if len(table) == 0 {
						return nil, errInvalidData("empty probability table referenced")
					}
					idx := int(abs32(predict) >> 3)
					if idx >= len(table) {
						idx = len(table) - 1
					}
					pv := table[idx] + 1 // add back the 1 that tableRow subtracts from biased probability coefficients
					if pv < 1 {
						pv = 1
					}
					if pv > 127 {
						pv = 127
					}
					p = uint32(pv)
				}

				residual, err := ac.decodeBit(p)
				if err != nil {
					return nil, err
				}
				predBit := byte((uint16(predict) >> 15) & 1)
				outBit := predBit ^ byte(residual)

				outByte |= outBit << uint(bit)
				statuses[ch].shiftIn(outBit)
			}
			out[byteIdx*channelCount+ch] = outByte
		}
	}

	return out, nil
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
