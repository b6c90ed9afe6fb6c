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

package metadata

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dsdnexus/core/xerr"
)

// ParseSelection parses a track-selection expression: "all" or a
// comma-separated list of ranges ("N" or "N-M"), and returns a sorted,
// de-duplicated, 1-based list of track indices bounded by trackCount.
//
// "5-1" is accepted and normalised to {1,2,3,4,5}. "0" or any index
// greater than trackCount is rejected.
func ParseSelection(expr string, trackCount int) ([]int, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, ErrEmptySelection
	}
	if strings.EqualFold(expr, "all") {
		all := make([]int, trackCount)
		for i := range all {
			all[i] = i + 1
		}
		return all, nil
	}

	seen := make(map[int]bool)
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, err := parseRange(part)
		if err != nil {
			return nil, err
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		for n := lo; n <= hi; n++ {
			if n < 1 || n > trackCount {
				return nil, xerr.Wrap(xerr.InvalidArg, fmt.Sprintf("track %d out of range [1,%d]", n, trackCount), ErrOutOfBounds)
			}
			seen[n] = true
		}
	}

	if len(seen) == 0 {
		return nil, ErrEmptySelection
	}

	result := make([]int, 0, len(seen))
	for n := range seen {
		result = append(result, n)
	}
	sort.Ints(result)
	return result, nil
}

// parseRange parses "N" or "N-M".
func parseRange(s string) (lo, hi int, err error) {
	if idx := strings.Index(s, "-"); idx >= 0 {
		loStr, hiStr := s[:idx], s[idx+1:]
		lo, err = strconv.Atoi(strings.TrimSpace(loStr))
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %q", ErrBadRange, s)
		}
		hi, err = strconv.Atoi(strings.TrimSpace(hiStr))
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %q", ErrBadRange, s)
		}
		return lo, hi, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadRange, s)
	}
	return n, n, nil
}
