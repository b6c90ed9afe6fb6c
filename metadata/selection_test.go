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
	"reflect"
	"testing"

	"github.com/dsdnexus/core/xerr"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name       string
		expr       string
		trackCount int
		want       []int
		wantErr    bool
	}{
		{"all", "all", 4, []int{1, 2, 3, 4}, false},
		{"single", "2", 4, []int{2}, false},
		{"range", "1-3", 4, []int{1, 2, 3}, false},
		{"reversed range normalises", "5-1", 5, []int{1, 2, 3, 4, 5}, false},
		{"mixed list dedups and sorts", "3,1-2,2", 4, []int{1, 2, 3}, false},
		{"empty", "", 4, nil, true},
		{"zero rejected", "0", 4, nil, true},
		{"over max rejected", "5", 4, nil, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseSelection(tc.expr, tc.trackCount)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseSelectionOutOfBoundsKind(t *testing.T) {
	_, err := ParseSelection("9", 3)
	if !xerr.Is(err, xerr.InvalidArg) {
		t.Fatalf("expected InvalidArg kind, got %v", err)
	}
}
