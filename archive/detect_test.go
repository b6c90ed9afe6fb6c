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

package archive

import (
	"io"
	"testing"
)

func TestIsDSDFile(t *testing.T) {
	cases := map[string]bool{
		"album/01 Track.dsf": true,
		"ALBUM/02 TRACK.DFF": true,
		"rip.iso":            true,
		"rip.bin":            true,
		"cover.jpg":           false,
		"readme.txt":          false,
	}
	for name, want := range cases {
		if got := IsDSDFile(name); got != want {
			t.Errorf("IsDSDFile(%q) = %v, want %v", name, got, want)
		}
	}
}

// testArchive is a minimal Archive implementation for exercising
// list-scanning logic without touching a real archive format.
type testArchive struct {
	files []FileInfo
}

func (a *testArchive) List() ([]FileInfo, error) { return a.files, nil }

func (*testArchive) Open(string) (io.ReadCloser, int64, error) {
	return nil, 0, FileNotFoundError{}
}

func (*testArchive) OpenReaderAt(string) (io.ReaderAt, int64, io.Closer, error) {
	return nil, 0, nil, FileNotFoundError{}
}

func (*testArchive) Close() error { return nil }

func TestDetectDSDFile(t *testing.T) {
	arc := &testArchive{files: []FileInfo{
		{Name: "scans/cover.jpg", Size: 100},
		{Name: "disc/album.dsf", Size: 2000},
	}}
	got, err := DetectDSDFile(arc)
	if err != nil {
		t.Fatalf("DetectDSDFile: %v", err)
	}
	if got != "disc/album.dsf" {
		t.Errorf("DetectDSDFile = %q, want disc/album.dsf", got)
	}
}

func TestDetectDSDFileNone(t *testing.T) {
	arc := &testArchive{files: []FileInfo{{Name: "readme.txt", Size: 10}}}
	if _, err := DetectDSDFile(arc); err == nil {
		t.Fatal("expected NoDSDFilesError")
	}
}
