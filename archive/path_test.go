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
	"os"
	"path/filepath"
	"testing"
)

func TestParsePathWithInternalFile(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "album.7z")
	if err := os.WriteFile(archivePath, []byte("not a real archive"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	path := archivePath + "/disc/album.dsf"
	got, err := ParsePath(path)
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	if got == nil {
		t.Fatal("ParsePath returned nil, want a Path")
	}
	if got.ArchivePath != archivePath {
		t.Errorf("ArchivePath = %q, want %q", got.ArchivePath, archivePath)
	}
	if got.InternalPath != "disc/album.dsf" {
		t.Errorf("InternalPath = %q, want disc/album.dsf", got.InternalPath)
	}
}

func TestParsePathNotAnArchive(t *testing.T) {
	got, err := ParsePath("/music/album.dsf")
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	if got != nil {
		t.Errorf("ParsePath = %+v, want nil", got)
	}
}

func TestIsArchivePath(t *testing.T) {
	cases := map[string]bool{
		"/music/album.zip":           true,
		"/music/album.zip/track.dsf": true,
		"/music/album.dsf":           false,
	}
	for path, want := range cases {
		if got := IsArchivePath(path); got != want {
			t.Errorf("IsArchivePath(%q) = %v, want %v", path, got, want)
		}
	}
}
