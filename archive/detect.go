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
	"fmt"
	"path/filepath"
	"strings"
)

// dsdExtensions are file extensions that indicate a DSD audio payload
// identifiable without header analysis: the two container formats this
// module decodes, plus raw disc-image dumps that a disc-image source can
// open directly once extracted from the archive.
var dsdExtensions = map[string]bool{
	".dsf":  true, // Format A container
	".dff":  true, // Format B/C container (DSDIFF)
	".iso":  true, // raw disc-image dump
	".bin":  true, // raw disc-image dump, cue/bin pair
	".img":  true, // raw disc-image dump
}

// IsDSDFile checks if a filename has a recognized DSD payload extension.
func IsDSDFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return dsdExtensions[ext]
}

// DetectDSDFile finds the first DSD payload in an archive.
// It scans the archive's file list and returns the path to the first file
// that has a recognized DSD extension.
func DetectDSDFile(arc Archive) (string, error) {
	files, err := arc.List()
	if err != nil {
		return "", fmt.Errorf("list archive files: %w", err)
	}

	for _, file := range files {
		if IsDSDFile(file.Name) {
			return file.Name, nil
		}
	}

	return "", NoDSDFilesError{Archive: "archive"}
}
