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

package disc

import (
	"github.com/spf13/afero"

	"github.com/dsdnexus/core/xerr"
)

// IsPhysicalDrive reports whether path names a block device (e.g.
// /dev/sr0) rather than a plain image file, so callers know whether to
// go through OpenImageFile or authenticate a Transport and call
// OpenDrive.
func IsPhysicalDrive(path string) bool {
	return isBlockDevice(path)
}

// OpenImageFile opens a disc image that is a plain file: an .iso-style
// dump, or an archive-extracted image already materialized on fs.
func OpenImageFile(fs afero.Fs, path string, layout Layout, cacheSize int) (*Source, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, xerr.Wrap(xerr.IoRead, "open disc image", err)
	}
	reader, err := NewSectorReader(f, cacheSize)
	if err != nil {
		return nil, err
	}
	return NewSource(reader, layout)
}

// OpenDrive authenticates against a physical or network-streamed drive
// over t, then constructs a Source that decrypts every sector read with
// the derived per-disc key.
func OpenDrive(t Transport, host HostIdentity, ca CARoot, layout Layout, cacheSize int) (*Source, error) {
	auth := NewAuthenticator(host, ca)
	key, err := auth.Authenticate(t)
	if err != nil {
		auth.Close()
		return nil, err
	}
	defer auth.Close()

	reader, err := NewEncryptedSectorReader(&transportReaderAt{t: t}, key, cacheSize)
	if err != nil {
		return nil, err
	}
	return NewSource(reader, layout)
}
