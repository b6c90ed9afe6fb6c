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
	"github.com/dsdnexus/core/archive"
	"github.com/dsdnexus/core/xerr"
)

// OpenArchivedImage opens a disc-image payload that lives inside a
// ZIP/7z/RAR archive, without extracting it to a temporary file: the
// archive member's buffered io.ReaderAt becomes the SectorReader's
// backing store directly.
//
// path either names the archive itself, in which case the first
// recognized DSD payload is used (see archive.DetectDSDFile), or embeds
// an explicit internal path MiSTer-style, e.g.
// "/music/album.zip/disc/album.iso" (see archive.ParsePath).
func OpenArchivedImage(path string, layout Layout, cacheSize int) (*Source, func() error, error) {
	archivePath := path
	internalPath := ""

	parsed, err := archive.ParsePath(path)
	if err != nil {
		return nil, nil, xerr.Wrap(xerr.InvalidArg, "parse archive path", err)
	}
	if parsed != nil {
		archivePath = parsed.ArchivePath
		internalPath = parsed.InternalPath
	}

	arc, err := archive.Open(archivePath)
	if err != nil {
		return nil, nil, xerr.Wrap(xerr.InvalidFile, "open archive", err)
	}

	if internalPath == "" {
		internalPath, err = archive.DetectDSDFile(arc)
		if err != nil {
			_ = arc.Close()
			return nil, nil, err
		}
	}

	back, _, closer, err := arc.OpenReaderAt(internalPath)
	if err != nil {
		_ = arc.Close()
		return nil, nil, xerr.Wrap(xerr.IoRead, "open archived disc image", err)
	}

	reader, err := NewSectorReader(back, cacheSize)
	if err != nil {
		_ = closer.Close()
		_ = arc.Close()
		return nil, nil, err
	}

	src, err := NewSource(reader, layout)
	if err != nil {
		_ = closer.Close()
		_ = arc.Close()
		return nil, nil, err
	}

	return src, func() error {
		cerr := closer.Close()
		aerr := arc.Close()
		if cerr != nil {
			return cerr
		}
		return aerr
	}, nil
}
