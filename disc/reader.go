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
	"crypto/aes"
	"crypto/cipher"
	"io"

	"github.com/dsdnexus/core/xerr"
)

// SectorReader reads fixed 2048-byte logical sectors from a disc image,
// whether that image is a plain file or an authenticated drive, caching
// recently-read sectors so sequential and seek-heavy reads don't keep
// re-fetching or re-decrypting the same bytes.
type SectorReader struct {
	back   io.ReaderAt
	cache  *sectorCache
	cipher cipher.Block // nil for plain, unencrypted images
}

// NewSectorReader wraps a plain, unencrypted disc-image backing store
// (a file on disk, opened through afero, or an archive-extracted image).
func NewSectorReader(back io.ReaderAt, cacheSize int) (*SectorReader, error) {
	cache, err := newSectorCache(cacheSize)
	if err != nil {
		return nil, err
	}
	return &SectorReader{back: back, cache: cache}, nil
}

// NewEncryptedSectorReader wraps a backing store whose sectors must be
// AES-128-CBC decrypted in place with the given per-disc key, as derived
// by Authenticator.Authenticate.
func NewEncryptedSectorReader(back io.ReaderAt, key [16]byte, cacheSize int) (*SectorReader, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, xerr.Wrap(xerr.CryptoFailed, "build disc cipher", err)
	}
	cache, err := newSectorCache(cacheSize)
	if err != nil {
		return nil, err
	}
	return &SectorReader{back: back, cache: cache, cipher: block}, nil
}

// ReadSector returns the decrypted (if applicable) contents of logical
// sector n.
func (r *SectorReader) ReadSector(n uint64) ([]byte, error) {
	if data, ok := r.cache.get(n); ok {
		return data, nil
	}

	buf := make([]byte, sectorSize)
	//nolint:gosec // sector index bounded by caller-supplied track layout
	if _, err := r.back.ReadAt(buf, int64(n)*sectorSize); err != nil && err != io.EOF {
		return nil, xerr.Wrap(xerr.IoRead, "read sector", err)
	}

	if r.cipher != nil {
		cipher.NewCBCDecrypter(r.cipher, discIV[:]).CryptBlocks(buf, buf)
	}

	r.cache.put(n, buf)
	return buf, nil
}

// ReadRange reads length bytes starting at byte offset, spanning as many
// sectors as necessary.
func (r *SectorReader) ReadRange(offset, length uint64) ([]byte, error) {
	out := make([]byte, 0, length)
	for uint64(len(out)) < length {
		sector := (offset + uint64(len(out))) / sectorSize
		within := (offset + uint64(len(out))) % sectorSize

		data, err := r.ReadSector(sector)
		if err != nil {
			return nil, err
		}

		want := length - uint64(len(out))
		avail := uint64(len(data)) - within
		if want > avail {
			want = avail
		}
		if want == 0 {
			return nil, xerr.New(xerr.UnexpectedEOF, "disc image exhausted before requested range")
		}
		out = append(out, data[within:within+want]...)
	}
	return out, nil
}
