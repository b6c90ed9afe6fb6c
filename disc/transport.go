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
	"encoding/binary"

	"github.com/dsdnexus/core/xerr"
)

// sectorSize is the logical sector size exposed by the disc-image source,
// per the 2048-byte user-data sector the physical and file-backed paths
// both ultimately agree on.
const sectorSize = 2048

// Transport performs one command round trip against an optical drive,
// physical or network-streamed. It is the only collaborator the
// authentication handshake and encrypted sector reads need; image-file
// sources never construct one.
//
// Command sends a vendor command block, optionally followed by dataOut,
// and returns up to wantLen bytes of response plus the drive's integer
// command status (zero means success). A non-nil error means the
// transport itself failed (link down, timeout); a non-zero status means
// the drive executed the command and reported failure.
type Transport interface {
	Command(cdb []byte, dataOut []byte, wantLen int) (resp []byte, status int, err error)
}

// The following command codes are opaque placeholders for the vendor's
// proprietary command set; this layer only depends on their relative
// ordering and response shapes, both given in full in the protocol
// description this package implements.
const (
	cmdFormat      = 0xC0
	cmdSendCert    = 0xC2
	cmdGetCert     = 0xC3
	cmdSendSession = 0xC4
	cmdGetSession  = 0xC5
	cmdGetDiscKey  = 0xC6
	cmdReadSector  = 0xC8
)

func cdbReadSector(sector uint64) []byte {
	cdb := make([]byte, 9)
	cdb[0] = cmdReadSector
	binary.BigEndian.PutUint64(cdb[1:], sector)
	return cdb
}

// transportReaderAt adapts a sector-addressed Transport into an
// io.ReaderAt of sector-aligned reads, for use as the SectorReader's
// backing store once the drive has authenticated.
type transportReaderAt struct {
	t Transport
}

func (r *transportReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off%sectorSize != 0 || len(p)%sectorSize != 0 {
		return 0, xerr.New(xerr.InvalidArg, "transport reads must be sector-aligned")
	}
	baseSector := uint64(off) / sectorSize
	sectors := len(p) / sectorSize
	for i := range sectors {
		resp, status, err := r.t.Command(cdbReadSector(baseSector+uint64(i)), nil, sectorSize)
		if err != nil {
			return i * sectorSize, xerr.Wrap(xerr.IoRead, "read sector from drive", err)
		}
		if status != 0 {
			return i * sectorSize, xerr.New(xerr.IoRead, "drive reported read failure")
		}
		if len(resp) < sectorSize {
			return i * sectorSize, xerr.New(xerr.UnexpectedEOF, "short sector response")
		}
		copy(p[i*sectorSize:], resp[:sectorSize])
	}
	return len(p), nil
}
