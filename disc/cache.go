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
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dsdnexus/core/xerr"
)

// defaultCacheSectors bounds the sector cache for sources that don't pick
// their own size. 512 sectors is 1 MiB of cached disc image data.
const defaultCacheSectors = 512

// sectorCache keeps recently-read sectors in memory, evicting the least
// recently used entry when full rather than clearing the whole cache on
// overflow.
type sectorCache struct {
	entries *lru.Cache[uint64, []byte]
}

func newSectorCache(size int) (*sectorCache, error) {
	if size <= 0 {
		size = defaultCacheSectors
	}
	entries, err := lru.New[uint64, []byte](size)
	if err != nil {
		return nil, xerr.Wrap(xerr.InvalidArg, "create sector cache", err)
	}
	return &sectorCache{entries: entries}, nil
}

func (c *sectorCache) get(sector uint64) ([]byte, bool) {
	return c.entries.Get(sector)
}

func (c *sectorCache) put(sector uint64, data []byte) {
	c.entries.Add(sector, data)
}
