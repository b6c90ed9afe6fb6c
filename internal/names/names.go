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

// Package names derives filesystem-safe file and directory names from
// album/track metadata, shared by every file-based sink so that the
// track_filename_policy and album_dir_policy config options are honoured
// identically regardless of output format.
package names

import (
	"fmt"
	"strings"

	"github.com/dsdnexus/core/metadata"
	"github.com/dsdnexus/core/pipeline"
)

// Sanitize strips path separators and other characters that would escape
// the album directory or confuse common filesystems.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-", "?", "",
		"\"", "'", "<", "(", ">", ")", "|", "-",
	)
	return replacer.Replace(s)
}

// TrackFilename builds a base name (without extension) for a track's
// output file, per the configured policy.
func TrackFilename(policy pipeline.TrackFilenamePolicy, album metadata.Album, track metadata.Track) string {
	switch policy {
	case pipeline.NumberTitle:
		if track.Title != "" {
			return fmt.Sprintf("%02d - %s", track.Number, Sanitize(track.Title))
		}
		return fmt.Sprintf("%02d", track.Number)
	case pipeline.NumberArtistTitle:
		performer := track.Performer
		if performer == "" {
			performer = album.Artist
		}
		switch {
		case performer != "" && track.Title != "":
			return fmt.Sprintf("%02d - %s - %s", track.Number, Sanitize(performer), Sanitize(track.Title))
		case track.Title != "":
			return fmt.Sprintf("%02d - %s", track.Number, Sanitize(track.Title))
		default:
			return fmt.Sprintf("%02d", track.Number)
		}
	default: // NumberOnly
		return fmt.Sprintf("%02d", track.Number)
	}
}

// AlbumDir builds a directory name for the album, per the configured
// policy.
func AlbumDir(policy pipeline.AlbumDirPolicy, album metadata.Album) string {
	title := Sanitize(album.Title)
	if title == "" {
		title = "Unknown Album"
	}
	if policy == pipeline.ArtistTitle && album.Artist != "" {
		return fmt.Sprintf("%s - %s", Sanitize(album.Artist), title)
	}
	return title
}
