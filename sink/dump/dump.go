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

// Package dump implements the structured XML metadata-only sink: it emits
// no audio, only an album/track metadata document, one element per track
// in selection order.
package dump

import (
	"encoding/xml"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/dsdnexus/core/audio"
	"github.com/dsdnexus/core/metadata"
	"github.com/dsdnexus/core/pipeline"
	"github.com/dsdnexus/core/xerr"
)

type xmlTrack struct {
	Number     int    `xml:"number,attr"`
	Title      string `xml:"title,omitempty"`
	Performer  string `xml:"performer,omitempty"`
	Composer   string `xml:"composer,omitempty"`
	Arranger   string `xml:"arranger,omitempty"`
	Songwriter string `xml:"songwriter,omitempty"`
	ISRC       string `xml:"isrc,omitempty"`
}

type xmlAlbum struct {
	XMLName   xml.Name   `xml:"album"`
	Title     string     `xml:"title"`
	Artist    string     `xml:"artist,omitempty"`
	Publisher string     `xml:"publisher,omitempty"`
	Copyright string     `xml:"copyright,omitempty"`
	Catalog   string     `xml:"catalog,omitempty"`
	Genre     string     `xml:"genre,omitempty"`
	Year      int        `xml:"year,omitempty"`
	Tracks    []xmlTrack `xml:"track"`
}

// Sink accumulates album/track metadata and writes a single XML document
// at Finalize.
type Sink struct {
	fs       afero.Fs
	basePath string
	doc      xmlAlbum
}

func New(fs afero.Fs) *Sink { return &Sink{fs: fs} }

func (s *Sink) Capabilities() pipeline.Capability { return pipeline.CapMetadataOnly }

func (s *Sink) Open(basePath string, format audio.Format, album metadata.Album) error {
	s.basePath = basePath
	s.doc = xmlAlbum{
		Title:     album.Title,
		Artist:    album.Artist,
		Publisher: album.Publisher,
		Copyright: album.Copyright,
		Catalog:   album.Catalog,
		Genre:     album.Genre,
		Year:      album.Year,
	}
	return s.fs.MkdirAll(basePath, 0o755)
}

func (s *Sink) TrackStart(track int, meta metadata.Track) error {
	s.doc.Tracks = append(s.doc.Tracks, xmlTrack{
		Number:     meta.Number,
		Title:      meta.Title,
		Performer:  meta.Performer,
		Composer:   meta.Composer,
		Arranger:   meta.Arranger,
		Songwriter: meta.Songwriter,
		ISRC:       meta.ISRC,
	})
	return nil
}

func (s *Sink) WriteFrame(frame audio.Frame) error { return nil }

func (s *Sink) TrackEnd(track int) error { return nil }

func (s *Sink) Finalize() error {
	out, err := xml.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return xerr.Wrap(xerr.InvalidState, "marshal metadata dump", err)
	}
	out = append([]byte(xml.Header), out...)
	path := filepath.Join(s.basePath, "metadata.xml")
	if err := afero.WriteFile(s.fs, path, out, 0o644); err != nil {
		return xerr.Wrap(xerr.IoWrite, "write metadata dump", err)
	}
	return nil
}

func (s *Sink) Close() error { return nil }
