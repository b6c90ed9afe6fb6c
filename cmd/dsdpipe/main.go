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

// Command dsdpipe is a minimal illustration of wiring a format reader into
// the Coordinator. It is not the project's CLI — just a worked example of
// the Source -> Coordinator -> Sink path for a Format A (.dsf) input.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/dsdnexus/core/format/dsf"
	"github.com/dsdnexus/core/pipeline"
	"github.com/dsdnexus/core/sink/flac"
	"github.com/dsdnexus/core/sink/wav"
)

var (
	inputFile  = flag.String("i", "", "input .dsf file (required)")
	outputDir  = flag.String("o", ".", "output directory")
	sinkKind   = flag.String("sink", "wav", "output sink: wav or flac")
	bitDepth   = flag.Int("bits", 24, "PCM bit depth: 16, 24, or 32")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -i <file.dsf> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Decodes a Format A (.dsf) file to PCM.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *inputFile == "" {
		fmt.Fprintf(os.Stderr, "Error: input file required (-i)\n")
		flag.Usage()
		os.Exit(1)
	}

	if err := run(*inputFile, *outputDir, *sinkKind, *bitDepth); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(inputPath, outDir, kind string, bits int) error {
	fs := afero.NewOsFs()

	container, err := dsf.Open(fs, inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer container.Close()

	source, err := newSingleFileSource(container)
	if err != nil {
		return fmt.Errorf("build source: %w", err)
	}

	depth, err := parseBitDepth(bits)
	if err != nil {
		return err
	}

	var s pipeline.Sink
	switch kind {
	case "wav":
		s = wav.New(fs, depth, pipeline.NumberTitle, pipeline.TitleOnly, true)
	case "flac":
		s, err = flac.New(fs, depth, pipeline.NumberTitle, pipeline.TitleOnly, 5)
		if err != nil {
			return fmt.Errorf("build FLAC sink: %w", err)
		}
	default:
		return fmt.Errorf("unknown sink %q: want wav or flac", kind)
	}

	cfg := pipeline.Config{
		PCMBitDepth:         depth,
		PCMQuality:          pipeline.QualityNormal,
		WriteID3:            true,
		TrackFilenamePolicy: pipeline.NumberTitle,
		AlbumDirPolicy:      pipeline.TitleOnly,
		BasePath:            outDir,
	}

	coord := pipeline.New(source, []pipeline.Sink{s}, cfg, func(snap pipeline.Snapshot) pipeline.Decision {
		fmt.Printf("\rtrack %d/%d  %.0f%%", snap.TrackNumber, snap.TrackCount, snap.PercentTrack*100)
		return pipeline.ContinueRun
	})

	if err := coord.Run([]int{1}); err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}
	fmt.Println()
	return nil
}

func parseBitDepth(bits int) (pipeline.PCMBitDepth, error) {
	switch bits {
	case 16:
		return pipeline.Depth16, nil
	case 24:
		return pipeline.Depth24, nil
	case 32:
		return pipeline.Depth32, nil
	default:
		return 0, fmt.Errorf("unsupported bit depth %d: want 16, 24, or 32", bits)
	}
}
