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

// Package xerr defines the shared error taxonomy used across every package
// in this module, so callers can branch on error kind with errors.Is
// instead of matching strings or concrete sentinel values from whichever
// package raised them.
package xerr

import (
	"errors"
	"fmt"
)

// Kind identifies one entry of the error taxonomy.
type Kind int

const (
	InvalidArg Kind = iota
	InvalidState
	InvalidFile
	InvalidChunk
	InvalidData
	UnexpectedEOF
	IoRead
	IoWrite
	OutOfMemory
	Cancelled
	FeatureUnavailable
	AuthFailed
	SacFailed
	CryptoFailed
	DriveNotReady
	NoDisc
)

func (k Kind) String() string {
	switch k {
	case InvalidArg:
		return "InvalidArg"
	case InvalidState:
		return "InvalidState"
	case InvalidFile:
		return "InvalidFile"
	case InvalidChunk:
		return "InvalidChunk"
	case InvalidData:
		return "InvalidData"
	case UnexpectedEOF:
		return "UnexpectedEof"
	case IoRead:
		return "IoRead"
	case IoWrite:
		return "IoWrite"
	case OutOfMemory:
		return "OutOfMemory"
	case Cancelled:
		return "Cancelled"
	case FeatureUnavailable:
		return "FeatureUnavailable"
	case AuthFailed:
		return "AuthFailed"
	case SacFailed:
		return "SacFailed"
	case CryptoFailed:
		return "CryptoFailed"
	case DriveNotReady:
		return "DriveNotReady"
	case NoDisc:
		return "NoDisc"
	default:
		return "Unknown"
	}
}

// sentinels, one per Kind, so errors.Is(err, xerr.InvalidFile.Sentinel())
// works regardless of which package produced err.
var sentinels = map[Kind]error{
	InvalidArg:          errors.New("invalid argument"),
	InvalidState:        errors.New("invalid state"),
	InvalidFile:         errors.New("invalid file"),
	InvalidChunk:        errors.New("invalid chunk"),
	InvalidData:         errors.New("invalid data"),
	UnexpectedEOF:       errors.New("unexpected end of file"),
	IoRead:               errors.New("read failure"),
	IoWrite:              errors.New("write failure"),
	OutOfMemory:         errors.New("out of memory"),
	Cancelled:           errors.New("cancelled"),
	FeatureUnavailable:  errors.New("feature unavailable"),
	AuthFailed:          errors.New("authentication failed"),
	SacFailed:           errors.New("sac key exchange failed"),
	CryptoFailed:        errors.New("cryptographic operation failed"),
	DriveNotReady:       errors.New("drive not ready"),
	NoDisc:              errors.New("no disc present"),
}

// Sentinel returns the package-wide sentinel error for k, suitable as the
// %w target of errors.Is checks.
func (k Kind) Sentinel() error {
	return sentinels[k]
}

// taggedError pairs a Kind with a message and optional wrapped cause, and
// satisfies errors.Is against both its own Kind sentinel and the cause.
type taggedError struct {
	kind  Kind
	msg   string
	cause error
}

func (e *taggedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.kind, e.msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

func (e *taggedError) Unwrap() error {
	return e.cause
}

func (e *taggedError) Is(target error) bool {
	return target == e.kind.Sentinel()
}

// New creates an error of the given kind carrying msg.
func New(kind Kind, msg string) error {
	return &taggedError{kind: kind, msg: msg}
}

// Wrap creates an error of the given kind carrying msg and wrapping cause.
func Wrap(kind Kind, msg string, cause error) error {
	return &taggedError{kind: kind, msg: msg, cause: cause}
}

// Is reports whether err (or anything it wraps) belongs to kind.
func Is(err error, kind Kind) bool {
	return errors.Is(err, kind.Sentinel())
}
