// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis decoding for file-backed capture.
//
// This package uses github.com/jfreymuth/oggvorbis. Samples keep the
// file's channel layout, interleaved as [L0, R0, L1, R1, ...]:
//
//	src, err := vorbis.Decoder{}.Decode(file)
//
// ReadSamples needs a destination that holds whole frames and returns
// audio.ErrInvalidDstSize otherwise.
package vorbis
