// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files and persists utterances as AIFF.
//
// This package uses github.com/go-audio/aiff for both directions.
//
// # Decoding
//
//	src, err := aiff.Decoder{}.Decode(file)
//
// Integer PCM at 16, 24 or 32 bits is supported; samples come out as
// float32 in [-1,1). AIFF-C and other bit depths fail with
// ErrUnsupportedAiffLayout.
//
// # Persisting utterances
//
// FileSink implements recorder.Sink. It writes 16-bit big-endian samples
// in the capture format, replacing Path on every save.
package aiff
