// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	// ErrNotWavFile indicates the input does not start with a RIFF/WAVE header.
	ErrNotWavFile = errors.New("not a WAV file")

	// ErrOnlyPCMSupported indicates a compressed or floating point WAV.
	ErrOnlyPCMSupported = errors.New("only integer PCM WAV is supported")

	// ErrUnsupportedWavLayout indicates a WAV whose fmt chunk cannot be used.
	ErrUnsupportedWavLayout = errors.New("unsupported WAV layout")

	// ErrNoPath is returned by a FileSink without a path.
	ErrNoPath = errors.New("wav sink needs a path")
)
