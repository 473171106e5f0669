// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")
	ErrInvalidFormat  = errors.New("invalid audio format")
	ErrUnknownFormat  = errors.New("no decoder registered for format")

	// ErrStreamStopped is returned by Read on a stream that is not started.
	ErrStreamStopped = errors.New("stream is stopped")

	// ErrStreamClosed is returned by any call on a closed stream.
	ErrStreamClosed = errors.New("stream is closed")
)
