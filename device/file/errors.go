// SPDX-License-Identifier: EPL-2.0

package file

import "errors"

var (
	ErrTerminated = errors.New("file device is terminated")

	// ErrChannelMismatch is returned when the file cannot be mixed to the
	// requested channel count. Only mixing down to mono is supported.
	ErrChannelMismatch = errors.New("file channels do not match the capture format")

	// ErrFormatMismatch is returned when a stream asks for a different
	// format than the one the file is already being decoded to.
	ErrFormatMismatch = errors.New("capture format changed while the file is open")
)
