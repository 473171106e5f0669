// SPDX-License-Identifier: EPL-2.0

package recorder

import "errors"

var (
	// ErrTerminated is returned by every call on a terminated recorder.
	ErrTerminated = errors.New("recorder is terminated")

	// ErrBusy is returned when a capture or calibration is in progress.
	ErrBusy = errors.New("recorder is busy")

	ErrNilDevice = errors.New("recorder needs a device")
	ErrNilSink   = errors.New("recorder needs a sink")
)

// DeviceError is a failure of the audio device while opening, starting or
// reading a stream.
type DeviceError struct {
	Op  string
	Err error
}

func (e *DeviceError) Error() string {
	return "device " + e.Op + ": " + e.Err.Error()
}

func (e *DeviceError) Unwrap() error { return e.Err }
