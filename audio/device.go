// SPDX-License-Identifier: EPL-2.0

package audio

// Device opens capture streams. Terminate releases whatever the device
// acquired globally (driver handles, library state); streams opened before
// Terminate must not be used afterwards.
type Device interface {
	Open(f Format) (InputStream, error)
	Terminate() error
}

// InputStream delivers fixed-size blocks.
//
// Read blocks until a full block is available or the stream fails. Stop and
// Close may be called from another goroutine while Read is blocked; doing so
// makes the pending Read return an error (usually ErrStreamStopped or
// ErrStreamClosed). Stop on a stopped stream and Close on a closed one are
// no-ops.
type InputStream interface {
	Start() error
	Read() (Block, error)
	Stop() error
	Close() error
}
