// SPDX-License-Identifier: EPL-2.0

package endpoint

import "errors"

var (
	// ErrInvalidBlock is returned for empty or malformed sample blocks.
	ErrInvalidBlock = errors.New("invalid sample block")

	// ErrNoAmbientBlocks is returned when a calibration duration does not
	// span a finite, positive number of blocks.
	ErrNoAmbientBlocks = errors.New("calibration duration covers no blocks")

	ErrInvalidParams = errors.New("invalid endpointing parameters")
)
