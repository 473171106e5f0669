// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"time"
)

// SampleWidth is the size in bytes of one captured sample (signed 16-bit PCM).
const SampleWidth = 2

// Format describes how blocks are captured from an input device.
type Format struct {
	// Channels count (1 for mono, 2 for stereo).
	Channels int
	// SampleRate in Hz.
	SampleRate int
	// FramesPerBuffer is how many frames one Read delivers.
	FramesPerBuffer int
}

// DefaultFormat is 16 kHz mono with 100ms blocks.
func DefaultFormat() Format {
	return Format{
		Channels:        1,
		SampleRate:      16000,
		FramesPerBuffer: 1600,
	}
}

func (f Format) Validate() error {
	if f.Channels <= 0 {
		return fmt.Errorf("%w: channels must be positive, got %d", ErrInvalidFormat, f.Channels)
	}

	if f.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidFormat, f.SampleRate)
	}

	if f.FramesPerBuffer <= 0 {
		return fmt.Errorf("%w: frames per buffer must be positive, got %d", ErrInvalidFormat, f.FramesPerBuffer)
	}

	return nil
}

// SampleWidth returns the byte width of a single sample.
func (f Format) SampleWidth() int { return SampleWidth }

// SamplesPerBlock is the interleaved sample count of one block.
func (f Format) SamplesPerBlock() int { return f.FramesPerBuffer * f.Channels }

// BlockSeconds is the duration of one block in seconds.
func (f Format) BlockSeconds() float64 {
	return float64(f.FramesPerBuffer) / float64(f.SampleRate)
}

func (f Format) BlockDuration() time.Duration {
	return time.Duration(f.FramesPerBuffer) * time.Second / time.Duration(f.SampleRate)
}
