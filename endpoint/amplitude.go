// SPDX-License-Identifier: EPL-2.0

package endpoint

import (
	"fmt"

	"github.com/ik5/speechcapture/audio"
)

// Amplitude is the mean absolute sample value of b.
func Amplitude(b audio.Block) (float64, error) {
	if len(b) == 0 {
		return 0, fmt.Errorf("%w: empty block", ErrInvalidBlock)
	}

	var sum int64
	for _, s := range b {
		v := int64(s)
		if v < 0 {
			v = -v
		}
		sum += v
	}

	return float64(sum) / float64(len(b)), nil
}

// CheckBlock verifies that b holds exactly one block of f.
func CheckBlock(b audio.Block, f audio.Format) error {
	if want := f.SamplesPerBlock(); len(b) != want {
		return fmt.Errorf("%w: got %d samples, want %d", ErrInvalidBlock, len(b), want)
	}

	return nil
}
