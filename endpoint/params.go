// SPDX-License-Identifier: EPL-2.0

package endpoint

import (
	"fmt"
	"math"

	"github.com/ik5/speechcapture/audio"
)

// Unbounded disables the silence timeout: capture only ends when stopped.
var Unbounded = math.Inf(1)

// Params tunes the endpointing decision.
type Params struct {
	// MinEnergy is the amplitude at or below which a block is silent.
	MinEnergy float64
	// MaxSecondsOfSilence ends the utterance after this much consecutive
	// silence. Unbounded disables it.
	MaxSecondsOfSilence float64
	// MaxSilenceMultiplier is how much louder than a quiet previous block a
	// block may be and still count as silence.
	MaxSilenceMultiplier float64
	// StandardDeviationMultiplier weights the ambient deviation added to the
	// ambient mean during calibration.
	StandardDeviationMultiplier float64
}

func DefaultParams() Params {
	return Params{
		MinEnergy:                   500,
		MaxSecondsOfSilence:         1,
		MaxSilenceMultiplier:        2,
		StandardDeviationMultiplier: 1.5,
	}
}

// Bounded reports whether a silence timeout is configured.
func (p Params) Bounded() bool {
	return !math.IsInf(p.MaxSecondsOfSilence, 1)
}

func (p Params) Validate() error {
	if p.MinEnergy < 0 || math.IsNaN(p.MinEnergy) {
		return fmt.Errorf("%w: min energy must be >= 0, got %v", ErrInvalidParams, p.MinEnergy)
	}

	if p.MaxSecondsOfSilence < 0 || math.IsNaN(p.MaxSecondsOfSilence) {
		return fmt.Errorf("%w: max seconds of silence must be >= 0, got %v", ErrInvalidParams, p.MaxSecondsOfSilence)
	}

	if p.MaxSilenceMultiplier <= 0 || math.IsNaN(p.MaxSilenceMultiplier) {
		return fmt.Errorf("%w: max silence multiplier must be > 0, got %v", ErrInvalidParams, p.MaxSilenceMultiplier)
	}

	if math.IsNaN(p.StandardDeviationMultiplier) || math.IsInf(p.StandardDeviationMultiplier, 0) {
		return fmt.Errorf("%w: standard deviation multiplier must be finite, got %v", ErrInvalidParams, p.StandardDeviationMultiplier)
	}

	return nil
}

// MaxSilentBlocks is how many consecutive blocks of f span seconds.
// It is +Inf for Unbounded.
func MaxSilentBlocks(seconds float64, f audio.Format) float64 {
	if math.IsInf(seconds, 1) {
		return seconds
	}

	// seconds / (frames/rate), kept exact for whole-number rates
	return seconds * float64(f.SampleRate) / float64(f.FramesPerBuffer)
}
