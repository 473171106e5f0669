// SPDX-License-Identifier: EPL-2.0

package endpoint

import "math"

// IsSilent decides whether a block of amplitude current is silence, given
// the amplitude of the block before it. A block is silent when it is quiet
// itself, or when it grows at most multiplier times over a previous block
// that was already quiet. A zero previous amplitude divides by 1.
func IsSilent(current, previous, minEnergy, multiplier float64) bool {
	if current <= minEnergy {
		return true
	}

	denom := previous
	if denom == 0 {
		denom = 1
	}

	return current/denom <= multiplier && previous <= minEnergy
}

// Decision is the outcome of observing one block.
type Decision struct {
	Amplitude      float64
	Previous       float64
	Silent         bool
	SilentBlocks   int
	EndOfUtterance bool
}

// Detector counts consecutive silent blocks and signals the end of an
// utterance once they span the configured silence timeout. It is not safe
// for concurrent use; one capture loop owns it.
type Detector struct {
	minEnergy  float64
	multiplier float64
	bounded    bool
	maxSilent  float64

	silent int
}

// NewDetector ends an utterance after maxSilent consecutive silent blocks,
// as computed by MaxSilentBlocks. +Inf never ends one.
func NewDetector(p Params, maxSilent float64) *Detector {
	return &Detector{
		minEnergy:  p.MinEnergy,
		multiplier: p.MaxSilenceMultiplier,
		bounded:    !math.IsInf(maxSilent, 1),
		maxSilent:  maxSilent,
	}
}

// MinEnergy is the threshold this detector was built with. Callers use it
// as the previous amplitude when there is no previous block.
func (d *Detector) MinEnergy() float64 { return d.minEnergy }

func (d *Detector) MaxSilentBlocks() float64 { return d.maxSilent }

func (d *Detector) SilentBlocks() int { return d.silent }

// Observe feeds the amplitude of the newest block and of the block before it.
func (d *Detector) Observe(current, previous float64) Decision {
	silent := IsSilent(current, previous, d.minEnergy, d.multiplier)
	if silent {
		d.silent++
	} else {
		d.silent = 0
	}

	return Decision{
		Amplitude:      current,
		Previous:       previous,
		Silent:         silent,
		SilentBlocks:   d.silent,
		EndOfUtterance: d.bounded && float64(d.silent) >= d.maxSilent,
	}
}

// Reset clears the silent block count.
func (d *Detector) Reset() { d.silent = 0 }
