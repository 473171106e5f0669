// SPDX-License-Identifier: EPL-2.0

// Package endpoint decides when a speaker has stopped talking.
//
// Loudness is measured per block as the mean absolute sample value
// (Amplitude). A block is silent when its amplitude is at or below the
// minimum energy, or when it is at most MaxSilenceMultiplier times the
// previous block's amplitude while that previous block was itself quiet:
//
//	silent := a <= minEnergy || (a/p <= multiplier && p <= minEnergy)
//
// A Detector counts consecutive silent blocks. When the count reaches
// MaxSilentBlocks (the silence timeout expressed in blocks) the decision
// carries EndOfUtterance. With an Unbounded timeout it never does.
//
// # Calibration
//
// The minimum energy can be derived from the room instead of configured:
//
//	cal, err := (&endpoint.Calibrator{Device: dev, Format: f}).Run(ctx, 1, 1.5)
//	// cal.MinEnergy == mean + 1.5*stddev of one second of ambient amplitudes
//
// The deviation is the population standard deviation.
package endpoint
