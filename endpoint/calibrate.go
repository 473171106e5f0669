// SPDX-License-Identifier: EPL-2.0

package endpoint

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/ik5/speechcapture/audio"
)

// Calibration is the result of measuring ambient noise.
type Calibration struct {
	Blocks    int
	Mean      float64
	StdDev    float64
	MinEnergy float64
}

// RequiredBlocks is the (possibly fractional) number of blocks of f that
// span seconds. Calibration reads while its block count is below it.
func RequiredBlocks(seconds float64, f audio.Format) float64 {
	return seconds * float64(f.SampleRate) / float64(f.FramesPerBuffer)
}

// Threshold derives a minimum energy of mean + k*stddev from ambient
// amplitudes. The deviation is the population one (divided by N) and is 0
// for fewer than two amplitudes. The result never drops below 0.
func Threshold(amplitudes []float64, k float64) Calibration {
	c := Calibration{Blocks: len(amplitudes)}
	if len(amplitudes) == 0 {
		return c
	}

	var sum float64
	for _, a := range amplitudes {
		sum += a
	}
	c.Mean = sum / float64(len(amplitudes))

	if len(amplitudes) >= 2 {
		var sq float64
		for _, a := range amplitudes {
			d := a - c.Mean
			sq += d * d
		}
		c.StdDev = math.Sqrt(sq / float64(len(amplitudes)))
	}

	c.MinEnergy = max(0, c.Mean+k*c.StdDev)
	return c
}

// Measure reads blocks from a started stream until required blocks were
// read and returns their amplitudes. Cancelling ctx stops the stream so a
// blocked Read returns.
func Measure(ctx context.Context, stream audio.InputStream, required float64) ([]float64, error) {
	stopOnCancel := context.AfterFunc(ctx, func() { _ = stream.Stop() })
	defer stopOnCancel()

	amplitudes := make([]float64, 0, int(math.Ceil(required)))
	for float64(len(amplitudes)) < required {
		if err := ctx.Err(); err != nil {
			return amplitudes, err
		}

		block, err := stream.Read()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return amplitudes, ctxErr
			}
			return amplitudes, fmt.Errorf("read ambient block: %w", err)
		}

		a, err := Amplitude(block)
		if err != nil {
			return amplitudes, err
		}
		amplitudes = append(amplitudes, a)
	}

	return amplitudes, nil
}

// Calibrator measures ambient noise on a stream of its own.
type Calibrator struct {
	Device audio.Device
	Format audio.Format
	Logger *zap.Logger
}

// Run opens and starts a stream, samples seconds of ambient noise and
// derives the minimum energy with deviation multiplier k. The stream is
// always stopped and closed before Run returns; failures doing so are
// logged, not returned.
func (c *Calibrator) Run(ctx context.Context, seconds, k float64) (Calibration, error) {
	log := c.Logger
	if log == nil {
		log = zap.NewNop()
	}

	required := RequiredBlocks(seconds, c.Format)
	if !(required > 0) || math.IsInf(required, 0) {
		return Calibration{}, fmt.Errorf("%w: %v seconds", ErrNoAmbientBlocks, seconds)
	}

	stream, err := c.Device.Open(c.Format)
	if err != nil {
		return Calibration{}, fmt.Errorf("open ambient stream: %w", err)
	}

	defer func() {
		if err := errors.Join(stream.Stop(), stream.Close()); err != nil {
			log.Warn("releasing ambient stream", zap.Error(err))
		}
	}()

	if err := stream.Start(); err != nil {
		return Calibration{}, fmt.Errorf("start ambient stream: %w", err)
	}

	amplitudes, err := Measure(ctx, stream, required)
	if err != nil {
		return Calibration{}, err
	}

	for _, a := range amplitudes {
		log.Debug("ambient amplitude", zap.Float64("amplitude", a))
	}

	cal := Threshold(amplitudes, k)
	log.Debug("calibrated min energy",
		zap.Int("blocks", cal.Blocks),
		zap.Float64("mean", cal.Mean),
		zap.Float64("stddev", cal.StdDev),
		zap.Float64("min_energy", cal.MinEnergy),
	)

	return cal, nil
}
