// SPDX-License-Identifier: EPL-2.0

package speechcapture

import (
	"context"
	"errors"
	"fmt"

	"github.com/ik5/speechcapture/audio"
	"github.com/ik5/speechcapture/recorder"
)

type captureConfig struct {
	calibrate float64
	opts      []recorder.Option
}

// CaptureOption configures CaptureUtterance.
type CaptureOption func(*captureConfig)

// WithCalibration samples seconds of ambient noise before recording and
// uses it as the silence threshold.
func WithCalibration(seconds float64) CaptureOption {
	return func(c *captureConfig) { c.calibrate = seconds }
}

// WithRecorderOptions passes options to the underlying recorder.
func WithRecorderOptions(opts ...recorder.Option) CaptureOption {
	return func(c *captureConfig) { c.opts = append(c.opts, opts...) }
}

// CaptureUtterance records one utterance from dev and saves it to sink.
// It returns once the utterance ended, ctx was canceled or the device
// failed. The device is terminated before CaptureUtterance returns.
func CaptureUtterance(ctx context.Context, dev audio.Device, sink recorder.Sink, f audio.Format, opts ...CaptureOption) error {
	var cfg captureConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	rec, err := recorder.New(dev, sink, f, cfg.opts...)
	if err != nil {
		return errors.Join(err, dev.Terminate())
	}
	defer rec.Terminate()

	if cfg.calibrate > 0 {
		if _, err := rec.Calibrate(ctx, cfg.calibrate); err != nil {
			return fmt.Errorf("calibrating: %w", err)
		}
	}

	return rec.Record(ctx)
}
