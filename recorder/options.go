// SPDX-License-Identifier: EPL-2.0

package recorder

import (
	"go.uber.org/zap"

	"github.com/ik5/speechcapture/audio"
	"github.com/ik5/speechcapture/endpoint"
)

// Sink persists the blocks of a finished capture, in order.
type Sink interface {
	Save(blocks []audio.Block, f audio.Format) error
}

// Observer is notified about capture progress. Calls for a block happen on
// the capture goroutine; implementations must be quick and safe for
// concurrent use.
type Observer interface {
	ObserveBlock(d endpoint.Decision)
	ObserveFinish(reason FinishReason, blocks int)
	ObserveCalibration(c endpoint.Calibration)
	ObserveCleanupFailure(op string)
}

type nopObserver struct{}

func (nopObserver) ObserveBlock(endpoint.Decision)          {}
func (nopObserver) ObserveFinish(FinishReason, int)         {}
func (nopObserver) ObserveCalibration(endpoint.Calibration) {}
func (nopObserver) ObserveCleanupFailure(string)            {}

type Option func(*Recorder)

// WithParams replaces endpoint.DefaultParams.
func WithParams(p endpoint.Params) Option {
	return func(r *Recorder) { r.params = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Recorder) {
		if l != nil {
			r.log = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(r *Recorder) {
		if o != nil {
			r.obs = o
		}
	}
}
