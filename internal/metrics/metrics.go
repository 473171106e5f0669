// SPDX-License-Identifier: EPL-2.0

// Package metrics exports recorder activity to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ik5/speechcapture/endpoint"
	"github.com/ik5/speechcapture/recorder"
)

// Collector contains all Prometheus metrics of a recorder. It implements
// recorder.Observer.
type Collector struct {
	// Block metrics
	Blocks       prometheus.Counter
	SilentBlocks prometheus.Counter
	Amplitude    prometheus.Histogram

	// Capture metrics
	Captures      *prometheus.CounterVec
	CaptureBlocks prometheus.Histogram

	// Calibration metrics
	Calibrations prometheus.Counter
	MinEnergy    prometheus.Gauge

	CleanupFailures *prometheus.CounterVec
}

var _ recorder.Observer = (*Collector)(nil)

// New creates and registers all metrics with reg.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		Blocks: factory.NewCounter(prometheus.CounterOpts{
			Name: "speechcapture_blocks_total",
			Help: "Total number of blocks read while recording",
		}),
		SilentBlocks: factory.NewCounter(prometheus.CounterOpts{
			Name: "speechcapture_silent_blocks_total",
			Help: "Total number of blocks classified as silence",
		}),
		Amplitude: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "speechcapture_block_amplitude",
			Help:    "Mean absolute sample value of recorded blocks",
			Buckets: prometheus.ExponentialBuckets(10, 2, 12),
		}),
		Captures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "speechcapture_captures_total",
			Help: "Total number of finished captures by reason",
		}, []string{"reason"}),
		CaptureBlocks: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "speechcapture_capture_blocks",
			Help:    "Number of blocks held by a finished capture",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		Calibrations: factory.NewCounter(prometheus.CounterOpts{
			Name: "speechcapture_calibrations_total",
			Help: "Total number of ambient noise calibrations",
		}),
		MinEnergy: factory.NewGauge(prometheus.GaugeOpts{
			Name: "speechcapture_min_energy",
			Help: "Silence threshold set by the last calibration",
		}),
		CleanupFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "speechcapture_cleanup_failures_total",
			Help: "Total number of failed stream or device releases by operation",
		}, []string{"op"}),
	}
}

func (c *Collector) ObserveBlock(d endpoint.Decision) {
	c.Blocks.Inc()
	c.Amplitude.Observe(d.Amplitude)
	if d.Silent {
		c.SilentBlocks.Inc()
	}
}

func (c *Collector) ObserveFinish(reason recorder.FinishReason, blocks int) {
	c.Captures.WithLabelValues(reason.String()).Inc()
	c.CaptureBlocks.Observe(float64(blocks))
}

func (c *Collector) ObserveCalibration(cal endpoint.Calibration) {
	c.Calibrations.Inc()
	c.MinEnergy.Set(cal.MinEnergy)
}

func (c *Collector) ObserveCleanupFailure(op string) {
	c.CleanupFailures.WithLabelValues(op).Inc()
}
