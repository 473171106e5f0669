// SPDX-License-Identifier: EPL-2.0

package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ik5/speechcapture/audio"
	"github.com/ik5/speechcapture/endpoint"
	"github.com/ik5/speechcapture/internal/audiotest"
	"github.com/ik5/speechcapture/recorder"
)

func TestCollector_Observe(t *testing.T) {
	t.Parallel()

	c := New(prometheus.NewRegistry())

	c.ObserveBlock(endpoint.Decision{Amplitude: 20, Silent: true})
	c.ObserveBlock(endpoint.Decision{Amplitude: 3000})
	c.ObserveFinish(recorder.FinishStopped, 2)
	c.ObserveCalibration(endpoint.Calibration{MinEnergy: 321})
	c.ObserveCleanupFailure("close")

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"blocks", testutil.ToFloat64(c.Blocks), 2},
		{"silent blocks", testutil.ToFloat64(c.SilentBlocks), 1},
		{"stopped captures", testutil.ToFloat64(c.Captures.WithLabelValues("stopped")), 1},
		{"calibrations", testutil.ToFloat64(c.Calibrations), 1},
		{"min energy", testutil.ToFloat64(c.MinEnergy), 321},
		{"close failures", testutil.ToFloat64(c.CleanupFailures.WithLabelValues("close")), 1},
	}
	for _, ch := range checks {
		if ch.got != ch.want {
			t.Errorf("%s = %v, want %v", ch.name, ch.got, ch.want)
		}
	}

	if n := testutil.CollectAndCount(c.Amplitude); n != 1 {
		t.Errorf("amplitude histogram collected %d series, want 1", n)
	}
}

func TestCollector_WithRecorder(t *testing.T) {
	t.Parallel()

	f := audio.DefaultFormat()
	dev := audiotest.NewDevice(audiotest.Blocks(f, audiotest.Repeat(20, 15)...)...)
	c := New(prometheus.NewRegistry())

	rec, err := recorder.New(dev, &audiotest.Sink{}, f, recorder.WithObserver(c))
	if err != nil {
		t.Fatalf("recorder.New() error = %v", err)
	}
	defer rec.Terminate()

	if _, err := rec.Calibrate(context.Background(), 0.5); err != nil {
		t.Fatalf("Calibrate() error = %v", err)
	}
	if err := rec.Record(context.Background()); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if got := testutil.ToFloat64(c.MinEnergy); got != 20 {
		t.Errorf("min energy = %v, want 20", got)
	}
	if got := testutil.ToFloat64(c.Blocks); got != 10 {
		t.Errorf("blocks = %v, want 10", got)
	}
	if got := testutil.ToFloat64(c.Captures.WithLabelValues("end_of_utterance")); got != 1 {
		t.Errorf("end of utterance captures = %v, want 1", got)
	}
}
