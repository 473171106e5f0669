// SPDX-License-Identifier: EPL-2.0

package endpoint

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ik5/speechcapture/audio"
	"github.com/ik5/speechcapture/internal/audiotest"
)

func TestThreshold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		amplitudes []float64
		k          float64
		want       float64
	}{
		{"empty", nil, 1.5, 0},
		{"single block", []float64{42}, 1.5, 42},
		{"constant", []float64{7, 7, 7}, 3, 7},
		{"spread", []float64{2, 4, 4, 4, 5, 5, 7, 9}, 1.5, 5 + 1.5*2},
		{"zero multiplier", []float64{2, 4, 4, 4, 5, 5, 7, 9}, 0, 5},
		{"clamped", []float64{0, 10}, -2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Threshold(tt.amplitudes, tt.k)
			if math.Abs(got.MinEnergy-tt.want) > 1e-9 {
				t.Errorf("Threshold().MinEnergy = %v, want %v", got.MinEnergy, tt.want)
			}
			if got.Blocks != len(tt.amplitudes) {
				t.Errorf("Threshold().Blocks = %d, want %d", got.Blocks, len(tt.amplitudes))
			}
		})
	}
}

func TestRequiredBlocks(t *testing.T) {
	t.Parallel()

	if got := RequiredBlocks(1, audio.DefaultFormat()); got != 10 {
		t.Errorf("RequiredBlocks(1) = %v, want 10", got)
	}
	if got := RequiredBlocks(0.25, audio.DefaultFormat()); got != 2.5 {
		t.Errorf("RequiredBlocks(0.25) = %v, want 2.5", got)
	}
}

func TestCalibrator_Run(t *testing.T) {
	t.Parallel()

	f := audio.DefaultFormat()
	dev := audiotest.NewDevice(audiotest.Blocks(f, 100, 200, 300, 400)...)
	c := &Calibrator{Device: dev, Format: f}

	// reads while count < 2.5, so 3 reads
	cal, err := c.Run(context.Background(), 0.25, 1)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := 200 + math.Sqrt(20000.0/3)
	if cal.Blocks != 3 {
		t.Errorf("Blocks = %d, want 3", cal.Blocks)
	}
	if math.Abs(cal.MinEnergy-want) > 1e-9 {
		t.Errorf("MinEnergy = %v, want %v", cal.MinEnergy, want)
	}
	if dev.Reads() != 3 {
		t.Errorf("Reads() = %d, want 3", dev.Reads())
	}
	if dev.Live() != 0 {
		t.Errorf("Live() = %d, want 0", dev.Live())
	}
}

func TestCalibrator_RunErrors(t *testing.T) {
	t.Parallel()

	f := audio.DefaultFormat()
	boom := errors.New("boom")

	tests := []struct {
		name    string
		seconds float64
		setup   func(d *audiotest.Device)
		want    error
	}{
		{"zero seconds", 0, nil, ErrNoAmbientBlocks},
		{"negative seconds", -1, nil, ErrNoAmbientBlocks},
		{"infinite seconds", math.Inf(1), nil, ErrNoAmbientBlocks},
		{"open fails", 1, func(d *audiotest.Device) { d.OpenErr = boom }, boom},
		{"start fails", 1, func(d *audiotest.Device) { d.StartErr = boom }, boom},
		{"read fails", 1, func(d *audiotest.Device) { d.ReadErr = boom }, boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dev := audiotest.NewDevice()
			if tt.setup != nil {
				tt.setup(dev)
			}
			c := &Calibrator{Device: dev, Format: f}

			if _, err := c.Run(context.Background(), tt.seconds, 1.5); !errors.Is(err, tt.want) {
				t.Errorf("Run() error = %v, want %v", err, tt.want)
			}
			if dev.Live() != 0 {
				t.Errorf("Live() = %d, want 0", dev.Live())
			}
		})
	}
}

func TestMeasure_Canceled(t *testing.T) {
	t.Parallel()

	f := audio.DefaultFormat()
	dev := audiotest.NewDevice(audiotest.Block(f, 10))
	stream, err := dev.Open(f)
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		dev.WaitReads(2, audiotestTimeout)
		cancel()
	}()

	amps, err := Measure(ctx, stream, 10)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Measure() error = %v, want %v", err, context.Canceled)
	}
	if len(amps) != 1 {
		t.Errorf("Measure() returned %d amplitudes, want 1", len(amps))
	}
}
