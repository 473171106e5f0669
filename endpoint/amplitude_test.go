// SPDX-License-Identifier: EPL-2.0

package endpoint

import (
	"errors"
	"testing"
	"time"

	"github.com/ik5/speechcapture/audio"
)

const audiotestTimeout = 2 * time.Second

func TestAmplitude(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		block audio.Block
		want  float64
	}{
		{"silence", audio.Block{0, 0, 0, 0}, 0},
		{"alternating", audio.Block{20, -20, 20, -20}, 20},
		{"mixed", audio.Block{1, -2, 3, -6}, 3},
		{"extremes", audio.Block{-32768, 32767}, 32767.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Amplitude(tt.block)
			if err != nil {
				t.Fatalf("Amplitude() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Amplitude() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAmplitude_Empty(t *testing.T) {
	t.Parallel()

	if _, err := Amplitude(nil); !errors.Is(err, ErrInvalidBlock) {
		t.Errorf("Amplitude(nil) error = %v, want %v", err, ErrInvalidBlock)
	}
}

func TestCheckBlock(t *testing.T) {
	t.Parallel()

	f := audio.Format{Channels: 2, SampleRate: 8000, FramesPerBuffer: 4}

	if err := CheckBlock(make(audio.Block, 8), f); err != nil {
		t.Errorf("CheckBlock(8 samples) error = %v", err)
	}
	if err := CheckBlock(make(audio.Block, 4), f); !errors.Is(err, ErrInvalidBlock) {
		t.Errorf("CheckBlock(4 samples) error = %v, want %v", err, ErrInvalidBlock)
	}
}

func TestParams_Validate(t *testing.T) {
	t.Parallel()

	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("DefaultParams().Validate() error = %v", err)
	}

	bad := []func(p *Params){
		func(p *Params) { p.MinEnergy = -1 },
		func(p *Params) { p.MaxSecondsOfSilence = -1 },
		func(p *Params) { p.MaxSilenceMultiplier = 0 },
	}

	for i, mutate := range bad {
		p := DefaultParams()
		mutate(&p)
		if err := p.Validate(); !errors.Is(err, ErrInvalidParams) {
			t.Errorf("case %d: Validate() error = %v, want %v", i, err, ErrInvalidParams)
		}
	}

	p := DefaultParams()
	p.MaxSecondsOfSilence = Unbounded
	if err := p.Validate(); err != nil {
		t.Errorf("unbounded Validate() error = %v", err)
	}
}
