// SPDX-License-Identifier: EPL-2.0

package portaudio

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"

	"github.com/ik5/speechcapture/audio"
)

var ErrTerminated = errors.New("portaudio device is terminated")

// Device captures from the default input device through PortAudio's
// blocking API.
type Device struct {
	log *zap.Logger

	mu         sync.Mutex
	terminated bool
}

type Option func(*Device)

func WithLogger(l *zap.Logger) Option {
	return func(d *Device) {
		if l != nil {
			d.log = l
		}
	}
}

// New initializes PortAudio. Every successful New must be paired with
// Terminate.
func New(opts ...Option) (*Device, error) {
	d := &Device{log: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initializing portaudio: %w", err)
	}

	return d, nil
}

func (d *Device) Open(f audio.Format) (audio.InputStream, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.terminated {
		return nil, ErrTerminated
	}

	buf := make([]int16, f.SamplesPerBlock())
	pa, err := portaudio.OpenDefaultStream(f.Channels, 0, float64(f.SampleRate), f.FramesPerBuffer, buf)
	if err != nil {
		return nil, fmt.Errorf("opening default input: %w", err)
	}

	d.log.Debug("opened default input",
		zap.Int("channels", f.Channels),
		zap.Int("sample_rate", f.SampleRate),
		zap.Int("frames_per_buffer", f.FramesPerBuffer),
	)

	return &stream{pa: pa, buf: buf, log: d.log}, nil
}

// Terminate releases PortAudio. Calls after the first are no-ops.
func (d *Device) Terminate() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.terminated {
		return nil
	}
	d.terminated = true

	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("terminating portaudio: %w", err)
	}

	return nil
}
