// SPDX-License-Identifier: EPL-2.0

package file

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/ik5/speechcapture/audio"
	"github.com/ik5/speechcapture/formats/aiff"
	"github.com/ik5/speechcapture/formats/mp3"
	"github.com/ik5/speechcapture/formats/vorbis"
	"github.com/ik5/speechcapture/formats/wav"
)

// DefaultRegistry knows every decoder in formats/.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})

	return reg
}

// Device plays an audio file as if it was a microphone. The file is decoded
// once; every stream continues where the previous one stopped reading, the
// way time moves on for a live input.
type Device struct {
	path     string
	registry *audio.Registry
	paced    bool
	pad      bool
	log      *zap.Logger

	mu         sync.Mutex
	file       *os.File
	src        audio.SampleReader
	blocks     *audio.Blocker
	format     audio.Format
	eof        bool
	terminated bool
}

type Option func(*Device)

// Paced delivers blocks no faster than real time.
func Paced() Option {
	return func(d *Device) { d.paced = true }
}

// PadWithSilence makes streams deliver silent blocks once the file ended,
// instead of failing with io.EOF.
func PadWithSilence() Option {
	return func(d *Device) { d.pad = true }
}

// WithRegistry replaces DefaultRegistry.
func WithRegistry(reg *audio.Registry) Option {
	return func(d *Device) {
		if reg != nil {
			d.registry = reg
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(d *Device) {
		if l != nil {
			d.log = l
		}
	}
}

func New(path string, opts ...Option) *Device {
	d := &Device{
		path:     path,
		registry: DefaultRegistry(),
		log:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
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

	if d.blocks == nil {
		if err := d.loadLocked(f); err != nil {
			return nil, err
		}
	} else if d.format != f {
		return nil, fmt.Errorf("%w: have %+v, want %+v", ErrFormatMismatch, d.format, f)
	}

	return &stream{dev: d, format: f}, nil
}

// loadLocked builds decode -> resample -> mix -> block for f.
func (d *Device) loadLocked(f audio.Format) error {
	dec, err := d.registry.ForPath(d.path)
	if err != nil {
		return fmt.Errorf("%s: %w", d.path, err)
	}

	file, err := os.Open(d.path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", d.path, err)
	}

	src, err := dec.Decode(file)
	if err != nil {
		return errors.Join(fmt.Errorf("decoding %s: %w", d.path, err), file.Close())
	}

	d.log.Debug("decoding input file",
		zap.String("path", d.path),
		zap.Int("sample_rate", src.SampleRate()),
		zap.Int("channels", src.Channels()),
	)

	var pipeline audio.SampleReader = src
	if src.SampleRate() != f.SampleRate {
		pipeline = audio.NewResampler(pipeline, f.SampleRate)
	}

	switch {
	case src.Channels() == f.Channels:
	case f.Channels == 1:
		pipeline = audio.NewMonoMixer(pipeline)
	default:
		return errors.Join(
			fmt.Errorf("%w: file has %d, format wants %d", ErrChannelMismatch, src.Channels(), f.Channels),
			src.Close(),
			file.Close(),
		)
	}

	d.file = file
	d.src = pipeline
	d.blocks = audio.NewBlocker(pipeline, f.SamplesPerBlock())
	d.format = f

	return nil
}

func (d *Device) next(f audio.Format) (audio.Block, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.terminated {
		return nil, ErrTerminated
	}

	if !d.eof {
		b, err := d.blocks.Next()
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading %s: %w", d.path, err)
		}

		d.eof = true
		d.log.Debug("input file ended", zap.String("path", d.path), zap.Bool("pad", d.pad))
	}

	if d.pad {
		return make(audio.Block, f.SamplesPerBlock()), nil
	}

	return nil, io.EOF
}

// Terminate closes the file. Streams fail with ErrTerminated afterwards.
func (d *Device) Terminate() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.terminated {
		return nil
	}
	d.terminated = true

	if d.src == nil {
		return nil
	}

	err := errors.Join(d.src.Close(), d.file.Close())
	d.src, d.file, d.blocks = nil, nil, nil

	if err != nil {
		return fmt.Errorf("closing %s: %w", d.path, err)
	}

	return nil
}
