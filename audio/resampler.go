// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// Resampler streams from src to a target sample rate using cubic interpolation.
// Works on interleaved samples; preserves channel count.
// A one-pole low-pass filter runs on the input when downsampling.
type Resampler struct {
	src      SampleReader
	rate     int
	step     float64 // source frames consumed per output frame
	channels int

	// window holds four consecutive source frames: t-1, t0, t+1, t+2.
	window [4][]float32
	valid  [4]bool
	primed bool

	// position between window[1] and window[2], in source frames
	pos float64

	frame []float32
	eof   bool

	lowpass bool
	alpha   float32
	state   []float32
}

func NewResampler(src SampleReader, rate int) *Resampler {
	channels := src.Channels()

	r := &Resampler{
		src:      src,
		rate:     rate,
		step:     float64(src.SampleRate()) / float64(rate),
		channels: channels,
		frame:    make([]float32, channels),
		state:    make([]float32, channels),
	}

	if r.step > 1.0 {
		r.lowpass = true
		r.alpha = 0.5
	}

	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.rate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("closing resampler source: %w", err)
	}

	return nil
}

// prime fills the window with the first four frames, duplicating the last
// one when the source is shorter than that.
func (r *Resampler) prime() error {
	for i := range r.window {
		n, err := r.src.ReadSamples(r.frame)
		if n > 0 {
			copy(r.window[i], r.frame[:n])
			r.valid[i] = true

			if i == 0 && r.lowpass {
				copy(r.state, r.frame[:n])
			}
		}

		if errors.Is(err, io.EOF) {
			r.eof = true
			if !r.valid[0] {
				return io.EOF
			}

			last := i
			if !r.valid[i] {
				last = i - 1
			}
			for j := last + 1; j < len(r.window); j++ {
				copy(r.window[j], r.window[last])
				r.valid[j] = true
			}
			break
		}

		if err != nil {
			return fmt.Errorf("priming resampler: %w", err)
		}
	}

	r.primed = true
	return nil
}

// advance slides the window by one source frame.
func (r *Resampler) advance() error {
	if r.eof {
		return io.EOF
	}

	r.window[0], r.window[1], r.window[2], r.window[3] = r.window[1], r.window[2], r.window[3], r.window[0]
	r.valid[0], r.valid[1], r.valid[2] = r.valid[1], r.valid[2], r.valid[3]

	n, err := r.src.ReadSamples(r.frame)
	r.valid[3] = n > 0
	if n > 0 {
		next := r.window[3]
		copy(next, r.frame[:n])

		if r.lowpass {
			for c := range next {
				next[c] = r.alpha*next[c] + (1-r.alpha)*r.state[c]
				r.state[c] = next[c]
			}
		}
	}

	if errors.Is(err, io.EOF) {
		r.eof = true
		if !r.valid[3] {
			return io.EOF
		}
		return nil
	}

	if err != nil {
		return fmt.Errorf("advancing resampler: %w", err)
	}

	return nil
}

func (r *Resampler) interpolate(out []float32, x float32) {
	for c := range out {
		y1, y2 := r.window[1][c], r.window[2][c]

		y0, y3 := y1, y2
		if r.valid[0] {
			y0 = r.window[0][c]
		}
		if r.valid[3] {
			y3 = r.window[3][c]
		}

		out[c] = cubicInterpolate(y0, y1, y2, y3, x)
	}
}

// ReadSamples produces dst samples at the target rate.
// dst length must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	frames := len(dst) / r.channels
	written := 0

	for written < frames {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		if !r.valid[1] || !r.valid[2] {
			return written * r.channels, io.EOF
		}

		off := written * r.channels
		r.interpolate(dst[off:off+r.channels], float32(r.pos))

		written++
		r.pos += r.step
	}

	return written * r.channels, nil
}
