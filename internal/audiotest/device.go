// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"sync"
	"time"

	"github.com/ik5/speechcapture/audio"
)

// Block builds a block of f whose mean absolute sample value is level.
// Samples alternate in sign.
func Block(f audio.Format, level int16) audio.Block {
	b := make(audio.Block, f.SamplesPerBlock())
	for i := range b {
		if i%2 == 0 {
			b[i] = level
		} else {
			b[i] = -level
		}
	}

	return b
}

// Blocks builds one block per level.
func Blocks(f audio.Format, levels ...int16) []audio.Block {
	out := make([]audio.Block, len(levels))
	for i, l := range levels {
		out[i] = Block(f, l)
	}

	return out
}

// Repeat returns level n times.
func Repeat(level int16, n int) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = level
	}

	return out
}

// Device is a scripted audio.Device. Streams share one script: each Read
// hands out the next scripted block. Once the script runs out, Read returns
// ReadErr if set, or else blocks until the stream is stopped or closed.
type Device struct {
	// Errors injected into the matching calls.
	OpenErr      error
	StartErr     error
	ReadErr      error
	StopErr      error
	CloseErr     error
	TerminateErr error

	mu     sync.Mutex
	script []audio.Block
	next   int

	opens      int
	reads      int
	stops      int
	closes     int
	terminates int
	live       int
}

func NewDevice(script ...audio.Block) *Device {
	return &Device{script: script}
}

// Append extends the script.
func (d *Device) Append(blocks ...audio.Block) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.script = append(d.script, blocks...)
}

func (d *Device) Open(f audio.Format) (audio.InputStream, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.opens++
	if d.OpenErr != nil {
		return nil, d.OpenErr
	}
	d.live++

	return &stream{dev: d}, nil
}

func (d *Device) Terminate() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.terminates++
	return d.TerminateErr
}

func (d *Device) Opens() int      { return d.count(&d.opens) }
func (d *Device) Reads() int      { return d.count(&d.reads) }
func (d *Device) Stops() int      { return d.count(&d.stops) }
func (d *Device) Closes() int     { return d.count(&d.closes) }
func (d *Device) Terminates() int { return d.count(&d.terminates) }

// Live is the number of opened streams that were not closed yet.
func (d *Device) Live() int { return d.count(&d.live) }

func (d *Device) count(n *int) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return *n
}

// WaitReads polls until at least n reads were issued or timeout passes.
func (d *Device) WaitReads(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if d.Reads() >= n {
			return true
		}
		time.Sleep(time.Millisecond)
	}

	return d.Reads() >= n
}

func (d *Device) take() (audio.Block, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.reads++
	if d.next >= len(d.script) {
		return nil, false
	}

	b := d.script[d.next]
	d.next++
	return b, true
}

type stream struct {
	dev *Device

	mu      sync.Mutex
	started bool
	closed  bool
	halt    chan struct{}
}

func (s *stream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return audio.ErrStreamClosed
	}
	if s.dev.StartErr != nil {
		return s.dev.StartErr
	}
	if !s.started {
		s.started = true
		s.halt = make(chan struct{})
	}

	return nil
}

func (s *stream) Read() (audio.Block, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, audio.ErrStreamClosed
	}
	if !s.started {
		s.mu.Unlock()
		return nil, audio.ErrStreamStopped
	}
	halt := s.halt
	s.mu.Unlock()

	if b, ok := s.dev.take(); ok {
		return b, nil
	}

	if s.dev.ReadErr != nil {
		return nil, s.dev.ReadErr
	}

	<-halt

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, audio.ErrStreamClosed
	}

	return nil, audio.ErrStreamStopped
}

func (s *stream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dev.mu.Lock()
	s.dev.stops++
	s.dev.mu.Unlock()

	if s.closed {
		return audio.ErrStreamClosed
	}
	if s.started {
		s.started = false
		close(s.halt)
	}

	return s.dev.StopErr
}

func (s *stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.started {
		s.started = false
		close(s.halt)
	}

	s.dev.mu.Lock()
	s.dev.closes++
	s.dev.live--
	s.dev.mu.Unlock()

	return s.dev.CloseErr
}
