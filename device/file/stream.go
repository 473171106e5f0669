// SPDX-License-Identifier: EPL-2.0

package file

import (
	"sync"
	"time"

	"github.com/ik5/speechcapture/audio"
)

type stream struct {
	dev    *Device
	format audio.Format

	mu      sync.Mutex
	started bool
	closed  bool
	halt    chan struct{}
	due     time.Time // when the next paced block may be delivered
}

func (s *stream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return audio.ErrStreamClosed
	}
	if !s.started {
		s.started = true
		s.halt = make(chan struct{})
		s.due = time.Now()
	}

	return nil
}

func (s *stream) Read() (audio.Block, error) {
	s.mu.Lock()
	if err := s.readableLocked(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	halt := s.halt
	due := s.due
	s.due = s.due.Add(s.format.BlockDuration())
	s.mu.Unlock()

	if s.dev.paced {
		if wait := time.Until(due); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-halt:
				timer.Stop()

				s.mu.Lock()
				defer s.mu.Unlock()
				return nil, s.readableLocked()
			}
		}
	}

	return s.dev.next(s.format)
}

func (s *stream) readableLocked() error {
	if s.closed {
		return audio.ErrStreamClosed
	}
	if !s.started {
		return audio.ErrStreamStopped
	}

	return nil
}

func (s *stream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return audio.ErrStreamClosed
	}
	if s.started {
		s.started = false
		close(s.halt)
	}

	return nil
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

	return nil
}
