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

type stream struct {
	pa  *portaudio.Stream
	log *zap.Logger

	// guards buf, which PortAudio fills on every Read
	readMu sync.Mutex
	buf    []int16

	mu      sync.Mutex
	started bool
	closed  bool
}

func (s *stream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return audio.ErrStreamClosed
	}
	if s.started {
		return nil
	}

	if err := s.pa.Start(); err != nil {
		return fmt.Errorf("starting portaudio stream: %w", err)
	}
	s.started = true

	return nil
}

// Read blocks until PortAudio filled one block. An input overflow drops
// audio inside PortAudio but still yields a block, so it is only logged.
func (s *stream) Read() (audio.Block, error) {
	if err := s.state(); err != nil {
		return nil, err
	}

	s.readMu.Lock()
	defer s.readMu.Unlock()

	err := s.pa.Read()
	if err != nil && !errors.Is(err, portaudio.InputOverflowed) {
		// Stop or Close while blocked surface as a PortAudio error
		if stateErr := s.state(); stateErr != nil {
			return nil, stateErr
		}
		return nil, fmt.Errorf("reading portaudio stream: %w", err)
	}
	if err != nil {
		s.log.Debug("input overflowed")
	}

	return audio.Block(s.buf).Clone(), nil
}

func (s *stream) state() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return audio.ErrStreamClosed
	}
	if !s.started {
		return audio.ErrStreamStopped
	}

	return nil
}

// Stop aborts the stream so that a blocked Read returns at once.
func (s *stream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return audio.ErrStreamClosed
	}
	if !s.started {
		return nil
	}
	s.started = false

	if err := s.pa.Abort(); err != nil {
		return fmt.Errorf("aborting portaudio stream: %w", err)
	}

	return nil
}

func (s *stream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true

	var stopErr error
	if s.started {
		s.started = false
		stopErr = s.pa.Abort()
	}
	s.mu.Unlock()

	// wait for a Read that is still inside PortAudio before freeing the stream
	s.readMu.Lock()
	defer s.readMu.Unlock()

	if err := errors.Join(stopErr, s.pa.Close()); err != nil {
		return fmt.Errorf("closing portaudio stream: %w", err)
	}

	return nil
}
