// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"sync"

	"github.com/ik5/speechcapture/audio"
)

// Sink records every save it receives.
type Sink struct {
	Err error

	mu      sync.Mutex
	saves   [][]audio.Block
	formats []audio.Format
}

func (s *Sink) Save(blocks []audio.Block, f audio.Format) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saves = append(s.saves, append([]audio.Block(nil), blocks...))
	s.formats = append(s.formats, f)
	return s.Err
}

// Calls is the number of Save invocations.
func (s *Sink) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.saves)
}

// Last returns the blocks of the most recent save, or nil.
func (s *Sink) Last() []audio.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.saves) == 0 {
		return nil
	}

	return s.saves[len(s.saves)-1]
}

// LastFormat returns the format of the most recent save.
func (s *Sink) LastFormat() audio.Format {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.formats) == 0 {
		return audio.Format{}
	}

	return s.formats[len(s.formats)-1]
}
