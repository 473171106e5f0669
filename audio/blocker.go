// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// Blocker cuts a SampleReader into fixed-size 16-bit blocks.
type Blocker struct {
	src  SampleReader
	size int
	buf  []float32
	done bool
}

// NewBlocker returns a Blocker producing blocks of size interleaved samples.
func NewBlocker(src SampleReader, size int) *Blocker {
	return &Blocker{
		src:  src,
		size: size,
		buf:  make([]float32, size),
	}
}

// Next returns the next block. The last block is zero-padded when the
// source ends mid-block; after that Next returns io.EOF.
func (b *Blocker) Next() (Block, error) {
	if b.done {
		return nil, io.EOF
	}

	filled := 0
	for filled < b.size {
		n, err := b.src.ReadSamples(b.buf[filled:])
		filled += n

		if errors.Is(err, io.EOF) {
			b.done = true
			break
		}
		if err != nil {
			return nil, fmt.Errorf("filling block: %w", err)
		}
		if n == 0 {
			// a reader returning nothing without EOF would spin forever
			return nil, io.ErrNoProgress
		}
	}

	if filled == 0 {
		return nil, io.EOF
	}

	block := make(Block, b.size)
	for i := range filled {
		block[i] = Float32ToInt16(b.buf[i])
	}

	return block, nil
}
