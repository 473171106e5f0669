// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ik5/speechcapture/audio"
	"github.com/ik5/speechcapture/internal/audiotest"
)

func TestBlocker_PadsLastBlock(t *testing.T) {
	t.Parallel()

	b := audio.NewBlocker(audiotest.NewConstantSource(16000, 1, 2500, 0.5), 1000)

	for i := range 3 {
		block, err := b.Next()
		if err != nil {
			t.Fatalf("block %d: Next() error = %v", i, err)
		}
		if len(block) != 1000 {
			t.Fatalf("block %d: len = %d, want 1000", i, len(block))
		}
		if block[0] != 16383 {
			t.Errorf("block %d: first sample = %d, want 16383", i, block[0])
		}

		if i == 2 {
			if block[499] != 16383 || block[500] != 0 || block[999] != 0 {
				t.Errorf("last block not zero-padded after 500 samples")
			}
		}
	}

	if _, err := b.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next() after last block error = %v, want EOF", err)
	}
}

func TestBlocker_ExactMultiple(t *testing.T) {
	t.Parallel()

	b := audio.NewBlocker(audiotest.NewSilentSource(16000, 1, 2000), 1000)

	count := 0
	for {
		_, err := b.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		count++
	}

	if count != 2 {
		t.Errorf("got %d blocks, want 2", count)
	}
}

type stalledSource struct{ *audiotest.Source }

func (stalledSource) ReadSamples([]float32) (int, error) { return 0, nil }

func TestBlocker_NoProgress(t *testing.T) {
	t.Parallel()

	b := audio.NewBlocker(stalledSource{audiotest.NewSilentSource(8000, 1, 10)}, 10)

	if _, err := b.Next(); !errors.Is(err, io.ErrNoProgress) {
		t.Errorf("Next() error = %v, want %v", err, io.ErrNoProgress)
	}
}

type failingSource struct {
	*audiotest.Source
	err error
}

func (s failingSource) ReadSamples([]float32) (int, error) { return 0, s.err }

func TestBlocker_WrapsSourceError(t *testing.T) {
	t.Parallel()

	readErr := errors.New("device unplugged")
	b := audio.NewBlocker(failingSource{audiotest.NewSilentSource(8000, 1, 10), readErr}, 10)

	_, err := b.Next()
	if !errors.Is(err, readErr) {
		t.Fatalf("Next() error = %v, want %v", err, readErr)
	}
	if !strings.HasPrefix(err.Error(), "filling block: ") {
		t.Errorf("Next() error = %q, want it prefixed with the operation", err)
	}
}
