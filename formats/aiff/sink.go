// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/aiff"

	"github.com/ik5/speechcapture/audio"
	"github.com/ik5/speechcapture/formats/internal/intpcm"
)

// FileSink saves every utterance to Path as 16-bit big-endian AIFF.
type FileSink struct {
	Path string
}

func (s FileSink) Save(blocks []audio.Block, f audio.Format) error {
	if s.Path == "" {
		return ErrNoPath
	}
	if err := f.Validate(); err != nil {
		return err
	}

	file, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", s.Path, err)
	}

	enc := aiff.NewEncoder(file, f.SampleRate, 8*audio.SampleWidth, f.Channels)
	if err := enc.Write(intpcm.IntBuffer(audio.Join(blocks), f.Channels, f.SampleRate)); err != nil {
		return errors.Join(fmt.Errorf("encoding samples: %w", err), file.Close())
	}

	if err := enc.Close(); err != nil {
		return errors.Join(fmt.Errorf("finishing aiff: %w", err), file.Close())
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", s.Path, err)
	}

	return nil
}
