// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-audio/wav"

	"github.com/ik5/speechcapture/audio"
	"github.com/ik5/speechcapture/formats/internal/intpcm"
)

// FileSink saves every utterance to Path, replacing what was there.
// The file is written next to Path first and renamed into place, so a
// failed save leaves the previous file intact.
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

	tmp, err := os.CreateTemp(filepath.Dir(s.Path), "."+filepath.Base(s.Path)+".*")
	if err != nil {
		return fmt.Errorf("creating %s: %w", s.Path, err)
	}

	if err := Encode(tmp, f, blocks); err != nil {
		return errors.Join(err, tmp.Close(), os.Remove(tmp.Name()))
	}

	if err := tmp.Close(); err != nil {
		return errors.Join(fmt.Errorf("closing %s: %w", tmp.Name(), err), os.Remove(tmp.Name()))
	}

	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return errors.Join(fmt.Errorf("replacing %s: %w", s.Path, err), os.Remove(tmp.Name()))
	}

	return nil
}

// Encode writes blocks through the go-audio encoder, which patches the
// chunk sizes once all data is written.
func Encode(w io.WriteSeeker, f audio.Format, blocks []audio.Block) error {
	enc := wav.NewEncoder(w, f.SampleRate, 8*audio.SampleWidth, f.Channels, pcmFormat)

	buf := intpcm.IntBuffer(audio.Join(blocks), f.Channels, f.SampleRate)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encoding samples: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("finishing wav: %w", err)
	}

	return nil
}

// StreamSink writes every utterance to W as a complete WAV stream. It suits
// pipes and sockets that cannot seek.
type StreamSink struct {
	W io.Writer
}

func (s StreamSink) Save(blocks []audio.Block, f audio.Format) error {
	return WriteBlocks(s.W, f, blocks)
}
