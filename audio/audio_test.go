// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/ik5/speechcapture/audio"
	"github.com/ik5/speechcapture/internal/audiotest"
)

type decoderFunc func(r io.Reader) (audio.SampleReader, error)

func (f decoderFunc) Decode(r io.Reader) (audio.SampleReader, error) { return f(r) }

func TestRegistry(t *testing.T) {
	t.Parallel()

	reg := audio.NewRegistry()
	wav := decoderFunc(func(io.Reader) (audio.SampleReader, error) {
		return audiotest.NewSilentSource(8000, 1, 10), nil
	})
	reg.Register("WAV", wav)

	if _, ok := reg.Get("wav"); !ok {
		t.Error("Get(wav) not found after Register(WAV)")
	}
	if _, ok := reg.Get("mp3"); ok {
		t.Error("Get(mp3) found without Register")
	}

	if _, err := reg.ForPath("/tmp/take.Wav"); err != nil {
		t.Errorf("ForPath(take.Wav) error = %v", err)
	}
	if _, err := reg.ForPath("/tmp/take.flac"); !errors.Is(err, audio.ErrUnknownFormat) {
		t.Errorf("ForPath(take.flac) error = %v, want %v", err, audio.ErrUnknownFormat)
	}
	if _, err := reg.ForPath("noext"); !errors.Is(err, audio.ErrUnknownFormat) {
		t.Errorf("ForPath(noext) error = %v, want %v", err, audio.ErrUnknownFormat)
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	f := audio.DefaultFormat()
	if err := f.Validate(); err != nil {
		t.Fatalf("DefaultFormat().Validate() error = %v", err)
	}

	if f.SamplesPerBlock() != 1600 {
		t.Errorf("SamplesPerBlock() = %d, want 1600", f.SamplesPerBlock())
	}
	if f.BlockSeconds() != 0.1 {
		t.Errorf("BlockSeconds() = %v, want 0.1", f.BlockSeconds())
	}
	if f.BlockDuration() != 100*time.Millisecond {
		t.Errorf("BlockDuration() = %v, want 100ms", f.BlockDuration())
	}
	if f.SampleWidth() != 2 {
		t.Errorf("SampleWidth() = %d, want 2", f.SampleWidth())
	}

	stereo := audio.Format{Channels: 2, SampleRate: 44100, FramesPerBuffer: 1024}
	if stereo.SamplesPerBlock() != 2048 {
		t.Errorf("stereo SamplesPerBlock() = %d, want 2048", stereo.SamplesPerBlock())
	}

	for _, bad := range []audio.Format{
		{Channels: 0, SampleRate: 16000, FramesPerBuffer: 1600},
		{Channels: 1, SampleRate: 0, FramesPerBuffer: 1600},
		{Channels: 1, SampleRate: 16000, FramesPerBuffer: -1},
	} {
		if err := bad.Validate(); !errors.Is(err, audio.ErrInvalidFormat) {
			t.Errorf("Validate(%+v) error = %v, want %v", bad, err, audio.ErrInvalidFormat)
		}
	}
}

func TestBlock(t *testing.T) {
	t.Parallel()

	b := audio.Block{1, -1, 256}

	c := b.Clone()
	c[0] = 99
	if b[0] != 1 {
		t.Error("Clone() shares memory with the original")
	}

	got := b.AppendBytes([]byte{0xAA})
	want := []byte{0xAA, 0x01, 0x00, 0xFF, 0xFF, 0x00, 0x01}
	if string(got) != string(want) {
		t.Errorf("AppendBytes() = % x, want % x", got, want)
	}

	joined := audio.Join([]audio.Block{{1, 2}, nil, {3}})
	if len(joined) != 3 || joined[0] != 1 || joined[2] != 3 {
		t.Errorf("Join() = %v, want [1 2 3]", joined)
	}
}

func TestPCMConversion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float32
		want int16
	}{
		{0, 0},
		{1, 32767},
		{-1, -32767},
		{2, 32767},
		{-3, -32767},
		{0.5, 16383},
	}

	for _, tt := range tests {
		if got := audio.Float32ToInt16(tt.in); got != tt.want {
			t.Errorf("Float32ToInt16(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}

	if got := audio.Int16ToFloat32(-32768); got != -1 {
		t.Errorf("Int16ToFloat32(-32768) = %v, want -1", got)
	}
	if got := audio.Int16ToFloat32(16384); got != 0.5 {
		t.Errorf("Int16ToFloat32(16384) = %v, want 0.5", got)
	}
}
