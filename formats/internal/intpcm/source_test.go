// SPDX-License-Identifier: EPL-2.0

package intpcm

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	goaudio "github.com/go-audio/audio"
)

type mockDecoder struct {
	format *goaudio.Format
	data   []int
	offset int
}

func (m *mockDecoder) Format() *goaudio.Format { return m.format }

func (m *mockDecoder) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	n := copy(buf.Data, m.data[m.offset:])
	m.offset += n
	return n, nil
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bitDepth int
		data     []int
		want     []float32
	}{
		{"16 bit", 16, []int{0, 16384, -32768}, []float32{0, 0.5, -1}},
		{"24 bit", 24, []int{4194304, -8388608}, []float32{0.5, -1}},
		{"32 bit", 32, []int{-1073741824}, []float32{-0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			format := &goaudio.Format{NumChannels: 1, SampleRate: 8000}
			src, err := NewSource(&mockDecoder{format: format, data: tt.data}, format, tt.bitDepth)
			if err != nil {
				t.Fatalf("NewSource() error = %v", err)
			}

			dst := make([]float32, 8)
			n, err := src.ReadSamples(dst)
			if !errors.Is(err, io.EOF) {
				t.Errorf("short read error = %v, want EOF", err)
			}
			if n != len(tt.want) {
				t.Fatalf("ReadSamples() n = %d, want %d", n, len(tt.want))
			}
			for i, w := range tt.want {
				if dst[i] != w {
					t.Errorf("dst[%d] = %v, want %v", i, dst[i], w)
				}
			}

			if n, err := src.ReadSamples(dst); n != 0 || !errors.Is(err, io.EOF) {
				t.Errorf("drained ReadSamples() = %d, %v, want 0, EOF", n, err)
			}
		})
	}
}

func TestNewSource_BitDepth(t *testing.T) {
	t.Parallel()

	format := &goaudio.Format{NumChannels: 1, SampleRate: 8000}
	if _, err := NewSource(&mockDecoder{format: format}, format, 8); !errors.Is(err, ErrUnsupportedBitDepth) {
		t.Errorf("NewSource(8 bit) error = %v, want %v", err, ErrUnsupportedBitDepth)
	}
}

func TestSeekable(t *testing.T) {
	t.Parallel()

	br := bytes.NewReader([]byte("abc"))
	rs, err := Seekable(br)
	if err != nil || rs != io.ReadSeeker(br) {
		t.Errorf("Seekable(bytes.Reader) = %v, %v, want the reader itself", rs, err)
	}

	rs, err = Seekable(io.MultiReader(strings.NewReader("ab"), strings.NewReader("c")))
	if err != nil {
		t.Fatalf("Seekable() error = %v", err)
	}
	if _, err := rs.Seek(1, io.SeekStart); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	rest, _ := io.ReadAll(rs)
	if string(rest) != "bc" {
		t.Errorf("read after seek = %q, want %q", rest, "bc")
	}
}

func TestIntBuffer(t *testing.T) {
	t.Parallel()

	buf := IntBuffer([]int16{1, -2}, 2, 16000)
	if buf.Format.NumChannels != 2 || buf.Format.SampleRate != 16000 {
		t.Errorf("Format = %+v", buf.Format)
	}
	if len(buf.Data) != 2 || buf.Data[1] != -2 {
		t.Errorf("Data = %v, want [1 -2]", buf.Data)
	}
}
