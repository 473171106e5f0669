// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/speechcapture/audio"
)

const headerSize = 44

// header builds the canonical 44 byte RIFF/WAVE header for dataSize bytes
// of 16-bit PCM.
func header(f audio.Format, dataSize uint32) []byte {
	channels := uint16(f.Channels)
	blockAlign := channels * audio.SampleWidth
	byteRate := uint32(f.SampleRate) * uint32(blockAlign)

	h := make([]byte, headerSize)

	copy(h[0:4], "RIFF")
	binary.LittleEndian.PutUint32(h[4:8], 36+dataSize)
	copy(h[8:12], "WAVE")

	copy(h[12:16], "fmt ")
	binary.LittleEndian.PutUint32(h[16:20], 16)
	binary.LittleEndian.PutUint16(h[20:22], pcmFormat)
	binary.LittleEndian.PutUint16(h[22:24], channels)
	binary.LittleEndian.PutUint32(h[24:28], uint32(f.SampleRate))
	binary.LittleEndian.PutUint32(h[28:32], byteRate)
	binary.LittleEndian.PutUint16(h[32:34], blockAlign)
	binary.LittleEndian.PutUint16(h[34:36], 8*audio.SampleWidth)

	copy(h[36:40], "data")
	binary.LittleEndian.PutUint32(h[40:44], dataSize)

	return h
}

// WriteBlocks writes blocks as a complete WAV stream of format f. The size
// is known up front, so w never needs to seek.
func WriteBlocks(w io.Writer, f audio.Format, blocks []audio.Block) error {
	if err := f.Validate(); err != nil {
		return err
	}

	samples := 0
	for _, b := range blocks {
		samples += len(b)
	}

	if _, err := w.Write(header(f, uint32(samples*audio.SampleWidth))); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	// one block at a time keeps the buffer at block size
	var buf []byte
	for _, b := range blocks {
		buf = b.AppendBytes(buf[:0])
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("writing samples: %w", err)
		}
	}

	return nil
}
