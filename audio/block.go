// SPDX-License-Identifier: EPL-2.0

package audio

import "encoding/binary"

// Block is one read from an input stream: FramesPerBuffer frames of
// interleaved signed 16-bit samples. A block is never modified after it was
// handed out.
type Block []int16

// Clone returns a copy that does not share memory with b.
func (b Block) Clone() Block {
	if b == nil {
		return nil
	}

	out := make(Block, len(b))
	copy(out, b)
	return out
}

// AppendBytes appends b as little-endian PCM to dst.
func (b Block) AppendBytes(dst []byte) []byte {
	for _, s := range b {
		dst = binary.LittleEndian.AppendUint16(dst, uint16(s))
	}

	return dst
}

// Join concatenates blocks in order.
func Join(blocks []Block) []int16 {
	total := 0
	for _, b := range blocks {
		total += len(b)
	}

	out := make([]int16, 0, total)
	for _, b := range blocks {
		out = append(out, b...)
	}

	return out
}
