// SPDX-License-Identifier: EPL-2.0

// Package audio provides the capture contracts and low-level PCM primitives.
//
// # Capture
//
// A Device opens InputStreams for a Format. A stream delivers Blocks: fixed
// slices of FramesPerBuffer interleaved signed 16-bit frames.
//
//	stream, err := dev.Open(audio.DefaultFormat())
//	if err != nil {
//	    return err
//	}
//	defer stream.Close()
//
//	if err := stream.Start(); err != nil {
//	    return err
//	}
//	block, err := stream.Read() // blocks until 1600 frames arrived
//
// Stop and Close are safe to call from another goroutine while Read is
// blocked; the pending Read then fails. Callers that want to cancel a capture
// rely on this.
//
// # Decoded Streams
//
// Decoders in the formats subpackages produce SampleReaders of normalized
// float32 samples in [-1.0, 1.0]. They can be chained:
//
//	res := audio.NewResampler(src, 16000)
//	mono := audio.NewMonoMixer(res)
//	blocks := audio.NewBlocker(mono, 1600)
//	block, err := blocks.Next()
//
// The Resampler uses cubic interpolation and low-pass filters its input when
// downsampling. The MonoMixer averages channels. The Blocker converts back to
// 16-bit and zero-pads the final block.
//
// # Format Registry
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	decoder, err := registry.ForPath("take-1.wav")
//
// # Error Handling
//
// Decoded streams return io.EOF when no more data is available. Capture
// streams return ErrStreamStopped or ErrStreamClosed once stopped or closed.
package audio
