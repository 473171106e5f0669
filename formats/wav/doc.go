// SPDX-License-Identifier: EPL-2.0

// Package wav decodes WAV files and persists captured utterances as WAV.
//
// Decoding and file output go through github.com/go-audio/wav.
//
// # Decoding
//
// Decoder accepts integer PCM at 16, 24 or 32 bits, any channel count and
// any sample rate:
//
//	src, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//	    // ErrNotWavFile, ErrOnlyPCMSupported or ErrUnsupportedWavLayout
//	}
//
// The returned audio.SampleReader yields float32 samples in [-1,1).
//
// # Persisting utterances
//
// FileSink and StreamSink implement recorder.Sink. Blocks are written as
// signed 16-bit little-endian PCM in the capture format:
//
//	rec, err := recorder.New(dev, wav.FileSink{Path: "utterance.wav"}, audio.DefaultFormat())
//
// StreamSink writes the canonical 44 byte header followed by the samples
// and never seeks, so it can write to stdout or a network connection.
package wav
