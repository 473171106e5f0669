// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 decoding for file-backed capture.
//
// This package uses github.com/hajimehoshi/go-mp3. Output is always
// interleaved stereo at the file's sample rate; the file device resamples
// and mixes it down to the capture format:
//
//	src, _ := mp3.Decoder{}.Decode(file)
//	mono := audio.NewMonoMixer(audio.NewResampler(src, 16000))
package mp3
