// SPDX-License-Identifier: EPL-2.0

// Package speechcapture records a single spoken utterance from an audio
// input and stops on its own once the speaker goes quiet.
//
// The work is split over a few subpackages:
//   - audio defines formats, blocks, devices and the float32 sample
//     pipeline (resampling, mono mixing, blocking)
//   - endpoint measures block energy, calibrates the silence threshold
//     against ambient noise and detects the end of an utterance
//   - recorder drives one capture session through its states
//     (idle, stream open, recording, terminated)
//   - device/portaudio and device/file provide microphone and file inputs
//   - formats/wav, formats/aiff, formats/mp3 and formats/vorbis decode
//     input files, and formats/wav and formats/aiff also persist captures
//
// # Quick Start
//
// CaptureUtterance covers the common case:
//
//	dev, _ := portaudio.New()
//	sink := &wav.FileSink{Path: "utterance.wav"}
//	err := speechcapture.CaptureUtterance(ctx, dev, sink, audio.DefaultFormat(),
//		speechcapture.WithCalibration(1),
//	)
//
// For pause, resume or stop control build a recorder.Recorder directly.
package speechcapture
