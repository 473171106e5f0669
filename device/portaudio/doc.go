// SPDX-License-Identifier: EPL-2.0

// Package portaudio implements audio.Device for the default microphone
// using github.com/gordonklaus/portaudio.
//
// Streams use PortAudio's blocking read API with a signed 16-bit buffer of
// exactly one block, so every Read delivers FramesPerBuffer frames. Stop
// aborts the stream, which also wakes a Read blocked on another goroutine.
//
// Building this package needs cgo and the PortAudio headers.
package portaudio
