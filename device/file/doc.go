// SPDX-License-Identifier: EPL-2.0

// Package file implements audio.Device on top of an audio file.
//
// The file is picked by extension from DefaultRegistry (wav, mp3, ogg,
// aiff), resampled to the capture rate and mixed down to mono when the
// capture format asks for one channel. Paced replays it in real time;
// without it blocks are delivered as fast as they are read, which is what
// tests and batch jobs want.
//
// Once the file ends, Read returns io.EOF unless PadWithSilence was given,
// in which case silent blocks follow forever so that endpointing can end
// the utterance.
package file
