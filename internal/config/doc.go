// SPDX-License-Identifier: EPL-2.0

// Package config loads the YAML configuration of the speechcapture CLI.
//
// A minimal file only overrides what differs from Default:
//
//	endpointing:
//	  max_seconds_of_silence: 0.8
//	input:
//	  device: file
//	  path: testdata/hello.wav
//	  pad_with_silence: true
//	output:
//	  path: hello.wav
//
// Setting max_seconds_of_silence to null disables ending an utterance on
// silence; the capture then runs until it is stopped.
package config
