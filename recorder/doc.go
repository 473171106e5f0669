// SPDX-License-Identifier: EPL-2.0

/*
Package recorder drives a recording session: it owns one input stream of an
audio.Device, reads fixed-size blocks from it, runs them through an
endpoint.Detector and hands the captured utterance to a Sink.

A Recorder moves between four states:

	idle -> stream_open -> recording -> idle
	any  -> terminated

Record blocks until the utterance ended, it was stopped, paused or
terminated, or its context was cancelled. Only the end of the utterance and
Stop persist the blocks; Pause and Terminate discard them from the sink's
point of view but keep them in memory until the next Record or Restart.

Stop, Pause and Terminate take effect between two reads. A read that races
with one of them is discarded, so no block is appended after the capture
was asked to finish.
*/
package recorder
