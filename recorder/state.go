// SPDX-License-Identifier: EPL-2.0

package recorder

import (
	"context"

	"github.com/looplab/fsm"
	"go.uber.org/zap"
)

// State is the lifecycle state of a Recorder.
type State string

const (
	StateIdle       State = "idle"
	StateStreamOpen State = "stream_open"
	StateRecording  State = "recording"
	StateTerminated State = "terminated"
)

const (
	eventOpen      = "open"
	eventRecord    = "record"
	eventPause     = "pause"
	eventStop      = "stop"
	eventFinish    = "finish"
	eventClose     = "close"
	eventTerminate = "terminate"
)

func newMachine(log *zap.Logger) *fsm.FSM {
	idle := string(StateIdle)
	open := string(StateStreamOpen)
	recording := string(StateRecording)
	terminated := string(StateTerminated)

	return fsm.NewFSM(
		idle,
		fsm.Events{
			{Name: eventOpen, Src: []string{idle, open}, Dst: open},
			{Name: eventRecord, Src: []string{open}, Dst: recording},
			{Name: eventPause, Src: []string{recording}, Dst: idle},
			{Name: eventStop, Src: []string{recording}, Dst: idle},
			{Name: eventFinish, Src: []string{recording}, Dst: idle},
			{Name: eventClose, Src: []string{idle, open}, Dst: idle},
			{Name: eventTerminate, Src: []string{idle, open, recording}, Dst: terminated},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				log.Debug("recorder state",
					zap.String("event", e.Event),
					zap.String("from", e.Src),
					zap.String("to", e.Dst),
				)
			},
		},
	)
}

// FinishReason tells why a capture loop ended.
type FinishReason int32

const (
	finishNone FinishReason = iota
	FinishEndOfUtterance
	FinishStopped
	FinishPaused
	FinishTerminated
	FinishCanceled
	FinishFailed
)

func (r FinishReason) String() string {
	switch r {
	case FinishEndOfUtterance:
		return "end_of_utterance"
	case FinishStopped:
		return "stopped"
	case FinishPaused:
		return "paused"
	case FinishTerminated:
		return "terminated"
	case FinishCanceled:
		return "canceled"
	case FinishFailed:
		return "failed"
	default:
		return "none"
	}
}

// persists reports whether a loop ending for r hands its blocks to the sink.
func (r FinishReason) persists() bool {
	return r == FinishEndOfUtterance || r == FinishStopped
}

func (r FinishReason) event() string {
	switch r {
	case FinishStopped:
		return eventStop
	case FinishPaused, FinishCanceled:
		return eventPause
	default:
		return eventFinish
	}
}
