// SPDX-License-Identifier: EPL-2.0

package recorder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/ik5/speechcapture/audio"
	"github.com/ik5/speechcapture/endpoint"
)

// Recorder captures one utterance at a time from a device and hands it to a
// sink once the speaker stopped talking or the capture was stopped.
//
// All methods are safe for concurrent use. Record blocks; Stop, Pause,
// Restart and Terminate may be called from other goroutines while it runs.
type Recorder struct {
	device audio.Device
	sink   Sink
	format audio.Format
	log    *zap.Logger
	obs    Observer

	mu          sync.Mutex
	machine     *fsm.FSM
	params      endpoint.Params
	maxSilent   float64
	stream      audio.InputStream
	blocks      []audio.Block
	last        float64 // amplitude of the newest block in blocks
	hasLast     bool
	loop        chan struct{} // closed once the running capture finalized
	finished    FinishReason
	result      error
	calibration *calibration
	terminating bool

	// reason requested by Stop, Pause, Terminate or context cancellation
	cancel atomic.Int32
}

type calibration struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// New returns an idle recorder. Nothing is acquired from dev until the
// first Open, Record or Calibrate.
func New(dev audio.Device, sink Sink, f audio.Format, opts ...Option) (*Recorder, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	if sink == nil {
		return nil, ErrNilSink
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	r := &Recorder{
		device: dev,
		sink:   sink,
		format: f,
		log:    zap.NewNop(),
		obs:    nopObserver{},
		params: endpoint.DefaultParams(),
	}

	for _, opt := range opts {
		opt(r)
	}

	if err := r.params.Validate(); err != nil {
		return nil, err
	}

	r.maxSilent = endpoint.MaxSilentBlocks(r.params.MaxSecondsOfSilence, f)
	r.machine = newMachine(r.log)

	return r, nil
}

func (r *Recorder) Format() audio.Format { return r.format }

func (r *Recorder) State() State { return State(r.machine.Current()) }

func (r *Recorder) IsRecording() bool { return r.machine.Is(string(StateRecording)) }

func (r *Recorder) Params() endpoint.Params {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.params
}

// MaxSilentBlocks is the number of consecutive silent blocks that end an
// utterance; +Inf when the silence timeout is unbounded.
func (r *Recorder) MaxSilentBlocks() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.maxSilent
}

// SetParams replaces the endpointing parameters. It fails with ErrBusy
// while a capture or calibration runs.
func (r *Recorder) SetParams(p endpoint.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.idleLocked(); err != nil {
		return err
	}

	if p.MaxSecondsOfSilence != r.params.MaxSecondsOfSilence {
		r.maxSilent = endpoint.MaxSilentBlocks(p.MaxSecondsOfSilence, r.format)
	}
	r.params = p

	return nil
}

// SetMinEnergy overrides the silence threshold.
func (r *Recorder) SetMinEnergy(v float64) error {
	p := r.Params()
	p.MinEnergy = v

	return r.SetParams(p)
}

// Blocks returns the blocks captured since the last Restart or Record.
func (r *Recorder) Blocks() []audio.Block {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]audio.Block(nil), r.blocks...)
}

// Open acquires a fresh stream, closing the one held before. A running
// capture is paused first.
func (r *Recorder) Open() error {
	for {
		r.interrupt(FinishPaused)

		r.mu.Lock()
		if r.loop == nil {
			break
		}
		r.mu.Unlock()
	}
	defer r.mu.Unlock()

	if err := r.idleLocked(); err != nil {
		return err
	}

	r.releaseLocked()
	return r.openLocked()
}

// Record captures until the end of the utterance, Stop, Pause, Terminate or
// cancellation of ctx. Blocks are persisted on the end of the utterance and
// on Stop. Cancelling ctx discards like Pause and returns ctx.Err().
func (r *Recorder) Record(ctx context.Context) error {
	run, err := r.begin()
	if err != nil {
		return err
	}

	return r.capture(ctx, run)
}

// RecordAsync starts a capture like Record and runs it on its own
// goroutine. Once RecordAsync returns the recorder is recording, so Stop and
// friends act on this capture. The channel yields Record's result.
func (r *Recorder) RecordAsync(ctx context.Context) <-chan error {
	errc := make(chan error, 1)

	run, err := r.begin()
	if err != nil {
		errc <- err
		close(errc)
		return errc
	}

	go func() {
		defer close(errc)
		errc <- r.capture(ctx, run)
	}()

	return errc
}

// Pause stops a running capture without persisting it. The captured blocks
// are kept.
func (r *Recorder) Pause() error {
	if waited, _ := r.interrupt(FinishPaused); waited {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.terminatedLocked() {
		return ErrTerminated
	}

	if r.stream != nil {
		if err := r.stream.Stop(); err != nil {
			r.cleanupFailed("stop", err)
		}
	}

	return nil
}

// Stop ends a running capture and persists its blocks. Without a running
// capture it releases the held stream and persists the current blocks.
func (r *Recorder) Stop() error {
	if waited, _ := r.interrupt(FinishStopped); waited {
		r.mu.Lock()
		finished, result := r.finished, r.result
		r.mu.Unlock()

		if finished.persists() {
			return result
		}
	}

	r.mu.Lock()
	if err := r.idleLocked(); err != nil {
		r.mu.Unlock()
		return err
	}
	r.releaseLocked()
	r.transition(eventClose)
	r.mu.Unlock()

	return r.Save()
}

// Save persists the current blocks. It fails with ErrBusy during a capture.
func (r *Recorder) Save() error {
	r.mu.Lock()
	if r.terminatedLocked() {
		r.mu.Unlock()
		return ErrTerminated
	}
	if r.loop != nil {
		r.mu.Unlock()
		return ErrBusy
	}
	blocks := r.blocks
	r.mu.Unlock()

	return r.persist(blocks)
}

// Restart drops the captured blocks. A running capture continues into an
// empty buffer.
func (r *Recorder) Restart() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.blocks = nil
	r.hasLast = false
}

// CloseStream releases the held stream. Failures are logged.
func (r *Recorder) CloseStream() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.terminatedLocked() {
		return ErrTerminated
	}
	if r.loop != nil {
		return ErrBusy
	}

	r.releaseLocked()
	r.transition(eventClose)

	return nil
}

// Terminate ends any capture or calibration without persisting, releases
// the stream and the device. It never fails and may be called repeatedly.
func (r *Recorder) Terminate() {
	r.mu.Lock()
	r.terminating = true
	r.mu.Unlock()

	for {
		r.interrupt(FinishTerminated)

		r.mu.Lock()
		if r.loop != nil {
			r.mu.Unlock()
			continue
		}
		if c := r.calibration; c != nil {
			r.mu.Unlock()
			c.cancel()
			<-c.done
			continue
		}
		break
	}
	defer r.mu.Unlock()

	if r.terminatedLocked() {
		return
	}

	r.releaseLocked()
	if err := r.device.Terminate(); err != nil {
		r.cleanupFailed("terminate", err)
	}

	r.transition(eventTerminate)
}

// Calibrate measures seconds of ambient noise on a stream of its own and
// sets the minimum energy to mean + StandardDeviationMultiplier*stddev.
// A held stream is released first.
func (r *Recorder) Calibrate(ctx context.Context, seconds float64) (endpoint.Calibration, error) {
	r.mu.Lock()
	if err := r.idleLocked(); err != nil {
		r.mu.Unlock()
		return endpoint.Calibration{}, err
	}

	r.releaseLocked()
	r.transition(eventClose)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	run := &calibration{cancel: cancel, done: make(chan struct{})}
	r.calibration = run
	k := r.params.StandardDeviationMultiplier
	r.mu.Unlock()

	calibrator := &endpoint.Calibrator{Device: r.device, Format: r.format, Logger: r.log}
	cal, err := calibrator.Run(ctx, seconds, k)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.calibration = nil
	close(run.done)

	if err != nil {
		return cal, calibrationError(err)
	}

	r.params.MinEnergy = cal.MinEnergy
	r.obs.ObserveCalibration(cal)
	r.log.Info("adjusted for ambient noise",
		zap.Int("blocks", cal.Blocks),
		zap.Float64("min_energy", cal.MinEnergy),
	)

	return cal, nil
}

func calibrationError(err error) error {
	switch {
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, endpoint.ErrInvalidBlock),
		errors.Is(err, endpoint.ErrNoAmbientBlocks):
		return err
	default:
		return &DeviceError{Op: "calibrate", Err: err}
	}
}

type captureRun struct {
	stream   audio.InputStream
	detector *endpoint.Detector
	done     chan struct{}
}

func (r *Recorder) begin() (*captureRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.idleLocked(); err != nil {
		return nil, err
	}

	if r.stream == nil {
		if err := r.openLocked(); err != nil {
			return nil, err
		}
	}

	if err := r.stream.Start(); err != nil {
		r.releaseLocked()
		r.transition(eventClose)
		return nil, &DeviceError{Op: "start", Err: err}
	}

	r.blocks = nil
	r.hasLast = false
	r.cancel.Store(int32(finishNone))
	r.loop = make(chan struct{})
	r.finished = finishNone
	r.result = nil
	r.transition(eventRecord)

	r.log.Debug("capture started",
		zap.Float64("min_energy", r.params.MinEnergy),
		zap.Float64("max_silent_blocks", r.maxSilent),
	)

	return &captureRun{
		stream:   r.stream,
		detector: endpoint.NewDetector(r.params, r.maxSilent),
		done:     r.loop,
	}, nil
}

func (r *Recorder) capture(ctx context.Context, run *captureRun) error {
	stopOnCancel := context.AfterFunc(ctx, func() { r.cancelRun(run) })

	reason, err := r.run(run)
	stopOnCancel()

	if reason == FinishCanceled {
		err = ctx.Err()
	}

	return r.finalize(run, reason, err)
}

// cancelRun finishes run as canceled. It does nothing once run is done, so a
// late call cannot reach the capture that followed it.
func (r *Recorder) cancelRun(run *captureRun) {
	r.mu.Lock()
	defer r.mu.Unlock()

	select {
	case <-run.done:
		return
	default:
	}

	if r.cancel.CompareAndSwap(int32(finishNone), int32(FinishCanceled)) {
		_ = run.stream.Stop()
	}
}

// run is the capture loop. The blocking Read is its only suspension point.
func (r *Recorder) run(run *captureRun) (FinishReason, error) {
	for {
		if reason := r.requested(); reason != finishNone {
			return reason, nil
		}

		block, err := run.stream.Read()

		// A Read racing a cancellation request belongs to the stopped
		// capture; whatever it returned is dropped.
		if reason := r.requested(); reason != finishNone {
			return reason, nil
		}
		if err != nil {
			return FinishFailed, &DeviceError{Op: "read", Err: err}
		}

		if err := endpoint.CheckBlock(block, r.format); err != nil {
			return FinishFailed, err
		}
		amplitude, err := endpoint.Amplitude(block)
		if err != nil {
			return FinishFailed, err
		}

		r.mu.Lock()
		previous := run.detector.MinEnergy()
		if r.hasLast {
			previous = r.last
		}
		r.blocks = append(r.blocks, block)
		r.last, r.hasLast = amplitude, true
		r.mu.Unlock()

		d := run.detector.Observe(amplitude, previous)
		r.log.Debug("block",
			zap.Float64("amplitude", d.Amplitude),
			zap.Float64("last_amplitude", d.Previous),
			zap.Bool("silent", d.Silent),
			zap.Int("silent_blocks", d.SilentBlocks),
		)
		r.obs.ObserveBlock(d)

		if d.EndOfUtterance {
			return FinishEndOfUtterance, nil
		}
	}
}

func (r *Recorder) finalize(run *captureRun, reason FinishReason, err error) error {
	r.mu.Lock()
	if r.stream == run.stream {
		r.releaseLocked()
	}
	blocks := r.blocks
	r.mu.Unlock()

	if reason.persists() {
		err = r.persist(blocks)
	}

	r.obs.ObserveFinish(reason, len(blocks))
	if err != nil {
		r.log.Warn("capture finished", zap.Stringer("reason", reason), zap.Int("blocks", len(blocks)), zap.Error(err))
	} else {
		r.log.Info("capture finished", zap.Stringer("reason", reason), zap.Int("blocks", len(blocks)))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if reason != FinishTerminated {
		r.transition(reason.event())
	}
	r.finished = reason
	r.result = err
	r.loop = nil
	close(run.done)

	return err
}

// interrupt asks a running capture to finish for reason and waits until it
// has. won is false when another reason was requested first.
func (r *Recorder) interrupt(reason FinishReason) (waited, won bool) {
	r.mu.Lock()
	done := r.loop
	if done == nil {
		r.mu.Unlock()
		return false, false
	}

	won = r.cancel.CompareAndSwap(int32(finishNone), int32(reason))
	if won && r.stream != nil {
		// unblocks a pending Read
		if err := r.stream.Stop(); err != nil {
			r.log.Debug("stopping stream for "+reason.String(), zap.Error(err))
		}
	}
	r.mu.Unlock()

	<-done
	return true, won
}

func (r *Recorder) requested() FinishReason {
	return FinishReason(r.cancel.Load())
}

func (r *Recorder) persist(blocks []audio.Block) error {
	if err := r.sink.Save(blocks, r.format); err != nil {
		return fmt.Errorf("save %d blocks: %w", len(blocks), err)
	}

	r.log.Debug("saved blocks", zap.Int("blocks", len(blocks)))
	return nil
}

func (r *Recorder) openLocked() error {
	stream, err := r.device.Open(r.format)
	if err != nil {
		r.transition(eventClose)
		return &DeviceError{Op: "open", Err: err}
	}

	r.stream = stream
	r.transition(eventOpen)

	return nil
}

// releaseLocked stops and closes the held stream. Failures are logged.
func (r *Recorder) releaseLocked() {
	if r.stream == nil {
		return
	}

	if err := errors.Join(r.stream.Stop(), r.stream.Close()); err != nil {
		r.cleanupFailed("close", err)
	}
	r.stream = nil
}

func (r *Recorder) cleanupFailed(op string, err error) {
	r.log.Warn("cleanup failed", zap.String("op", op), zap.Error(err))
	r.obs.ObserveCleanupFailure(op)
}

func (r *Recorder) terminatedLocked() bool {
	return r.machine.Is(string(StateTerminated))
}

func (r *Recorder) idleLocked() error {
	if r.terminating || r.terminatedLocked() {
		return ErrTerminated
	}
	if r.loop != nil || r.calibration != nil {
		return ErrBusy
	}

	return nil
}

func (r *Recorder) transition(event string) {
	err := r.machine.Event(context.Background(), event)

	var same fsm.NoTransitionError
	if err != nil && !errors.As(err, &same) {
		r.log.Error("unexpected state transition",
			zap.String("event", event),
			zap.String("state", r.machine.Current()),
			zap.Error(err),
		)
	}
}
