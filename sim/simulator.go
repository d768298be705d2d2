// sim/simulator.go
package sim

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/circuit-sim/circuit-sim/sim/relay"
	"github.com/circuit-sim/circuit-sim/sim/trace"
)

// RunState is the lifecycle state of a Simulator.
type RunState int

const (
	StateInitializing RunState = iota
	StateRunning
	StateHalted
	StateOscillating
	// StateInterrupted is entered when the run's context is cancelled
	// before the circuit halts or oscillates.
	StateInterrupted
)

func (s RunState) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateHalted:
		return "halted"
	case StateOscillating:
		return "oscillating"
	case StateInterrupted:
		return "interrupted"
	}
	return "unknown"
}

// Terminal reports whether no further ticks can happen in state s.
func (s RunState) Terminal() bool {
	return s == StateHalted || s == StateOscillating || s == StateInterrupted
}

// Result codes of a completed run.
const (
	CodeHalted      = 0
	CodeOscillation = 1
)

// Result describes how a run ended.
type Result struct {
	State   RunState
	Code    int
	Ticks   int64         // clock ticks advanced before the run ended
	Elapsed time.Duration // wall time spent in the tick loop
}

// Simulator drives a circuit headlessly: it samples outputs, forwards live
// input, advances the clock and re-settles until the halt pin is asserted
// or the engine reports oscillation.
//
// A Simulator runs once. Everything except the input relay runs on the
// goroutine calling Run.
type Simulator struct {
	engine   Engine
	root     State
	opts     Options
	reporter *Reporter
	log      *logrus.Entry

	state    RunState
	Clock    int64
	pins     []Pin
	halts    []Pin
	inputs   []CharInput
	relay    *relay.Relay
	prevRow  []Value
	trace    *trace.RunTrace
	started  time.Time
	finished time.Duration
}

// NewSimulator returns a Simulator for the circuit whose root state is root
// and whose values are computed by engine.
func NewSimulator(engine Engine, root State, opts Options) *Simulator {
	rep := opts.Reporter
	if rep == nil {
		out := opts.Out
		if out == nil {
			out = io.Discard
		}
		rep = NewReporter(out)
	}
	log := opts.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Simulator{
		engine:   engine,
		root:     root,
		opts:     opts,
		reporter: rep,
		log:      log,
		state:    StateInitializing,
		trace:    opts.Trace,
	}
}

// State returns the current lifecycle state.
func (sim *Simulator) State() RunState { return sim.state }

// Run initializes the circuit and ticks it until a terminal state is
// reached. Load and configuration failures are returned before any tick
// and leave the Simulator in StateInitializing. Oscillation is not an
// error: it is reported through Result.Code. Cancelling ctx interrupts the
// loop between ticks and returns the context error.
func (sim *Simulator) Run(ctx context.Context) (Result, error) {
	if sim.state != StateInitializing {
		return Result{State: sim.state}, errors.Errorf("simulation already %s", sim.state)
	}
	if err := sim.initialize(ctx); err != nil {
		return Result{State: sim.state}, err
	}
	sim.state = StateRunning
	sim.log.Debugf("running with format %s, %d output pins, %d halt pins, %d input devices",
		sim.opts.Format, len(sim.pins), len(sim.halts), len(sim.inputs))

	sim.started = time.Now()
	for !sim.state.Terminal() {
		sim.step(ctx)
	}
	sim.finished = time.Since(sim.started)
	return sim.finish(ctx)
}

func (sim *Simulator) initialize(ctx context.Context) error {
	// The initial settle populates the state tree with sub-circuit states.
	sim.engine.Settle()

	if sim.opts.ImagePath != "" {
		loaded, err := LoadImage(sim.root, sim.opts.ImagePath)
		if err != nil {
			return err
		}
		if !loaded {
			return ErrNoMemory
		}
		sim.log.Debugf("memory image %s loaded", sim.opts.ImagePath)
	}

	devices := Scan(sim.root)
	for _, dev := range devices.Ignored {
		sim.log.Warnf("device %T claims role %s but does not implement it; ignored", dev, dev.Role())
	}
	sim.pins = devices.OutputPins
	sim.halts = devices.HaltPins

	if sim.opts.Format.Has(FormatTTY) {
		if !devices.Found(RoleCharOutput) && !devices.Found(RoleCharInput) {
			return ErrNoTTY
		}
		for _, out := range devices.CharOutputs {
			out.SendTo(sim.reporter)
		}
		sim.inputs = devices.CharInputs
		if len(sim.inputs) > 0 {
			if sim.opts.Input == nil {
				sim.log.Warn("circuit has keyboard components but no input stream was given")
			} else {
				sim.relay = relay.New(sim.opts.Input, sim.log)
				sim.relay.Start(ctx)
			}
		}
	}
	return nil
}

// step runs one tick of the loop and may move the Simulator to a terminal
// state.
func (sim *Simulator) step(ctx context.Context) {
	cur := make([]Value, len(sim.pins))
	for i, p := range sim.pins {
		cur[i] = p.Value()
	}
	halted := false
	for _, h := range sim.halts {
		if h.Value().Equal(True) {
			halted = true
		}
	}

	printed := false
	if sim.opts.Format.Has(FormatTable) {
		printed = sim.reporter.TableRow(sim.prevRow, cur)
	}
	if sim.trace != nil {
		sim.trace.RecordRow(trace.RowRecord{Tick: sim.Clock, Values: render(cur), Halt: halted, Printed: printed})
	}

	// A halt on the same tick as an oscillation is a clean halt.
	if halted {
		sim.state = StateHalted
		return
	}
	if sim.engine.IsOscillating() {
		sim.state = StateOscillating
		return
	}

	if sim.relay != nil {
		if chunk, ok := sim.relay.Poll(); ok {
			for _, in := range sim.inputs {
				in.Feed(chunk)
			}
			if sim.trace != nil {
				sim.trace.RecordDelivery(trace.DeliveryRecord{Tick: sim.Clock, Chars: len(chunk), Receivers: len(sim.inputs)})
			}
		}
	}

	if ctx.Err() != nil {
		sim.state = StateInterrupted
		return
	}
	if sim.opts.Limiter != nil {
		if err := sim.opts.Limiter.Wait(ctx); err != nil {
			sim.state = StateInterrupted
			return
		}
	}

	sim.prevRow = cur
	sim.Clock++
	sim.log.Tracef("[tick %07d] advancing clock", sim.Clock)
	sim.engine.Tick()
	sim.engine.Settle()
}

func (sim *Simulator) finish(ctx context.Context) (Result, error) {
	if sim.relay != nil {
		sim.relay.Stop()
		if err := sim.relay.Err(); err != nil {
			sim.log.WithError(err).Debug("input stream failed; keyboards received no further input")
		}
		if n := sim.relay.Pending(); n > 0 {
			sim.log.Debugf("%d input chunks were never delivered", n)
		}
	}

	res := Result{State: sim.state, Ticks: sim.Clock, Elapsed: sim.finished}
	switch sim.state {
	case StateHalted:
		res.Code = CodeHalted
	case StateOscillating:
		res.Code = CodeOscillation
	}
	sim.log.Debugf("[tick %07d] simulation %s, %d table rows printed", sim.Clock, sim.state, sim.reporter.Rows())

	if sim.opts.Format.Has(FormatTTY) {
		sim.reporter.EnsureLineTerminated()
	}
	// Any end other than a clean halt is always explained.
	if sim.opts.Format.Has(FormatHalt) || sim.state != StateHalted {
		sim.reporter.HaltReason(sim.state)
	}
	if sim.opts.Format.Has(FormatSpeed) {
		sim.reporter.Speed(sim.Clock, sim.finished)
	}
	if sim.trace != nil {
		sim.trace.SetOutcome(trace.OutcomeRecord{Tick: sim.Clock, State: sim.state.String(), Code: res.Code})
	}

	if sim.state == StateInterrupted {
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		return res, errors.Wrap(err, "simulation interrupted")
	}
	return res, nil
}

func render(vals []Value) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.String()
	}
	return out
}
