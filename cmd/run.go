package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/muesli/cancelreader"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
	"golang.org/x/time/rate"

	"github.com/circuit-sim/circuit-sim/sim"
	"github.com/circuit-sim/circuit-sim/sim/replay"
	"github.com/circuit-sim/circuit-sim/sim/schematic"
	"github.com/circuit-sim/circuit-sim/sim/stats"
	"github.com/circuit-sim/circuit-sim/sim/trace"
)

// ExitFailure is the process exit code for load and configuration failures
// and interrupted runs.
const ExitFailure = 255

// runConfig is the resolved configuration of one invocation.
type runConfig struct {
	Circuit   string
	Formats   []string
	ImagePath string
	LogLevel  string
	TickRate  float64
	Trace     string
}

// runCircuit loads the circuit, prints statistics if requested and, if any
// other output was requested, simulates it. It returns the process exit
// code: 0 for a halt or when nothing is left to simulate, 1 for
// oscillation, ExitFailure otherwise.
func runCircuit(ctx context.Context, cfg runConfig, stdin io.Reader, stdout, stderr io.Writer, log *logrus.Entry) int {
	fail := func(err error) int {
		log.WithError(err).Error("run aborted")
		fmt.Fprintln(stderr, "circuit-sim:", err)
		return ExitFailure
	}

	format, err := sim.ParseFormat(cfg.Formats)
	if err != nil {
		return fail(err)
	}
	file, err := schematic.Load(cfg.Circuit)
	if err != nil {
		return fail(err)
	}
	reporter := sim.NewReporter(stdout)

	if format.Has(sim.FormatStatistics) {
		reporter.Statistics(stats.Compute(file))
		format = format.Without(sim.FormatStatistics)
	}
	if format == 0 {
		log.Debug("no console output requested; not simulating")
		return 0
	}

	opts := sim.Options{
		Format:    format,
		ImagePath: cfg.ImagePath,
		Reporter:  reporter,
		Log:       log,
	}
	if cfg.TickRate > 0 {
		opts.Limiter = rate.NewLimiter(rate.Limit(cfg.TickRate), 1)
	}
	if trace.TraceLevel(cfg.Trace) == trace.TraceLevelTicks {
		opts.Trace = trace.NewRunTrace(trace.TraceLevelTicks)
	}
	if format.Has(sim.FormatTTY) {
		input, closeInput := liveInput(stdin, log)
		defer closeInput()
		opts.Input = input
	}

	engine := replay.New(file, log)
	res, err := sim.NewSimulator(engine, engine.Root(), opts).Run(ctx)
	if opts.Trace != nil {
		printTraceSummary(stderr, trace.Summarize(opts.Trace))
	}
	if err != nil {
		return fail(err)
	}
	log.Infof("%s after %s ticks in %v", res.State, humanize.Comma(res.Ticks), res.Elapsed)
	return res.Code
}

// liveInput wraps stdin so that the input relay can be stopped while
// blocked in a read.
func liveInput(stdin io.Reader, log *logrus.Entry) (io.Reader, func()) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		log.Debug("stdin is a terminal; keyboard input arrives line by line")
	}
	cr, err := cancelreader.NewReader(stdin)
	if err != nil {
		log.WithError(err).Debug("stdin reads cannot be cancelled")
		return stdin, func() {}
	}
	return cr, func() { _ = cr.Close() }
}

func printTraceSummary(w io.Writer, s *trace.TraceSummary) {
	fmt.Fprintln(w, "=== Trace Summary ===")
	fmt.Fprintf(w, "Sampled ticks: %s (%s printed, %s suppressed)\n",
		humanize.Comma(int64(s.SampledTicks)), humanize.Comma(int64(s.PrintedRows)), humanize.Comma(int64(s.SuppressedRows)))
	fmt.Fprintf(w, "Input chunks: %d (%d characters)\n", s.Chunks, s.CharsDelivered)
	fmt.Fprintf(w, "Outcome: %s at tick %d\n", s.FinalState, s.FinalTick)
}
