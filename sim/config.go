package sim

import (
	"io"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/circuit-sim/circuit-sim/sim/trace"
)

// Format is the set of console outputs requested for a headless run.
// Flags combine independently.
type Format uint8

const (
	FormatTable      Format = 1 << iota // per-tick table of output pin values
	FormatSpeed                         // simulated clock rate at the end of the run
	FormatTTY                           // live keyboard/TTY I/O
	FormatHalt                          // reason the run ended
	FormatStatistics                    // static component counts, no simulation
)

var formatNames = map[string]Format{
	"table":      FormatTable,
	"speed":      FormatSpeed,
	"tty":        FormatTTY,
	"halt":       FormatHalt,
	"statistics": FormatStatistics,
	"stats":      FormatStatistics,
}

// Has reports whether every flag in o is set in f.
func (f Format) Has(o Format) bool { return f&o == o && o != 0 }

// Without returns f with the flags in o cleared.
func (f Format) Without(o Format) Format { return f &^ o }

func (f Format) String() string {
	var names []string
	for name, flag := range formatNames {
		if name != "stats" && f&flag != 0 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

// ParseFormat maps format names (table, speed, tty, halt, statistics) to a
// Format. Names are case-insensitive and may be comma-separated within a
// single element.
func ParseFormat(names []string) (Format, error) {
	var f Format
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part == "" {
				continue
			}
			flag, ok := formatNames[part]
			if !ok {
				return 0, &ConfigError{Msg: "unknown tty format " + `"` + part + `"` + "; valid: table, speed, tty, halt, statistics"}
			}
			f |= flag
		}
	}
	return f, nil
}

// Options configures a headless run. The zero value runs silently against
// io.Discard.
type Options struct {
	Format Format
	// ImagePath, when set, names a memory image loaded into every memory
	// device before the first tick.
	ImagePath string
	// Input is the live input stream for character-input devices. It is only
	// read when FormatTTY is set and at least one input device exists.
	Input io.Reader
	// Reporter receives every console write. When nil, one is created on
	// Out.
	Reporter *Reporter
	Out      io.Writer
	// Limiter, when non-nil, throttles the tick rate.
	Limiter *rate.Limiter
	// Trace, when non-nil, records sampled rows and delivered chunks.
	Trace *trace.RunTrace
	Log   *logrus.Entry
}
