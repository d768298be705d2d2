package sim

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// Console messages.
const (
	MsgHaltPin     = "halted due to halt pin"
	MsgOscillation = "halted due to detected oscillation"
	MsgInterrupted = "halted due to interruption"
)

// StatRow is one line of the component statistics table.
type StatRow struct {
	Flat      int    // instances in the main circuit itself
	Recursive int    // instances including nested sub-circuit instances
	Name      string // component type
	Library   string // "" for project sub-circuits
}

// Reporter formats everything a headless run prints. Every write to the
// console goes through it, including live TTY output, so that it can tell
// whether the last character printed was a newline.
type Reporter struct {
	mu          sync.Mutex
	w           io.Writer
	lastNewline bool
	rows        int
}

// NewReporter returns a Reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	if w == nil {
		w = io.Discard
	}
	return &Reporter{w: w, lastNewline: true}
}

// Write implements io.Writer for character-output devices.
func (r *Reporter) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.write(p)
}

func (r *Reporter) write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := r.w.Write(p)
	if n > 0 {
		r.lastNewline = p[n-1] == '\n'
	}
	return n, err
}

func (r *Reporter) println(s string) {
	_, _ = r.write([]byte(s + "\n"))
}

// EnsureLineTerminated prints a newline unless the last character written
// was already one.
func (r *Reporter) EnsureLineTerminated() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.lastNewline {
		r.println("")
	}
}

// TableRow prints cur as a tab-separated row when prev is nil or cur
// differs from prev in at least one position. It reports whether the row
// was printed.
func (r *Reporter) TableRow(prev, cur []Value) bool {
	if prev != nil && ValuesEqual(prev, cur) {
		return false
	}
	cols := make([]string, len(cur))
	for i, v := range cur {
		cols[i] = v.String()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.println(strings.Join(cols, "\t"))
	r.rows++
	return true
}

// Rows returns the number of table rows printed so far.
func (r *Reporter) Rows() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows
}

// HaltReason prints why the run ended.
func (r *Reporter) HaltReason(state RunState) {
	msg := ""
	switch state {
	case StateHalted:
		msg = MsgHaltPin
	case StateOscillating:
		msg = MsgOscillation
	case StateInterrupted:
		msg = MsgInterrupted
	default:
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.println(msg)
}

// Statistics prints the component count table. The two count columns are
// right-aligned and the name column left-aligned, each padded to its widest
// entry.
func (r *Reporter) Statistics(rows []StatRow) {
	if len(rows) == 0 {
		return
	}
	flatW := digits(lo.Max(lo.Map(rows, func(s StatRow, _ int) int { return s.Flat })))
	recW := digits(lo.Max(lo.Map(rows, func(s StatRow, _ int) int { return s.Recursive })))
	nameW := lo.Max(lo.Map(rows, func(s StatRow, _ int) int { return len(s.Name) }))
	format := fmt.Sprintf("%%%dd\t%%%dd\t%%-%ds\t%%s", flatW, recW, nameW)

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range rows {
		lib := s.Library
		if lib == "" {
			lib = "-"
		}
		r.println(fmt.Sprintf(format, s.Flat, s.Recursive, s.Name, lib))
	}
}

func digits(n int) int {
	d := 1
	for lessThan := 10; n >= lessThan; lessThan *= 10 {
		d++
	}
	return d
}
