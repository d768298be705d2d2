// Package trace provides run-trace recording for headless simulations.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// RowRecord captures one output sample taken at the start of a tick.
type RowRecord struct {
	Tick    int64
	Values  []string // rendered output pin values, in pin order
	Halt    bool     // halt pin read true
	Printed bool     // the table printed this row (differs from the previous one)
}

// DeliveryRecord captures one input chunk forwarded to the input devices.
type DeliveryRecord struct {
	Tick      int64
	Chars     int // characters in the chunk
	Receivers int // input devices the chunk was fed to
}

// OutcomeRecord captures the terminal state of a run.
type OutcomeRecord struct {
	Tick  int64
	State string // "halted", "oscillating" or "interrupted"
	Code  int
}
