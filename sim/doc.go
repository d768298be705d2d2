// Package sim provides the headless execution driver for the circuit
// simulator: it runs a circuit to completion without an editor and reports
// on the console.
//
// # Reading Guide
//
// Start with these files:
//   - device.go: the collaborator interfaces (Engine, State, Device and its roles)
//   - simulator.go: the tick loop and its state machine
//   - reporter.go: everything the run prints
//
// # Architecture
//
// The sim package defines the driver and the interfaces it consumes;
// implementations live in sub-packages:
//   - sim/relay/: background listener turning a live input stream into chunks
//   - sim/schematic/: circuit description files (YAML or TOML)
//   - sim/stats/: static component counts for a schematic
//   - sim/replay/: a replay engine implementing Engine and State from a schematic
//   - sim/trace/: per-tick run trace recording
//
// # Run lifecycle
//
// A Simulator moves INITIALIZING → RUNNING → {HALTED, OSCILLATING}, or to
// INTERRUPTED when its context is cancelled.
// Initialization settles the engine once (which populates the state tree),
// optionally loads a memory image into every RAM, and, for live I/O,
// attaches TTYs to the console and starts the input relay for keyboards.
// Each tick then samples output pins, prints a table row when values
// changed, checks the halt pin before oscillation, forwards at most one
// pending input chunk, and advances the clock.
package sim
