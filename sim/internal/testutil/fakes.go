// Package testutil provides shared test infrastructure for the headless
// simulator: hand-scripted state trees, devices and engines used across
// sim/ and sim/replay/ test packages.
package testutil

import (
	"io"
	"sync"

	"github.com/circuit-sim/circuit-sim/sim"
)

// Node is a scripted state tree node.
type Node struct {
	Devices []sim.Device
	Kids    []*Node
}

// Children implements sim.State.
func (n *Node) Children() []sim.State {
	out := make([]sim.State, len(n.Kids))
	for i, k := range n.Kids {
		out[i] = k
	}
	return out
}

// LocalDevices implements sim.State.
func (n *Node) LocalDevices() []sim.Device { return n.Devices }

// Engine is a scripted propagation engine. Its clock starts at 0 and moves
// by one on every Tick.
type Engine struct {
	Clock int64
	// OscillateFrom is the first clock value at which IsOscillating reports
	// true; negative means never.
	OscillateFrom int64
	// Lazy children are attached to Root on the first Settle, mimicking an
	// engine that builds sub-circuit states on demand.
	Root *Node
	Lazy []*Node
	// OnSettle, when set, runs after every Settle.
	OnSettle func(clock int64)

	Settles int
	Ticks   int
}

// NewEngine returns an engine that never oscillates.
func NewEngine(root *Node) *Engine {
	return &Engine{Root: root, OscillateFrom: -1}
}

// Settle implements sim.Engine.
func (e *Engine) Settle() {
	if e.Settles == 0 && e.Root != nil {
		e.Root.Kids = append(e.Root.Kids, e.Lazy...)
	}
	e.Settles++
	if e.OnSettle != nil {
		e.OnSettle(e.Clock)
	}
}

// Tick implements sim.Engine.
func (e *Engine) Tick() {
	e.Clock++
	e.Ticks++
}

// IsOscillating implements sim.Engine.
func (e *Engine) IsOscillating() bool {
	return e.OscillateFrom >= 0 && e.Clock >= e.OscillateFrom
}

// Pin replays one value per clock tick and holds the last one.
type Pin struct {
	PinRole sim.Role
	Name    string
	Wave    []sim.Value
	Engine  *Engine
}

// OutputPin returns an output pin replaying wave.
func OutputPin(e *Engine, name string, wave ...sim.Value) *Pin {
	return &Pin{PinRole: sim.RoleOutputPin, Name: name, Wave: wave, Engine: e}
}

// HaltPin returns a halt pin that reads false before tick at and true from
// tick at onward. A negative at never halts.
func HaltPin(e *Engine, at int) *Pin {
	p := &Pin{PinRole: sim.RoleHaltPin, Name: "halt", Engine: e}
	if at < 0 {
		p.Wave = []sim.Value{sim.False}
		return p
	}
	for i := 0; i < at; i++ {
		p.Wave = append(p.Wave, sim.False)
	}
	p.Wave = append(p.Wave, sim.True)
	return p
}

// Counter returns width-bit values 0..n-1.
func Counter(width, n int) []sim.Value {
	out := make([]sim.Value, n)
	for i := range out {
		out[i] = sim.NewValue(width, uint32(i))
	}
	return out
}

// Role implements sim.Device.
func (p *Pin) Role() sim.Role { return p.PinRole }

// Label implements sim.Pin.
func (p *Pin) Label() string { return p.Name }

// Value implements sim.Pin.
func (p *Pin) Value() sim.Value {
	if len(p.Wave) == 0 {
		return sim.Unknown
	}
	i := int(p.Engine.Clock)
	if i >= len(p.Wave) {
		i = len(p.Wave) - 1
	}
	return p.Wave[i]
}

// Memory records the image contents it was loaded with.
type Memory struct {
	Contents []byte
	Loads    int
	Fail     error
}

// Role implements sim.Device.
func (m *Memory) Role() sim.Role { return sim.RoleMemory }

// LoadImage implements sim.Memory.
func (m *Memory) LoadImage(contents []byte) error {
	if m.Fail != nil {
		return m.Fail
	}
	m.Contents = append([]byte(nil), contents...)
	m.Loads++
	return nil
}

// Keyboard records every chunk fed to it.
type Keyboard struct {
	mu     sync.Mutex
	Chunks []string
}

// Role implements sim.Device.
func (k *Keyboard) Role() sim.Role { return sim.RoleCharInput }

// Feed implements sim.CharInput.
func (k *Keyboard) Feed(chunk []rune) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.Chunks = append(k.Chunks, string(chunk))
}

// Received returns a copy of the chunks fed so far.
func (k *Keyboard) Received() []string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]string(nil), k.Chunks...)
}

// TTY prints through the writer the driver attaches.
type TTY struct {
	W io.Writer
}

// Role implements sim.Device.
func (t *TTY) Role() sim.Role { return sim.RoleCharOutput }

// SendTo implements sim.CharOutput.
func (t *TTY) SendTo(w io.Writer) { t.W = w }

// Print writes s when the TTY is attached.
func (t *TTY) Print(s string) {
	if t.W != nil {
		_, _ = io.WriteString(t.W, s)
	}
}
