// Package replay implements the simulator's collaborator interfaces from a
// circuit file without resolving logic values: pins replay recorded
// waveforms, RAMs hold loaded images, TTYs print scripted text and keyboards
// buffer what the driver feeds them.
package replay

import (
	"github.com/sirupsen/logrus"

	"github.com/circuit-sim/circuit-sim/sim"
	"github.com/circuit-sim/circuit-sim/sim/schematic"
)

// Engine replays a circuit file. The state tree is empty until the first
// Settle, which instantiates the main circuit and all nested sub-circuits.
type Engine struct {
	file *schematic.File
	log  *logrus.Entry

	root        *Node
	built       bool
	clock       int64
	lastSettled int64
	oscillating bool

	pins  []*Pin
	ttys  []*TTY
	nodes []*Node
}

// New returns an engine for f, which must be valid.
func New(f *schematic.File, log *logrus.Entry) *Engine {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Engine{
		file:        f,
		log:         log,
		root:        &Node{Circuit: f.MainCircuit().Name},
		lastSettled: -1,
	}
}

// Root returns the root of the state tree. The node is stable for the
// engine's lifetime; its contents appear on the first Settle.
func (e *Engine) Root() sim.State { return e.root }

// Clock returns the number of ticks so far.
func (e *Engine) Clock() int64 { return e.clock }

// Settle brings every device up to date with the current clock.
func (e *Engine) Settle() {
	if !e.built {
		e.build(e.root, e.file.MainCircuit(), true)
		e.built = true
		e.log.Debugf("instantiated %q: %d states, %d pins, %d ttys",
			e.root.Circuit, len(e.nodes), len(e.pins), len(e.ttys))
	}
	for _, p := range e.pins {
		p.settle(e.clock)
	}
	if e.clock != e.lastSettled {
		for _, t := range e.ttys {
			t.settle(e.clock)
		}
		e.lastSettled = e.clock
	}
	for _, n := range e.nodes {
		n.echo()
	}
	at := e.file.OscillateAt
	e.oscillating = at != nil && e.clock >= *at
}

// Tick advances the clock.
func (e *Engine) Tick() { e.clock++ }

// IsOscillating reports whether the last Settle reached the recorded
// oscillation tick.
func (e *Engine) IsOscillating() bool { return e.oscillating }

func (e *Engine) build(n *Node, c *schematic.Circuit, isMain bool) {
	e.nodes = append(e.nodes, n)
	for _, comp := range c.Components {
		if sub, ok := e.file.Lookup(comp.Type); ok {
			child := &Node{Circuit: sub.Name}
			n.devices = append(n.devices, &Part{Kind: comp.Type})
			n.children = append(n.children, child)
			e.build(child, sub, false)
			continue
		}
		switch comp.Type {
		case schematic.TypePin:
			p := newPin(comp, isMain)
			e.pins = append(e.pins, p)
			n.devices = append(n.devices, p)
		case schematic.TypeRAM:
			n.devices = append(n.devices, NewRAM(comp.EffectiveWidth(), comp.EffectiveWords()))
		case schematic.TypeTTY:
			t := &TTY{prints: comp.Prints, echo: comp.Echo}
			e.ttys = append(e.ttys, t)
			n.devices = append(n.devices, t)
		case schematic.TypeKeyboard:
			n.devices = append(n.devices, &Keyboard{})
		default:
			n.devices = append(n.devices, &Part{Kind: comp.Type, Library: schematic.Catalog[comp.Type]})
		}
	}
}

// Node is the state of one instantiated circuit.
type Node struct {
	Circuit  string
	devices  []sim.Device
	children []*Node
}

// Children implements sim.State.
func (n *Node) Children() []sim.State {
	out := make([]sim.State, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// LocalDevices implements sim.State.
func (n *Node) LocalDevices() []sim.Device { return n.devices }

// echo moves text buffered by this node's keyboards to its echoing TTYs.
func (n *Node) echo() {
	var echoes []*TTY
	var keyboards []*Keyboard
	for _, d := range n.devices {
		switch d := d.(type) {
		case *TTY:
			if d.echo {
				echoes = append(echoes, d)
			}
		case *Keyboard:
			keyboards = append(keyboards, d)
		}
	}
	if len(echoes) == 0 {
		return
	}
	for _, k := range keyboards {
		text := k.take()
		if text == "" {
			continue
		}
		for _, t := range echoes {
			t.print(text)
		}
	}
}
