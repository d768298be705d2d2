package sim

import "io"

// Role classifies a terminal device for a headless run. A device has at
// most one role.
type Role int

const (
	RoleNone Role = iota
	RoleMemory
	RoleCharOutput
	RoleCharInput
	RoleOutputPin
	RoleHaltPin
)

var roleNames = map[Role]string{
	RoleNone:       "none",
	RoleMemory:     "memory",
	RoleCharOutput: "char-output",
	RoleCharInput:  "char-input",
	RoleOutputPin:  "output-pin",
	RoleHaltPin:    "halt-pin",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// Device is a component instance living in a State node.
type Device interface {
	Role() Role
}

// Pin is an output or halt pin. Value reads the currently settled value.
type Pin interface {
	Device
	Label() string
	Value() Value
}

// Memory is a byte-loadable device. LoadImage initializes its contents from
// the raw bytes of an image file and fails if they are malformed.
type Memory interface {
	Device
	LoadImage(contents []byte) error
}

// CharOutput is a device that prints characters as the circuit produces
// them. SendTo is called once during setup.
type CharOutput interface {
	Device
	SendTo(w io.Writer)
}

// CharInput is a device that buffers typed characters. Feed is called once
// per delivered chunk, in capture order.
type CharInput interface {
	Device
	Feed(chunk []rune)
}

// State is one node of the hierarchical simulation state: a single
// instantiated circuit holding its local devices and the states of nested
// circuit instances. Nodes are owned by their parent.
type State interface {
	Children() []State
	LocalDevices() []Device
}

// Engine is the propagation engine computing settled values for a circuit.
type Engine interface {
	// Settle propagates until values are stable or the retry budget is
	// exhausted. The first call populates the state tree.
	Settle()
	// Tick advances the simulated clock by one step.
	Tick()
	// IsOscillating reports whether the last Settle failed to stabilize.
	IsOscillating() bool
}
