package replay

import (
	"io"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/circuit-sim/circuit-sim/sim"
	"github.com/circuit-sim/circuit-sim/sim/schematic"
)

// Pin replays its recorded waveform, one value per tick, holding the last
// value once the recording ends.
type Pin struct {
	label string
	role  sim.Role
	width int
	wave  []sim.Value
	cur   sim.Value
}

func newPin(c schematic.Component, inMain bool) *Pin {
	role := sim.RoleNone
	if inMain && c.Output {
		role = sim.RoleOutputPin
		if c.Label == schematic.HaltLabel {
			role = sim.RoleHaltPin
		}
	}
	return &Pin{
		label: c.Label,
		role:  role,
		width: c.EffectiveWidth(),
		wave:  c.Waveform(),
		cur:   sim.UnknownValue(c.EffectiveWidth()),
	}
}

func (p *Pin) settle(clock int64) {
	if len(p.wave) == 0 {
		return
	}
	i := int(min(clock, int64(len(p.wave)-1)))
	p.cur = p.wave[i]
}

// Role implements sim.Device. Only output pins of the main circuit take
// part in a run.
func (p *Pin) Role() sim.Role { return p.role }

// Label implements sim.Pin.
func (p *Pin) Label() string { return p.label }

// Value implements sim.Pin.
func (p *Pin) Value() sim.Value { return p.cur }

// RAM is a word-addressed memory.
type RAM struct {
	width int
	words []uint32
}

// NewRAM returns a zeroed RAM of size words, each width bits wide.
func NewRAM(width, size int) *RAM {
	return &RAM{width: width, words: make([]uint32, size)}
}

// Role implements sim.Device.
func (r *RAM) Role() sim.Role { return sim.RoleMemory }

// LoadImage implements sim.Memory. Words beyond the image are cleared;
// values wider than the data width are truncated.
func (r *RAM) LoadImage(contents []byte) error {
	image, err := ParseImage(contents)
	if err != nil {
		return err
	}
	if len(image) > len(r.words) {
		return errors.Errorf("image holds %d words but memory has %d", len(image), len(r.words))
	}
	mask := sim.NewValue(r.width, ^uint32(0)).Bits()
	clear(r.words)
	for i, w := range image {
		r.words[i] = w & mask
	}
	return nil
}

// Word returns the word at addr.
func (r *RAM) Word(addr int) uint32 { return r.words[addr] }

// TTY displays scripted text at recorded ticks and, when echoing, the
// characters keyboards next to it receive. Everything is kept in its
// display; once attached, text also goes to the console writer.
type TTY struct {
	prints  []schematic.Print
	echo    bool
	w       io.Writer
	display strings.Builder
}

// Role implements sim.Device.
func (t *TTY) Role() sim.Role { return sim.RoleCharOutput }

// SendTo implements sim.CharOutput.
func (t *TTY) SendTo(w io.Writer) { t.w = w }

// Display returns everything the TTY has shown.
func (t *TTY) Display() string { return t.display.String() }

func (t *TTY) settle(clock int64) {
	for _, p := range t.prints {
		if p.At == clock {
			t.print(p.Text)
		}
	}
}

func (t *TTY) print(s string) {
	t.display.WriteString(s)
	if t.w != nil {
		_, _ = io.WriteString(t.w, s)
	}
}

// Keyboard buffers characters until the circuit consumes them.
type Keyboard struct {
	mu  sync.Mutex
	buf []rune
}

// Role implements sim.Device.
func (k *Keyboard) Role() sim.Role { return sim.RoleCharInput }

// Feed implements sim.CharInput.
func (k *Keyboard) Feed(chunk []rune) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.buf = append(k.buf, chunk...)
}

// Buffered returns the characters not yet consumed.
func (k *Keyboard) Buffered() string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return string(k.buf)
}

func (k *Keyboard) take() string {
	k.mu.Lock()
	defer k.mu.Unlock()
	s := string(k.buf)
	k.buf = k.buf[:0]
	return s
}

// Part is a component without headless behaviour, such as a gate or a
// sub-circuit instance.
type Part struct {
	Kind    string
	Library string
}

// Role implements sim.Device.
func (p *Part) Role() sim.Role { return sim.RoleNone }
