package sim

import (
	"strings"

	"github.com/pkg/errors"
)

// MaxWidth is the widest bus a Value can carry.
const MaxWidth = 32

// Value is a logic value of a given bit width. Each bit is drawn from the
// four-state lattice {0, 1, x (indeterminate), E (conflict)}.
// A conflict bit takes precedence over an indeterminate one.
type Value struct {
	width   uint8
	err     uint32 // conflict bits
	unknown uint32 // indeterminate bits
	bits    uint32 // known bit values
}

// Single-bit constants.
var (
	False   = Value{width: 1}
	True    = Value{width: 1, bits: 1}
	Unknown = Value{width: 1, unknown: 1}
	Error   = Value{width: 1, err: 1}
	NIL     = Value{}
)

func mask(width uint8) uint32 {
	if width >= MaxWidth {
		return ^uint32(0)
	}
	return (uint32(1) << width) - 1
}

// NewValue returns a fully known value of the given width. Bits of v beyond
// width are discarded.
func NewValue(width int, v uint32) Value {
	w := clampWidth(width)
	return Value{width: w, bits: v & mask(w)}
}

// UnknownValue returns a value of the given width with every bit
// indeterminate.
func UnknownValue(width int) Value {
	w := clampWidth(width)
	return Value{width: w, unknown: mask(w)}
}

func clampWidth(width int) uint8 {
	if width < 0 {
		return 0
	}
	if width > MaxWidth {
		return MaxWidth
	}
	return uint8(width)
}

// Width returns the number of bits in v.
func (v Value) Width() int { return int(v.width) }

// Bits returns the known bit values. Indeterminate and conflict bits read
// as zero.
func (v Value) Bits() uint32 { return v.bits &^ (v.err | v.unknown) }

// IsFullyDefined reports whether every bit of v is 0 or 1.
func (v Value) IsFullyDefined() bool {
	return v.width > 0 && v.err == 0 && v.unknown == 0
}

// Bit returns bit i of v as a single-bit value.
func (v Value) Bit(i int) Value {
	if i < 0 || i >= int(v.width) {
		return NIL
	}
	b := uint32(1) << uint(i)
	switch {
	case v.err&b != 0:
		return Error
	case v.unknown&b != 0:
		return Unknown
	case v.bits&b != 0:
		return True
	default:
		return False
	}
}

// Equal reports lattice equality: same width and the same state for every
// bit.
func (v Value) Equal(o Value) bool {
	if v.width != o.width {
		return false
	}
	m := mask(v.width)
	if v.err&m != o.err&m {
		return false
	}
	unknown := v.unknown &^ v.err & m
	if unknown != o.unknown&^o.err&m {
		return false
	}
	known := m &^ (v.err | v.unknown)
	return v.bits&known == o.bits&known
}

// String renders v the way the console table prints it: a single
// character for one bit, most significant bit first with a space every four
// bits for buses, and "-" for a zero-width value.
func (v Value) String() string {
	switch v.width {
	case 0:
		return "-"
	case 1:
		return bitChar(v, 0)
	}
	var sb strings.Builder
	for i := int(v.width) - 1; i >= 0; i-- {
		sb.WriteString(bitChar(v, i))
		if i%4 == 0 && i != 0 {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

func bitChar(v Value, i int) string {
	b := uint32(1) << uint(i)
	switch {
	case v.err&b != 0:
		return "E"
	case v.unknown&b != 0:
		return "x"
	case v.bits&b != 0:
		return "1"
	default:
		return "0"
	}
}

// ParseValue parses the textual form produced by String, ignoring spaces
// and underscores. The text may be shorter than width; missing high bits
// are zero. Accepted bit characters are 0, 1, x/X/? (indeterminate) and
// E/e (conflict).
func ParseValue(width int, text string) (Value, error) {
	if width <= 0 || width > MaxWidth {
		return NIL, errors.Errorf("invalid width %d (1..%d)", width, MaxWidth)
	}
	clean := strings.NewReplacer(" ", "", "_", "").Replace(text)
	if clean == "" {
		return NIL, errors.New("empty value")
	}
	if len(clean) > width {
		return NIL, errors.Errorf("value %q is wider than %d bits", text, width)
	}
	v := Value{width: uint8(width)}
	for i := 0; i < len(clean); i++ {
		b := uint32(1) << uint(len(clean)-1-i)
		switch clean[i] {
		case '0':
		case '1':
			v.bits |= b
		case 'x', 'X', '?':
			v.unknown |= b
		case 'E', 'e':
			v.err |= b
		default:
			return NIL, errors.Errorf("invalid bit %q in value %q", clean[i], text)
		}
	}
	return v, nil
}

// ValuesEqual compares two samples element-wise with lattice equality.
func ValuesEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
