package schematic

// Component types with behaviour in the replay engine.
const (
	TypePin      = "Pin"
	TypeRAM      = "RAM"
	TypeTTY      = "TTY"
	TypeKeyboard = "Keyboard"
)

// Libraries lists the built-in libraries in display order.
var Libraries = []string{"Wiring", "Gates", "Plexers", "Arithmetic", "Memory", "Input/Output", "Base"}

// Catalog maps every built-in component type to its library.
var Catalog = map[string]string{
	TypePin:         "Wiring",
	"Probe":         "Wiring",
	"Tunnel":        "Wiring",
	"Splitter":      "Wiring",
	"Pull Resistor": "Wiring",
	"Clock":         "Wiring",
	"Constant":      "Wiring",
	"Power":         "Wiring",
	"Ground":        "Wiring",
	"Transistor":    "Wiring",
	"Bit Extender":  "Wiring",

	"NOT Gate":            "Gates",
	"Buffer":              "Gates",
	"AND Gate":            "Gates",
	"OR Gate":             "Gates",
	"NAND Gate":           "Gates",
	"NOR Gate":            "Gates",
	"XOR Gate":            "Gates",
	"XNOR Gate":           "Gates",
	"Odd Parity":          "Gates",
	"Even Parity":         "Gates",
	"Controlled Buffer":   "Gates",
	"Controlled Inverter": "Gates",

	"Multiplexer":      "Plexers",
	"Demultiplexer":    "Plexers",
	"Decoder":          "Plexers",
	"Priority Encoder": "Plexers",
	"Bit Selector":     "Plexers",

	"Adder":      "Arithmetic",
	"Subtractor": "Arithmetic",
	"Multiplier": "Arithmetic",
	"Divider":    "Arithmetic",
	"Negator":    "Arithmetic",
	"Comparator": "Arithmetic",
	"Shifter":    "Arithmetic",
	"Bit Adder":  "Arithmetic",
	"Bit Finder": "Arithmetic",

	"D Flip-Flop":    "Memory",
	"T Flip-Flop":    "Memory",
	"J-K Flip-Flop":  "Memory",
	"S-R Flip-Flop":  "Memory",
	"Register":       "Memory",
	"Counter":        "Memory",
	"Shift Register": "Memory",
	"Random":         "Memory",
	TypeRAM:          "Memory",
	"ROM":            "Memory",

	"Button":            "Input/Output",
	"Joystick":          "Input/Output",
	TypeKeyboard:        "Input/Output",
	"LED":               "Input/Output",
	"7-Segment Display": "Input/Output",
	"Hex Digit Display": "Input/Output",
	"LED Matrix":        "Input/Output",
	TypeTTY:             "Input/Output",

	"Text": "Base",
}

// LibraryRank orders libraries for display. Project sub-circuits ("") sort
// after every built-in library.
func LibraryRank(lib string) int {
	for i, l := range Libraries {
		if l == lib {
			return i
		}
	}
	return len(Libraries)
}
