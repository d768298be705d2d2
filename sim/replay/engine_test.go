package replay_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/circuit-sim/circuit-sim/sim"
	"github.com/circuit-sim/circuit-sim/sim/internal/testutil"
	"github.com/circuit-sim/circuit-sim/sim/replay"
	"github.com/circuit-sim/circuit-sim/sim/schematic"
)

func TestMain(m *testing.M) {
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.WarnLevel)
	} else {
		logrus.SetLevel(logrus.TraceLevel)
	}
	os.Exit(m.Run())
}

func load(t *testing.T, doc string) *schematic.File {
	t.Helper()
	f, err := schematic.Parse([]byte(doc), ".yaml")
	require.NoError(t, err)
	return f
}

const counter = `
circuits:
  - name: main
    components:
      - {type: Pin, label: q, width: 4, output: true, values: ["0000", "0001", "0010", "0011", "0100", "0101"]}
      - {type: Pin, label: halt, output: true, values: ["0", "0", "0", "0", "0", "1"]}
      - {type: Pin, label: in}
      - {type: stage}
  - name: stage
    components:
      - {type: Pin, label: inner, output: true, values: ["1"]}
      - {type: RAM}
`

func TestEngine_StateTreeAppearsOnFirstSettle(t *testing.T) {
	// GIVEN a fresh engine
	e := replay.New(load(t, counter), nil)
	root := e.Root()
	assert.Empty(t, root.LocalDevices())
	assert.Empty(t, root.Children())

	// WHEN settled once
	e.Settle()

	// THEN the same root now holds main's devices and the sub-circuit state
	require.Len(t, root.LocalDevices(), 4)
	require.Len(t, root.Children(), 1)
	assert.Len(t, root.Children()[0].LocalDevices(), 2)

	// AND only main's output pins take part in a run
	d := sim.Scan(root)
	require.Len(t, d.OutputPins, 1)
	assert.Equal(t, "q", d.OutputPins[0].Label())
	require.Len(t, d.HaltPins, 1)
	assert.Len(t, d.Memories, 1)
}

func TestEngine_PinsReplayAndHoldLastValue(t *testing.T) {
	e := replay.New(load(t, counter), nil)
	e.Settle()
	q := sim.Scan(e.Root()).OutputPins[0]

	var got []string
	for i := 0; i < 8; i++ {
		got = append(got, q.Value().String())
		e.Tick()
		e.Settle()
	}

	assert.Equal(t, []string{"0000", "0001", "0010", "0011", "0100", "0101", "0101", "0101"}, got)
}

func TestEngine_PinWithoutRecordingIsUnknown(t *testing.T) {
	e := replay.New(load(t, "circuits:\n  - name: m\n    components: [{type: Pin, output: true, width: 2}]\n"), nil)
	e.Settle()
	assert.Equal(t, "xx", sim.Scan(e.Root()).OutputPins[0].Value().String())
}

func TestEngine_OscillatesFromRecordedTick(t *testing.T) {
	e := replay.New(load(t, "oscillate_at: 2\ncircuits:\n  - name: m\n"), nil)

	var got []bool
	for i := 0; i < 4; i++ {
		e.Settle()
		got = append(got, e.IsOscillating())
		e.Tick()
	}

	assert.Equal(t, []bool{false, false, true, true}, got)
	assert.Equal(t, int64(4), e.Clock())
}

func TestEngine_TTYPrintsScriptOncePerTick(t *testing.T) {
	// GIVEN a TTY scripted to print at ticks 1 and 3
	e := replay.New(load(t, `
circuits:
  - name: m
    components:
      - {type: TTY, prints: [{at: 1, text: "a"}, {at: 3, text: "b"}]}
`), nil)
	e.Settle()
	tty := sim.Scan(e.Root()).CharOutputs[0].(*replay.TTY)
	var buf bytes.Buffer
	tty.SendTo(&buf)

	// WHEN the clock passes both ticks with repeated settles
	for i := 0; i < 4; i++ {
		e.Tick()
		e.Settle()
		e.Settle()
	}

	// THEN each text appears exactly once
	assert.Equal(t, "ab", buf.String())
	assert.Equal(t, "ab", tty.Display())
}

func TestEngine_EchoingTTYShowsKeyboardInput(t *testing.T) {
	e := replay.New(load(t, `
circuits:
  - name: m
    components:
      - {type: Keyboard}
      - {type: TTY, echo: true}
      - {type: io}
  - name: io
    components:
      - {type: Keyboard}
`), nil)
	e.Settle()
	d := sim.Scan(e.Root())
	require.Len(t, d.CharInputs, 2)

	for _, k := range d.CharInputs {
		k.Feed([]rune("hé"))
	}
	e.Tick()
	e.Settle()

	tty := d.CharOutputs[0].(*replay.TTY)
	assert.Equal(t, "hé", tty.Display(), "only the keyboard next to the TTY is echoed")
	assert.Equal(t, "", d.CharInputs[0].(*replay.Keyboard).Buffered())
	assert.Equal(t, "hé", d.CharInputs[1].(*replay.Keyboard).Buffered())
}

func TestRun_CounterHaltsThroughDriver(t *testing.T) {
	// GIVEN the replayed counter driven headlessly with table and halt output
	e := replay.New(load(t, counter), nil)
	var buf bytes.Buffer
	s := sim.NewSimulator(e, e.Root(), sim.Options{Format: sim.FormatTable | sim.FormatHalt, Out: &buf})

	// WHEN run
	res, err := s.Run(context.Background())

	// THEN every distinct value prints and the halt pin ends the run at tick 5
	require.NoError(t, err)
	assert.Equal(t, sim.StateHalted, res.State)
	assert.Equal(t, int64(5), res.Ticks)
	assert.Equal(t, []string{"0000", "0001", "0010", "0011", "0100", "0101", sim.MsgHaltPin}, testutil.Lines(buf.String()))
}

func TestRun_ImageReachesNestedRAM(t *testing.T) {
	e := replay.New(load(t, counter), nil)
	path := filepath.Join(t.TempDir(), "image.hex")
	require.NoError(t, os.WriteFile(path, []byte("v2.0 raw\n1 2 3*7f 1ff\n"), 0644))

	s := sim.NewSimulator(e, e.Root(), sim.Options{ImagePath: path})
	_, err := s.Run(context.Background())
	require.NoError(t, err)

	ram := sim.Scan(e.Root()).Memories[0].(*replay.RAM)
	got := []uint32{ram.Word(0), ram.Word(1), ram.Word(2), ram.Word(4), ram.Word(5), ram.Word(6)}
	assert.Equal(t, []uint32{1, 2, 0x7f, 0x7f, 0xff, 0}, got, "words are truncated to 8 bits and the rest cleared")
}

func TestRun_MalformedImageIsLoadError(t *testing.T) {
	e := replay.New(load(t, counter), nil)
	path := filepath.Join(t.TempDir(), "image.hex")
	require.NoError(t, os.WriteFile(path, []byte("v3.0 hex\n"), 0644))

	_, err := sim.NewSimulator(e, e.Root(), sim.Options{ImagePath: path}).Run(context.Background())

	require.Error(t, err)
	assert.True(t, sim.IsLoadError(err))
}

func TestRun_LiveInputIsEchoed(t *testing.T) {
	// GIVEN an echoing terminal, live input and a throttled clock
	e := replay.New(load(t, `
oscillate_at: 300
circuits:
  - name: m
    components:
      - {type: Keyboard}
      - {type: TTY, echo: true}
`), nil)
	var buf bytes.Buffer
	s := sim.NewSimulator(e, e.Root(), sim.Options{
		Format:  sim.FormatTTY,
		Input:   strings.NewReader("hi\n"),
		Out:     &buf,
		Limiter: rate.NewLimiter(rate.Every(time.Millisecond), 1),
	})

	// WHEN run until the recorded oscillation
	res, err := s.Run(context.Background())

	// THEN the typed line is echoed before the oscillation report
	require.NoError(t, err)
	assert.Equal(t, sim.CodeOscillation, res.Code)
	assert.Equal(t, "hi\n"+sim.MsgOscillation+"\n", buf.String())
}
