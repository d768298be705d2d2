package sim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/circuit-sim/circuit-sim/sim"
	"github.com/circuit-sim/circuit-sim/sim/internal/testutil"
)

// countingNode wraps a Node and counts how often it is visited.
type countingNode struct {
	*testutil.Node
	visits *map[*testutil.Node]int
	kids   []*countingNode
}

func (c *countingNode) Children() []sim.State {
	out := make([]sim.State, len(c.kids))
	for i, k := range c.kids {
		out[i] = k
	}
	return out
}

func (c *countingNode) LocalDevices() []sim.Device {
	(*c.visits)[c.Node]++
	return c.Node.LocalDevices()
}

func TestScan_FindsDevicesAtEveryDepth(t *testing.T) {
	// GIVEN a three-level tree with devices of every role spread across it
	e := testutil.NewEngine(nil)
	ram1, ram2 := &testutil.Memory{}, &testutil.Memory{}
	kb := &testutil.Keyboard{}
	tty := &testutil.TTY{}
	out := testutil.OutputPin(e, "out", sim.False)
	halt := testutil.HaltPin(e, 3)
	root := &testutil.Node{
		Devices: []sim.Device{out, halt},
		Kids: []*testutil.Node{
			{Devices: []sim.Device{ram1}, Kids: []*testutil.Node{{Devices: []sim.Device{kb, ram2}}}},
			{Devices: []sim.Device{tty}},
		},
	}

	// WHEN scanned
	d := sim.Scan(root)

	// THEN every role is found with the right devices
	assert.ElementsMatch(t, []sim.Memory{ram1, ram2}, d.Memories)
	assert.Equal(t, []sim.CharInput{kb}, d.CharInputs)
	assert.Equal(t, []sim.CharOutput{tty}, d.CharOutputs)
	assert.Equal(t, []sim.Pin{out}, d.OutputPins)
	assert.Equal(t, []sim.Pin{halt}, d.HaltPins)
	for _, r := range []sim.Role{sim.RoleMemory, sim.RoleCharInput, sim.RoleCharOutput, sim.RoleOutputPin, sim.RoleHaltPin} {
		assert.True(t, d.Found(r), r.String())
	}
}

func TestScan_NotFoundIsNotAnError(t *testing.T) {
	// GIVEN a tree with no devices at all
	root := &testutil.Node{Kids: []*testutil.Node{{}, {Kids: []*testutil.Node{{}}}}}

	// WHEN scanned
	d := sim.Scan(root)

	// THEN every role reports not found
	assert.False(t, d.Found(sim.RoleMemory))
	assert.False(t, d.Found(sim.RoleCharInput))
	assert.False(t, d.Found(sim.RoleHaltPin))
	assert.Empty(t, d.OutputPins)
}

func TestScan_NilRoot(t *testing.T) {
	d := sim.Scan(nil)
	assert.False(t, d.Found(sim.RoleOutputPin))
}

func TestScan_VisitsEveryNodeExactlyOnce(t *testing.T) {
	// GIVEN a tree of seven nodes
	visits := map[*testutil.Node]int{}
	mk := func(kids ...*countingNode) *countingNode {
		return &countingNode{Node: &testutil.Node{}, visits: &visits, kids: kids}
	}
	root := mk(mk(mk(), mk()), mk(mk(), mk()))

	// WHEN scanned
	sim.Scan(root)

	// THEN each node's devices were listed once
	assert.Len(t, visits, 7)
	for n, c := range visits {
		assert.Equal(t, 1, c, "node %p", n)
	}
}

func TestScan_OrderIsDepthFirstPreOrder(t *testing.T) {
	// GIVEN output pins at several depths
	e := testutil.NewEngine(nil)
	a := testutil.OutputPin(e, "a", sim.False)
	b := testutil.OutputPin(e, "b", sim.False)
	c := testutil.OutputPin(e, "c", sim.False)
	d := testutil.OutputPin(e, "d", sim.False)
	root := &testutil.Node{
		Devices: []sim.Device{a},
		Kids: []*testutil.Node{
			{Devices: []sim.Device{b}, Kids: []*testutil.Node{{Devices: []sim.Device{c}}}},
			{Devices: []sim.Device{d}},
		},
	}

	// WHEN scanned twice
	first := sim.Scan(root).OutputPins
	second := sim.Scan(root).OutputPins

	// THEN the order is pre-order and stable
	assert.Equal(t, []sim.Pin{a, b, c, d}, first)
	assert.Equal(t, first, second)
}

// liar claims a role it does not implement.
type liar struct{}

func (liar) Role() sim.Role { return sim.RoleMemory }

func TestScan_IgnoresDevicesNotImplementingTheirRole(t *testing.T) {
	root := &testutil.Node{Devices: []sim.Device{liar{}, nil}}
	d := sim.Scan(root)
	assert.False(t, d.Found(sim.RoleMemory))
	assert.Equal(t, []sim.Device{liar{}}, d.Ignored)
}
