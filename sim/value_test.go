package sim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circuit-sim/circuit-sim/sim"
)

func TestValue_String_SingleBitStates(t *testing.T) {
	tests := []struct {
		v    sim.Value
		want string
	}{
		{sim.False, "0"},
		{sim.True, "1"},
		{sim.Unknown, "x"},
		{sim.Error, "E"},
		{sim.NIL, "-"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.String())
		})
	}
}

func TestValue_String_BusGroupsNibbles(t *testing.T) {
	// GIVEN an 8-bit and a 6-bit value
	// WHEN rendered
	// THEN bits print MSB first with a space every four bits
	assert.Equal(t, "1010 0101", sim.NewValue(8, 0xa5).String())
	assert.Equal(t, "11 0001", sim.NewValue(6, 0x31).String())
	assert.Equal(t, "xxxx", sim.UnknownValue(4).String())
}

func TestValue_Equal_IsLatticeEquality(t *testing.T) {
	// GIVEN values built in different ways but with the same bit states
	a, err := sim.ParseValue(4, "1x0E")
	require.NoError(t, err)
	b, err := sim.ParseValue(4, "1 x 0 e")
	require.NoError(t, err)

	// THEN they are equal
	assert.True(t, a.Equal(b))

	// AND differing widths or states are not
	assert.False(t, sim.NewValue(1, 1).Equal(sim.NewValue(2, 1)))
	assert.False(t, sim.Unknown.Equal(sim.Error))
	assert.False(t, sim.True.Equal(sim.Unknown))
	assert.True(t, sim.NewValue(1, 1).Equal(sim.True))
}

func TestParseValue_RoundTripsString(t *testing.T) {
	for _, text := range []string{"0", "1", "x", "E", "0110 1x01", "EEEE 0000 1111"} {
		t.Run(text, func(t *testing.T) {
			width := 0
			for _, c := range text {
				if c != ' ' {
					width++
				}
			}
			v, err := sim.ParseValue(width, text)
			require.NoError(t, err)
			assert.Equal(t, text, v.String())
		})
	}
}

func TestParseValue_ShortTextZeroExtends(t *testing.T) {
	v, err := sim.ParseValue(4, "11")
	require.NoError(t, err)
	assert.Equal(t, "0011", v.String())
	assert.Equal(t, uint32(3), v.Bits())
	assert.True(t, v.IsFullyDefined())
}

func TestParseValue_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		width int
		text  string
	}{
		{"too wide", 2, "101"},
		{"bad char", 4, "10z1"},
		{"empty", 4, ""},
		{"zero width", 0, "1"},
		{"over max width", sim.MaxWidth + 1, "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.ParseValue(tt.width, tt.text)
			assert.Error(t, err)
		})
	}
}

func TestValuesEqual_ElementWise(t *testing.T) {
	a := []sim.Value{sim.True, sim.NewValue(4, 3)}
	b := []sim.Value{sim.True, sim.NewValue(4, 3)}
	c := []sim.Value{sim.True, sim.NewValue(4, 4)}
	assert.True(t, sim.ValuesEqual(a, b))
	assert.False(t, sim.ValuesEqual(a, c))
	assert.False(t, sim.ValuesEqual(a, a[:1]))
	assert.True(t, sim.ValuesEqual(nil, []sim.Value{}))
}

func TestValue_Bit(t *testing.T) {
	v, err := sim.ParseValue(4, "E x10")
	require.NoError(t, err)
	assert.True(t, v.Bit(0).Equal(sim.False))
	assert.True(t, v.Bit(1).Equal(sim.True))
	assert.True(t, v.Bit(2).Equal(sim.Unknown))
	assert.True(t, v.Bit(3).Equal(sim.Error))
	assert.True(t, v.Bit(4).Equal(sim.NIL))
}
