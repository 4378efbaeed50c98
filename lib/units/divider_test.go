package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDividerPeriod60(t *testing.T) {
	u := NewDivider(DividerConfig{})
	boundaries := []int{}
	for tick := 0; tick < 200; tick++ {
		out := u.Step(DividerIn{Run: true})
		if out.Second {
			boundaries = append(boundaries, tick)
		}
	}
	require.GreaterOrEqual(t, len(boundaries), 3)
	for i := 1; i < len(boundaries); i++ {
		assert.Equal(t, 60, boundaries[i]-boundaries[i-1], "period must be exactly 60 ticks")
	}
}

func TestDividerPeriod50(t *testing.T) {
	u := NewDivider(DividerConfig{})
	boundaries := []int{}
	for tick := 0; tick < 200; tick++ {
		out := u.Step(DividerIn{Run: true, Freq50: true})
		if out.Second {
			boundaries = append(boundaries, tick)
		}
	}
	require.GreaterOrEqual(t, len(boundaries), 3)
	for i := 1; i < len(boundaries); i++ {
		assert.Equal(t, 50, boundaries[i]-boundaries[i-1], "period must be exactly 50 ticks")
	}
}

func TestDividerPPSRealigns(t *testing.T) {
	u := NewDivider(DividerConfig{})
	// Get partway into a second.
	for i := 0; i < 10; i++ {
		u.Step(DividerIn{Run: true})
	}
	// Raise PPS for one tick: the synchronizer delays it, so the boundary
	// lands on the following tick.
	out := u.Step(DividerIn{Run: true, PPS: true})
	assert.False(t, out.Second)
	out = u.Step(DividerIn{Run: true})
	assert.True(t, out.Second, "boundary must land within a tick of the PPS edge")
	assert.True(t, out.Realigned)
	assert.Equal(t, 0, u.Count())

	// The next boundary is a full second after the realignment.
	next := -1
	for i := 0; i < 70; i++ {
		if u.Step(DividerIn{Run: true}).Second {
			next = i
			break
		}
	}
	assert.Equal(t, 59, next)
}

func TestDividerPPSAtTerminalIsNotRealignment(t *testing.T) {
	u := NewDivider(DividerConfig{})
	for i := 0; i < 58; i++ {
		u.Step(DividerIn{Run: true})
	}
	u.Step(DividerIn{Run: true, PPS: true})
	// Boundary tick: terminal count and the synchronized PPS edge coincide.
	out := u.Step(DividerIn{Run: true})
	assert.True(t, out.Second)
	assert.False(t, out.Realigned, "PPS in phase with the terminal count is not a realignment")
}

func TestDividerHeldPPSPulsesOnce(t *testing.T) {
	u := NewDivider(DividerConfig{})
	seconds := 0
	for i := 0; i < 10; i++ {
		if u.Step(DividerIn{Run: true, PPS: true}).Second {
			seconds++
		}
	}
	assert.Equal(t, 1, seconds, "a held PPS line realigns once, on its rising edge")
}

func TestDividerFrozenWhileNotRunning(t *testing.T) {
	u := NewDivider(DividerConfig{})
	for i := 0; i < 30; i++ {
		u.Step(DividerIn{Run: true})
	}
	count := u.Count()
	for i := 0; i < 500; i++ {
		out := u.Step(DividerIn{Run: false})
		assert.False(t, out.Second)
	}
	assert.Equal(t, count, u.Count(), "count must hold while frozen")
}

func TestDividerPPSIgnoredWhileFrozen(t *testing.T) {
	u := NewDivider(DividerConfig{})
	u.Step(DividerIn{Run: false, PPS: true})
	out := u.Step(DividerIn{Run: false})
	assert.False(t, out.Second)
	// The edge was consumed by the synchronizer while frozen; resuming must
	// not replay it.
	out = u.Step(DividerIn{Run: true})
	assert.False(t, out.Second)
}

func TestDividerResetOverrides(t *testing.T) {
	u := NewDivider(DividerConfig{})
	for i := 0; i < 59; i++ {
		u.Step(DividerIn{Run: true})
	}
	out := u.Step(DividerIn{Run: true, Reset: true})
	assert.False(t, out.Second, "reset suppresses the boundary")
	assert.Equal(t, 0, u.Count())
}

func TestDividerFrequencySwitchAboveTerminal(t *testing.T) {
	u := NewDivider(DividerConfig{})
	for i := 0; i < 55; i++ {
		u.Step(DividerIn{Run: true})
	}
	// Count sits at 55, above the 50 Hz terminal of 49: the next tick must
	// fire rather than wedge.
	out := u.Step(DividerIn{Run: true, Freq50: true})
	assert.True(t, out.Second)
	assert.Equal(t, 0, u.Count())
}

func TestDividerConfiguredTerminals(t *testing.T) {
	u := NewDivider(DividerConfig{Terminal60: 9, Terminal50: 4})
	fire := -1
	for i := 0; i < 20; i++ {
		if u.Step(DividerIn{Run: true}).Second {
			fire = i
			break
		}
	}
	assert.Equal(t, 9, fire)
}
