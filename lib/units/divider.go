package units

import (
	"fmt"

	. "github.com/mainstime/clocksim/lib"
)

// Divider counts mains ticks and marks second boundaries.  A boundary fires
// when the count reaches the terminal value for the selected mains frequency,
// or immediately on a synchronized PPS rising edge, whichever comes first.
// The PPS path lets an external once-per-second reference pull the internal
// second into phase regardless of how far along the count is.
type Divider struct {
	cfg   DividerConfig
	count int

	ppsSync Synchronizer
	ppsEdge EdgeDetector
}

// DividerConfig sets the terminal counts for the two mains frequencies.
// Zero values select the nominal 60 Hz / 50 Hz terminals.
type DividerConfig struct {
	Terminal60 int // last count before the boundary at 60 Hz (59)
	Terminal50 int // last count before the boundary at 50 Hz (49)
}

// DividerIn is the divider's per-tick input sample.
type DividerIn struct {
	Run    bool // low freezes the count and masks boundaries
	PPS    bool // raw reference pulse, synchronized internally
	Freq50 bool // high selects the 50 Hz terminal count
	Reset  bool // zeroes the count, overriding everything else
}

// DividerOut reports boundary activity for the tick just stepped.
type DividerOut struct {
	Second    bool // second boundary, asserted for this one tick
	Realigned bool // boundary was forced by PPS ahead of the terminal count
}

func NewDivider(cfg DividerConfig) *Divider {
	if cfg.Terminal60 <= 0 {
		cfg.Terminal60 = 59
	}
	if cfg.Terminal50 <= 0 {
		cfg.Terminal50 = 49
	}
	return &Divider{cfg: cfg}
}

// Step advances the divider by one tick.  The boundary is computed from the
// pre-tick count and the synchronized PPS edge, so dependent counters can
// consume it in the same tick with no added latency.
func (u *Divider) Step(in DividerIn) DividerOut {
	// The synchronizer registers shift every tick, run mode or not, so a
	// PPS edge straddling a mode change is never seen twice.
	pps := u.ppsEdge.Sample(u.ppsSync.Sample(in.PPS))

	if in.Reset {
		u.count = 0
		return DividerOut{}
	}
	if !in.Run {
		return DividerOut{}
	}

	terminal := u.cfg.Terminal60
	if in.Freq50 {
		terminal = u.cfg.Terminal50
	}
	// >= so the count cannot stick above a terminal lowered mid-second by
	// the frequency switch.
	atTerminal := u.count >= terminal
	if atTerminal || pps {
		u.count = 0
		return DividerOut{Second: true, Realigned: pps && !atTerminal}
	}
	u.count++
	return DividerOut{}
}

// Count returns the current tick count within the second.
func (u *Divider) Count() int {
	return u.count
}

// Reset returns the divider to its power-on state, including the PPS
// synchronizer.
func (u *Divider) Reset() {
	u.count = 0
	u.ppsSync.Reset()
	u.ppsEdge.Reset()
}

// Stat returns a one-line status summary.
func (u *Divider) Stat() string {
	return fmt.Sprintf("divider %02d", u.count)
}
