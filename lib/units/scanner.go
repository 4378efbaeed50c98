package units

import (
	. "github.com/mainstime/clocksim/lib"
)

// Scanner multiplexes the six-digit face onto a shared seven-segment bus.
// Each tick it presents one digit's segment pattern and asserts that digit's
// latch enable, visiting the digits in fixed order: hour tens, hour ones,
// minute tens, minute ones, second tens, second ones.  A full sweep takes six
// ticks, so every latch line is held for one full tick period per sweep.
type Scanner struct {
	cfg   ScannerConfig
	phase int
}

// ScannerConfig selects the drive polarity of the two output buses.
type ScannerConfig struct {
	SegmentActiveLow bool
	LatchActiveLow   bool
}

// ScannerOut is the bus state for one tick.  Segments packs {a..g} with a in
// bit 6; Latches packs the enables with hour tens in bit 0 through second
// ones in bit 5.
type ScannerOut struct {
	Segments byte
	Latches  byte
}

func NewScanner(cfg ScannerConfig) *Scanner {
	return &Scanner{cfg: cfg}
}

// Step emits the bus state for the current phase and advances to the next
// digit.
func (u *Scanner) Step(d Digits) ScannerOut {
	order := [6]int{d.HourTens, d.HourOnes, d.MinuteTens, d.MinuteOnes, d.SecondTens, d.SecondOnes}
	out := ScannerOut{
		Segments: SegEncode(order[u.phase]),
		Latches:  1 << uint(u.phase),
	}
	if u.cfg.SegmentActiveLow {
		out.Segments = ^out.Segments & 0x7f
	}
	if u.cfg.LatchActiveLow {
		out.Latches = ^out.Latches & 0x3f
	}
	u.phase = (u.phase + 1) % 6
	return out
}

// Phase returns the index of the digit to be presented next.
func (u *Scanner) Phase() int {
	return u.phase
}

// Reset restarts the sweep at hour tens.
func (u *Scanner) Reset() {
	u.phase = 0
}
