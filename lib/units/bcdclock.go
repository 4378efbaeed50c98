package units

import (
	"fmt"
)

// Digits is a time of day held as decimal digit pairs, the way the display
// hardware consumes it.  Tens digits are bounded per field: seconds and
// minutes tens run 0-5, hour tens 0-2 with the combined hour value at most 23.
type Digits struct {
	HourTens   int
	HourOnes   int
	MinuteTens int
	MinuteOnes int
	SecondTens int
	SecondOnes int
}

// HHMMSS formats the digits as a colon-separated string.
func (d Digits) HHMMSS() string {
	return fmt.Sprintf("%d%d:%d%d:%d%d",
		d.HourTens, d.HourOnes, d.MinuteTens, d.MinuteOnes, d.SecondTens, d.SecondOnes)
}

// BCDClock is the cascading seconds/minutes/hours counter triple.  In run
// mode the seconds advance on each second boundary and carries ripple upward
// within the same tick.  In set mode each field advances independently on its
// own button pulse and wrapping a field never carries into the next one, so a
// field can be dialed without disturbing its neighbors.
type BCDClock struct {
	d Digits
}

// BCDClockIn is the counter triple's per-tick input sample.  Mode gating
// upstream guarantees at most one increment source is active per field per
// tick: Second only fires in run mode and the Inc pulses only in set mode.
type BCDClockIn struct {
	Reset   bool // zero all six digits, overriding any increment this tick
	SetMode bool
	Second  bool // run mode: second boundary event

	// Set mode button pulses, one tick each.
	IncHours   bool
	IncMinutes bool
	IncSeconds bool
}

func NewBCDClock() *BCDClock {
	return &BCDClock{}
}

// Step advances the counters by one tick.
func (u *BCDClock) Step(in BCDClockIn) {
	if in.Reset {
		u.d = Digits{}
		return
	}
	if in.SetMode {
		if in.IncSeconds {
			u.d.SecondTens, u.d.SecondOnes, _ = incPair(u.d.SecondTens, u.d.SecondOnes)
		}
		if in.IncMinutes {
			u.d.MinuteTens, u.d.MinuteOnes, _ = incPair(u.d.MinuteTens, u.d.MinuteOnes)
		}
		if in.IncHours {
			u.d.HourTens, u.d.HourOnes, _ = incHours(u.d.HourTens, u.d.HourOnes)
		}
		return
	}
	if in.Second {
		var carry bool
		u.d.SecondTens, u.d.SecondOnes, carry = incPair(u.d.SecondTens, u.d.SecondOnes)
		if carry {
			u.d.MinuteTens, u.d.MinuteOnes, carry = incPair(u.d.MinuteTens, u.d.MinuteOnes)
			if carry {
				u.d.HourTens, u.d.HourOnes, _ = incHours(u.d.HourTens, u.d.HourOnes)
			}
		}
	}
}

// Digits returns the stored 24-hour time.
func (u *BCDClock) Digits() Digits {
	return u.d
}

// Set loads a time of day directly, clamping to the representable range.
func (u *BCDClock) Set(hours, minutes, seconds int) error {
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 || seconds < 0 || seconds > 59 {
		return fmt.Errorf("time %02d:%02d:%02d out of range", hours, minutes, seconds)
	}
	u.d = Digits{
		HourTens: hours / 10, HourOnes: hours % 10,
		MinuteTens: minutes / 10, MinuteOnes: minutes % 10,
		SecondTens: seconds / 10, SecondOnes: seconds % 10,
	}
	return nil
}

// Reset zeroes all six digits.
func (u *BCDClock) Reset() {
	u.d = Digits{}
}

// incPair steps a 0-59 tens/ones pair, reporting a carry when 59 wraps to 00.
func incPair(tens, ones int) (int, int, bool) {
	if tens == 5 && ones == 9 {
		return 0, 0, true
	}
	if ones == 9 {
		return tens + 1, 0, false
	}
	return tens, ones + 1, false
}

// incHours steps the 0-23 hour pair, reporting a carry when 23 wraps to 00.
func incHours(tens, ones int) (int, int, bool) {
	if tens == 2 && ones == 3 {
		return 0, 0, true
	}
	if ones == 9 {
		return tens + 1, 0, false
	}
	return tens, ones + 1, false
}
