package units

// DisplayOut is the converted face value for one tick.
type DisplayOut struct {
	Digits Digits
	PM     bool
}

// Convert maps a stored 24-hour time to display digits.  It is a pure
// function recomputed every tick; nothing is latched here.
//
// In 24-hour mode the digits pass through and PM stays low.  In 12-hour mode
// hour 0 shows as 12 (AM), 1 through 12 show unchanged, and 13 through 23
// show as the hour less twelve, with PM high from noon onward.  Minutes and
// seconds pass through in both modes.
func Convert(d Digits, hour12 bool) DisplayOut {
	if !hour12 {
		return DisplayOut{Digits: d}
	}
	h := d.HourTens*10 + d.HourOnes
	pm := h >= 12
	switch {
	case h == 0:
		h = 12
	case h > 12:
		h -= 12
	}
	d.HourTens = h / 10
	d.HourOnes = h % 10
	return DisplayOut{Digits: d, PM: pm}
}
