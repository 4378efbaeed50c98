package lib

// Seven segment patterns are packed as {a,b,c,d,e,f,g} with segment a in bit
// 6 and segment g in bit 0, active high.  Polarity inversion for active-low
// hardware is the scanner's job.

// SegDash is the pattern shown for a value that is not a decimal digit
// (segment g only).
const SegDash = 0x01

var segDigits = [10]byte{
	0x7e, // 0: abcdef
	0x30, // 1: bc
	0x6d, // 2: abdeg
	0x79, // 3: abcdg
	0x33, // 4: bcfg
	0x5b, // 5: acdfg
	0x5f, // 6: acdefg
	0x70, // 7: abc
	0x7f, // 8: abcdefg
	0x7b, // 9: abcdfg
}

// SegEncode maps a decimal digit to its segment pattern.  Out of range
// values render as SegDash.
func SegEncode(digit int) byte {
	if digit < 0 || digit > 9 {
		return SegDash
	}
	return segDigits[digit]
}

// SegDecode maps a segment pattern back to a digit.  ok is false for
// patterns that do not spell a decimal digit.
func SegDecode(pattern byte) (digit int, ok bool) {
	pattern &= 0x7f
	for i, p := range segDigits {
		if p == pattern {
			return i, true
		}
	}
	return 0, false
}
