package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/mainstime/clocksim/lib"
)

func TestScannerVisitsDigitsInOrder(t *testing.T) {
	u := NewScanner(ScannerConfig{})
	d := Digits{HourTens: 1, HourOnes: 2, MinuteTens: 3, MinuteOnes: 4, SecondTens: 5, SecondOnes: 6}
	want := []int{1, 2, 3, 4, 5, 6}
	for sweep := 0; sweep < 2; sweep++ {
		for i, wantDigit := range want {
			out := u.Step(d)
			digit, ok := SegDecode(out.Segments)
			require.True(t, ok)
			assert.Equal(t, wantDigit, digit, "phase %d", i)
			assert.Equal(t, byte(1)<<uint(i), out.Latches, "exactly one latch per tick")
		}
	}
}

func TestScannerActiveLowPolarity(t *testing.T) {
	u := NewScanner(ScannerConfig{SegmentActiveLow: true, LatchActiveLow: true})
	out := u.Step(Digits{HourTens: 8})
	assert.Equal(t, ^SegEncode(8)&0x7f, out.Segments)
	assert.Equal(t, byte(0x3e), out.Latches, "all latches high except hour tens")
}

func TestScannerInvalidDigitRendersDash(t *testing.T) {
	u := NewScanner(ScannerConfig{})
	out := u.Step(Digits{HourTens: 11})
	assert.Equal(t, byte(SegDash), out.Segments)
}

func TestScannerReset(t *testing.T) {
	u := NewScanner(ScannerConfig{})
	u.Step(Digits{})
	u.Step(Digits{})
	assert.Equal(t, 2, u.Phase())
	u.Reset()
	assert.Equal(t, 0, u.Phase())
}
