package units

import (
	"fmt"

	. "github.com/mainstime/clocksim/lib"
)

// Cycle steps the whole clock once per mains tick.  Everything a tick does --
// input conditioning, the divider, the counter cascade, display conversion,
// the digit sweep -- is computed and committed as one indivisible step, so
// dependent counters observe consistent pre-tick state and the outputs are
// consistent post-tick state.
type Cycle struct {
	cfg Config

	divider *Divider
	clock   *BCDClock
	scanner *Scanner

	modeDeb *Debouncer
	fmtDeb  *Debouncer
	freqDeb *Debouncer
	incDeb  [3]*Debouncer // hours, minutes, seconds
	incEdge [3]EdgeDetector

	colon bool
	ticks uint64

	tracer Tracer
}

// Config collects the depths, terminal counts, and polarities that vary
// between board builds.
type Config struct {
	DebounceDepth int // consecutive matching samples to accept a control line
	Divider       DividerConfig
	Scanner       ScannerConfig
}

// DefaultConfig mirrors the reference board: debounce depth 3, nominal
// terminal counts, active-high outputs.
func DefaultConfig() Config {
	return Config{DebounceDepth: 3}
}

// Inputs is one tick's worth of raw control samples.
type Inputs struct {
	Reset      bool // synchronous, zeroes time and divider this tick
	PPS        bool // raw reference pulse, >=1 tick wide to be observed
	SetMode    bool // high freezes time and enables the field buttons
	IncHours   bool
	IncMinutes bool
	IncSeconds bool
	Freq50     bool // high = 50 ticks per nominal second, low = 60
	Hour12     bool // high = 12-hour display with PM flag
}

// Outputs is the face state recomputed each tick.
type Outputs struct {
	Digits Digits // display digits, hour format applied
	PM     bool

	Colon       bool // flips once per second boundary, run mode only
	SecondPulse bool // high for exactly one tick per boundary
	Realigned   bool // this boundary was snapped to PPS

	Segments byte // seven-segment bus for the digit being swept
	Latches  byte // per-digit latch enables

	SetMode bool // debounced mode level, for panels that mirror it
}

func NewCycle(cfg Config) *Cycle {
	if cfg.DebounceDepth < 1 {
		cfg.DebounceDepth = 1
	}
	u := &Cycle{
		cfg:     cfg,
		divider: NewDivider(cfg.Divider),
		clock:   NewBCDClock(),
		scanner: NewScanner(cfg.Scanner),
		modeDeb: NewDebouncer(cfg.DebounceDepth),
		fmtDeb:  NewDebouncer(cfg.DebounceDepth),
		freqDeb: NewDebouncer(cfg.DebounceDepth),
	}
	for i := range u.incDeb {
		u.incDeb[i] = NewDebouncer(cfg.DebounceDepth)
	}
	return u
}

// Step advances the clock by one mains tick.
func (u *Cycle) Step(in Inputs) Outputs {
	if u.tracer != nil {
		u.tracer.AdvanceTimestep()
	}

	set := u.modeDeb.Sample(in.SetMode)
	hour12 := u.fmtDeb.Sample(in.Hour12)
	freq50 := u.freqDeb.Sample(in.Freq50)
	incH := u.incEdge[0].Sample(u.incDeb[0].Sample(in.IncHours))
	incM := u.incEdge[1].Sample(u.incDeb[1].Sample(in.IncMinutes))
	incS := u.incEdge[2].Sample(u.incDeb[2].Sample(in.IncSeconds))

	div := u.divider.Step(DividerIn{
		Run:    !set,
		PPS:    in.PPS,
		Freq50: freq50,
		Reset:  in.Reset,
	})
	u.clock.Step(BCDClockIn{
		Reset:      in.Reset,
		SetMode:    set,
		Second:     div.Second,
		IncHours:   incH,
		IncMinutes: incM,
		IncSeconds: incS,
	})

	if in.Reset {
		u.colon = false
		u.scanner.Reset()
	} else if div.Second {
		u.colon = !u.colon
	}

	face := Convert(u.clock.Digits(), hour12)
	sweep := u.scanner.Step(face.Digits)
	u.ticks++

	out := Outputs{
		Digits:      face.Digits,
		PM:          face.PM,
		Colon:       u.colon,
		SecondPulse: div.Second,
		Realigned:   div.Realigned,
		Segments:    sweep.Segments,
		Latches:     sweep.Latches,
		SetMode:     set,
	}
	if u.tracer != nil {
		if div.Second {
			u.tracer.LogPulse("clk.second", 1, 1)
		}
		if div.Realigned {
			u.tracer.LogPulse("clk.realign", 1, 1)
		}
		u.tracer.UpdateValues()
	}
	return out
}

// StepN advances the clock n ticks with the same input levels, returning the
// outputs of the final tick.
func (u *Cycle) StepN(in Inputs, n int) Outputs {
	var out Outputs
	for i := 0; i < n; i++ {
		out = u.Step(in)
	}
	return out
}

// Ticks returns the number of ticks stepped since power-on or Reset.
func (u *Cycle) Ticks() uint64 {
	return u.ticks
}

// Time returns the stored 24-hour time of day.
func (u *Cycle) Time() Digits {
	return u.clock.Digits()
}

// SetTime loads a time of day directly, bypassing the set-mode buttons.
func (u *Cycle) SetTime(hours, minutes, seconds int) error {
	return u.clock.Set(hours, minutes, seconds)
}

// DividerCount exposes the divider phase for status displays.
func (u *Cycle) DividerCount() int {
	return u.divider.Count()
}

// AttachTracer connects a trace logger.  The clock registers its leveled
// signals; pulses are logged as they happen inside Step.  Attaching nil
// detaches the current tracer.
func (u *Cycle) AttachTracer(tracer Tracer) {
	u.tracer = tracer
	if tracer == nil {
		return
	}
	tracer.RegisterValueCallback(func() {
		d := u.clock.Digits()
		tracer.LogValue("clk.count", 6, int64(u.divider.Count()))
		tracer.LogValue("clk.ht", 4, int64(d.HourTens))
		tracer.LogValue("clk.ho", 4, int64(d.HourOnes))
		tracer.LogValue("clk.mt", 4, int64(d.MinuteTens))
		tracer.LogValue("clk.mo", 4, int64(d.MinuteOnes))
		tracer.LogValue("clk.st", 4, int64(d.SecondTens))
		tracer.LogValue("clk.so", 4, int64(d.SecondOnes))
		tracer.LogValue("clk.colon", 1, boolToInt64(u.colon))
	})
}

// Stat returns a one-line status summary.
func (u *Cycle) Stat() string {
	return fmt.Sprintf("%s tick %d %s", u.clock.Digits().HHMMSS(), u.ticks, u.divider.Stat())
}

// Reset returns every stage to its power-on state.
func (u *Cycle) Reset() {
	u.divider.Reset()
	u.clock.Reset()
	u.scanner.Reset()
	u.modeDeb.Reset()
	u.fmtDeb.Reset()
	u.freqDeb.Reset()
	for i := range u.incDeb {
		u.incDeb[i].Reset()
		u.incEdge[i].Reset()
	}
	u.colon = false
	u.ticks = 0
}

func boolToInt64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
