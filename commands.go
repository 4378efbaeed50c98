package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	. "github.com/mainstime/clocksim/lib"
	"github.com/mainstime/clocksim/lib/units"
)

var (
	cycle         *units.Cycle
	panel         units.Inputs
	lastOut       units.Outputs
	debounceDepth int
	vcd           *vcdTracer
)

// doCommand interprets one line of simulator input.  Returns -1 to quit.
func doCommand(w io.Writer, command string) int {
	f := strings.Fields(command)
	for i, s := range f {
		if s[0] == '#' {
			f = f[:i]
			break
		}
	}
	if len(f) == 0 {
		return 0
	}
	switch f[0] {
	case "b":
		doButton(w, f)
	case "d":
		doDump(w)
	case "l":
		if len(f) != 2 {
			fmt.Fprintln(w, "load syntax: l file")
			return 0
		}
		if err := loadScript(w, f[1]); err != nil {
			fmt.Fprintln(w, err)
		}
	case "q":
		return -1
	case "r":
		doReset()
	case "R":
		cycle.Reset()
		panel.Reset = false
		panel.PPS = false
		panel.IncHours, panel.IncMinutes, panel.IncSeconds = false, false, false
	case "s":
		doSwitch(w, f)
	case "set":
		doSetTime(w, f)
	case "t":
		doStep(w, f)
	case "ts":
		doTraceStart(w, f)
	case "te":
		doTraceEnd(w)
	default:
		fmt.Fprintf(w, "Unknown command: %s\n", command)
	}
	return 0
}

func stepTicks(n int) {
	for i := 0; i < n; i++ {
		lastOut = cycle.Step(panel)
	}
}

// press holds a momentary line high long enough to clear the debounce
// filter, then releases it for as long so back-to-back presses stay
// distinct.
func press(line *bool) {
	*line = true
	stepTicks(debounceDepth)
	*line = false
	stepTicks(debounceDepth)
}

func doButton(w io.Writer, f []string) {
	if len(f) != 2 {
		fmt.Fprintln(w, "button syntax: b (h|m|s|pps)")
		return
	}
	switch f[1] {
	case "h":
		press(&panel.IncHours)
	case "m":
		press(&panel.IncMinutes)
	case "s":
		press(&panel.IncSeconds)
	case "pps":
		// The reference pulse bypasses the debounce filters; one tick
		// high is enough, one tick low lets the edge register.
		panel.PPS = true
		stepTicks(1)
		panel.PPS = false
		stepTicks(1)
	default:
		fmt.Fprintf(w, "unknown button %s\n", f[1])
	}
}

func doDump(w io.Writer) {
	face := lastOut.Digits
	meridiem := ""
	if panel.Hour12 {
		meridiem = " AM"
		if lastOut.PM {
			meridiem = " PM"
		}
	}
	colon := " "
	if lastOut.Colon {
		colon = ":"
	}
	fmt.Fprintf(w, "%d%d%s%d%d%s%d%d%s\n",
		face.HourTens, face.HourOnes, colon,
		face.MinuteTens, face.MinuteOnes, colon,
		face.SecondTens, face.SecondOnes, meridiem)
	fmt.Fprintln(w, cycle.Stat())
	for _, name := range []string{"mode", "freq", "fmt"} {
		sw, _ := findSwitch(name)
		fmt.Fprintf(w, "%s=%s ", name, sw.Get())
	}
	fmt.Fprintln(w)
}

func doReset() {
	panel.Reset = true
	stepTicks(1)
	panel.Reset = false
}

// findSwitch resolves a panel switch by name.
func findSwitch(name string) (Switch, error) {
	switch name {
	case "mode":
		return &BoolSwitch{Name: name, Data: &panel.SetMode, Settings: []BoolSwitchSetting{
			{Key: "run", Value: false}, {Key: "set", Value: true},
		}}, nil
	case "freq":
		return &BoolSwitch{Name: name, Data: &panel.Freq50, Settings: []BoolSwitchSetting{
			{Key: "60", Value: false}, {Key: "50", Value: true},
		}}, nil
	case "fmt":
		return &BoolSwitch{Name: name, Data: &panel.Hour12, Settings: []BoolSwitchSetting{
			{Key: "24h", Value: false}, {Key: "12h", Value: true},
		}}, nil
	}
	return nil, fmt.Errorf("unknown switch %s", name)
}

func doSwitch(w io.Writer, f []string) {
	if len(f) < 2 {
		fmt.Fprintln(w, "switch syntax: s name [value]")
		return
	}
	sw, err := findSwitch(f[1])
	if err != nil {
		fmt.Fprintln(w, err)
		return
	}
	if len(f) == 2 {
		fmt.Fprintf(w, "%s=%s\n", f[1], sw.Get())
		return
	}
	if err := sw.Set(f[2]); err != nil {
		fmt.Fprintln(w, err)
	}
}

func doSetTime(w io.Writer, f []string) {
	if len(f) != 2 {
		fmt.Fprintln(w, "set syntax: set hh:mm:ss")
		return
	}
	p := strings.Split(f[1], ":")
	if len(p) != 3 {
		fmt.Fprintln(w, "set syntax: set hh:mm:ss")
		return
	}
	hours, err1 := strconv.Atoi(p[0])
	minutes, err2 := strconv.Atoi(p[1])
	seconds, err3 := strconv.Atoi(p[2])
	if err1 != nil || err2 != nil || err3 != nil {
		fmt.Fprintln(w, "set syntax: set hh:mm:ss")
		return
	}
	if err := cycle.SetTime(hours, minutes, seconds); err != nil {
		fmt.Fprintln(w, err)
	}
}

func doStep(w io.Writer, f []string) {
	n := 1
	if len(f) == 2 {
		var err error
		n, err = strconv.Atoi(f[1])
		if err != nil || n < 1 {
			fmt.Fprintf(w, "invalid tick count %s\n", f[1])
			return
		}
	}
	stepTicks(n)
}

func doTraceStart(w io.Writer, f []string) {
	if len(f) != 2 {
		fmt.Fprintln(w, "trace syntax: ts file")
		return
	}
	if vcd != nil {
		fmt.Fprintln(w, "trace already running")
		return
	}
	fp, err := os.Create(f[1])
	if err != nil {
		fmt.Fprintf(w, "trace open: %s\n", err)
		return
	}
	vcd = newVCDTracer(fp)
	cycle.AttachTracer(vcd)
}

func doTraceEnd(w io.Writer) {
	if vcd == nil {
		fmt.Fprintln(w, "no trace running")
		return
	}
	cycle.AttachTracer(nil)
	if err := vcd.Close(); err != nil {
		fmt.Fprintf(w, "trace close: %s\n", err)
	}
	vcd = nil
}

func loadScript(w io.Writer, path string) error {
	fd, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fd.Close()
	sc := bufio.NewScanner(fd)
	for sc.Scan() {
		if doCommand(w, sc.Text()) < 0 {
			return nil
		}
	}
	return sc.Err()
}
