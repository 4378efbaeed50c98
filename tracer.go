package main

import (
	"bufio"
	"fmt"
	"io"
)

// vcdTracer records signal activity and writes it out as a Value Change Dump
// on Close, one VCD time unit per mains tick.  Traces are buffered in memory
// so signals can register lazily (pulses only appear once they first fire)
// and still be declared in the file header.
type vcdTracer struct {
	w         io.WriteCloser
	t         int64
	callbacks []func()

	order   []string
	signals map[string]vcdSignal
	events  []vcdEvent
}

type vcdSignal struct {
	id   string
	bits int
}

type vcdEvent struct {
	t     int64
	name  string
	value int64
	pulse bool
}

func newVCDTracer(w io.WriteCloser) *vcdTracer {
	return &vcdTracer{
		w:       w,
		t:       -1,
		signals: make(map[string]vcdSignal),
	}
}

func (v *vcdTracer) AdvanceTimestep() {
	v.t++
}

func (v *vcdTracer) UpdateValues() {
	for _, update := range v.callbacks {
		update()
	}
}

func (v *vcdTracer) RegisterValueCallback(update func()) {
	v.callbacks = append(v.callbacks, update)
}

func (v *vcdTracer) LogValue(signalName string, bits int, value int64) {
	v.note(signalName, bits, value, false)
}

func (v *vcdTracer) LogPulse(signalName string, bits int, value int64) {
	v.note(signalName, bits, value, true)
}

func (v *vcdTracer) note(name string, bits int, value int64, pulse bool) {
	if _, ok := v.signals[name]; !ok {
		// VCD identifiers are printable ASCII starting at '!'.
		v.signals[name] = vcdSignal{id: vcdID(len(v.order)), bits: bits}
		v.order = append(v.order, name)
	}
	t := v.t
	if t < 0 {
		t = 0
	}
	v.events = append(v.events, vcdEvent{t: t, name: name, value: value, pulse: pulse})
}

// Close writes the buffered trace and closes the underlying writer.
func (v *vcdTracer) Close() error {
	w := bufio.NewWriter(v.w)
	fmt.Fprintln(w, "$comment one time unit per mains tick $end")
	fmt.Fprintln(w, "$timescale 1 ms $end")
	fmt.Fprintln(w, "$scope module clocksim $end")
	for _, name := range v.order {
		s := v.signals[name]
		fmt.Fprintf(w, "$var wire %d %s %s $end\n", s.bits, s.id, name)
	}
	fmt.Fprintln(w, "$upscope $end")
	fmt.Fprintln(w, "$enddefinitions $end")
	fmt.Fprintln(w, "$dumpvars")
	for _, name := range v.order {
		writeVCDValue(w, v.signals[name], 0)
	}
	fmt.Fprintln(w, "$end")

	// Replay the events per timestep; a pulse implicitly returns to zero
	// on the following step unless re-asserted.
	last := make(map[string]int64)
	clearing := make(map[string]bool)
	idx := 0
	for t := int64(0); t <= v.t+1; t++ {
		changes := make(map[string]int64)
		for name := range clearing {
			changes[name] = 0
		}
		for idx < len(v.events) && v.events[idx].t == t {
			e := v.events[idx]
			changes[e.name] = e.value
			if e.pulse {
				clearing[e.name] = true
			} else {
				delete(clearing, e.name)
			}
			idx++
		}
		wroteTime := false
		for _, name := range v.order {
			value, ok := changes[name]
			if !ok || last[name] == value {
				continue
			}
			if !wroteTime {
				fmt.Fprintf(w, "#%d\n", t)
				wroteTime = true
			}
			writeVCDValue(w, v.signals[name], value)
			last[name] = value
			if !clearing[name] || value == 0 {
				delete(clearing, name)
			}
		}
	}
	fmt.Fprintf(w, "#%d\n", v.t+2)

	if err := w.Flush(); err != nil {
		v.w.Close()
		return err
	}
	return v.w.Close()
}

func writeVCDValue(w io.Writer, s vcdSignal, value int64) {
	if s.bits == 1 {
		fmt.Fprintf(w, "%d%s\n", value&1, s.id)
		return
	}
	fmt.Fprintf(w, "b%b %s\n", value, s.id)
}

func vcdID(n int) string {
	const first, span = 33, 94 // printable ASCII '!' through '~'
	id := ""
	for {
		id = string(rune(first+n%span)) + id
		n = n/span - 1
		if n < 0 {
			break
		}
	}
	return id
}
