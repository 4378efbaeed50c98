package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	. "github.com/mainstime/clocksim/lib"
	"github.com/mainstime/clocksim/lib/units"
)

// runner drives the clock from a wall-clock ticker at the mains rate.  Panel
// activity arrives asynchronously from the web GUI; it is folded into the
// sampled inputs under the lock so each tick still commits as one atomic
// step.
type runner struct {
	mu    sync.Mutex
	cycle *units.Cycle
	panel units.Inputs
	out   units.Outputs

	// Momentary lines are held high for a countdown of ticks so a button
	// push from the GUI survives the debounce filter.
	hold map[string]*holdLine

	clock   clockwork.Clock
	period  time.Duration
	epoch   time.Time
	ticked  uint64
	depth   int
	metrics *Metrics
	logger  *slog.Logger
}

type holdLine struct {
	line  *bool
	ticks int
}

func newRunner(cycle *units.Cycle, cfg *Config, clock clockwork.Clock, metrics *Metrics, logger *slog.Logger) *runner {
	r := &runner{
		cycle:   cycle,
		panel:   cfg.initialInputs(),
		clock:   clock,
		period:  cfg.tickPeriod(),
		depth:   cfg.DebounceDepth,
		metrics: metrics,
		logger:  logger,
	}
	r.hold = map[string]*holdLine{
		"hours":   {line: &r.panel.IncHours},
		"minutes": {line: &r.panel.IncMinutes},
		"seconds": {line: &r.panel.IncSeconds},
		"pps":     {line: &r.panel.PPS},
		"reset":   {line: &r.panel.Reset},
	}
	return r
}

// Run steps the clock until the context is canceled.
func (r *runner) Run(ctx context.Context) error {
	r.epoch = r.clock.Now()
	ticker := r.clock.NewTicker(r.period)
	defer ticker.Stop()
	r.logger.Info("clock running", "period", r.period)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			r.step()
		}
	}
}

func (r *runner) step() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, h := range r.hold {
		*h.line = h.ticks > 0
		if h.ticks > 0 {
			h.ticks--
		}
	}
	r.out = r.cycle.Step(r.panel)
	r.ticked++

	r.metrics.TicksTotal.Inc()
	if r.out.SecondPulse {
		r.metrics.SecondsTotal.Inc()
	}
	if r.out.Realigned {
		r.metrics.RealignsTotal.Inc()
		r.logger.Debug("second boundary realigned to pps")
	}
	if r.out.SetMode {
		r.metrics.SetMode.Set(1)
	} else {
		r.metrics.SetMode.Set(0)
	}
	t := r.cycle.Time()
	r.metrics.TimeOfDay.Set(float64(((t.HourTens*10+t.HourOnes)*60+
		t.MinuteTens*10+t.MinuteOnes)*60 + t.SecondTens*10 + t.SecondOnes))

	nominal := r.epoch.Add(time.Duration(r.ticked) * r.period)
	if lag := r.clock.Now().Sub(nominal); lag > 0 {
		r.metrics.TickDrift.Observe(lag.Seconds())
	}
}

// Press holds a momentary panel line high for the next few ticks: debounce
// depth for the buttons, one tick for the PPS and reset lines.
func (r *runner) Press(line string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.hold[line]
	if !ok {
		return fmt.Errorf("unknown button %s", line)
	}
	ticks := r.depth
	if line == "pps" || line == "reset" {
		ticks = 1
	}
	h.ticks = ticks
	r.metrics.ButtonPresses.WithLabelValues(line).Inc()
	r.logger.Debug("button pressed", "line", line, "hold_ticks", ticks)
	return nil
}

// SetSwitch flips a leveled panel switch by name.
func (r *runner) SetSwitch(name, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sw, err := r.findSwitch(name)
	if err != nil {
		return err
	}
	if err := sw.Set(value); err != nil {
		return err
	}
	r.logger.Info("switch changed", "switch", name, "value", value)
	return nil
}

func (r *runner) findSwitch(name string) (Switch, error) {
	switch name {
	case "mode":
		return &BoolSwitch{Name: name, Data: &r.panel.SetMode, Settings: []BoolSwitchSetting{
			{Key: "run", Value: false}, {Key: "set", Value: true},
		}}, nil
	case "freq":
		return &BoolSwitch{Name: name, Data: &r.panel.Freq50, Settings: []BoolSwitchSetting{
			{Key: "60", Value: false}, {Key: "50", Value: true},
		}}, nil
	case "fmt":
		return &BoolSwitch{Name: name, Data: &r.panel.Hour12, Settings: []BoolSwitchSetting{
			{Key: "24h", Value: false}, {Key: "12h", Value: true},
		}}, nil
	}
	return nil, fmt.Errorf("unknown switch %s", name)
}

// faceState is the GUI's view of the clock, serialized to the event stream.
type faceState struct {
	Time    string `json:"time"`
	PM      bool   `json:"pm"`
	Hour12  bool   `json:"hour12"`
	Colon   bool   `json:"colon"`
	SetMode bool   `json:"set_mode"`
	Ticks   uint64 `json:"ticks"`
}

// Snapshot returns the current face under the lock.
func (r *runner) Snapshot() faceState {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.out.Digits
	return faceState{
		Time: fmt.Sprintf("%d%d:%d%d:%d%d",
			d.HourTens, d.HourOnes, d.MinuteTens, d.MinuteOnes, d.SecondTens, d.SecondOnes),
		PM:      r.out.PM,
		Hour12:  r.panel.Hour12,
		Colon:   r.out.Colon,
		SetMode: r.out.SetMode,
		Ticks:   r.cycle.Ticks(),
	}
}
