package main

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for the real-time clock drive.
type Metrics struct {
	TicksTotal      prometheus.Counter
	SecondsTotal    prometheus.Counter
	RealignsTotal   prometheus.Counter
	ButtonPresses   *prometheus.CounterVec // label: line={hours,minutes,seconds,pps}
	SetMode         prometheus.Gauge       // 1 while the clock is in set mode
	TimeOfDay       prometheus.Gauge       // stored time as seconds since midnight
	TickDrift       prometheus.Histogram   // wall-clock lag behind the nominal tick
}

// NewMetrics creates and registers all clock metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.TicksTotal,
		m.SecondsTotal,
		m.RealignsTotal,
		m.ButtonPresses,
		m.SetMode,
		m.TimeOfDay,
		m.TickDrift,
	)
	return m
}

// NewMetricsForTesting creates Metrics with no registry, avoiding "already
// registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		TicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clocksim",
			Name:      "ticks_total",
			Help:      "Total mains ticks stepped.",
		}),
		SecondsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clocksim",
			Name:      "seconds_total",
			Help:      "Total second boundaries emitted.",
		}),
		RealignsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clocksim",
			Name:      "pps_realignments_total",
			Help:      "Second boundaries snapped to the PPS reference.",
		}),
		ButtonPresses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clocksim",
			Name:      "button_presses_total",
			Help:      "Panel button presses by line.",
		}, []string{"line"}),
		SetMode: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "clocksim",
			Name:      "set_mode",
			Help:      "1 while the clock is in set mode.",
		}),
		TimeOfDay: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "clocksim",
			Name:      "time_of_day_seconds",
			Help:      "Stored time of day as seconds since midnight.",
		}),
		TickDrift: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clocksim",
			Name:      "tick_drift_seconds",
			Help:      "Wall-clock lag of each tick behind its nominal instant.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
	}
}
