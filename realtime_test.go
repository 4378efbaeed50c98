package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mainstime/clocksim/lib/units"
)

func testConfig() *Config {
	return &Config{
		Frequency:     60,
		DebounceDepth: 3,
		Format:        "24h",
		HTTPAddr:      ":0",
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRunner(cfg *Config) *runner {
	c := units.NewCycle(cfg.cycleConfig())
	return newRunner(c, cfg, clockwork.NewFakeClock(), NewMetricsForTesting(), quietLogger())
}

func TestRunnerCountsSeconds(t *testing.T) {
	cfg := testConfig()
	r := newTestRunner(cfg)
	for i := 0; i < 120; i++ {
		r.step()
	}
	assert.Equal(t, float64(120), testutil.ToFloat64(r.metrics.TicksTotal))
	assert.Equal(t, float64(2), testutil.ToFloat64(r.metrics.SecondsTotal))
	assert.Equal(t, float64(2), testutil.ToFloat64(r.metrics.TimeOfDay))
}

func TestRunnerPressSurvivesDebounce(t *testing.T) {
	cfg := testConfig()
	r := newTestRunner(cfg)
	require.NoError(t, r.SetSwitch("mode", "set"))
	for i := 0; i < 4; i++ {
		r.step()
	}

	require.NoError(t, r.Press("minutes"))
	for i := 0; i < 8; i++ {
		r.step()
	}
	snap := r.Snapshot()
	assert.Equal(t, "00:01:00", snap.Time)
	assert.True(t, snap.SetMode)
	assert.Equal(t, float64(1), testutil.ToFloat64(r.metrics.ButtonPresses.WithLabelValues("minutes")))
}

func TestRunnerPPSRealignAccounted(t *testing.T) {
	cfg := testConfig()
	r := newTestRunner(cfg)
	for i := 0; i < 10; i++ {
		r.step()
	}
	require.NoError(t, r.Press("pps"))
	for i := 0; i < 3; i++ {
		r.step()
	}
	assert.Equal(t, float64(1), testutil.ToFloat64(r.metrics.RealignsTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.metrics.SecondsTotal))
}

func TestRunnerUnknownControls(t *testing.T) {
	r := newTestRunner(testConfig())
	assert.Error(t, r.Press("snooze"))
	assert.Error(t, r.SetSwitch("mode", "sideways"))
	assert.Error(t, r.SetSwitch("volume", "11"))
}

func TestRunnerRunDrivenByTicker(t *testing.T) {
	cfg := testConfig()
	fake := clockwork.NewFakeClock()
	c := units.NewCycle(cfg.cycleConfig())
	r := newRunner(c, cfg, fake, NewMetricsForTesting(), quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx)
	}()

	require.NoError(t, fake.BlockUntilContext(ctx, 1))
	ticked := func() uint64 {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.ticked
	}
	for i := uint64(1); i <= 5; i++ {
		fake.Advance(cfg.tickPeriod())
		require.Eventually(t, func() bool { return ticked() >= i },
			time.Second, time.Millisecond)
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
