package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mainstime/clocksim/lib/units"
)

// serve drives the clock in real time and exposes the web GUI, the panel
// controls, and Prometheus metrics over HTTP.
func serve(cfg *Config) error {
	logger := newLogger(cfg)
	metrics := NewMetrics()
	c := units.NewCycle(cfg.cycleConfig())
	r := newRunner(c, cfg, clockwork.NewRealClock(), metrics, logger)
	srv := newServer(cfg.HTTPAddr, r, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()
	go func() {
		if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("clock drive error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// server is the HTTP face of the simulator.
type server struct {
	httpServer *http.Server
	runner     *runner
	logger     *slog.Logger
}

func newServer(addr string, r *runner, logger *slog.Logger) *server {
	mux := http.NewServeMux()
	s := &server{
		httpServer: &http.Server{
			Addr:        addr,
			Handler:     mux,
			ReadTimeout: 10 * time.Second,
			IdleTimeout: 60 * time.Second,
		},
		runner: r,
		logger: logger,
	}
	mux.HandleFunc("GET /{$}", s.servePage)
	mux.HandleFunc("GET /events", s.streamEvents)
	mux.HandleFunc("POST /button", s.pushButton)
	mux.HandleFunc("POST /switch", s.setSwitch)
	mux.Handle("GET /metrics", promhttp.Handler())
	return s
}

// Start begins listening.  Returns http.ErrServerClosed on graceful shutdown.
func (s *server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains connections within the given context deadline.
func (s *server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *server) servePage(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, facePage)
}

// streamEvents pushes the face state as server-sent events, ten per second.
func (s *server) streamEvents(w http.ResponseWriter, req *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-req.Context().Done():
			return
		case <-ticker.C:
			data, err := json.Marshal(s.runner.Snapshot())
			if err != nil {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func (s *server) pushButton(w http.ResponseWriter, req *http.Request) {
	if err := s.runner.Press(req.FormValue("b")); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) setSwitch(w http.ResponseWriter, req *http.Request) {
	if err := s.runner.SetSwitch(req.FormValue("s"), req.FormValue("v")); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

const facePage = `<!DOCTYPE html>
<html>
<head>
<title>clocksim</title>
<style>
body { background: #111; color: #eee; font-family: monospace; text-align: center; }
#face { font-size: 72px; letter-spacing: 8px; margin: 48px 0 8px; }
#flags { color: #888; margin-bottom: 32px; }
button { font-family: monospace; font-size: 16px; margin: 4px; padding: 8px 16px; }
</style>
</head>
<body>
<div id="face">--:--:--</div>
<div id="flags"></div>
<div>
<button onclick="push('hours')">+hr</button>
<button onclick="push('minutes')">+min</button>
<button onclick="push('seconds')">+sec</button>
<button onclick="push('pps')">pps</button>
<button onclick="push('reset')">reset</button>
</div>
<div>
<button onclick="flip('mode', this, ['run','set'])">mode</button>
<button onclick="flip('freq', this, ['60','50'])">freq</button>
<button onclick="flip('fmt', this, ['24h','12h'])">format</button>
</div>
<script>
const state = { mode: 0, freq: 0, fmt: 0 };
function push(b) { fetch('/button?b=' + b, { method: 'POST' }); }
function flip(s, el, vals) {
  state[s] ^= 1;
  fetch('/switch?s=' + s + '&v=' + vals[state[s]], { method: 'POST' });
  el.textContent = s + ':' + vals[state[s]];
}
const es = new EventSource('/events');
es.onmessage = (e) => {
  const face = JSON.parse(e.data);
  let text = face.time;
  if (!face.colon) { text = text.replaceAll(':', ' '); }
  document.getElementById('face').textContent = text;
  document.getElementById('flags').textContent =
    (face.hour12 ? (face.pm ? 'PM' : 'AM') : '24h') +
    (face.set_mode ? ' · SET' : '') + ' · tick ' + face.ticks;
};
</script>
</body>
</html>
`
