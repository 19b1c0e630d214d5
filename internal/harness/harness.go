// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package harness runs the strategy demonstrations and reports their
// outcomes.
//
// Each demonstration writes human-readable lines to the report writer and
// returns a Result. Logging goes to the configured zap logger.
package harness

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"code.hybscloud.com/syncdemo"
	"code.hybscloud.com/syncdemo/internal/config"
)

// Result is the outcome of one demonstration.
type Result struct {
	Name     string
	Expected int64
	Observed int64
	Detail   string
}

// Lost returns how far Observed fell short of Expected.
func (r Result) Lost() int64 {
	return r.Expected - r.Observed
}

// Harness runs demonstrations with a fixed configuration.
type Harness struct {
	cfg     config.Config
	in      io.Reader
	out     *lockedWriter
	log     *zap.Logger
	clock   clockwork.Clock
	metrics *syncdemo.Metrics
}

// Option customizes a Harness.
type Option func(*Harness)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(h *Harness) { h.log = log }
}

// WithClock sets the clock driving the registry reader.
func WithClock(clock clockwork.Clock) Option {
	return func(h *Harness) { h.clock = clock }
}

// WithMetrics records workload statistics into m.
func WithMetrics(m *syncdemo.Metrics) Option {
	return func(h *Harness) { h.metrics = m }
}

// New creates a harness that reads registry input from in and writes the
// report to out.
func New(cfg config.Config, in io.Reader, out io.Writer, opts ...Option) *Harness {
	h := &Harness{
		cfg:   cfg,
		in:    in,
		out:   &lockedWriter{w: out},
		log:   zap.NewNop(),
		clock: clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// All runs the race, atomic, mutex and rwlock demonstrations in order and
// stops at the first failure.
func (h *Harness) All(ctx context.Context) ([]Result, error) {
	steps := []func(context.Context) (Result, error){
		func(context.Context) (Result, error) { return h.Race() },
		func(context.Context) (Result, error) { return h.Atomic() },
		func(context.Context) (Result, error) { return h.Mutex() },
		h.RWLock,
	}
	results := make([]Result, 0, len(steps))
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := step(ctx)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (h *Harness) printf(format string, args ...any) {
	// Report output is best effort; a failing stdout has nowhere to report to
	_, _ = fmt.Fprintf(h.out, format, args...)
}

func (h *Harness) workload(w config.Workload) *syncdemo.Workload {
	return syncdemo.NewWorkload(w.Workers, w.Ops).Metrics(h.metrics)
}

// lockedWriter serializes writes from the registry reader and the prompt
// loop so that their lines never interleave.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
