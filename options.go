// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncdemo

import (
	"time"

	"code.hybscloud.com/atomix"
)

// Options configures a workload run.
type Options struct {
	// Shape: workers goroutines, each performing ops operations
	workers int
	ops     int

	// Start all workers behind a barrier to maximize overlap
	together bool

	// Metrics label; empty means derive from the counter's Namer
	label string
}

// Workload runs a fixed amount of work across a fixed number of workers
// with fluent configuration.
//
// Example:
//
//	// 1000 workers × 1000 increments, all released at once
//	var c syncdemo.UnsynchronizedCounter
//	total, err := syncdemo.NewWorkload(1000, 1000).StartTogether().Run(&c)
//
//	// Custom per-operation work
//	err := syncdemo.NewWorkload(10, 1).Each(func(worker, op int) error {
//	    return coll.Append(1)
//	})
type Workload struct {
	opts    Options
	metrics *Metrics
}

// NewWorkload creates a workload of workers goroutines that each perform ops
// operations.
//
// Zero is valid for either argument: no work is performed and counters keep
// their initial value.
//
// Panics if workers < 0 or ops < 0.
func NewWorkload(workers, ops int) *Workload {
	if workers < 0 {
		panic("syncdemo: workers must be >= 0")
	}
	if ops < 0 {
		panic("syncdemo: ops must be >= 0")
	}
	return &Workload{opts: Options{workers: workers, ops: ops}}
}

// StartTogether holds every worker at a barrier until all have started.
// Overlap is what makes lost updates visible on an unsynchronized counter.
func (w *Workload) StartTogether() *Workload {
	w.opts.together = true
	return w
}

// Metrics records worker and operation counts into m.
func (w *Workload) Metrics(m *Metrics) *Workload {
	w.metrics = m
	return w
}

// Label sets the strategy label used for metrics.
// By default Run uses the counter's Name and Each uses "custom".
func (w *Workload) Label(name string) *Workload {
	w.opts.label = name
	return w
}

// Workers returns the number of workers.
func (w *Workload) Workers() int {
	return w.opts.workers
}

// Ops returns the number of operations per worker.
func (w *Workload) Ops() int {
	return w.opts.ops
}

// Expected returns workers × ops, the total a synchronized counter reaches.
func (w *Workload) Expected() int64 {
	return int64(w.opts.workers) * int64(w.opts.ops)
}

// Each calls fn ops times in each of the workers and joins them all.
//
// A worker stops at its first error. Errors and panics are aggregated as
// described for [ForkJoin].
func (w *Workload) Each(fn func(worker, op int) error) error {
	label := w.opts.label
	if label == "" {
		label = "custom"
	}
	return w.each(label, fn)
}

// Run increments c ops times in each of the workers, joins them all, and
// returns c's final value.
func (w *Workload) Run(c Counter) (int64, error) {
	label := w.opts.label
	if label == "" {
		label = strategyName(c)
	}
	if err := w.each(label, func(int, int) error { return c.Increment() }); err != nil {
		return 0, err
	}
	return c.Read()
}

func (w *Workload) each(label string, fn func(worker, op int) error) error {
	var done atomix.Int64
	w.metrics.started(label, w.opts.workers)
	start := time.Now()
	err := forkJoin(w.opts.workers, w.opts.together, func(worker int) error {
		n := 0
		defer func() { done.AddAcqRel(int64(n)) }()
		for op := range w.opts.ops {
			if err := fn(worker, op); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	w.metrics.finished(label, done.LoadAcquire(), time.Since(start), err)
	return err
}

// pad is cache line padding to prevent false sharing.
type pad [64]byte
