// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package harness

import (
	"fmt"

	"go.uber.org/zap"

	"code.hybscloud.com/syncdemo"
)

// Race increments an unsynchronized counter from every worker at once.
//
// Lost updates are the expected outcome, not an error. With more than one
// trial configured, Detail reports how many trials lost updates.
func (h *Harness) Race() (Result, error) {
	wc := h.cfg.Race
	res := Result{Name: "race", Expected: int64(wc.Workers) * int64(wc.Ops)}
	log := h.log.With(zap.String("demo", res.Name), zap.Int("workers", wc.Workers), zap.Int("ops", wc.Ops))
	log.Info("demo started", zap.Int("trials", wc.Trials))

	deviated := 0
	for trial := range wc.Trials {
		start := h.clock.Now()
		got, err := h.workload(wc).StartTogether().Run(syncdemo.NewUnsynchronizedCounter())
		if err != nil {
			log.Error("demo failed", zap.Int("trial", trial), zap.Error(err))
			return res, fmt.Errorf("race trial %d: %w", trial, err)
		}
		res.Observed = got
		if got != res.Expected {
			deviated++
		}
		h.printf("race: expected %d, got %d, lost updates %d\n", res.Expected, got, res.Expected-got)
		log.Debug("trial finished", zap.Int("trial", trial), zap.Int64("observed", got), zap.Duration("elapsed", h.clock.Since(start)))
	}

	res.Detail = fmt.Sprintf("%d of %d trials lost updates", deviated, wc.Trials)
	if wc.Trials > 1 {
		h.printf("race: %s\n", res.Detail)
	}
	log.Info("demo finished", zap.Int64("observed", res.Observed), zap.Int("deviated", deviated))
	return res, nil
}

// Atomic increments an atomic counter from every worker.
// A total other than workers × ops fails with ErrMiscount.
func (h *Harness) Atomic() (Result, error) {
	wc := h.cfg.Atomic
	res := Result{Name: "atomic", Expected: int64(wc.Workers) * int64(wc.Ops)}
	log := h.log.With(zap.String("demo", res.Name), zap.Int("workers", wc.Workers), zap.Int("ops", wc.Ops))
	log.Info("demo started")

	start := h.clock.Now()
	got, err := h.workload(wc).Run(syncdemo.NewAtomicCounter())
	if err != nil {
		log.Error("demo failed", zap.Error(err))
		return res, fmt.Errorf("atomic: %w", err)
	}
	res.Observed = got
	h.printf("atomic: %d\n", got)
	if got != res.Expected {
		log.Error("total mismatch", zap.Int64("observed", got), zap.Int64("expected", res.Expected))
		return res, fmt.Errorf("atomic: got %d, want %d: %w", got, res.Expected, syncdemo.ErrMiscount)
	}
	log.Info("demo finished", zap.Int64("observed", got), zap.Duration("elapsed", h.clock.Since(start)))
	return res, nil
}

// Mutex appends from every worker into a mutex-protected collection and
// prints the final contents.
func (h *Harness) Mutex() (Result, error) {
	wc := h.cfg.Mutex
	res := Result{Name: "mutex", Expected: int64(wc.Workers) * int64(wc.Ops)}
	log := h.log.With(zap.String("demo", res.Name), zap.Int("workers", wc.Workers), zap.Int("ops", wc.Ops))
	log.Info("demo started")

	start := h.clock.Now()
	coll := syncdemo.NewMutexCollection(int(res.Expected))
	if _, err := h.workload(wc).Run(coll); err != nil {
		log.Error("demo failed", zap.Error(err))
		return res, fmt.Errorf("mutex: %w", err)
	}
	items, err := coll.Snapshot()
	if err != nil {
		return res, fmt.Errorf("mutex: %w", err)
	}
	res.Observed = int64(len(items))
	h.printf("mutex: len=%d items=%v\n", len(items), items)
	if res.Observed != res.Expected {
		log.Error("length mismatch", zap.Int64("observed", res.Observed), zap.Int64("expected", res.Expected))
		return res, fmt.Errorf("mutex: got %d items, want %d: %w", res.Observed, res.Expected, syncdemo.ErrMiscount)
	}
	log.Info("demo finished", zap.Int64("observed", res.Observed), zap.Duration("elapsed", h.clock.Since(start)))
	return res, nil
}

// Sum adds 0..items-1 with one worker per chunk.
func (h *Harness) Sum() (Result, error) {
	sc := h.cfg.Sum
	n := int64(sc.Items)
	res := Result{Name: "sum", Expected: n * (n - 1) / 2}
	log := h.log.With(zap.String("demo", res.Name), zap.Int("items", sc.Items), zap.Int("chunk", sc.Chunk))
	log.Info("demo started")

	nums := make([]int64, sc.Items)
	for i := range nums {
		nums[i] = int64(i)
	}
	start := h.clock.Now()
	got, err := syncdemo.Sum(nums, sc.Chunk)
	if err != nil {
		log.Error("demo failed", zap.Error(err))
		return res, fmt.Errorf("sum: %w", err)
	}
	res.Observed = got
	res.Detail = fmt.Sprintf("%d chunks", len(syncdemo.Chunks(nums, sc.Chunk)))
	h.printf("sum: %d (%s)\n", got, res.Detail)
	if got != res.Expected {
		return res, fmt.Errorf("sum: got %d, want %d: %w", got, res.Expected, syncdemo.ErrMiscount)
	}
	log.Info("demo finished", zap.Int64("observed", got), zap.Duration("elapsed", h.clock.Since(start)))
	return res, nil
}
