// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package syncdemo provides shared-state strategies with observably
// different behavior under concurrent mutation.
//
// The package offers four strategies for state that many goroutines touch:
//
//   - UnsynchronizedCounter: plain load/add/store, loses updates
//   - AtomicCounter: relaxed fetch-and-add, exact and non-blocking
//   - MutexCollection: append-only slice behind a mutex
//   - LazyRWRegistry: string list behind a reader-writer lock, seeded on
//     first access
//
// # Quick Start
//
// Counters share one interface and run under a Workload:
//
//	var c syncdemo.AtomicCounter
//	total, err := syncdemo.NewWorkload(1000, 1000).Run(&c)
//	// total == 1000000
//
//	var u syncdemo.UnsynchronizedCounter
//	total, err = syncdemo.NewWorkload(1000, 1000).StartTogether().Run(&u)
//	// total <= 1000000, usually less
//
// # Fork-Join
//
// ForkJoin starts one goroutine per worker and joins every one of them
// before returning. Failures do not cancel siblings:
//
//	err := syncdemo.ForkJoin(8, func(worker int) error {
//	    return coll.Append(int64(worker))
//	})
//	var re *syncdemo.RunError
//	if errors.As(err, &re) {
//	    // re.Failed workers failed; re.Err is the first failure
//	}
//
// A worker panic is recovered into a *WorkerPanicError carrying the worker
// index and stack, and is reported through the same *RunError.
//
// Chunked data parallelism builds on ForkJoin:
//
//	total, err := syncdemo.Sum(nums, 8) // one worker per 8 elements
//
// # Lock Poisoning
//
// MutexCollection and LazyRWRegistry release their lock on every exit path.
// When a callback passed to Update panics while the lock is held, the
// structure is marked poisoned and every later operation returns
// ErrPoisoned:
//
//	func() {
//	    defer func() { recover() }()
//	    coll.Update(func(items []int64) []int64 { panic("boom") })
//	}()
//	err := coll.Append(1) // ErrPoisoned
//
// # Error Handling
//
// TryAppend returns ErrWouldBlock when the lock is held, as a control flow
// signal rather than a failure:
//
//	if syncdemo.IsWouldBlock(coll.TryAppend(1)) {
//	    // lock held elsewhere, retry later or call Append
//	}
//
// ErrWouldBlock is sourced from [code.hybscloud.com/iox] for ecosystem
// consistency.
//
// # Memory Ordering
//
// AtomicCounter uses relaxed ordering for both Increment and Read. The final
// total is read after ForkJoin returns, and the join itself orders every
// worker's increments before the read.
//
// LazyRWRegistry builds its seed inside a sync.Once while holding the
// exclusive lock. Every access goes through the Once and then the lock, so
// a goroutine that returns from initialization also sees the seeded list.
//
// # Metrics
//
// A Workload can record worker counts, operation counts, and run duration
// per strategy into Prometheus collectors:
//
//	m := syncdemo.NewMetrics(prometheus.DefaultRegisterer)
//	syncdemo.NewWorkload(10, 1).Metrics(m).Run(coll)
//
// # Race Detection
//
// UnsynchronizedCounter contains a real data race by construction. Tests
// that drive it concurrently are skipped when [RaceEnabled] is true.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for atomic primitives with
// explicit memory ordering, [code.hybscloud.com/spin] for the start barrier,
// and [golang.org/x/sync/errgroup] for joining workers.
package syncdemo
