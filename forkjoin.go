// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncdemo

import (
	"runtime"
	"runtime/debug"
	"slices"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
	"golang.org/x/exp/constraints"
	"golang.org/x/sync/errgroup"
)

// ForkJoin runs fn in n goroutines, one per worker index in [0, n), and
// waits for all of them.
//
// ForkJoin never returns while a worker is still running. A worker that
// returns an error or panics does not stop its siblings; the panic is
// recovered into a *WorkerPanicError. Once every worker has been joined,
// any failure is reported as a single *RunError whose Err is the first
// failure observed.
//
// For n <= 0 no goroutine is started and ForkJoin returns nil.
//
// Example:
//
//	var c syncdemo.AtomicCounter
//	err := syncdemo.ForkJoin(4, func(worker int) error {
//	    return c.Increment()
//	})
func ForkJoin(n int, fn func(worker int) error) error {
	return forkJoin(n, false, fn)
}

func forkJoin(n int, together bool, fn func(worker int) error) error {
	if n <= 0 {
		return nil
	}

	var (
		g      errgroup.Group
		failed atomix.Int64
		gate   = barrier{parties: int64(n)}
	)
	for w := range n {
		g.Go(func() (err error) {
			defer func() {
				if v := recover(); v != nil {
					err = &WorkerPanicError{Worker: w, Value: v, Stack: debug.Stack()}
				}
				if err != nil {
					failed.AddAcqRel(1)
				}
			}()
			if together {
				gate.await()
			}
			return fn(w)
		})
	}

	if err := g.Wait(); err != nil {
		return &RunError{Workers: n, Failed: int(failed.LoadAcquire()), Err: err}
	}
	return nil
}

// barrier holds every party until all of them have arrived.
// Single use.
type barrier struct {
	_       pad
	arrived atomix.Int64
	_       pad
	parties int64
}

// yieldEvery bounds how long a waiting party spins before yielding its P.
// Parties can outnumber Ps by far, and the last arrivals need one to run.
const yieldEvery = 64

func (b *barrier) await() {
	b.arrived.AddAcqRel(1)
	sw := spin.Wait{}
	for i := 1; b.arrived.LoadAcquire() < b.parties; i++ {
		if i%yieldEvery == 0 {
			runtime.Gosched()
			continue
		}
		sw.Once()
	}
}

// Chunks splits items into consecutive sub-slices of at most size elements.
// The sub-slices share the backing array of items.
//
// Panics if size < 1.
func Chunks[T any](items []T, size int) [][]T {
	if size < 1 {
		panic("syncdemo: chunk size must be >= 1")
	}
	out := make([][]T, 0, (len(items)+size-1)/size)
	for chunk := range slices.Chunk(items, size) {
		out = append(out, chunk)
	}
	return out
}

// MapReduce splits items into chunks of size, maps each chunk in its own
// worker via ForkJoin, and folds the partial results in chunk order.
//
// The fold starts from the zero value of R. If any worker fails, the zero
// value and the aggregated *RunError are returned.
//
// Panics if size < 1.
func MapReduce[T, R any](items []T, size int, mapf func(chunk []T) (R, error), reducef func(acc, part R) R) (R, error) {
	chunks := Chunks(items, size)
	parts := make([]R, len(chunks))
	var acc R
	err := ForkJoin(len(chunks), func(worker int) error {
		part, err := mapf(chunks[worker])
		if err != nil {
			return err
		}
		parts[worker] = part
		return nil
	})
	if err != nil {
		return acc, err
	}
	for _, part := range parts {
		acc = reducef(acc, part)
	}
	return acc, nil
}

// Sum adds items using one worker per chunk of size elements.
//
// Example:
//
//	nums := make([]int, 5000)
//	for i := range nums {
//	    nums[i] = i
//	}
//	total, _ := syncdemo.Sum(nums, 8) // 12497500
func Sum[T constraints.Integer](items []T, size int) (T, error) {
	return MapReduce(items, size,
		func(chunk []T) (T, error) {
			var s T
			for _, v := range chunk {
				s += v
			}
			return s, nil
		},
		func(acc, part T) T { return acc + part },
	)
}
