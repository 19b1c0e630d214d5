// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncdemo_test

import (
	"errors"
	"slices"
	"testing"

	"code.hybscloud.com/syncdemo"
)

// =============================================================================
// MutexCollection - Concurrent Appends
// =============================================================================

// TestMutexCollectionWorkers verifies W workers appending once each give
// length W, repeated across trials.
func TestMutexCollectionWorkers(t *testing.T) {
	for _, workers := range []int{1, 10, 1000} {
		for trial := range 5 {
			c := syncdemo.NewMutexCollection(0)
			got, err := syncdemo.NewWorkload(workers, 1).Run(c)
			if err != nil {
				t.Fatalf("W=%d trial %d: %v", workers, trial, err)
			}
			if got != int64(workers) {
				t.Fatalf("W=%d trial %d: got %d, want %d", workers, trial, got, workers)
			}
			items, err := c.Snapshot()
			if err != nil {
				t.Fatalf("Snapshot: %v", err)
			}
			for i, v := range items {
				if v != 1 {
					t.Fatalf("items[%d]: got %d, want 1", i, v)
				}
			}
		}
	}
}

// TestMutexCollectionNoDuplicates verifies each worker's value appears
// exactly once.
func TestMutexCollectionNoDuplicates(t *testing.T) {
	const workers = 500
	c := syncdemo.NewMutexCollection(workers)
	err := syncdemo.NewWorkload(workers, 1).Each(func(worker, _ int) error {
		return c.Append(int64(worker))
	})
	if err != nil {
		t.Fatalf("Each: %v", err)
	}
	items, err := c.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(items) != workers {
		t.Fatalf("len: got %d, want %d", len(items), workers)
	}
	slices.Sort(items)
	for i, v := range items {
		if v != int64(i) {
			t.Fatalf("sorted[%d]: got %d, want %d", i, v, i)
		}
	}
}

// TestMutexCollectionSnapshotIsCopy verifies callers cannot mutate the
// collection through a snapshot.
func TestMutexCollectionSnapshotIsCopy(t *testing.T) {
	c := syncdemo.NewMutexCollection(4)
	for i := range 3 {
		if err := c.Append(int64(i)); err != nil {
			t.Fatalf("Append(%d): %v", i, err)
		}
	}
	snap, _ := c.Snapshot()
	snap[0] = 99
	again, _ := c.Snapshot()
	if again[0] != 0 {
		t.Fatalf("items[0]: got %d, want 0", again[0])
	}
}

// =============================================================================
// MutexCollection - TryAppend
// =============================================================================

// TestMutexCollectionTryAppend verifies TryAppend succeeds on a free lock
// and reports ErrWouldBlock on a held one.
func TestMutexCollectionTryAppend(t *testing.T) {
	c := syncdemo.NewMutexCollection(0)
	if err := c.TryAppend(7); err != nil {
		t.Fatalf("TryAppend on free lock: %v", err)
	}

	var inner error
	err := c.Update(func(items []int64) []int64 {
		inner = c.TryAppend(8)
		return items
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !errors.Is(inner, syncdemo.ErrWouldBlock) {
		t.Fatalf("TryAppend on held lock: got %v, want ErrWouldBlock", inner)
	}
	if !syncdemo.IsWouldBlock(inner) || !syncdemo.IsSemantic(inner) {
		t.Fatalf("IsWouldBlock/IsSemantic(%v): got false, want true", inner)
	}

	n, _ := c.Len()
	if n != 1 {
		t.Fatalf("Len: got %d, want 1", n)
	}
}

// =============================================================================
// MutexCollection - Poisoning
// =============================================================================

// TestMutexCollectionPoison verifies that a panicking Update releases the
// lock and poisons every later operation.
func TestMutexCollectionPoison(t *testing.T) {
	c := syncdemo.NewMutexCollection(0)
	if err := c.Append(1); err != nil {
		t.Fatalf("Append: %v", err)
	}

	func() {
		defer func() {
			if r := recover(); r != "boom" {
				t.Fatalf("recover: got %v, want boom", r)
			}
		}()
		c.Update(func(items []int64) []int64 {
			panic("boom")
		})
	}()

	// The lock must be free again: a held lock would block Append forever
	if err := c.TryAppend(2); !errors.Is(err, syncdemo.ErrPoisoned) {
		t.Fatalf("TryAppend after poison: got %v, want ErrPoisoned", err)
	}
	if err := c.Append(2); !errors.Is(err, syncdemo.ErrPoisoned) {
		t.Fatalf("Append after poison: got %v, want ErrPoisoned", err)
	}
	if _, err := c.Snapshot(); !syncdemo.IsPoisoned(err) {
		t.Fatalf("Snapshot after poison: got %v, want ErrPoisoned", err)
	}
	if _, err := c.Read(); !syncdemo.IsPoisoned(err) {
		t.Fatalf("Read after poison: got %v, want ErrPoisoned", err)
	}
	if err := c.Update(func(items []int64) []int64 { return items }); !syncdemo.IsPoisoned(err) {
		t.Fatalf("Update after poison: got %v, want ErrPoisoned", err)
	}
}

// TestMutexCollectionPoisonedRun verifies a workload over a poisoned
// collection reports the synchronization failure through RunError.
func TestMutexCollectionPoisonedRun(t *testing.T) {
	c := syncdemo.NewMutexCollection(0)
	func() {
		defer func() { recover() }()
		c.Update(func([]int64) []int64 { panic("boom") })
	}()

	_, err := syncdemo.NewWorkload(10, 1).Run(c)
	var re *syncdemo.RunError
	if !errors.As(err, &re) {
		t.Fatalf("Run: got %v, want *RunError", err)
	}
	if re.Failed != 10 || re.Workers != 10 {
		t.Fatalf("RunError: got %d/%d failed, want 10/10", re.Failed, re.Workers)
	}
	if !errors.Is(err, syncdemo.ErrPoisoned) {
		t.Fatalf("Run: got %v, want ErrPoisoned", err)
	}
}

// TestNewMutexCollectionPanics verifies negative capacity is rejected.
func TestNewMutexCollectionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewMutexCollection(-1): want panic")
		}
	}()
	syncdemo.NewMutexCollection(-1)
}
