// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncdemo_test

import (
	"testing"

	"code.hybscloud.com/syncdemo"
)

var (
	_ syncdemo.Counter = (*syncdemo.UnsynchronizedCounter)(nil)
	_ syncdemo.Counter = (*syncdemo.AtomicCounter)(nil)
	_ syncdemo.Counter = (*syncdemo.MutexCollection)(nil)
)

// =============================================================================
// AtomicCounter
// =============================================================================

// TestAtomicCounterExact verifies that N workers × M increments always
// produce exactly N×M.
func TestAtomicCounterExact(t *testing.T) {
	cases := []struct {
		workers, ops int
	}{
		{1, 1},
		{1, 1000},
		{8, 1000},
		{64, 64},
		{1000, 1000},
	}
	for _, tc := range cases {
		if testing.Short() && tc.workers*tc.ops > 100000 {
			continue
		}
		c := syncdemo.NewAtomicCounter()
		w := syncdemo.NewWorkload(tc.workers, tc.ops)
		got, err := w.Run(c)
		if err != nil {
			t.Fatalf("Run(%d×%d): %v", tc.workers, tc.ops, err)
		}
		if got != w.Expected() {
			t.Fatalf("Run(%d×%d): got %d, want %d", tc.workers, tc.ops, got, w.Expected())
		}
	}
}

// TestAtomicCounterStartTogether verifies exactness is unaffected by the
// start barrier.
func TestAtomicCounterStartTogether(t *testing.T) {
	var c syncdemo.AtomicCounter
	got, err := syncdemo.NewWorkload(128, 500).StartTogether().Run(&c)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != 64000 {
		t.Fatalf("Run: got %d, want 64000", got)
	}
}

// TestAtomicCounterReadInitial verifies a fresh counter reads zero.
func TestAtomicCounterReadInitial(t *testing.T) {
	var c syncdemo.AtomicCounter
	v, err := c.Read()
	if err != nil || v != 0 {
		t.Fatalf("Read: got (%d, %v), want (0, nil)", v, err)
	}
	if c.Name() != "atomic" {
		t.Fatalf("Name: got %q, want %q", c.Name(), "atomic")
	}
}

// =============================================================================
// UnsynchronizedCounter
// =============================================================================

// TestUnsynchronizedCounterSequential verifies a single worker never loses
// an update.
func TestUnsynchronizedCounterSequential(t *testing.T) {
	c := syncdemo.NewUnsynchronizedCounter()
	got, err := syncdemo.NewWorkload(1, 10000).Run(c)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != 10000 {
		t.Fatalf("Run: got %d, want 10000", got)
	}
}

// TestUnsynchronizedCounterBound verifies that concurrent increments never
// overshoot N×M, and looks for at least one lost update across trials.
//
// Lost updates depend on scheduling. If no trial deviates the test is
// skipped rather than failed.
func TestUnsynchronizedCounterBound(t *testing.T) {
	if syncdemo.RaceEnabled {
		t.Skip("skip: UnsynchronizedCounter races by construction")
	}
	const (
		workers = 1000
		ops     = 1000
		trials  = 10
	)
	deviated := 0
	for trial := range trials {
		c := syncdemo.NewUnsynchronizedCounter()
		got, err := syncdemo.NewWorkload(workers, ops).StartTogether().Run(c)
		if err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
		if got > workers*ops {
			t.Fatalf("trial %d: got %d, want <= %d", trial, got, workers*ops)
		}
		if got < 0 {
			t.Fatalf("trial %d: got %d, want >= 0", trial, got)
		}
		if got < workers*ops {
			deviated++
			break
		}
	}
	if deviated == 0 {
		t.Skipf("no lost update in %d trials; scheduler did not interleave", trials)
	}
}

// =============================================================================
// Workload boundaries
// =============================================================================

// TestWorkloadZero verifies zero workers or zero ops leave counters at
// their initial value.
func TestWorkloadZero(t *testing.T) {
	for _, shape := range [][2]int{{0, 0}, {0, 1000}, {1000, 0}} {
		counters := []syncdemo.Counter{
			syncdemo.NewUnsynchronizedCounter(),
			syncdemo.NewAtomicCounter(),
			syncdemo.NewMutexCollection(0),
		}
		for _, c := range counters {
			got, err := syncdemo.NewWorkload(shape[0], shape[1]).Run(c)
			if err != nil {
				t.Fatalf("%T %v: %v", c, shape, err)
			}
			if got != 0 {
				t.Fatalf("%T %v: got %d, want 0", c, shape, got)
			}
		}
	}
}

// TestNewWorkloadPanics verifies negative shapes are rejected.
func TestNewWorkloadPanics(t *testing.T) {
	for _, shape := range [][2]int{{-1, 1}, {1, -1}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("NewWorkload(%d, %d): want panic", shape[0], shape[1])
				}
			}()
			syncdemo.NewWorkload(shape[0], shape[1])
		}()
	}
}

// TestWorkloadAccessors verifies the reported shape.
func TestWorkloadAccessors(t *testing.T) {
	w := syncdemo.NewWorkload(10, 3)
	if w.Workers() != 10 || w.Ops() != 3 {
		t.Fatalf("shape: got %d×%d, want 10×3", w.Workers(), w.Ops())
	}
	if w.Expected() != 30 {
		t.Fatalf("Expected: got %d, want 30", w.Expected())
	}
}
