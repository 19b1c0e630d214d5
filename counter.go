// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncdemo

import "code.hybscloud.com/atomix"

// UnsynchronizedCounter is a shared integer with no synchronization at all.
//
// Increment is a separate load, add and store. When two goroutines interleave
// between the load and the store, one update is lost, so after N×M concurrent
// increments the total is at most N×M and usually less.
//
// This type exists to demonstrate a data race. Concurrent use is a real race
// and is reported by the race detector; tests that exercise it are skipped
// when [RaceEnabled] is true.
//
// The zero value is a counter at 0.
type UnsynchronizedCounter struct {
	value int64
}

// NewUnsynchronizedCounter returns a counter at 0.
func NewUnsynchronizedCounter() *UnsynchronizedCounter {
	return &UnsynchronizedCounter{}
}

// Increment adds one without synchronization.
func (c *UnsynchronizedCounter) Increment() error {
	v := c.value
	c.value = v + 1
	return nil
}

// Read returns the current value without synchronization.
func (c *UnsynchronizedCounter) Read() (int64, error) {
	return c.value, nil
}

// Name returns "unsynchronized".
func (c *UnsynchronizedCounter) Name() string { return "unsynchronized" }

// AtomicCounter is a shared integer updated with an indivisible
// fetch-and-add.
//
// Increment uses relaxed ordering: only the counter itself is
// synchronized, no other memory is published through it. This is sufficient
// because the total is read after every worker has been joined, and the join
// provides the happens-before edge.
//
// Increment never blocks. After N workers × M increments, Read returns N×M
// exactly.
//
// The zero value is a counter at 0.
type AtomicCounter struct {
	_     pad
	value atomix.Int64
	_     pad
}

// NewAtomicCounter returns a counter at 0.
func NewAtomicCounter() *AtomicCounter {
	return &AtomicCounter{}
}

// Increment adds one with a relaxed fetch-and-add.
func (c *AtomicCounter) Increment() error {
	c.value.AddRelaxed(1)
	return nil
}

// Read returns the current value with a relaxed load.
func (c *AtomicCounter) Read() (int64, error) {
	return c.value.LoadRelaxed(), nil
}

// Name returns "atomic".
func (c *AtomicCounter) Name() string { return "atomic" }
