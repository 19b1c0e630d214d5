// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncdemo

import (
	"slices"
	"sync"
)

// MutexCollection is an append-only sequence of integers guarded by a
// mutual-exclusion lock.
//
// Every access holds the lock; the release is deferred so that it happens on
// every exit path, panics included. After W concurrent appends the length is
// exactly W and no element is lost or duplicated.
//
// If a function passed to Update panics while holding the lock, the lock is
// released and the collection is marked poisoned: all later operations
// return ErrPoisoned.
//
// As a Counter, Increment appends 1 and Read returns the length.
//
// The zero value is an empty collection.
type MutexCollection struct {
	mu     sync.Mutex
	items  []int64
	poison poison
}

// NewMutexCollection returns an empty collection with room for capacity
// elements before the first reallocation.
func NewMutexCollection(capacity int) *MutexCollection {
	if capacity < 0 {
		panic("syncdemo: capacity must be >= 0")
	}
	return &MutexCollection{items: make([]int64, 0, capacity)}
}

// Append adds v at the end, blocking until the lock is available.
func (c *MutexCollection) Append(v int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.poison.check(); err != nil {
		return err
	}
	c.items = append(c.items, v)
	return nil
}

// TryAppend adds v at the end if the lock is free.
// Returns ErrWouldBlock immediately if another goroutine holds the lock.
func (c *MutexCollection) TryAppend(v int64) error {
	if !c.mu.TryLock() {
		return ErrWouldBlock
	}
	defer c.mu.Unlock()
	if err := c.poison.check(); err != nil {
		return err
	}
	c.items = append(c.items, v)
	return nil
}

// Update runs fn with exclusive access to the elements and stores the slice
// it returns.
//
// If fn panics, the collection is poisoned and the panic propagates.
func (c *MutexCollection) Update(fn func(items []int64) []int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.poison.check(); err != nil {
		return err
	}
	c.poison.guard(func() {
		c.items = fn(c.items)
	})
	return nil
}

// Snapshot returns a copy of the elements in append order.
func (c *MutexCollection) Snapshot() ([]int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.poison.check(); err != nil {
		return nil, err
	}
	return slices.Clone(c.items), nil
}

// Len returns the number of elements.
func (c *MutexCollection) Len() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.poison.check(); err != nil {
		return 0, err
	}
	return len(c.items), nil
}

// Increment appends 1.
func (c *MutexCollection) Increment() error {
	return c.Append(1)
}

// Read returns the number of elements.
func (c *MutexCollection) Read() (int64, error) {
	n, err := c.Len()
	return int64(n), err
}

// Name returns "mutex".
func (c *MutexCollection) Name() string { return "mutex" }
