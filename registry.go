// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncdemo

import (
	"slices"
	"sync"
)

// DefaultSeed returns the initial registry contents: "MS" and "MJ".
func DefaultSeed() []string {
	return []string{"MS", "MJ"}
}

// LazyRWRegistry is an ordered list of strings guarded by a reader-writer
// lock and built on first access.
//
// Initialization runs the seed function exactly once, under the exclusive
// lock, no matter how many goroutines race to trigger it. Concurrent first
// accesses wait for the seed to finish, and later accesses pay only the
// sync.Once fast path. No reader ever observes a partially built list.
//
// Read holds the shared lock, so concurrent readers proceed in parallel.
// Write and Update hold the exclusive lock. Writers may starve under a
// continuous stream of readers; that is a property of the lock, not
// something the registry tries to prevent.
//
// A panic inside the seed function or an Update callback poisons the
// registry. All later operations return ErrPoisoned.
//
// Example:
//
//	r := syncdemo.NewLazyRWRegistry(nil) // DefaultSeed
//	r.Write("alice")
//	names, _ := r.Read() // [MS MJ alice]
type LazyRWRegistry struct {
	once   sync.Once
	mu     sync.RWMutex
	seed   func() []string
	names  []string
	ready  bool
	poison poison
}

// NewLazyRWRegistry creates a registry that calls seed on first access.
// A nil seed means DefaultSeed. The seed's result is copied.
func NewLazyRWRegistry(seed func() []string) *LazyRWRegistry {
	if seed == nil {
		seed = DefaultSeed
	}
	return &LazyRWRegistry{seed: seed}
}

// init builds the list if no access has done so yet.
//
// A panicking seed still completes the Once. The poison mark it leaves is
// seen by the lock-held check every operation makes next.
func (r *LazyRWRegistry) init() {
	r.once.Do(func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.poison.guard(func() {
			r.names = slices.Clone(r.seed())
		})
		r.ready = true
	})
}

// Initialized reports whether the seed has run.
// It never triggers initialization.
func (r *LazyRWRegistry) Initialized() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ready
}

// Read returns a copy of the names in insertion order, seed first.
func (r *LazyRWRegistry) Read() ([]string, error) {
	r.init()
	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := r.poison.check(); err != nil {
		return nil, err
	}
	return slices.Clone(r.names), nil
}

// Len returns the number of names.
func (r *LazyRWRegistry) Len() (int, error) {
	r.init()
	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := r.poison.check(); err != nil {
		return 0, err
	}
	return len(r.names), nil
}

// Write appends name.
func (r *LazyRWRegistry) Write(name string) error {
	r.init()
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.poison.check(); err != nil {
		return err
	}
	r.names = append(r.names, name)
	return nil
}

// Update runs fn with exclusive access to the names and stores the slice it
// returns.
//
// If fn panics, the registry is poisoned and the panic propagates.
func (r *LazyRWRegistry) Update(fn func(names []string) []string) error {
	r.init()
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.poison.check(); err != nil {
		return err
	}
	r.poison.guard(func() {
		r.names = fn(r.names)
	})
	return nil
}

// Name returns "rwlock".
func (r *LazyRWRegistry) Name() string { return "rwlock" }

// Counter returns a Counter view of r so that a Workload can drive it like
// the other strategies. Increment writes entry; Read returns the number of
// names, seed included.
func (r *LazyRWRegistry) Counter(entry string) Counter {
	return registryCounter{r: r, entry: entry}
}

type registryCounter struct {
	r     *LazyRWRegistry
	entry string
}

func (c registryCounter) Increment() error { return c.r.Write(c.entry) }

func (c registryCounter) Read() (int64, error) {
	n, err := c.r.Len()
	return int64(n), err
}

func (c registryCounter) Name() string { return c.r.Name() }
