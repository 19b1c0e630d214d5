// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncdemo

// Counter is the interface shared by every counting strategy.
//
// Increment records one unit of work. Read returns the current total.
// Lock-based strategies return ErrPoisoned once a panicking holder has
// abandoned their lock; the atomic and unsynchronized counters never fail.
//
// Whether Increment is safe for concurrent use depends on the strategy:
//   - UnsynchronizedCounter: no (lost updates are the point)
//   - AtomicCounter: yes, lock-free
//   - MutexCollection: yes, blocking
//   - LazyRWRegistry.Counter: yes, blocking writers
//
// Example:
//
//	var c syncdemo.AtomicCounter
//	total, err := syncdemo.NewWorkload(8, 1000).Run(&c)
//	// total == 8000
type Counter interface {
	Increment() error
	Read() (int64, error)
}

// Namer reports the strategy name used for metrics labels and reports.
//
// All strategies in this package implement Namer.
//
// Example:
//
//	if n, ok := c.(syncdemo.Namer); ok {
//	    fmt.Println(n.Name())
//	}
type Namer interface {
	Name() string
}

// Registry is the read-mostly string collection interface.
//
// Read returns a snapshot; Write appends. Both may trigger lazy
// initialization on first use.
type Registry interface {
	Read() ([]string, error)
	Write(name string) error
}

// strategyName returns the Namer name of v, or "custom".
func strategyName(v any) string {
	if n, ok := v.(Namer); ok {
		return n.Name()
	}
	return "custom"
}
