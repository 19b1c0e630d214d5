// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncdemo

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates the operation cannot proceed immediately.
//
// For TryAppend: another goroutine holds the collection lock.
//
// ErrWouldBlock is a control flow signal, not a failure. The caller should
// retry the operation later (with backoff or yield) or fall back to the
// blocking variant.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
//
// Example:
//
//	backoff := iox.Backoff{}
//	for {
//	    err := c.TryAppend(v)
//	    if err == nil {
//	        break
//	    }
//	    if syncdemo.IsWouldBlock(err) {
//	        backoff.Wait()
//	        continue
//	    }
//	    return err
//	}
var ErrWouldBlock = iox.ErrWouldBlock

// ErrPoisoned indicates that a lock-protected structure was abandoned by a
// holder that panicked while the lock was held.
//
// The structure may be left in an intermediate state, so every subsequent
// operation fails with ErrPoisoned. It is never retried.
var ErrPoisoned = errors.New("syncdemo: lock poisoned by panicking holder")

// ErrMiscount indicates that a synchronized strategy finished with a total
// other than workers × ops.
var ErrMiscount = errors.New("syncdemo: synchronized total mismatch")

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsPoisoned reports whether err is or wraps ErrPoisoned.
func IsPoisoned(err error) bool {
	return errors.Is(err, ErrPoisoned)
}

// WorkerPanicError is a worker fault: the worker function panicked.
// The panic is recovered so sibling workers can still be joined.
type WorkerPanicError struct {
	Worker int
	Value  any
	Stack  []byte
}

func (e *WorkerPanicError) Error() string {
	return fmt.Sprintf("syncdemo: worker %d panicked: %v", e.Worker, e.Value)
}

// Unwrap returns the panic value when it is itself an error.
func (e *WorkerPanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// RunError is the aggregated failure of a fork-join run.
//
// It is returned only after every worker has been joined. Err is the first
// failure observed; Failed counts all failing workers.
type RunError struct {
	Workers int
	Failed  int
	Err     error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("syncdemo: %d of %d workers failed: %v", e.Failed, e.Workers, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}
