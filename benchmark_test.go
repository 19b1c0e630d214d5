// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncdemo_test

import (
	"fmt"
	"testing"

	"code.hybscloud.com/syncdemo"
)

// =============================================================================
// Single-goroutine baselines
// =============================================================================

func BenchmarkUnsynchronized_SingleOp(b *testing.B) {
	c := syncdemo.NewUnsynchronizedCounter()

	b.ResetTimer()
	for range b.N {
		c.Increment()
	}
}

func BenchmarkAtomic_SingleOp(b *testing.B) {
	c := syncdemo.NewAtomicCounter()

	b.ResetTimer()
	for range b.N {
		c.Increment()
	}
}

func BenchmarkMutex_SingleOp(b *testing.B) {
	c := syncdemo.NewMutexCollection(0)

	b.ResetTimer()
	for i := range b.N {
		c.Append(int64(i))
		if i%4096 == 4095 {
			b.StopTimer()
			c = syncdemo.NewMutexCollection(0)
			b.StartTimer()
		}
	}
}

func BenchmarkRegistry_Read(b *testing.B) {
	r := syncdemo.NewLazyRWRegistry(nil)
	r.Read()

	b.ResetTimer()
	for range b.N {
		r.Read()
	}
}

// =============================================================================
// Contended
// =============================================================================

func BenchmarkAtomic_Parallel(b *testing.B) {
	c := syncdemo.NewAtomicCounter()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.Increment()
		}
	})
}

func BenchmarkRegistry_ReadParallel(b *testing.B) {
	r := syncdemo.NewLazyRWRegistry(nil)

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			r.Read()
		}
	})
}

func BenchmarkWorkload_Atomic(b *testing.B) {
	for _, workers := range []int{1, 8, 64} {
		b.Run(fmt.Sprintf("W%d", workers), func(b *testing.B) {
			for range b.N {
				syncdemo.NewWorkload(workers, 1000).Run(syncdemo.NewAtomicCounter())
			}
		})
	}
}

func BenchmarkSum(b *testing.B) {
	nums := make([]int64, 5000)
	for i := range nums {
		nums[i] = int64(i)
	}
	for _, chunk := range []int{8, 64, 625} {
		b.Run(fmt.Sprintf("chunk%d", chunk), func(b *testing.B) {
			for range b.N {
				syncdemo.Sum(nums, chunk)
			}
		})
	}
}
