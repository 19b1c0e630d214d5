// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command syncdemo runs the shared-state strategy demonstrations.
//
// With no subcommand it runs race, atomic, mutex and rwlock in order. The
// report goes to stdout and logs go to stderr. Any failure exits with
// status 1.
//
//	syncdemo                        # all demonstrations
//	syncdemo race --trials 10       # repeat the race 10 times
//	syncdemo atomic --workers 8     # 8 × 1000 atomic increments
//	syncdemo rwlock --interval 1s   # faster background reader
//	syncdemo sum --chunk 16         # chunked fork-join sum
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "syncdemo:", err)
		os.Exit(1)
	}
}
