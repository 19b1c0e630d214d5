// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package harness

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"code.hybscloud.com/syncdemo"
)

const (
	// Prompt is printed before each input line is read.
	Prompt = "Enter a name to add to the user list (q to quit)"
	// QuitCommand ends the input loop.
	QuitCommand = "q"
)

// RWLock runs the reader-writer demonstration.
//
// A background reader prints the registry immediately and then once per
// configured interval. In the foreground, each input line is trimmed and
// written to the registry until a line equal to "q" or the end of input.
// Blank lines are ignored. The reader is cancelled and joined before
// RWLock returns.
//
// Cancelling ctx ends the input loop early with ctx's error.
func (h *Harness) RWLock(ctx context.Context) (Result, error) {
	rc := h.cfg.Registry
	res := Result{Name: "rwlock"}
	log := h.log.With(zap.String("demo", res.Name), zap.Duration("interval", rc.Interval))
	log.Info("demo started")

	seed := slices.Clone(rc.Seed)
	reg := syncdemo.NewLazyRWRegistry(func() []string { return seed })

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var g errgroup.Group
	g.Go(func() error {
		return h.pollRegistry(ctx, reg, log)
	})

	added, inputErr := h.readNames(ctx, reg, log)
	cancel()
	pollErr := g.Wait()

	switch {
	case inputErr != nil:
		log.Error("demo failed", zap.Error(inputErr))
		return res, fmt.Errorf("rwlock: %w", inputErr)
	case pollErr != nil:
		log.Error("reader failed", zap.Error(pollErr))
		return res, fmt.Errorf("rwlock reader: %w", pollErr)
	}

	n, err := reg.Len()
	if err != nil {
		return res, fmt.Errorf("rwlock: %w", err)
	}
	res.Expected = int64(len(seed) + added)
	res.Observed = int64(n)
	res.Detail = fmt.Sprintf("%d added", added)
	if res.Observed != res.Expected {
		return res, fmt.Errorf("rwlock: got %d users, want %d: %w", res.Observed, res.Expected, syncdemo.ErrMiscount)
	}
	log.Info("demo finished", zap.Int("added", added), zap.Int64("users", res.Observed))
	return res, nil
}

// pollRegistry prints the registry now and on every tick until ctx is done.
func (h *Harness) pollRegistry(ctx context.Context, reg *syncdemo.LazyRWRegistry, log *zap.Logger) error {
	ticker := h.clock.NewTicker(h.cfg.Registry.Interval)
	defer ticker.Stop()

	for {
		names, err := reg.Read()
		if err != nil {
			return err
		}
		h.printf("current users (in a thread): %v\n", names)
		log.Debug("reader tick", zap.Int("users", len(names)))

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
		}
	}
}

// readNames writes every input line to reg until quit, end of input, or
// ctx is done. It returns how many names were written.
func (h *Harness) readNames(ctx context.Context, reg *syncdemo.LazyRWRegistry, log *zap.Logger) (int, error) {
	lines, scanErr := scanLines(ctx, h.in)
	added := 0
	for {
		h.printf("%s\n", Prompt)
		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			return added, ctx.Err()
		case line, ok = <-lines:
		}
		if !ok {
			// End of input ends the loop like an explicit quit
			return added, <-scanErr
		}

		name := strings.TrimSpace(line)
		switch name {
		case QuitCommand:
			return added, nil
		case "":
			continue
		}
		if err := reg.Write(name); err != nil {
			return added, err
		}
		added++
		log.Debug("user added", zap.String("name", name))
	}
}

// scanLines delivers lines from r until the end of input or ctx is done.
// The error channel receives the scanner error once lines is closed.
//
// A Read already blocked on r cannot be interrupted; the goroutine exits
// once that Read returns.
func scanLines(ctx context.Context, r io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				errc <- nil
				return
			}
		}
		errc <- sc.Err()
	}()
	return lines, errc
}
