package service

import (
	"context"
	"sync"
)

// runGuard lets at most one instance of a named task run at a time.
// HistoryService keeps snapshots and restores single-flight with it, so a
// cron tick that lands during a manual snapshot is skipped.
type runGuard struct {
	mu      sync.Mutex
	running map[string]struct{}
	wg      sync.WaitGroup
}

// TryLock marks task as running. It returns false if it already is.
func (g *runGuard) TryLock(task string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running == nil {
		g.running = make(map[string]struct{})
	}
	if _, ok := g.running[task]; ok {
		return false
	}
	g.running[task] = struct{}{}
	g.wg.Add(1)
	return true
}

// Unlock releases task. Must follow a successful TryLock.
func (g *runGuard) Unlock(task string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.running, task)
	g.wg.Done()
}

// WaitAll blocks until every running task finishes or ctx is done.
func (g *runGuard) WaitAll(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
