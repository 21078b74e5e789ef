package plugin

import (
	"context"
	"log"
	"sync"
)

// Hooks runs every subscribed plugin for each fired event on its own
// goroutine, so a slow plugin never blocks the caller.
type Hooks struct {
	manager  *Manager
	executor *Executor
	wg       sync.WaitGroup
}

// NewHooks creates a Hooks over a discovered manager.
func NewHooks(manager *Manager, executor *Executor) *Hooks {
	return &Hooks{manager: manager, executor: executor}
}

// Fire starts the subscribers of req.Event and returns how many were
// started. Failures are logged.
func (h *Hooks) Fire(ctx context.Context, req Request) int {
	subs := h.manager.Subscribers(req.Event)
	for _, p := range subs {
		h.wg.Add(1)
		go func(p *Plugin) {
			defer h.wg.Done()
			resp, err := h.executor.ExecuteContext(ctx, p, &req)
			if err != nil {
				log.Printf("plugin %s on %s: %v", p.Manifest.Name, req.Event, err)
				return
			}
			if !resp.Success {
				log.Printf("plugin %s on %s failed: %s", p.Manifest.Name, req.Event, resp.Error)
			}
		}(p)
	}
	return len(subs)
}

// Wait blocks until every started plugin run has finished.
func (h *Hooks) Wait() {
	h.wg.Wait()
}
