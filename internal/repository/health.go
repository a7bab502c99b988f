package repository

import (
	"sync"
	"time"

	drepo "StockSentry/internal/domain/repository"
)

// degradedAfter is the number of consecutive failed ticks before the
// health endpoint reports degraded.
const degradedAfter = 3

// HealthTracker is the shared health flag between the scheduler and the web
// surface. The scheduler writes, the /healthz handler reads; nothing else
// crosses the boundary.
type HealthTracker struct {
	mu       sync.Mutex
	lastTick time.Time
	failures int
}

// NewHealthTracker creates a health tracker.
func NewHealthTracker() drepo.Health {
	return &HealthTracker{}
}

func (h *HealthTracker) TickOK(at time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastTick = at
	h.failures = 0
}

func (h *HealthTracker) TickFailed() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failures++
}

func (h *HealthTracker) Snapshot() drepo.HealthStatus {
	h.mu.Lock()
	defer h.mu.Unlock()
	return drepo.HealthStatus{
		Degraded:            h.failures >= degradedAfter,
		LastTick:            h.lastTick,
		ConsecutiveFailures: h.failures,
	}
}
