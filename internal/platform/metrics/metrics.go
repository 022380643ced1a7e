package metrics

import (
	"sync/atomic"
	"time"
)

// Collector keeps cheap in-process request counters. It is not a metrics
// backend; the snapshot is served on /metrics for scripts and dashboards.
type Collector struct {
	totalRequests   atomic.Uint64
	errorRequests   atomic.Uint64
	rateLimited     atomic.Uint64
	totalDurationMs atomic.Uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	c.totalRequests.Add(1)
	if status >= 500 {
		c.errorRequests.Add(1)
	}
	if status == 429 {
		c.rateLimited.Add(1)
	}
	c.totalDurationMs.Add(uint64(duration.Milliseconds()))
}

func (c *Collector) Snapshot() map[string]any {
	total := c.totalRequests.Load()
	avg := float64(0)
	if total > 0 {
		avg = float64(c.totalDurationMs.Load()) / float64(total)
	}
	return map[string]any{
		"requestsTotal":    total,
		"errorsTotal":      c.errorRequests.Load(),
		"rateLimitedTotal": c.rateLimited.Load(),
		"avgLatencyMs":     avg,
	}
}
