package reconciler

import (
	"sync"
	"time"
)

// Stats is a point-in-time snapshot of a run's counters.
type Stats struct {
	StartedAt        time.Time      `json:"started_at"`
	SourceRecords    int64          `json:"source_records"`
	TargetRecords    int64          `json:"target_records"`
	TotalDiffs       int64          `json:"total_diffs"`
	DiffsByKind      map[Kind]int64 `json:"diffs_by_kind"`
	UnresolvedSource int            `json:"unresolved_source_records"`
	UnresolvedTarget int            `json:"unresolved_target_records"`
}

// statsTracker guards the counters so they can be read from the status
// server while the reconciliation goroutine is advancing.
type statsTracker struct {
	mu    sync.RWMutex
	stats Stats
}

func (t *statsTracker) start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.StartedAt = time.Now()
	t.stats.DiffsByKind = make(map[Kind]int64)
}

func (t *statsTracker) observeSourceRecord() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.SourceRecords++
}

func (t *statsTracker) observeTargetRecord() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.TargetRecords++
}

func (t *statsTracker) observeDiff(diff *Diff) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.TotalDiffs++
	t.stats.DiffsByKind[diff.Kind]++
}

func (t *statsTracker) observeBuffers(source, target int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.UnresolvedSource = source
	t.stats.UnresolvedTarget = target
}

func (t *statsTracker) snapshot() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := t.stats
	stats.DiffsByKind = make(map[Kind]int64, len(t.stats.DiffsByKind))
	for kind, count := range t.stats.DiffsByKind {
		stats.DiffsByKind[kind] = count
	}
	return stats
}
