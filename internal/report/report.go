package report

import (
	"time"

	"github.com/kennedykori/credrails-reconciler/internal/reconciler"
)

/*
The report is a record of a reconciliation run. It is a primitive for
verifying, inventorying and auditing reconciliation outcomes.
*/

// Report summarizes a single reconciliation run.
type Report struct {
	RunID            string                    `json:"run_id"`
	StartTime        time.Time                 `json:"start_time"`
	EndTime          time.Time                 `json:"end_time"`
	Source           string                    `json:"source"`
	Target           string                    `json:"target"`
	NumSourceRecords int64                     `json:"num_source_records"`
	NumTargetRecords int64                     `json:"num_target_records"`
	NumDiffs         int64                     `json:"num_diffs"`
	DiffsByKind      map[reconciler.Kind]int64 `json:"diffs_by_kind"`
	Completed        bool                      `json:"completed"`
}

func New(runID string, source string, target string) *Report {
	return &Report{
		RunID:     runID,
		StartTime: time.Now().UTC(),
		Source:    source,
		Target:    target,
	}
}

// Finalize stamps the end time and copies the run's counters onto the
// report.
func (r *Report) Finalize(stats reconciler.Stats, completed bool) {
	r.EndTime = time.Now().UTC()
	r.NumSourceRecords = stats.SourceRecords
	r.NumTargetRecords = stats.TargetRecords
	r.NumDiffs = stats.TotalDiffs
	r.DiffsByKind = stats.DiffsByKind
	r.Completed = completed
}
