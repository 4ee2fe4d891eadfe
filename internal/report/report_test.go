package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kennedykori/credrails-reconciler/internal/reconciler"
)

func TestReportFinalize(t *testing.T) {
	r := New("run-1", "source.csv", "target.csv")

	r.Finalize(reconciler.Stats{
		SourceRecords: 10,
		TargetRecords: 9,
		TotalDiffs:    3,
		DiffsByKind: map[reconciler.Kind]int64{
			reconciler.KindFieldMismatch: 2,
			reconciler.KindNotInTarget:   1,
		},
	}, true)

	assert.Equal(t, int64(10), r.NumSourceRecords)
	assert.Equal(t, int64(9), r.NumTargetRecords)
	assert.Equal(t, int64(3), r.NumDiffs)
	assert.True(t, r.Completed)
	assert.False(t, r.EndTime.IsZero())
	assert.True(t, r.EndTime.After(r.StartTime) || r.EndTime.Equal(r.StartTime))

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"run_id":"run-1"`)
	assert.Contains(t, string(data), `"Field Discrepancy":2`)
}
