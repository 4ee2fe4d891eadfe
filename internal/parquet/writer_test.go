package parquet

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kennedykori/credrails-reconciler/internal/reconciler"
)

type sliceIterator struct {
	diffs []*reconciler.Diff
	pos   int
}

func (s *sliceIterator) Next(ctx context.Context) (*reconciler.Diff, error) {
	if s.pos >= len(s.diffs) {
		return nil, io.EOF
	}
	d := s.diffs[s.pos]
	s.pos++
	return d, nil
}

func TestSchemaToGoParquetSchema(t *testing.T) {
	schema := diffSchema.ToGoParquetSchema()
	require.Len(t, schema, 5)
	assert.Equal(t, "name=kind, type=BYTE_ARRAY, convertedtype=UTF8", schema[0])
	assert.Equal(t, "name=target_value, type=BYTE_ARRAY, convertedtype=UTF8", schema[4])
}

func TestWriter(t *testing.T) {
	ctx := context.Background()

	t.Run("writes diffs to a parquet file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "diffs.parquet")
		w := NewWriter(path)

		diffs := &sliceIterator{diffs: []*reconciler.Diff{
			reconciler.NewFieldMismatch("1", "amount", "100", "200"),
			reconciler.NewNotInTarget("2"),
		}}

		require.NoError(t, w.Write(ctx, diffs))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	})

	t.Run("rejects diffs with an unknown kind", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "diffs.parquet")
		w := NewWriter(path)

		diffs := &sliceIterator{diffs: []*reconciler.Diff{
			{Kind: reconciler.Kind("bogus")},
		}}

		err := w.Write(ctx, diffs)
		var unsupported *reconciler.UnsupportedDiffError
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, reconciler.Kind("bogus"), unsupported.Kind)
	})
}
