package csv

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kennedykori/credrails-reconciler/internal/reconciler"
)

// sliceIterator serves a fixed diff sequence.
type sliceIterator struct {
	diffs []*reconciler.Diff
	pos   int
}

func (s *sliceIterator) Next(ctx context.Context) (*reconciler.Diff, error) {
	if s.pos >= len(s.diffs) {
		return nil, io.EOF
	}
	diff := s.diffs[s.pos]
	s.pos++
	return diff, nil
}

func TestWriter(t *testing.T) {
	t.Run("header is written once, at construction", func(t *testing.T) {
		var out bytes.Buffer
		w, err := NewWriter(&out)
		require.NoError(t, err)

		assert.Equal(t, "kind,record_id,field,source_value,target_value\n", out.String())

		err = w.Write(context.Background(), &sliceIterator{})
		require.NoError(t, err)
		assert.Equal(t, "kind,record_id,field,source_value,target_value\n", out.String())
	})

	t.Run("one row per diff, in order", func(t *testing.T) {
		var out bytes.Buffer
		w, err := NewWriter(&out)
		require.NoError(t, err)

		diffs := &sliceIterator{diffs: []*reconciler.Diff{
			reconciler.NewFieldMismatch("1", "amount", "100", "200"),
			reconciler.NewNotInTarget("2"),
		}}
		require.NoError(t, w.Write(context.Background(), diffs))

		rows, err := csv.NewReader(&out).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 3)

		assert.Equal(t, Header, rows[0])
		assert.Equal(t, []string{string(reconciler.KindFieldMismatch), "1", "amount", "100", "200"}, rows[1])
		assert.Equal(t, []string{string(reconciler.KindNotInTarget), "2", "", "", ""}, rows[2])
	})

	t.Run("unknown diff kinds are rejected", func(t *testing.T) {
		var out bytes.Buffer
		w, err := NewWriter(&out)
		require.NoError(t, err)

		diffs := &sliceIterator{diffs: []*reconciler.Diff{
			{Kind: reconciler.Kind("Something Else"), RecordID: "1"},
		}}
		err = w.Write(context.Background(), diffs)

		var unsupported *reconciler.UnsupportedDiffError
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, reconciler.Kind("Something Else"), unsupported.Kind)
	})

	t.Run("iterator errors propagate", func(t *testing.T) {
		var out bytes.Buffer
		w, err := NewWriter(&out)
		require.NoError(t, err)

		boom := errors.New("boom")
		err = w.Write(context.Background(), failingIterator{err: boom})
		assert.ErrorIs(t, err, boom)
	})
}

type failingIterator struct {
	err error
}

func (f failingIterator) Next(ctx context.Context) (*reconciler.Diff, error) {
	return nil, f.err
}
