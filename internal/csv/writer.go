package csv

import (
	"context"
	"encoding/csv"
	"io"

	"go.uber.org/zap"

	"github.com/kennedykori/credrails-reconciler/internal/reconciler"
)

// Header is the fixed header of the diff output, matching the diff
// model's field names.
var Header = []string{"kind", "record_id", "field", "source_value", "target_value"}

type WriterOption func(*Writer)

func WithWriterLogger(logger *zap.Logger) WriterOption {
	return func(w *Writer) {
		w.logger = logger
	}
}

// Writer persists diffs as delimited rows, one row per diff, in the
// order diffs are produced. The header row is written exactly once, at
// construction.
type Writer struct {
	csv    *csv.Writer
	logger *zap.Logger
}

func NewWriter(w io.Writer, opts ...WriterOption) (*Writer, error) {
	writer := &Writer{
		csv:    csv.NewWriter(w),
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(writer)
	}

	if err := writer.csv.Write(Header); err != nil {
		return nil, err
	}
	writer.csv.Flush()
	return writer, writer.csv.Error()
}

// Write drains the diff sequence into the underlying writer. A diff of
// an unknown kind fails the write with UnsupportedDiffError instead of
// being coerced or dropped.
func (w *Writer) Write(ctx context.Context, diffs reconciler.Iterator) error {
	for {
		diff, err := diffs.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		if !diff.Kind.Valid() {
			return &reconciler.UnsupportedDiffError{Kind: diff.Kind}
		}

		row := []string{
			string(diff.Kind),
			diff.RecordID,
			diff.Field,
			diff.SourceValue,
			diff.TargetValue,
		}
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}

	w.csv.Flush()
	return w.csv.Error()
}
