package parquet

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/writer"
	"go.uber.org/zap"

	"github.com/kennedykori/credrails-reconciler/internal/reconciler"
)

type Field struct {
	Name          string
	Type          string
	ConvertedType string
}

type Schema []Field

func (s Schema) ToGoParquetSchema() []string {
	schema := make([]string, len(s))
	for i, field := range s {
		parts := []string{
			fmt.Sprintf("name=%s", field.Name),
			fmt.Sprintf("type=%s", field.Type),
		}
		if field.ConvertedType != "" {
			parts = append(parts, fmt.Sprintf("convertedtype=%s", field.ConvertedType))
		}
		schema[i] = strings.Join(parts, ", ")
	}

	return schema
}

// diffSchema mirrors the CSV writer header: one UTF8 column per diff field.
var diffSchema = Schema{
	{Name: "kind", Type: "BYTE_ARRAY", ConvertedType: "UTF8"},
	{Name: "record_id", Type: "BYTE_ARRAY", ConvertedType: "UTF8"},
	{Name: "field", Type: "BYTE_ARRAY", ConvertedType: "UTF8"},
	{Name: "source_value", Type: "BYTE_ARRAY", ConvertedType: "UTF8"},
	{Name: "target_value", Type: "BYTE_ARRAY", ConvertedType: "UTF8"},
}

type WriterOption func(*Writer)

func WithWriterLogger(l *zap.Logger) WriterOption {
	return func(w *Writer) {
		w.logger = l
	}
}

// Writer materializes a diff sequence as a parquet file on the local
// filesystem.
type Writer struct {
	path   string
	logger *zap.Logger
}

func NewWriter(path string, opts ...WriterOption) *Writer {
	w := &Writer{
		path:   path,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Writer) Write(ctx context.Context, diffs reconciler.Iterator) error {
	fw, err := local.NewLocalFileWriter(w.path)
	if err != nil {
		return err
	}

	pw, err := writer.NewCSVWriter(diffSchema.ToGoParquetSchema(), fw, 4)
	if err != nil {
		fw.Close()
		return err
	}

	var n int
	for {
		diff, err := diffs.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			fw.Close()
			return err
		}

		if !diff.Kind.Valid() {
			fw.Close()
			return &reconciler.UnsupportedDiffError{Kind: diff.Kind}
		}

		kind := string(diff.Kind)
		row := []*string{
			&kind,
			&diff.RecordID,
			&diff.Field,
			&diff.SourceValue,
			&diff.TargetValue,
		}
		if err := pw.WriteString(row); err != nil {
			fw.Close()
			return err
		}
		n++
	}

	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return err
	}

	w.logger.Info("parquet write complete",
		zap.String("path", w.path),
		zap.Int("num_diffs", n))

	return fw.Close()
}

var _ reconciler.Writer = (*Writer)(nil)
