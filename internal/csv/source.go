package csv

import (
	"context"
	"encoding/csv"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/kennedykori/credrails-reconciler/internal"
)

type SourceOption func(*Source)

func WithSourceLogger(logger *zap.Logger) SourceOption {
	return func(s *Source) {
		s.logger = logger
	}
}

// Source reads records from delimited text. The first row names the
// columns and the first column always carries the record identity. That
// convention is fixed, not configurable.
type Source struct {
	reader  *csv.Reader
	closer  io.Closer
	columns []string
	logger  *zap.Logger
}

func NewSource(r io.Reader, opts ...SourceOption) *Source {
	s := &Source{
		reader: csv.NewReader(r),
		logger: zap.NewNop(),
	}
	if closer, ok := r.(io.Closer); ok {
		s.closer = closer
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a Source over the file at the given path.
func Open(path string, opts ...SourceOption) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return NewSource(f, opts...), nil
}

// Next returns the next record, reading the header first if it has not
// been read yet. An input with no rows at all yields io.EOF immediately.
func (s *Source) Next(ctx context.Context) (*internal.Record, error) {
	if s.columns == nil {
		header, err := s.reader.Read()
		if err != nil {
			return nil, err
		}
		s.columns = header
		s.logger.Debug("read header", zap.Strings("columns", s.columns))
	}

	row, err := s.reader.Read()
	if err != nil {
		return nil, err
	}
	return internal.NewRecord(s.columns, row), nil
}

func (s *Source) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
