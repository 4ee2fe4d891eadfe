package sql

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/xwb1989/sqlparser"
	"go.uber.org/zap"

	"github.com/kennedykori/credrails-reconciler/internal"
)

type SourceOption func(*Source)

func WithSchema(schema string) SourceOption {
	return func(s *Source) {
		s.Schema = schema
	}
}

func WithTable(table string) SourceOption {
	return func(s *Source) {
		s.Table = table
	}
}

func WithQuery(query string) SourceOption {
	return func(s *Source) {
		s.Query = query
	}
}

func WithLogger(logger *zap.Logger) SourceOption {
	return func(s *Source) {
		s.logger = logger
	}
}

// Source streams the rows of a query as records. Column order follows
// the query's select list, so the first selected column is the record
// identity.
type Source struct {
	DB     *sql.DB
	Schema string
	Table  string
	Query  string

	logger  *zap.Logger
	rows    *sql.Rows
	columns []string
}

// NewSource builds a Source over db. The query defaults to selecting
// everything from the configured schema and table. Only plain SELECT
// queries can feed a reconciliation; anything else is rejected up front.
func NewSource(db *sql.DB, opts ...SourceOption) (*Source, error) {
	s := &Source{
		DB:     db,
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.Query == "" {
		s.Query = fmt.Sprintf("SELECT * FROM %s.%s", s.Schema, s.Table)
	}

	stmt, err := sqlparser.Parse(s.Query)
	if err != nil {
		return nil, fmt.Errorf("parse query: %w", err)
	}
	if _, ok := stmt.(*sqlparser.Select); !ok {
		return nil, fmt.Errorf("only SELECT queries can feed a reconciliation, got: %q", s.Query)
	}

	return s, nil
}

func (s *Source) Name() string {
	return fmt.Sprintf("%s.%s", s.Schema, s.Table)
}

// Count returns the expected number of records in the stream.
// TODO this should be executed in the same transaction that the actual
// query is executed in for correctness.
func (s *Source) Count(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM (%s) c`, s.Query)
	row := s.DB.QueryRowContext(ctx, query)
	var c int
	err := row.Scan(&c)
	return c, err
}

// Next returns the next row as a record, running the query on the first
// call.
func (s *Source) Next(ctx context.Context) (*internal.Record, error) {
	if s.rows == nil {
		if err := s.open(ctx); err != nil {
			return nil, err
		}
	}

	if !s.rows.Next() {
		if err := s.rows.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}

	values := make([]any, len(s.columns))
	valuePtrs := make([]any, len(s.columns))
	for i := range values {
		valuePtrs[i] = &values[i]
	}

	if err := s.rows.Scan(valuePtrs...); err != nil {
		return nil, err
	}

	formatted := make([]string, len(values))
	for i, value := range values {
		formatted[i] = formatValue(value)
	}

	return internal.NewRecord(s.columns, formatted), nil
}

func (s *Source) open(ctx context.Context) error {
	s.logger.Debug("running source query", zap.String("query", s.Query))

	rows, err := s.DB.QueryContext(ctx, s.Query)
	if err != nil {
		return err
	}

	columns, err := rows.Columns()
	if err != nil {
		rows.Close()
		return err
	}

	s.rows = rows
	s.columns = columns
	return nil
}

func (s *Source) Close() error {
	if s.rows != nil {
		s.rows.Close()
	}
	return s.DB.Close()
}

// formatValue renders a scanned value the way it would appear in a
// delimited text export, so SQL-backed and file-backed streams compare
// cleanly.
func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}
