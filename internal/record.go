package internal

import "errors"

// ErrNoColumns is returned when a record identity is requested from a
// record that has no columns.
var ErrNoColumns = errors.New("record has no columns")

// Record is a single row of data read from a source: an ordered mapping
// of column names to string values. Column order is preserved from the
// input because the first column carries the record's identity.
// Records are immutable once produced.
type Record struct {
	columns []string
	values  []string
}

func NewRecord(columns, values []string) *Record {
	return &Record{
		columns: columns,
		values:  values,
	}
}

func (r *Record) Len() int {
	return len(r.columns)
}

func (r *Record) Columns() []string {
	return r.columns
}

func (r *Record) Values() []string {
	return r.values
}

// Get returns the value bound to the given column and whether the column
// exists on this record.
func (r *Record) Get(column string) (string, bool) {
	for i, c := range r.columns {
		if c == column {
			return r.values[i], true
		}
	}
	return "", false
}

// ID returns the record's identity: the value of its first column. The
// convention is positional, there is no way to designate a different key
// column.
func (r *Record) ID() (string, error) {
	if len(r.columns) == 0 || len(r.values) == 0 {
		return "", ErrNoColumns
	}
	return r.values[0], nil
}

func (r *Record) Map() map[string]string {
	m := make(map[string]string, len(r.columns))
	for i, column := range r.columns {
		m[column] = r.values[i]
	}
	return m
}
