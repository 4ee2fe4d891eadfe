package internal

import "context"

// RecordSource is a forward-only cursor over an ordered stream of records.
// Next returns io.EOF once the stream is exhausted.
type RecordSource interface {
	Next(ctx context.Context) (*Record, error)
	Close() error
}
