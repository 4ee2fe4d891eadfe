package reconciler

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/kennedykori/credrails-reconciler/internal"
)

// Iterator is a forward-only, single-pass cursor over a diff sequence.
// Next returns io.EOF once the sequence is exhausted.
type Iterator interface {
	Next(ctx context.Context) (*Diff, error)
}

type Option func(*Reconciler)

func WithDiffer(differ Differ) Option {
	return func(r *Reconciler) {
		r.differ = differ
	}
}

func WithID(id string) Option {
	return func(r *Reconciler) {
		r.ID = id
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

// Reconciler aligns two record streams by identity and classifies every
// discrepancy between them. It is itself the lazy diff sequence: diffs
// are produced one Next call at a time as input is consumed, nothing is
// computed ahead of the consumer.
//
// Matching is a positional zip with key-based recovery, not a sorted
// merge join. Records are paired by stream position first; a record
// whose positional counterpart has a different identity is parked in a
// per-side unresolved buffer, keyed by record id, and compared later if
// the opposite stream produces its counterpart. Records still unresolved
// once both streams are exhausted become missing-record diffs, in buffer
// insertion order. If reordering is severe enough that two matching
// records never align before the buffers are flushed, both are reported
// as missing rather than compared. That degradation is inherent to the
// positional design and is intentionally preserved.
//
// A Reconciler owns its buffers exclusively, must not be advanced from
// more than one goroutine, and cannot be restarted once drained or
// failed.
type Reconciler struct {
	ID string

	logger *zap.Logger
	differ Differ
	source internal.RecordSource
	target internal.RecordSource

	unresolvedSource map[string]*internal.Record
	unresolvedTarget map[string]*internal.Record
	sourceOrder      []string
	targetOrder      []string

	pending   []*Diff
	sourceEOF bool
	targetEOF bool
	flushed   bool
	err       error

	stats statsTracker
}

func New(source, target internal.RecordSource, opts ...Option) *Reconciler {
	r := &Reconciler{
		logger:           zap.NewNop(),
		differ:           NewSimpleDiffer(),
		source:           source,
		target:           target,
		unresolvedSource: make(map[string]*internal.Record),
		unresolvedTarget: make(map[string]*internal.Record),
	}

	for _, opt := range opts {
		opt(r)
	}

	r.stats.start()
	return r
}

// Next returns the next diff, advancing the input streams only as far as
// needed to produce it. It returns io.EOF once every discrepancy has
// been reported. Errors raised by the sources or the differ are returned
// as-is, never wrapped, and are terminal: every subsequent call returns
// the same error.
func (r *Reconciler) Next(ctx context.Context) (*Diff, error) {
	if r.err != nil {
		return nil, r.err
	}

	for {
		if len(r.pending) > 0 {
			diff := r.pending[0]
			r.pending = r.pending[1:]
			r.stats.observeDiff(diff)
			return diff, nil
		}

		if r.flushed {
			return nil, io.EOF
		}

		if err := r.step(ctx); err != nil {
			r.err = err
			return nil, err
		}
	}
}

// Stats returns a snapshot of the run's counters. Safe to call from
// another goroutine while the reconciliation is being driven.
func (r *Reconciler) Stats() Stats {
	return r.stats.snapshot()
}

// Close releases both record sources. It does not drain the diff
// sequence; a consumer that stops early simply abandons the remainder.
func (r *Reconciler) Close(ctx context.Context) error {
	return errors.Join(r.source.Close(), r.target.Close())
}

// step advances the positional zip by one pair, appending any resulting
// diffs to the pending queue.
func (r *Reconciler) step(ctx context.Context) error {
	var srcRecord, tgtRecord *internal.Record

	if !r.sourceEOF {
		record, err := r.source.Next(ctx)
		switch {
		case err == io.EOF:
			r.sourceEOF = true
		case err != nil:
			return err
		default:
			srcRecord = record
			r.stats.observeSourceRecord()
		}
	}

	if !r.targetEOF {
		record, err := r.target.Next(ctx)
		switch {
		case err == io.EOF:
			r.targetEOF = true
		case err != nil:
			return err
		default:
			tgtRecord = record
			r.stats.observeTargetRecord()
		}
	}

	switch {
	case srcRecord != nil && tgtRecord != nil:
		return r.stepBoth(srcRecord, tgtRecord)
	case srcRecord != nil:
		return r.stepSourceOnly(srcRecord)
	case tgtRecord != nil:
		return r.stepTargetOnly(tgtRecord)
	default:
		r.flush()
	}
	return nil
}

func (r *Reconciler) stepBoth(srcRecord, tgtRecord *internal.Record) error {
	srcID, err := srcRecord.ID()
	if err != nil {
		return err
	}
	tgtID, err := tgtRecord.ID()
	if err != nil {
		return err
	}

	if srcID == tgtID {
		return r.compare(srcRecord, tgtRecord, srcID)
	}

	// Positions disagree. This is not a mismatch: each side is resolved
	// against the opposite unresolved buffer if its counterpart already
	// arrived, and parked for later recovery otherwise.
	if parked, ok := r.unresolvedTarget[srcID]; ok {
		r.dropTarget(srcID)
		if err := r.compare(srcRecord, parked, srcID); err != nil {
			return err
		}
	} else {
		r.parkSource(srcID, srcRecord)
	}

	if parked, ok := r.unresolvedSource[tgtID]; ok {
		r.dropSource(tgtID)
		return r.compare(parked, tgtRecord, tgtID)
	}
	r.parkTarget(tgtID, tgtRecord)
	return nil
}

func (r *Reconciler) stepSourceOnly(srcRecord *internal.Record) error {
	srcID, err := srcRecord.ID()
	if err != nil {
		return err
	}

	if parked, ok := r.unresolvedTarget[srcID]; ok {
		r.dropTarget(srcID)
		return r.compare(srcRecord, parked, srcID)
	}
	r.parkSource(srcID, srcRecord)
	return nil
}

func (r *Reconciler) stepTargetOnly(tgtRecord *internal.Record) error {
	tgtID, err := tgtRecord.ID()
	if err != nil {
		return err
	}

	if parked, ok := r.unresolvedSource[tgtID]; ok {
		r.dropSource(tgtID)
		return r.compare(parked, tgtRecord, tgtID)
	}
	r.parkTarget(tgtID, tgtRecord)
	return nil
}

func (r *Reconciler) compare(source, target *internal.Record, recordID string) error {
	diffs, err := r.differ.Compare(source, target, recordID)
	if err != nil {
		return err
	}
	r.pending = append(r.pending, diffs...)
	return nil
}

func (r *Reconciler) parkSource(id string, record *internal.Record) {
	if _, ok := r.unresolvedSource[id]; !ok {
		r.sourceOrder = append(r.sourceOrder, id)
	}
	r.unresolvedSource[id] = record
	r.logger.Debug("parked source record", zap.String("record_id", id))
	r.stats.observeBuffers(len(r.unresolvedSource), len(r.unresolvedTarget))
}

func (r *Reconciler) parkTarget(id string, record *internal.Record) {
	if _, ok := r.unresolvedTarget[id]; !ok {
		r.targetOrder = append(r.targetOrder, id)
	}
	r.unresolvedTarget[id] = record
	r.logger.Debug("parked target record", zap.String("record_id", id))
	r.stats.observeBuffers(len(r.unresolvedSource), len(r.unresolvedTarget))
}

func (r *Reconciler) dropSource(id string) {
	delete(r.unresolvedSource, id)
	r.stats.observeBuffers(len(r.unresolvedSource), len(r.unresolvedTarget))
}

func (r *Reconciler) dropTarget(id string) {
	delete(r.unresolvedTarget, id)
	r.stats.observeBuffers(len(r.unresolvedSource), len(r.unresolvedTarget))
}

// flush turns everything left in the unresolved buffers into
// missing-record diffs, in buffer insertion order.
func (r *Reconciler) flush() {
	for _, id := range r.sourceOrder {
		if _, ok := r.unresolvedSource[id]; ok {
			r.pending = append(r.pending, NewNotInTarget(id))
		}
	}
	for _, id := range r.targetOrder {
		if _, ok := r.unresolvedTarget[id]; ok {
			r.pending = append(r.pending, NewNotInSource(id))
		}
	}
	r.flushed = true
}
