package reconciler

import (
	"strings"

	"github.com/kennedykori/credrails-reconciler/internal"
)

// Differ compares two records sharing a logical identity and reports
// their field-level differences. Implementations must be side-effect
// free: a Compare call may only depend on its arguments.
type Differ interface {
	Compare(source, target *internal.Record, recordID string) ([]*Diff, error)
}

// SimpleDiffer is a basic Differ that compares records field by field
// using the equals operator. It does not support complex value
// sanitization and only performs the following before comparing:
//
//   - removal of extra leading and trailing whitespace
//   - lower-casing, so case-only differences are not reported
//
// Diffs carry the original, unnormalized values. The differ also checks
// for extra columns on the target record.
type SimpleDiffer struct{}

func NewSimpleDiffer() *SimpleDiffer {
	return &SimpleDiffer{}
}

func (d *SimpleDiffer) Compare(source, target *internal.Record, recordID string) ([]*Diff, error) {
	if recordID == "" {
		return nil, ErrRecordIDMissing
	}

	diffs := d.fieldMismatches(source, target, recordID)
	diffs = append(diffs, d.extraTargetFields(source, target, recordID)...)
	return diffs, nil
}

func (d *SimpleDiffer) fieldMismatches(source, target *internal.Record, recordID string) []*Diff {
	var diffs []*Diff
	for _, column := range source.Columns() {
		sourceValue, _ := source.Get(column)
		targetValue, ok := target.Get(column)
		// A column missing on the target is a mismatch against a missing
		// value, not a separate diff kind.
		if !ok || normalize(sourceValue) != normalize(targetValue) {
			diffs = append(diffs, NewFieldMismatch(recordID, column, sourceValue, targetValue))
		}
	}
	return diffs
}

func (d *SimpleDiffer) extraTargetFields(source, target *internal.Record, recordID string) []*Diff {
	var diffs []*Diff
	for _, column := range target.Columns() {
		if _, ok := source.Get(column); !ok {
			diffs = append(diffs, NewExtraTargetField(recordID, column))
		}
	}
	return diffs
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
