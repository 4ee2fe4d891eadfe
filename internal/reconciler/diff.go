package reconciler

import "fmt"

// Kind classifies a single difference found during reconciliation.
type Kind string

const (
	// KindExtraTargetField denotes a column present on the target record
	// but missing on the source record.
	KindExtraTargetField Kind = "Extra Target Column"

	// KindFieldMismatch denotes a value discrepancy between the source
	// and target records on a shared column.
	KindFieldMismatch Kind = "Field Discrepancy"

	// KindNotInSource denotes a record present on the target stream but
	// missing on the source stream.
	KindNotInSource Kind = "Missing in Source"

	// KindNotInTarget denotes a record present on the source stream but
	// missing on the target stream.
	KindNotInTarget Kind = "Missing in Target"
)

func (k Kind) Valid() bool {
	switch k {
	case KindExtraTargetField, KindFieldMismatch, KindNotInSource, KindNotInTarget:
		return true
	}
	return false
}

// Diff is one classified discrepancy between the source and target
// streams. Field is only set for field-level kinds; SourceValue and
// TargetValue are only set for field mismatches. Diffs are constructed
// the moment a discrepancy is detected and never mutated.
type Diff struct {
	Kind        Kind   `json:"kind"`
	RecordID    string `json:"record_id"`
	Field       string `json:"field,omitempty"`
	SourceValue string `json:"source_value,omitempty"`
	TargetValue string `json:"target_value,omitempty"`
}

// NewExtraTargetField reports an extra column on the target record with
// the given identifier.
func NewExtraTargetField(recordID, field string) *Diff {
	return &Diff{
		Kind:     KindExtraTargetField,
		RecordID: recordID,
		Field:    field,
	}
}

// NewFieldMismatch reports a value discrepancy on the given field between
// the source and target records sharing the given identifier.
func NewFieldMismatch(recordID, field, sourceValue, targetValue string) *Diff {
	return &Diff{
		Kind:        KindFieldMismatch,
		RecordID:    recordID,
		Field:       field,
		SourceValue: sourceValue,
		TargetValue: targetValue,
	}
}

// NewNotInSource reports a target record missing on the source stream.
func NewNotInSource(recordID string) *Diff {
	return &Diff{
		Kind:     KindNotInSource,
		RecordID: recordID,
	}
}

// NewNotInTarget reports a source record missing on the target stream.
func NewNotInTarget(recordID string) *Diff {
	return &Diff{
		Kind:     KindNotInTarget,
		RecordID: recordID,
	}
}

// Expected summarizes the value the source stream held.
func (d *Diff) Expected() string {
	switch d.Kind {
	case KindNotInTarget:
		return fmt.Sprintf("Record: %s", d.RecordID)
	case KindFieldMismatch:
		return fmt.Sprintf("Value: %s", d.SourceValue)
	}
	return ""
}

// Found summarizes what the target stream held instead.
func (d *Diff) Found() string {
	switch d.Kind {
	case KindExtraTargetField:
		return fmt.Sprintf("Column: %s", d.Field)
	case KindFieldMismatch:
		return fmt.Sprintf("Value: %s", d.TargetValue)
	case KindNotInSource:
		return fmt.Sprintf("Record: %s", d.RecordID)
	}
	return ""
}
