// Package record holds the mutable field values of one vehicle condition
// report. A Record only ever contains fields the catalog knows about, so the
// rest of the application can iterate the catalog and index the record
// without existence checks.
package record

import (
	"fmt"

	"github.com/trustedvehicles/vinspect/internal/catalog"
)

// ErrUnknownField is returned by Set for fields outside the catalog.
var ErrUnknownField = fmt.Errorf("unknown field")

// ErrInvalidStatus is returned by Set when a checkpoint status field is
// given a value the checkpoint does not accept.
var ErrInvalidStatus = fmt.Errorf("invalid status")

// Record is one report's field values. Not safe for concurrent use; the
// session serializes access to it.
type Record struct {
	values map[catalog.Field]string
}

// New returns a record seeded with every catalog default.
func New() *Record {
	return &Record{values: catalog.Defaults()}
}

// FromMap builds a record from a loose field map, typically a saved draft or
// a server payload. Unknown keys are dropped, missing fields take their
// defaults, and checkpoint statuses that fail validation fall back to the
// checkpoint default so one bad value never sinks the whole load.
func FromMap(m map[string]string) *Record {
	r := New()
	for k, v := range m {
		f := catalog.Field(k)
		if !catalog.KnownField(f) {
			continue
		}
		if err := r.Set(f, v); err != nil {
			continue
		}
	}
	return r
}

// Get returns the value of a field, or "" for fields outside the catalog.
func (r *Record) Get(f catalog.Field) string {
	return r.values[f]
}

// Set assigns a field value. Checkpoint status fields are validated against
// the checkpoint's allowed statuses; every other known field accepts any
// string.
func (r *Record) Set(f catalog.Field, v string) error {
	if !catalog.KnownField(f) {
		return fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	if cp, ok := catalog.CheckpointForStatusField(f); ok {
		valid := false
		for _, s := range cp.AllowedStatuses() {
			if catalog.Status(v) == s {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("%w: %q for checkpoint %s", ErrInvalidStatus, v, cp.ID)
		}
	}
	r.values[f] = v
	return nil
}

// Bool interprets a field's stored string as a boolean. Only the literal
// "true" is true; everything else, including absence, is false.
func (r *Record) Bool(f catalog.Field) bool {
	return r.values[f] == "true"
}

// Status returns a checkpoint's recorded status.
func (r *Record) Status(cp catalog.Checkpoint) catalog.Status {
	return catalog.Status(r.values[cp.StatusField()])
}

// Remark returns a checkpoint's remark text.
func (r *Record) Remark(cp catalog.Checkpoint) string {
	return r.values[cp.RemarkField()]
}

// IssueCount counts checkpoints currently marked Issue across all steps.
func (r *Record) IssueCount() int {
	n := 0
	for _, cp := range catalog.Checkpoints {
		if r.Status(cp) == catalog.StatusIssue {
			n++
		}
	}
	return n
}

// HasBasicDetails reports whether the inspector has entered any of the
// identifying step 1 fields. Draft persistence keys off this.
func (r *Record) HasBasicDetails() bool {
	return r.values[catalog.FieldMake] != "" ||
		r.values[catalog.FieldModel] != "" ||
		r.values[catalog.FieldPrice] != ""
}

// Snapshot returns a copy of the field map, keyed by plain strings for
// serialization.
func (r *Record) Snapshot() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[string(k)] = v
	}
	return out
}
