// Package validate implements the per-step rules of the report wizard.
// Validation results are values, not errors: a step either yields an empty
// ErrorSet or a list of messages the UI shows inline.
package validate

import (
	"strings"

	"github.com/trustedvehicles/vinspect/internal/catalog"
	"github.com/trustedvehicles/vinspect/internal/media"
	"github.com/trustedvehicles/vinspect/internal/record"
)

// Problem is one validation failure, tied to the field or slot it concerns
// so the UI can highlight it.
type Problem struct {
	Field   catalog.Field
	Slot    catalog.Slot
	Message string
}

// ErrorSet is the outcome of validating one step.
type ErrorSet []Problem

// OK reports whether validation passed.
func (e ErrorSet) OK() bool { return len(e) == 0 }

// Messages returns the failure messages in rule order.
func (e ErrorSet) Messages() []string {
	out := make([]string, len(e))
	for i, p := range e {
		out[i] = p.Message
	}
	return out
}

// WithoutField returns the set minus any problem tied to f. Editing a field
// clears only that field's displayed error; the rest stay until the next
// step transition re-validates.
func (e ErrorSet) WithoutField(f catalog.Field) ErrorSet {
	var out ErrorSet
	for _, p := range e {
		if p.Field != f || p.Field == "" {
			out = append(out, p)
		}
	}
	return out
}

// WithoutSlot returns the set minus any problem tied to slot s.
func (e ErrorSet) WithoutSlot(s catalog.Slot) ErrorSet {
	var out ErrorSet
	for _, p := range e {
		if p.Slot != s || p.Slot == "" {
			out = append(out, p)
		}
	}
	return out
}

// requiredStep1 lists the mandatory vehicle detail fields with their labels.
var requiredStep1 = []struct {
	field catalog.Field
	label string
}{
	{catalog.FieldMake, "Make"},
	{catalog.FieldModel, "Model"},
	{catalog.FieldPrice, "Price"},
	{catalog.FieldMfgYear, "Manufacturing year"},
	{catalog.FieldOdometer, "Odometer reading"},
}

// Step validates one wizard step against the current record and staged
// media. Steps without rules return an empty set.
func Step(step int, r *record.Record, st *media.Staging) ErrorSet {
	var errs ErrorSet
	switch step {
	case 1:
		for _, req := range requiredStep1 {
			if strings.TrimSpace(r.Get(req.field)) == "" {
				errs = append(errs, Problem{Field: req.field, Message: req.label + " is required"})
			}
		}
		if r.Bool(catalog.FieldRCAvailable) && !st.Filled(catalog.SlotRC) {
			errs = append(errs, Problem{Slot: catalog.SlotRC, Message: "RC image is required"})
		}
	case 2, 3, 4, 5, 6:
		for _, cp := range catalog.CheckpointsForStep(step) {
			if r.Status(cp) == catalog.StatusIssue && strings.TrimSpace(r.Remark(cp)) == "" {
				errs = append(errs, Problem{Field: cp.RemarkField(), Message: cp.Label + " remark is required"})
			}
		}
	case 7:
		if !st.Filled(catalog.SlotMainImage) {
			errs = append(errs, Problem{Slot: catalog.SlotMainImage, Message: "Cover photo is required"})
		}
	}
	return errs
}

// ForSubmit re-runs every step's rules before a submission is serialized.
// Drafts can be resumed past steps whose data has since been edited, so the
// final guard cannot trust earlier Next presses.
func ForSubmit(r *record.Record, st *media.Staging) ErrorSet {
	var errs ErrorSet
	for step := 1; step <= 7; step++ {
		errs = append(errs, Step(step, r, st)...)
	}
	return errs
}
