// Package wizard drives the eight step flow of the report form. The
// controller owns only position and the current step's validation outcome;
// field values live in the record and files in the staging it is given.
package wizard

import (
	"github.com/trustedvehicles/vinspect/internal/catalog"
	"github.com/trustedvehicles/vinspect/internal/media"
	"github.com/trustedvehicles/vinspect/internal/record"
	"github.com/trustedvehicles/vinspect/internal/validate"
)

// Wizard steps.
const (
	StepDetails = 1 + iota
	StepExterior
	StepInterior
	StepEngine
	StepSteering
	StepAC
	StepGallery
	StepReview

	StepCount = StepReview
)

var stepTitles = map[int]string{
	StepDetails:  "Vehicle Details",
	StepExterior: "Exterior & Tyres",
	StepInterior: "Interior & Electrical",
	StepEngine:   "Engine & Transmission",
	StepSteering: "Steering & Suspension",
	StepAC:       "Air Conditioning",
	StepGallery:  "Gallery",
	StepReview:   "Review",
}

// Title returns the display title of a step.
func Title(step int) string {
	return stepTitles[step]
}

// Controller is the wizard state machine. Not safe for concurrent use.
type Controller struct {
	step    int
	rec     *record.Record
	staging *media.Staging
	errs    validate.ErrorSet
}

// New returns a controller positioned at the first step.
func New(rec *record.Record, staging *media.Staging) *Controller {
	return &Controller{step: StepDetails, rec: rec, staging: staging}
}

// Step returns the current step, 1 through StepCount.
func (c *Controller) Step() int { return c.step }

// Errors returns the validation outcome of the last blocked Next. It resets
// on any successful move.
func (c *Controller) Errors() validate.ErrorSet { return c.errs }

// ClearErrorFor drops the displayed error tied to one field, leaving the
// rest in place. Editing a flagged field dismisses only its own message.
func (c *Controller) ClearErrorFor(f catalog.Field) {
	c.errs = c.errs.WithoutField(f)
}

// ClearErrorForSlot drops the displayed error tied to one media slot.
func (c *Controller) ClearErrorForSlot(s catalog.Slot) {
	c.errs = c.errs.WithoutSlot(s)
}

// Next validates the current step and advances on success. It returns false
// and records the failures when validation blocks, and false without moving
// when already on the last step.
func (c *Controller) Next() bool {
	if errs := validate.Step(c.step, c.rec, c.staging); !errs.OK() {
		c.errs = errs
		return false
	}
	c.errs = nil
	if c.step >= StepCount {
		return false
	}
	c.step++
	return true
}

// Back moves to the previous step without validating. It clamps at the
// first step.
func (c *Controller) Back() {
	c.errs = nil
	if c.step > StepDetails {
		c.step--
	}
}

// IssueCount returns the number of checkpoints marked Issue, shown in the
// wizard header.
func (c *Controller) IssueCount() int {
	return c.rec.IssueCount()
}

// ShowEvidence reports whether a checkpoint's evidence uploader is visible.
// Visibility is sticky: once media exists for any bound slot the uploader
// stays open even if the status returns to OK, so the inspector can remove
// what no longer applies.
func (c *Controller) ShowEvidence(cp catalog.Checkpoint) bool {
	if c.rec.Status(cp) == catalog.StatusIssue || cp.EnginePart || len(cp.VideoSlots) > 0 {
		return true
	}
	for _, s := range cp.ImageSlots {
		if c.staging.Filled(s) {
			return true
		}
	}
	for _, s := range cp.VideoSlots {
		if c.staging.Filled(s) {
			return true
		}
	}
	return false
}
