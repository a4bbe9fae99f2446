package tui

import (
	"github.com/trustedvehicles/vinspect/internal/catalog"
	"github.com/trustedvehicles/vinspect/internal/session"
	"github.com/trustedvehicles/vinspect/internal/wizard"
)

// rowKind distinguishes how a focused row reacts to input.
type rowKind int

const (
	rowText       rowKind = iota // free text, enter to edit
	rowSelect                    // fixed options, space cycles
	rowBool                      // yes/no toggle
	rowCheckpoint                // status cycling plus remark and evidence
	rowSlot                      // media slot, a to attach, d to remove
)

// row is one focusable line of a wizard step.
type row struct {
	kind    rowKind
	label   string
	field   catalog.Field
	options []string
	cp      catalog.Checkpoint
	slot    catalog.Slot
	section string
}

var detailRows = []row{
	{kind: rowSelect, label: "Category", field: catalog.FieldCategory, options: []string{"4w", "2w"}},
	{kind: rowText, label: "Make", field: catalog.FieldMake},
	{kind: rowText, label: "Model", field: catalog.FieldModel},
	{kind: rowText, label: "Variant", field: catalog.FieldVariant},
	{kind: rowText, label: "Price", field: catalog.FieldPrice},
	{kind: rowText, label: "Mfg. Year", field: catalog.FieldMfgYear},
	{kind: rowText, label: "Reg. Year", field: catalog.FieldRegYear},
	{kind: rowText, label: "Odometer", field: catalog.FieldOdometer},
	{kind: rowSelect, label: "Fuel", field: catalog.FieldFuelType, options: []string{"Petrol", "Diesel", "CNG", "Electric", "Hybrid"}},
	{kind: rowSelect, label: "Transmission", field: catalog.FieldTransmission, options: []string{"Manual", "Automatic"}},
	{kind: rowText, label: "Reg. Number", field: catalog.FieldRegNumber},
	{kind: rowText, label: "Chassis Number", field: catalog.FieldChassisNumber},
	{kind: rowText, label: "RTO State", field: catalog.FieldRTOState},
	{kind: rowSelect, label: "Ownership", field: catalog.FieldOwnership, options: []string{"1st Owner", "2nd Owner", "3rd Owner", "4th Owner or more"}},
	{kind: rowSelect, label: "Road Tax", field: catalog.FieldTax, options: []string{"LTT", "OTT"}},
	{kind: rowBool, label: "RC Available", field: catalog.FieldRCAvailable},
	{kind: rowSlot, label: "RC Photo", slot: catalog.SlotRC},
	{kind: rowBool, label: "Scrapped", field: catalog.FieldScraped},
	{kind: rowSelect, label: "Hypothecation", field: catalog.FieldHypothecation, options: []string{"NA", "Open", "Close"}},
	{kind: rowSlot, label: "Bank NOC", slot: catalog.SlotNOC},
	{kind: rowText, label: "Insurance", field: catalog.FieldInsurance},
	{kind: rowText, label: "Insurance Expiry", field: catalog.FieldInsuranceExpiry},
	{kind: rowSelect, label: "Service History", field: catalog.FieldServiceHistory, options: []string{"Available", "Not Available"}},
	{kind: rowText, label: "Color", field: catalog.FieldColor},
	{kind: rowText, label: "Remarks", field: catalog.FieldRemarks},
	{kind: rowText, label: "Insurance Valid Upto", field: catalog.FieldValidUpto},
}

// rowsForStep builds the focusable rows of a step from the session state.
// Checkpoint steps interleave evidence slot rows under checkpoints whose
// uploader is visible.
func rowsForStep(s *session.Session, step int) []row {
	switch step {
	case wizard.StepDetails:
		return detailRows
	case wizard.StepGallery:
		return galleryRows()
	case wizard.StepReview:
		return nil
	default:
		return checkpointRows(s, step)
	}
}

func checkpointRows(s *session.Session, step int) []row {
	var rows []row
	for _, cp := range catalog.CheckpointsForStep(step) {
		rows = append(rows, row{kind: rowCheckpoint, label: cp.Label, cp: cp, section: cp.Section})
		if !s.Wizard().ShowEvidence(cp) {
			continue
		}
		for _, slot := range cp.ImageSlots {
			def, _ := catalog.SlotByID(slot)
			rows = append(rows, row{kind: rowSlot, label: "  " + def.Label, slot: slot, section: cp.Section})
		}
		for _, slot := range cp.VideoSlots {
			def, _ := catalog.SlotByID(slot)
			rows = append(rows, row{kind: rowSlot, label: "  " + def.Label, slot: slot, section: cp.Section})
		}
	}
	return rows
}

func galleryRows() []row {
	var rows []row
	for _, def := range catalog.Slots {
		switch {
		case def.ID == catalog.SlotMainImage:
			rows = append(rows, row{kind: rowSlot, label: def.Label, slot: def.ID, section: "Cover"})
		case def.Gallery:
			rows = append(rows, row{kind: rowSlot, label: def.Label, slot: def.ID, section: "Gallery"})
		case def.ID == "img_tyre_1", def.ID == "img_tyre_2", def.ID == "img_tyre_3",
			def.ID == "img_tyre_4", def.ID == "img_tyre_optional":
			rows = append(rows, row{kind: rowSlot, label: def.Label, slot: def.ID, section: "Tyres"})
		}
	}
	return rows
}
