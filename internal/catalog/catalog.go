// Package catalog defines the closed catalogs of the vehicle report form:
// scalar fields, inspection checkpoints, and media slots. Everything else in
// the application iterates these definitions instead of matching on field
// name prefixes.
package catalog

// Status is the condition recorded for a checkpoint.
type Status string

const (
	StatusOK    Status = "OK"
	StatusIssue Status = "Issue"
	StatusNA    Status = "NA"
)

// Field identifies one scalar attribute of the report. Checkpoint status and
// remark fields share the same namespace (see Checkpoint.StatusField).
type Field string

// Scalar fields of the report.
const (
	FieldPrice           Field = "price"
	FieldCategory        Field = "category"
	FieldMake            Field = "make"
	FieldModel           Field = "model"
	FieldVariant         Field = "variant"
	FieldYear            Field = "year"
	FieldStatus          Field = "status"
	FieldVerified        Field = "verified"
	FieldVehicleType     Field = "vehicleType"
	FieldFuelType        Field = "fuelType"
	FieldTransmission    Field = "transmission"
	FieldRegNumber       Field = "regNumber"
	FieldChassisNumber   Field = "chassisNumber"
	FieldMfgYear         Field = "mfgYear"
	FieldRegYear         Field = "regYear"
	FieldValidUpto       Field = "validUpto"
	FieldRTOState        Field = "rtoState"
	FieldOdometer        Field = "odometer"
	FieldOwnership       Field = "ownership"
	FieldTax             Field = "tax"
	FieldRCAvailable     Field = "rcAvailable"
	FieldScraped         Field = "scraped"
	FieldHypothecation   Field = "hypothecation"
	FieldInsurance       Field = "insurance"
	FieldInsuranceExpiry Field = "insuranceExpiry"
	FieldServiceHistory  Field = "serviceHistory"
	FieldColor           Field = "color"
	FieldRemarks         Field = "remarks"
)

// FieldDef describes one scalar field: its default value and whether the
// value is the string form of a boolean ("true"/"false" on the wire).
type FieldDef struct {
	Name    Field
	Default string
	Bool    bool
}

// ScalarFields is the closed list of scalar report fields, in wire order.
var ScalarFields = []FieldDef{
	{Name: FieldPrice, Default: ""},
	{Name: FieldCategory, Default: "4w"},
	{Name: FieldVehicleType, Default: "Private"},
	{Name: FieldMake, Default: ""},
	{Name: FieldModel, Default: ""},
	{Name: FieldVariant, Default: ""},
	{Name: FieldYear, Default: ""},
	{Name: FieldStatus, Default: "For Sale"},
	{Name: FieldVerified, Default: "false", Bool: true},
	{Name: FieldMfgYear, Default: ""},
	{Name: FieldRegYear, Default: ""},
	{Name: FieldValidUpto, Default: ""},
	{Name: FieldRegNumber, Default: ""},
	{Name: FieldChassisNumber, Default: ""},
	{Name: FieldOdometer, Default: ""},
	{Name: FieldFuelType, Default: "Petrol"},
	{Name: FieldTransmission, Default: "Manual"},
	{Name: FieldRTOState, Default: ""},
	{Name: FieldOwnership, Default: "1st Owner"},
	{Name: FieldTax, Default: "LTT"},
	{Name: FieldRCAvailable, Default: "true", Bool: true},
	{Name: FieldScraped, Default: "false", Bool: true},
	{Name: FieldHypothecation, Default: "NA"},
	{Name: FieldInsurance, Default: ""},
	{Name: FieldInsuranceExpiry, Default: ""},
	{Name: FieldServiceHistory, Default: "Available"},
	{Name: FieldColor, Default: ""},
	{Name: FieldRemarks, Default: ""},
}

// Slot identifies one media attachment position.
type Slot string

// SlotKind distinguishes image slots from short-form video slots.
type SlotKind int

const (
	SlotImage SlotKind = iota
	SlotVideo
)

// Fixed slot identifiers for the cover image and document slots. Gallery,
// tyre, and evidence slots are addressed through the definitions below.
const (
	SlotMainImage Slot = "mainImage"
	SlotRC        Slot = "img_rc"
	SlotNOC       Slot = "img_noc"
)

// SlotDef describes one media slot. Gallery slots count toward the gallery
// completeness ratio; documents, tyres, and evidence do not.
type SlotDef struct {
	ID      Slot
	Label   string
	Kind    SlotKind
	Gallery bool
}

// Slots is the closed media slot catalog.
var Slots = buildSlots()

func buildSlots() []SlotDef {
	defs := []SlotDef{
		{ID: SlotMainImage, Label: "Cover Photo", Gallery: true},
		{ID: SlotRC, Label: "RC Front"},
		{ID: SlotNOC, Label: "Bank NOC"},

		// Standard gallery positions
		{ID: "img_front", Label: "Front", Gallery: true},
		{ID: "img_front_right", Label: "Front Right", Gallery: true},
		{ID: "img_right", Label: "Right Side", Gallery: true},
		{ID: "img_back_right", Label: "Back Right", Gallery: true},
		{ID: "img_back", Label: "Back", Gallery: true},
		{ID: "img_open_dickey", Label: "Dickey", Gallery: true},
		{ID: "img_back_left", Label: "Back Left", Gallery: true},
		{ID: "img_left", Label: "Left Side", Gallery: true},
		{ID: "img_front_left", Label: "Front Left", Gallery: true},
		{ID: "img_open_bonnet", Label: "Bonnet", Gallery: true},
		{ID: "img_dashboard", Label: "Dashboard", Gallery: true},
		{ID: "img_right_front_door", Label: "RF Door", Gallery: true},
		{ID: "img_right_back_door", Label: "RB Door", Gallery: true},
		{ID: "img_engine", Label: "Engine", Gallery: true},
		{ID: "img_roof", Label: "Roof", Gallery: true},

		// Tyres
		{ID: "img_tyre_1", Label: "Tyre FL"},
		{ID: "img_tyre_2", Label: "Tyre FR"},
		{ID: "img_tyre_3", Label: "Tyre RL"},
		{ID: "img_tyre_4", Label: "Tyre RR"},
		{ID: "img_tyre_optional", Label: "Spare Tyre"},
	}

	// Checkpoint evidence slots are declared on the checkpoints themselves;
	// collect them here so every slot has exactly one catalog entry.
	for _, cp := range Checkpoints {
		for _, s := range cp.ImageSlots {
			defs = append(defs, SlotDef{ID: s, Label: cp.Label + " Evidence"})
		}
		for _, s := range cp.VideoSlots {
			defs = append(defs, SlotDef{ID: s, Label: cp.Label + " Video", Kind: SlotVideo})
		}
	}
	return defs
}

var slotIndex = buildSlotIndex()

func buildSlotIndex() map[Slot]SlotDef {
	m := make(map[Slot]SlotDef, len(Slots))
	for _, d := range Slots {
		m[d.ID] = d
	}
	return m
}

// SlotByID looks up a slot definition. The second return is false for slot
// identifiers outside the catalog.
func SlotByID(id Slot) (SlotDef, bool) {
	d, ok := slotIndex[id]
	return d, ok
}

// GallerySlotCount is the denominator of the gallery completeness ratio.
func GallerySlotCount() int {
	n := 0
	for _, d := range Slots {
		if d.Gallery {
			n++
		}
	}
	return n
}

// Checkpoint describes one inspection item: its wizard step, the section it
// renders under, whether N/A is a legal status, whether it is an engine part
// that is always documented, and any bound evidence slots.
type Checkpoint struct {
	ID            string
	Label         string
	Step          int
	Section       string
	AllowNA       bool
	EnginePart    bool
	DefaultStatus Status
	ImageSlots    []Slot
	VideoSlots    []Slot
}

// StatusField returns the report field holding this checkpoint's status.
func (c Checkpoint) StatusField() Field {
	return Field("insp_" + c.ID + "_status")
}

// RemarkField returns the report field holding this checkpoint's remark.
func (c Checkpoint) RemarkField() Field {
	return Field("insp_" + c.ID + "_remark")
}

// AllowedStatuses returns the statuses this checkpoint accepts.
func (c Checkpoint) AllowedStatuses() []Status {
	if c.AllowNA {
		return []Status{StatusOK, StatusIssue, StatusNA}
	}
	return []Status{StatusOK, StatusIssue}
}

// Checkpoints is the closed inspection catalog, grouped by wizard step.
var Checkpoints = []Checkpoint{
	// Step 2: Exterior & Tyres
	{ID: "bumper", Label: "Bumper", Step: 2, Section: "Outer Body", DefaultStatus: StatusOK, ImageSlots: []Slot{"img_insp_bumper"}},
	{ID: "bonnet", Label: "Bonnet", Step: 2, Section: "Outer Body", DefaultStatus: StatusOK, ImageSlots: []Slot{"img_insp_bonnet"}},
	{ID: "roof", Label: "Roof", Step: 2, Section: "Outer Body", DefaultStatus: StatusOK, ImageSlots: []Slot{"img_insp_roof"}},
	{ID: "fender", Label: "Fender", Step: 2, Section: "Outer Body", DefaultStatus: StatusOK, ImageSlots: []Slot{"img_insp_fender"}},
	{ID: "doors", Label: "Doors", Step: 2, Section: "Outer Body", DefaultStatus: StatusOK,
		ImageSlots: []Slot{"img_insp_door_1", "img_insp_door_2", "img_insp_door_3", "img_insp_door_4"}},
	{ID: "pillars", Label: "Pillars", Step: 2, Section: "Outer Body", DefaultStatus: StatusOK,
		ImageSlots: []Slot{"img_insp_pillar_1", "img_insp_pillar_2", "img_insp_pillar_3", "img_insp_pillar_4", "img_insp_pillar_5", "img_insp_pillar_6"}},
	{ID: "quarter_panel", Label: "Quarter Panel", Step: 2, Section: "Outer Body", DefaultStatus: StatusOK, ImageSlots: []Slot{"img_insp_quarter_panel"}},
	{ID: "dickey_door", Label: "Dickey Door", Step: 2, Section: "Outer Body", DefaultStatus: StatusOK, ImageSlots: []Slot{"img_insp_dickey_door"}},
	{ID: "apron", Label: "Apron", Step: 2, Section: "Structure", DefaultStatus: StatusOK,
		ImageSlots: []Slot{"img_insp_apron_1", "img_insp_apron_2"}},
	{ID: "apron_leg", Label: "Apron Leg", Step: 2, Section: "Structure", DefaultStatus: StatusOK,
		ImageSlots: []Slot{"img_insp_apron_leg_1", "img_insp_apron_leg_2"}},
	{ID: "firewall", Label: "Firewall", Step: 2, Section: "Structure", DefaultStatus: StatusOK, ImageSlots: []Slot{"img_insp_firewall"}},
	{ID: "cowl_top", Label: "Cowl Top", Step: 2, Section: "Structure", DefaultStatus: StatusOK, ImageSlots: []Slot{"img_insp_cowl_top"}},
	{ID: "lower_cross_member", Label: "Lower Cross Member", Step: 2, Section: "Structure", DefaultStatus: StatusOK, ImageSlots: []Slot{"img_insp_lower_cross_member"}},
	{ID: "upper_cross_member", Label: "Upper Cross Member", Step: 2, Section: "Structure", DefaultStatus: StatusOK, ImageSlots: []Slot{"img_insp_upper_cross_member"}},
	{ID: "front_show", Label: "Front Show", Step: 2, Section: "Glass & Lights", AllowNA: true, DefaultStatus: StatusOK, ImageSlots: []Slot{"img_insp_front_show"}},
	{ID: "windshield", Label: "Windshield", Step: 2, Section: "Glass & Lights", AllowNA: true, DefaultStatus: StatusOK, ImageSlots: []Slot{"img_insp_windshield"}},
	{ID: "orvm", Label: "ORVM", Step: 2, Section: "Glass & Lights", DefaultStatus: StatusOK,
		ImageSlots: []Slot{"img_insp_orvm_1", "img_insp_orvm_2"}},
	{ID: "lights", Label: "Lights", Step: 2, Section: "Glass & Lights", DefaultStatus: StatusOK,
		ImageSlots: []Slot{"img_insp_lights_1", "img_insp_lights_2"}},
	{ID: "fog_lights", Label: "Fog Lights", Step: 2, Section: "Glass & Lights", AllowNA: true, DefaultStatus: StatusOK,
		ImageSlots: []Slot{"img_insp_fog_lights_1", "img_insp_fog_lights_2"}},
	{ID: "alloy_wheels", Label: "Alloy Wheels", Step: 2, Section: "Tyres & Wheels", DefaultStatus: StatusOK},
	{ID: "wheels", Label: "Tyre Condition", Step: 2, Section: "Tyres & Wheels", DefaultStatus: StatusOK},

	// Step 3: Interior & Electrical
	{ID: "power_window", Label: "Power Windows", Step: 3, Section: "Electricals", AllowNA: true, DefaultStatus: StatusOK},
	{ID: "airbag", Label: "Airbags", Step: 3, Section: "Electricals", AllowNA: true, DefaultStatus: StatusOK},
	{ID: "electrical", Label: "General Electricals", Step: 3, Section: "Electricals", DefaultStatus: StatusOK},
	{ID: "music_system", Label: "Music System", Step: 3, Section: "Electricals", AllowNA: true, DefaultStatus: StatusOK},
	{ID: "camera_sensor", Label: "Camera / Sensors", Step: 3, Section: "Electricals", AllowNA: true, DefaultStatus: StatusNA},
	{ID: "interior", Label: "Interior Condition", Step: 3, Section: "Interior", AllowNA: true, DefaultStatus: StatusOK},
	{ID: "seat", Label: "Seats", Step: 3, Section: "Interior", DefaultStatus: StatusOK},
	{ID: "sunroof", Label: "Sunroof", Step: 3, Section: "Interior", AllowNA: true, DefaultStatus: StatusNA},

	// Step 4: Engine & Transmission
	{ID: "engine_assembly", Label: "Engine Assembly", Step: 4, Section: "Engine Health", EnginePart: true, DefaultStatus: StatusOK, ImageSlots: []Slot{"img_insp_engine_assembly"}},
	{ID: "battery", Label: "Battery", Step: 4, Section: "Engine Health", EnginePart: true, DefaultStatus: StatusOK, ImageSlots: []Slot{"img_insp_battery"}},
	{ID: "engine_oil", Label: "Engine Oil Condition", Step: 4, Section: "Engine Health", EnginePart: true, DefaultStatus: StatusOK, ImageSlots: []Slot{"img_insp_engine_oil"}},
	{ID: "engine_oil_level", Label: "Engine Oil Level", Step: 4, Section: "Engine Health", EnginePart: true, DefaultStatus: StatusOK, ImageSlots: []Slot{"img_insp_engine_oil_level"}},
	{ID: "coolant", Label: "Coolant", Step: 4, Section: "Engine Health", EnginePart: true, DefaultStatus: StatusOK, ImageSlots: []Slot{"img_insp_coolant"}},
	{ID: "engine_mounting", Label: "Engine Mounting", Step: 4, Section: "Engine Health", DefaultStatus: StatusOK},
	{ID: "engine_sound", Label: "Engine Sound", Step: 4, Section: "Live Tests & Video", DefaultStatus: StatusOK, VideoSlots: []Slot{"video_insp_engine_sound"}},
	{ID: "engine_smoke", Label: "Engine Smoke", Step: 4, Section: "Live Tests & Video", DefaultStatus: StatusOK, VideoSlots: []Slot{"video_insp_engine_smoke"}},
	{ID: "blowby", Label: "Blowby", Step: 4, Section: "Live Tests & Video", DefaultStatus: StatusOK, VideoSlots: []Slot{"video_insp_blowby"}},
	{ID: "clutch", Label: "Clutch Operation", Step: 4, Section: "Transmission", DefaultStatus: StatusOK},
	{ID: "gear_shifting", Label: "Gear Shifting", Step: 4, Section: "Transmission", DefaultStatus: StatusOK},
	{ID: "back_compression", Label: "Back Compression", Step: 4, Section: "Transmission", DefaultStatus: StatusOK},

	// Step 5: Steering & Suspension
	{ID: "suspension", Label: "Suspension", Step: 5, Section: "Steering & Suspension", DefaultStatus: StatusOK},
	{ID: "steering", Label: "Steering", Step: 5, Section: "Steering & Suspension", DefaultStatus: StatusOK},
	{ID: "brake", Label: "Brakes", Step: 5, Section: "Steering & Suspension", DefaultStatus: StatusOK},

	// Step 6: Air Conditioning
	{ID: "ac", Label: "AC Cooling", Step: 6, Section: "Air Conditioning", DefaultStatus: StatusOK},
	{ID: "heater", Label: "Heater", Step: 6, Section: "Air Conditioning", DefaultStatus: StatusOK},
	{ID: "climate_control", Label: "Climate Control", Step: 6, Section: "Air Conditioning", AllowNA: true, DefaultStatus: StatusNA},
}

var checkpointIndex = buildCheckpointIndex()

func buildCheckpointIndex() map[string]Checkpoint {
	m := make(map[string]Checkpoint, len(Checkpoints))
	for _, cp := range Checkpoints {
		m[cp.ID] = cp
	}
	return m
}

// CheckpointByID looks up a checkpoint definition.
func CheckpointByID(id string) (Checkpoint, bool) {
	cp, ok := checkpointIndex[id]
	return cp, ok
}

// CheckpointsForStep returns the checkpoints bound to a wizard step, in
// catalog order. Steps without checkpoints return nil.
func CheckpointsForStep(step int) []Checkpoint {
	var out []Checkpoint
	for _, cp := range Checkpoints {
		if cp.Step == step {
			out = append(out, cp)
		}
	}
	return out
}

// KnownField reports whether f is a scalar field or a checkpoint
// status/remark field of the catalog.
func KnownField(f Field) bool {
	_, ok := fieldIndex[f]
	return ok
}

// CheckpointForStatusField resolves a status field back to its checkpoint.
func CheckpointForStatusField(f Field) (Checkpoint, bool) {
	cp, ok := statusFieldIndex[f]
	return cp, ok
}

// Defaults returns a fresh field-to-value map seeded with every catalog
// default, checkpoint statuses included.
func Defaults() map[Field]string {
	m := make(map[Field]string, len(ScalarFields)+2*len(Checkpoints))
	for _, fd := range ScalarFields {
		m[fd.Name] = fd.Default
	}
	for _, cp := range Checkpoints {
		m[cp.StatusField()] = string(cp.DefaultStatus)
		m[cp.RemarkField()] = ""
	}
	return m
}

var (
	fieldIndex       map[Field]struct{}
	statusFieldIndex map[Field]Checkpoint
)

func init() {
	fieldIndex = make(map[Field]struct{}, len(ScalarFields)+2*len(Checkpoints))
	statusFieldIndex = make(map[Field]Checkpoint, len(Checkpoints))
	for _, fd := range ScalarFields {
		fieldIndex[fd.Name] = struct{}{}
	}
	for _, cp := range Checkpoints {
		fieldIndex[cp.StatusField()] = struct{}{}
		fieldIndex[cp.RemarkField()] = struct{}{}
		statusFieldIndex[cp.StatusField()] = cp
	}
}
