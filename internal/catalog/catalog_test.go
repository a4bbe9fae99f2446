package catalog

import "testing"

func TestDefaults(t *testing.T) {
	d := Defaults()

	t.Run("scalar defaults", func(t *testing.T) {
		cases := map[Field]string{
			FieldCategory:      "4w",
			FieldFuelType:      "Petrol",
			FieldTransmission:  "Manual",
			FieldRCAvailable:   "true",
			FieldScraped:       "false",
			FieldHypothecation: "NA",
			FieldMake:          "",
		}
		for f, want := range cases {
			if got := d[f]; got != want {
				t.Errorf("default for %s = %q, want %q", f, got, want)
			}
		}
	})

	t.Run("checkpoint statuses default OK unless marked", func(t *testing.T) {
		for _, cp := range Checkpoints {
			got := Status(d[cp.StatusField()])
			if got != cp.DefaultStatus {
				t.Errorf("%s status default = %q, want %q", cp.ID, got, cp.DefaultStatus)
			}
			if d[cp.RemarkField()] != "" {
				t.Errorf("%s remark default is not empty", cp.ID)
			}
		}
		for _, id := range []string{"sunroof", "camera_sensor", "climate_control"} {
			cp, ok := CheckpointByID(id)
			if !ok {
				t.Fatalf("checkpoint %s missing", id)
			}
			if cp.DefaultStatus != StatusNA {
				t.Errorf("%s defaults to %q, want NA", id, cp.DefaultStatus)
			}
		}
	})
}

func TestCheckpointsForStep(t *testing.T) {
	counts := map[int]int{2: 21, 3: 8, 4: 12, 5: 3, 6: 3}
	for step, want := range counts {
		if got := len(CheckpointsForStep(step)); got != want {
			t.Errorf("step %d has %d checkpoints, want %d", step, got, want)
		}
	}
	if cps := CheckpointsForStep(1); cps != nil {
		t.Errorf("step 1 should have no checkpoints, got %d", len(cps))
	}
	if cps := CheckpointsForStep(7); cps != nil {
		t.Errorf("step 7 should have no checkpoints, got %d", len(cps))
	}
}

func TestCheckpointFields(t *testing.T) {
	cp, ok := CheckpointByID("bumper")
	if !ok {
		t.Fatal("bumper checkpoint missing")
	}
	if cp.StatusField() != "insp_bumper_status" {
		t.Errorf("status field = %q", cp.StatusField())
	}
	if cp.RemarkField() != "insp_bumper_remark" {
		t.Errorf("remark field = %q", cp.RemarkField())
	}
	back, ok := CheckpointForStatusField("insp_bumper_status")
	if !ok || back.ID != "bumper" {
		t.Errorf("CheckpointForStatusField round trip failed: %v %v", back.ID, ok)
	}
}

func TestAllowedStatuses(t *testing.T) {
	strict, _ := CheckpointByID("seat")
	if len(strict.AllowedStatuses()) != 2 {
		t.Errorf("seat should not allow NA")
	}
	lenient, _ := CheckpointByID("sunroof")
	if len(lenient.AllowedStatuses()) != 3 {
		t.Errorf("sunroof should allow NA")
	}
}

func TestKnownField(t *testing.T) {
	for _, f := range []Field{FieldMake, "insp_clutch_status", "insp_blowby_remark"} {
		if !KnownField(f) {
			t.Errorf("%s should be known", f)
		}
	}
	for _, f := range []Field{"insp_warp_drive_status", "nickname", ""} {
		if KnownField(f) {
			t.Errorf("%s should be unknown", f)
		}
	}
}

func TestSlotCatalog(t *testing.T) {
	t.Run("gallery count", func(t *testing.T) {
		if got := GallerySlotCount(); got != 16 {
			t.Errorf("gallery slot count = %d, want 16", got)
		}
	})

	t.Run("no duplicate slot ids", func(t *testing.T) {
		seen := make(map[Slot]bool)
		for _, d := range Slots {
			if seen[d.ID] {
				t.Errorf("duplicate slot %s", d.ID)
			}
			seen[d.ID] = true
		}
	})

	t.Run("videos only on step 4 live tests", func(t *testing.T) {
		for _, d := range Slots {
			if d.Kind == SlotVideo {
				switch d.ID {
				case "video_insp_engine_sound", "video_insp_engine_smoke", "video_insp_blowby":
				default:
					t.Errorf("unexpected video slot %s", d.ID)
				}
			}
		}
	})

	t.Run("lookup", func(t *testing.T) {
		if _, ok := SlotByID("img_insp_pillar_6"); !ok {
			t.Error("pillar evidence slot missing")
		}
		if _, ok := SlotByID("img_hovercraft"); ok {
			t.Error("unknown slot id resolved")
		}
	})
}
