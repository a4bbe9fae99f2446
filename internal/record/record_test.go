package record

import (
	"errors"
	"testing"

	"github.com/trustedvehicles/vinspect/internal/catalog"
)

func TestNewDefaults(t *testing.T) {
	r := New()
	if r.Get(catalog.FieldCategory) != "4w" {
		t.Errorf("category default = %q", r.Get(catalog.FieldCategory))
	}
	if !r.Bool(catalog.FieldRCAvailable) {
		t.Error("rcAvailable should default true")
	}
	if r.Bool(catalog.FieldScraped) {
		t.Error("scraped should default false")
	}
	if r.IssueCount() != 0 {
		t.Errorf("fresh record has %d issues", r.IssueCount())
	}
}

func TestSet(t *testing.T) {
	t.Run("known field", func(t *testing.T) {
		r := New()
		if err := r.Set(catalog.FieldMake, "Maruti Suzuki"); err != nil {
			t.Fatal(err)
		}
		if r.Get(catalog.FieldMake) != "Maruti Suzuki" {
			t.Errorf("make = %q", r.Get(catalog.FieldMake))
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		r := New()
		err := r.Set("torque_curve", "flat")
		if !errors.Is(err, ErrUnknownField) {
			t.Errorf("got %v, want ErrUnknownField", err)
		}
	})

	t.Run("status validation", func(t *testing.T) {
		r := New()
		cp, _ := catalog.CheckpointByID("seat")
		if err := r.Set(cp.StatusField(), "Issue"); err != nil {
			t.Fatal(err)
		}
		err := r.Set(cp.StatusField(), "NA")
		if !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("NA on seat: got %v, want ErrInvalidStatus", err)
		}
		err = r.Set(cp.StatusField(), "broken")
		if !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("arbitrary status: got %v, want ErrInvalidStatus", err)
		}

		lenient, _ := catalog.CheckpointByID("sunroof")
		if err := r.Set(lenient.StatusField(), "NA"); err != nil {
			t.Errorf("NA on sunroof rejected: %v", err)
		}
	})
}

func TestFromMap(t *testing.T) {
	r := FromMap(map[string]string{
		"make":                "Honda",
		"insp_clutch_status":  "Issue",
		"insp_clutch_remark":  "slips at high rpm",
		"insp_seat_status":    "NA", // illegal for seat, falls back to default
		"weather":             "sunny",
	})
	if r.Get(catalog.FieldMake) != "Honda" {
		t.Errorf("make = %q", r.Get(catalog.FieldMake))
	}
	clutch, _ := catalog.CheckpointByID("clutch")
	if r.Status(clutch) != catalog.StatusIssue || r.Remark(clutch) != "slips at high rpm" {
		t.Errorf("clutch = %q/%q", r.Status(clutch), r.Remark(clutch))
	}
	seat, _ := catalog.CheckpointByID("seat")
	if r.Status(seat) != catalog.StatusOK {
		t.Errorf("seat status = %q, want default OK", r.Status(seat))
	}
	if r.Get("weather") != "" {
		t.Error("unknown key survived load")
	}
}

func TestIssueCount(t *testing.T) {
	r := New()
	for _, id := range []string{"bumper", "clutch", "ac"} {
		cp, _ := catalog.CheckpointByID(id)
		if err := r.Set(cp.StatusField(), "Issue"); err != nil {
			t.Fatal(err)
		}
	}
	if got := r.IssueCount(); got != 3 {
		t.Errorf("IssueCount = %d, want 3", got)
	}
}

func TestHasBasicDetails(t *testing.T) {
	r := New()
	if r.HasBasicDetails() {
		t.Error("fresh record should have no basic details")
	}
	r.Set(catalog.FieldPrice, "450000")
	if !r.HasBasicDetails() {
		t.Error("price alone should count")
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	r := New()
	snap := r.Snapshot()
	snap["make"] = "mutated"
	if r.Get(catalog.FieldMake) == "mutated" {
		t.Error("snapshot shares storage with record")
	}
}
