package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/trustedvehicles/vinspect/internal/api"
	"github.com/trustedvehicles/vinspect/internal/catalog"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one vehicle's details and media references",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	_, client, err := setup()
	if err != nil {
		return err
	}

	rec, err := client.GetVehicle(cmd.Context(), args[0])
	if errors.Is(err, api.ErrNotFound) {
		return fmt.Errorf("vehicle %s not found", args[0])
	}
	if errors.Is(err, api.ErrUnauthorized) {
		return fmt.Errorf("not logged in, run: vinspect login")
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s %s (%s)\n\n", rec.Display(catalog.FieldMake), rec.Display(catalog.FieldModel), rec.ID)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, f := range []struct {
		label string
		field catalog.Field
	}{
		{"Variant", catalog.FieldVariant},
		{"Year", catalog.FieldMfgYear},
		{"Price", catalog.FieldPrice},
		{"Status", catalog.FieldStatus},
		{"Fuel", catalog.FieldFuelType},
		{"Transmission", catalog.FieldTransmission},
		{"Ownership", catalog.FieldOwnership},
		{"Odometer", catalog.FieldOdometer},
		{"Color", catalog.FieldColor},
		{"Hypothecation", catalog.FieldHypothecation},
		{"Service history", catalog.FieldServiceHistory},
	} {
		if v := rec.Display(f.field); v != "" {
			fmt.Fprintf(w, "%s\t%s\n", f.label, v)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	// Count noted issues across the inspection fields.
	issues := 0
	for field, value := range rec.Fields {
		if cp, ok := catalog.CheckpointForStatusField(catalog.Field(field)); ok && catalog.Status(value) == catalog.StatusIssue {
			issues++
			remark := rec.Fields[string(cp.RemarkField())]
			fmt.Printf("\nIssue: %s", cp.Label)
			if remark != "" {
				fmt.Printf(" (%s)", remark)
			}
		}
	}
	if issues > 0 {
		fmt.Println()
	}

	if len(rec.Media) > 0 {
		fmt.Printf("\nMedia (%d):\n", len(rec.Media))
		for _, slot := range catalog.Slots {
			if ref, ok := rec.Media[slot.ID]; ok {
				fmt.Printf("  %-16s %s\n", slot.ID, client.MediaURL(ref))
			}
		}
	}
	return nil
}
