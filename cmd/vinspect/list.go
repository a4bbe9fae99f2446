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

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List vehicles on the marketplace",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	_, client, err := setup()
	if err != nil {
		return err
	}

	vehicles, err := client.ListVehicles(cmd.Context())
	if errors.Is(err, api.ErrUnauthorized) {
		return fmt.Errorf("not logged in, run: vinspect login")
	}
	if err != nil {
		return err
	}

	if len(vehicles) == 0 {
		fmt.Println("No vehicles found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMAKE\tMODEL\tYEAR\tPRICE\tSTATUS")
	for _, v := range vehicles {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			v.ID,
			v.Display(catalog.FieldMake),
			v.Display(catalog.FieldModel),
			v.Display(catalog.FieldMfgYear),
			v.Display(catalog.FieldPrice),
			v.Display(catalog.FieldStatus),
		)
	}
	return w.Flush()
}
