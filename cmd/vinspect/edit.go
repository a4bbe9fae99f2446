package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trustedvehicles/vinspect/internal/api"
	"github.com/trustedvehicles/vinspect/internal/session"
	"github.com/trustedvehicles/vinspect/internal/submit"
	"github.com/trustedvehicles/vinspect/internal/tui"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit an existing vehicle report",
	Long: `Edit an existing vehicle report through the wizard.

The vehicle's current values seed the form and its media shows as already
on the server. Edit sessions submit with an update and never touch the
local draft.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	_, client, err := setup()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	rec, err := client.GetVehicle(ctx, args[0])
	if errors.Is(err, api.ErrNotFound) {
		return fmt.Errorf("vehicle %s not found", args[0])
	}
	if errors.Is(err, api.ErrUnauthorized) {
		return fmt.Errorf("not logged in, run: vinspect login")
	}
	if err != nil {
		return err
	}

	sess := session.NewEdit(rec, session.Options{})
	defer sess.Teardown()

	id, err := tui.Run(ctx, sess, submit.New(client, nil))
	if err != nil {
		return err
	}
	if id == "" {
		fmt.Println("No changes submitted.")
		return nil
	}
	fmt.Printf("Report updated: %s\n", id)
	return nil
}
