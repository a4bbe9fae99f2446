package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trustedvehicles/vinspect/internal/draft"
	"github.com/trustedvehicles/vinspect/internal/logger"
	"github.com/trustedvehicles/vinspect/internal/natsstore"
	"github.com/trustedvehicles/vinspect/internal/session"
	"github.com/trustedvehicles/vinspect/internal/submit"
	"github.com/trustedvehicles/vinspect/internal/tui"
)

var newFlags struct {
	discard bool
}

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "File a new vehicle condition report",
	Long: `File a new vehicle condition report through the wizard.

Work in progress is autosaved to the local draft store and resumed the next
time the command runs. A successful submission clears the draft.`,
	RunE: runNew,
}

func init() {
	newCmd.Flags().BoolVar(&newFlags.discard, "discard", false, "Start fresh, ignoring and disabling the local draft")
}

func runNew(cmd *cobra.Command, args []string) error {
	cfg, client, err := setup()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	// The embedded store is best effort: a failure to open degrades to a
	// session without autosave rather than blocking the inspection.
	var drafts draft.Store = draft.Discard{}
	persistent := false
	if !newFlags.discard {
		store, err := natsstore.Open(ctx, cfg.DataDir)
		if err != nil {
			logger.Warn("Draft store unavailable, autosave disabled: %v", err)
		} else {
			defer func() {
				if err := store.Close(); err != nil {
					logger.Warn("Draft store shutdown: %v", err)
				}
			}()
			drafts = store
			persistent = true
		}
	}

	sess, resumed := session.NewCreate(ctx, session.Options{Drafts: drafts})
	defer sess.Teardown()
	if resumed {
		logger.Info("Resumed saved draft")
	}

	id, err := tui.Run(ctx, sess, submit.New(client, drafts))
	if err != nil {
		return err
	}
	if id == "" {
		if persistent {
			fmt.Println("Report not submitted. Progress is saved as a draft.")
		} else {
			fmt.Println("Report not submitted.")
		}
		return nil
	}
	fmt.Printf("Report created: %s\n", id)
	return nil
}
