package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shuttle/internal/config"
	"shuttle/internal/dispatch"
	"shuttle/internal/store"
)

func newCancelCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <job-id>",
		Short: "Cancel a pending or running job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID := args[0]
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				if err := dispatch.Cancel(cmd.Context(), st, jobID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "cancel recorded for job %s\n", jobID)
				return nil
			})
		},
	}
}
