package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shuttle/internal/config"
	"shuttle/internal/jobspec"
	"shuttle/internal/store"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <jobspec.toml>",
		Short: "Validate a JobSpec document and admit it to the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := jobspec.ParseFile(args[0])
			if err != nil {
				return err
			}
			if !spec.ExecutionRequested {
				return fmt.Errorf("jobspec %s has execution_requested = false; nothing to enqueue", spec.ID)
			}

			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				job, err := st.Enqueue(cmd.Context(), spec)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "admitted job %s at queue position %d (%d clips)\n",
					job.ID, job.Position, spec.ClipCount())
				return nil
			})
		},
	}
}
