package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"shuttle/internal/config"
	"shuttle/internal/store"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect the job queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueStatusCommand(ctx))
	return queueCmd
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List admitted jobs in FIFO order with derived state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				jobs, err := st.ListJobs(cmd.Context())
				if err != nil {
					return err
				}
				if len(jobs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "queue is empty")
					return nil
				}

				rows := make([][]string, 0, len(jobs))
				for _, job := range jobs {
					derivation, err := st.DeriveState(cmd.Context(), job.ID)
					if err != nil {
						return err
					}
					title := job.Title
					if title == "" {
						title = "(untitled)"
					}
					rows = append(rows, []string{
						strconv.FormatInt(job.Position, 10),
						job.ID,
						title,
						string(derivation.State),
						job.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					})
				}

				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"POS", "JOB", "TITLE", "STATE", "ADMITTED"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

func newQueueStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show queue health counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				summary, err := st.Health(cmd.Context())
				if err != nil {
					return err
				}

				rows := [][]string{
					{"total", strconv.Itoa(summary.Total)},
					{"pending", strconv.Itoa(summary.Pending)},
					{"running", strconv.Itoa(summary.Running)},
					{"completed", strconv.Itoa(summary.Completed)},
					{"failed", strconv.Itoa(summary.Failed)},
					{"cancelled", strconv.Itoa(summary.Cancelled)},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"STATE", "JOBS"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			})
		},
	}
}
