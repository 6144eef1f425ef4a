package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"shuttle/internal/config"
	"shuttle/internal/lifecycle"
	"shuttle/internal/store"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show a job's event log, derived state, and result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID := args[0]
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				job, err := st.GetJob(cmd.Context(), jobID)
				if err != nil {
					return err
				}
				if job == nil {
					return fmt.Errorf("no job %s", jobID)
				}

				events, err := st.Events(cmd.Context(), jobID)
				if err != nil {
					return err
				}
				derivation := lifecycle.Derive(events)

				out := cmd.OutOrStdout()
				title := job.Title
				if title == "" {
					title = "(untitled)"
				}
				fmt.Fprintf(out, "job %s\n", job.ID)
				fmt.Fprintf(out, "  title:    %s\n", title)
				fmt.Fprintf(out, "  position: %d\n", job.Position)
				fmt.Fprintf(out, "  admitted: %s\n", job.CreatedAt.Local().Format("2006-01-02 15:04:05"))
				fmt.Fprintf(out, "  state:    %s\n", derivation.State)
				for _, anomaly := range derivation.Anomalies {
					fmt.Fprintf(out, "  anomaly:  %s\n", anomaly)
				}

				if len(events) == 0 {
					fmt.Fprintln(out, "\nno events recorded")
				} else {
					rows := make([][]string, 0, len(events))
					for _, event := range events {
						clip := "-"
						if event.ClipIndex != lifecycle.NoClip {
							clip = strconv.Itoa(event.ClipIndex)
						}
						rows = append(rows, []string{
							strconv.FormatInt(event.Seq, 10),
							string(event.Type),
							clip,
							event.Detail,
							event.CreatedAt.Local().Format("15:04:05"),
						})
					}
					fmt.Fprintln(out)
					fmt.Fprintln(out, renderTable(
						[]string{"SEQ", "EVENT", "CLIP", "DETAIL", "AT"},
						rows,
						[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft},
					))
				}

				result, err := st.GetResult(cmd.Context(), jobID)
				if err != nil {
					return err
				}
				if result == nil {
					return nil
				}

				fmt.Fprintf(out, "\nresult: %s", result.Outcome)
				if result.Engine != "" {
					fmt.Fprintf(out, " (engine %s)", result.Engine)
				}
				fmt.Fprintln(out)
				if result.ValidationStage != "" {
					fmt.Fprintf(out, "  stage:  %s\n", result.ValidationStage)
				}
				if result.Reason != "" {
					fmt.Fprintf(out, "  reason: %s\n", result.Reason)
				}

				if len(result.Clips) > 0 {
					rows := make([][]string, 0, len(result.Clips))
					for _, clip := range result.Clips {
						status := "ok"
						detail := clip.OutputPath
						if !clip.Success() {
							status = string(clip.FailureKind)
							detail = clip.Reason
						}
						rows = append(rows, []string{
							strconv.Itoa(clip.ClipIndex),
							string(clip.Engine),
							string(clip.Policy.Class),
							status,
							detail,
						})
					}
					fmt.Fprintln(out)
					fmt.Fprintln(out, renderTable(
						[]string{"CLIP", "ENGINE", "CLASS", "STATUS", "DETAIL"},
						rows,
						[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
					))
				}
				return nil
			})
		},
	}
}
