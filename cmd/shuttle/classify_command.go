package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"shuttle/internal/capability"
	"shuttle/internal/jobspec"
	"shuttle/internal/policy"
)

// newClassifyCommand inspects a JobSpec document without touching the queue:
// it prints the routing decision and derived parameters the daemon would use.
func newClassifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <jobspec.toml>",
		Short: "Classify a JobSpec document without enqueueing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := jobspec.ParseFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			engine, facts, err := capability.DetermineEngine(spec.Clips)
			if err != nil {
				var mixed *capability.MixedEngineError
				if errors.As(err, &mixed) {
					fmt.Fprintf(out, "job %s: rejected (%v)\n", spec.ID, mixed)
					for i, clip := range spec.Clips {
						fact, clipErr := capability.ClassifyClip(clip)
						if clipErr != nil {
							fmt.Fprintf(out, "  clip %d: %s/%s -> rejected: %v\n", i, clip.Codec, clip.Container, clipErr)
							continue
						}
						fmt.Fprintf(out, "  clip %d: %s/%s -> %s\n", i, clip.Codec, clip.Container, fact.Engine)
					}
					return fmt.Errorf("jobspec is not dispatchable")
				}
				fmt.Fprintf(out, "job %s: rejected (%v)\n", spec.ID, err)
				return fmt.Errorf("jobspec is not dispatchable")
			}

			fmt.Fprintf(out, "job %s: engine %s (%d clips)\n", spec.ID, engine, len(spec.Clips))
			policies, derivErrs := policy.Derive(spec, facts)
			failedClips := make(map[int]*policy.DeriveError, len(derivErrs))
			for _, derivErr := range derivErrs {
				failedClips[derivErr.ClipIndex] = derivErr
			}
			for i, clip := range spec.Clips {
				fmt.Fprintf(out, "  clip %d: %s/%s", i, clip.Codec, clip.Container)
				if derivErr, ok := failedClips[i]; ok {
					fmt.Fprintf(out, " -> policy error: %v\n", derivErr)
					continue
				}
				pol := policies[i]
				switch pol.Class {
				case policy.ClassNativePassthrough:
					fmt.Fprintf(out, " -> %s passthrough\n", pol.Engine)
				case policy.ClassRawDevelop:
					fmt.Fprintf(out, " -> %s develop, render preset %s\n", pol.Engine, pol.VideoPreset)
				default:
					fmt.Fprintf(out, " -> %s transcode to %s (%s, %d kbps)\n",
						pol.Engine, pol.VideoCodec, pol.VideoPreset, pol.VideoBitrate)
				}
			}
			return nil
		},
	}
}
