package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"shuttle/internal/capability"
	"shuttle/internal/daemon"
	"shuttle/internal/dispatch"
	"shuttle/internal/engine/ffmpeg"
	"shuttle/internal/engine/resolve"
	"shuttle/internal/execution"
	"shuttle/internal/logging"
	"shuttle/internal/preflight"
	"shuttle/internal/store"
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the dispatch daemon in the foreground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			if !skipPreflight {
				ok, checks := preflight.Run(cfg)
				for _, check := range checks {
					if check.Passed {
						logger.Debug("preflight check passed",
							logging.String("check", check.Name),
							logging.String("detail", check.Detail))
						continue
					}
					logger.Error("preflight check failed",
						logging.String("check", check.Name),
						logging.String("detail", check.Detail))
				}
				if !ok {
					return errors.New("preflight checks failed; fix the reported problems or rerun with --skip-preflight")
				}
			}

			st, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			edition := capability.Edition(cfg.Engines.ResolveEdition)
			if edition == "" {
				detected, err := resolve.DetectEdition(runCtx, cfg.Engines.ResolveBinary)
				if err != nil {
					logger.Warn("resolve edition detection failed; edition-gated formats will be refused",
						logging.Error(err),
						logging.String(logging.FieldErrorHint, "set engines.resolve_edition to skip detection"))
				} else {
					edition = detected
				}
			}

			adapter := execution.NewAdapter(cfg, st, logger,
				execution.WithInvoker(capability.EngineFFmpeg, ffmpeg.NewCLI(ffmpeg.WithBinary(cfg.Engines.FFmpegBinary))),
				execution.WithInvoker(capability.EngineResolve, resolve.NewCLI(resolve.WithBinary(cfg.Engines.ResolveBinary))),
				execution.WithResolveEdition(edition),
			)
			dispatcher := dispatch.New(cfg, st, adapter, logger)

			d, err := daemon.New(cfg, st, logger, dispatcher)
			if err != nil {
				return err
			}
			if err := d.Start(runCtx); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "shuttle daemon running; press Ctrl+C to stop")
			<-runCtx.Done()
			d.Stop()
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip environment preflight checks")
	return cmd
}
