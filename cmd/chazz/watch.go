package main

import (
	"github.com/aretw0/chazz"
	"github.com/aretw0/chazz/internal/cli"
	"github.com/aretw0/chazz/internal/config"
	"github.com/aretw0/chazz/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <input> <key> <output>",
	Short: "Convert, then keep outputs in sync with their documents",
	Long: `Converts every document once, then re-converts documents as they are created
or modified. Bursts of changes are debounced. With --watch-schedule (a cron spec)
everything is re-converted periodically as well.

Stops on SIGINT or SIGTERM.`,
	Args: cobra.MaximumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		applyArgs(cfg, args)
		if err := cfg.ValidateBatch(); err != nil {
			return err
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		p, err := cli.BuildPipeline(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer p.Close()

		tui.PrintBanner(cmd.ErrOrStderr(), chazz.Version)

		err = cli.RunWatch(ctx, cli.WatchOptions{
			Converter: p.Converter,
			Source:    p.Loader,
			Debounce:  cfg.Watch.Debounce,
			Schedule:  cfg.Watch.Schedule,
			Logger:    logger,
			Out:       cmd.OutOrStdout(),
		})
		if sig := ctx.Signal(); sig != nil {
			tui.PrintSystemMessage(cmd.ErrOrStderr(), "Stopped (%v).", sig)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	config.BindFlags(watchCmd.Flags(), batchKeys...)
	config.BindFlags(watchCmd.Flags(), "watch.debounce", "watch.schedule")
}
