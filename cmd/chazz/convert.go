package main

import (
	"github.com/aretw0/chazz/internal/cli"
	"github.com/aretw0/chazz/internal/config"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input> <key> <output>",
	Short: "Convert a file or directory of JSON documents",
	Long: `Reads every JSON document in <input> (a file or a directory), transforms the
markup in field <key> and writes one output per document into <output>.

Documents that fail are reported and skipped. Use --fail-on-error to make any
failure exit with status 1.`,
	Args: cobra.MaximumNArgs(3),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	if cmd == rootCmd && len(args) == 0 && cmd.Flags().NFlag() == 0 {
		return cmd.Help()
	}

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

	_, err = cli.RunConvert(ctx, p, cmd.OutOrStdout(), cfg.FailOnError)
	return err
}

func init() {
	rootCmd.AddCommand(convertCmd)
	config.BindFlags(convertCmd.Flags(), append(batchKeys, "fail_on_error")...)
}
