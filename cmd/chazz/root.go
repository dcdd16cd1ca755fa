package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/chazz/internal/cli"
	"github.com/aretw0/chazz/internal/config"
	"github.com/spf13/cobra"
)

// batchKeys are the settings shared by every command that runs conversions.
var batchKeys = []string{
	"input", "key", "output", "workers", "format", "sink", "skip_unchanged",
	"redis.addr", "redis.password", "redis.db", "redis.prefix", "redis.ttl",
}

var rootCmd = &cobra.Command{
	Use:   "chazz [input] [key] [output]",
	Short: "Chazz turns inline {@tag} markup into Markdown",
	Long: `Chazz rewrites the {@tag ...} markup found in game-content JSON documents into plain Markdown.

Without a sub-command it converts the field <key> of every document in <input>
and writes the results to <output>, exactly like 'chazz convert'.`,
	Args:          cobra.MaximumNArgs(3),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.RunE = runConvert
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default ./"+config.DefaultFile+" when present)")
	config.BindFlags(rootCmd.PersistentFlags(), "log.level", "log.format")
	config.BindFlags(rootCmd.Flags(), append(batchKeys, "fail_on_error")...)
}

// loadConfig resolves the configuration for cmd and builds the matching logger.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path, config.WithFlags(cmd.Flags()))
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration:\n%w", err)
	}

	logger, err := cli.NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// applyArgs lets positional <input> <key> <output> override configured values.
func applyArgs(cfg *config.Config, args []string) {
	targets := []*string{&cfg.Input, &cfg.Key, &cfg.Output}
	for i, arg := range args {
		if i < len(targets) {
			*targets[i] = arg
		}
	}
}
