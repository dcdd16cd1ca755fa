package main

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/chazz/internal/cli"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview [file|-]",
	Short: "Transform text and show the result in the terminal",
	Long: `Transforms the markup in a file (or stdin when the file is '-' or omitted).

When stdout is a terminal the Markdown is rendered with styles; otherwise, or
with --plain, the transformed text is printed as-is. With --key the input is
read as a JSON document and only that field is previewed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, _, err := loadConfig(cmd); err != nil {
			return err
		}

		plain, _ := cmd.Flags().GetBool("plain")
		key, _ := cmd.Flags().GetString("key")
		width, _ := cmd.Flags().GetInt("width")

		var in io.Reader = cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open input: %w", err)
			}
			defer f.Close()
			in = f
		}

		opts := cli.PreviewOptions{Key: key, Width: width}
		if out, ok := cmd.OutOrStdout().(*os.File); ok && !plain {
			termWidth, isTerm := cli.TerminalWidth(out)
			opts.Styled = isTerm
			if opts.Width == 0 {
				opts.Width = termWidth
			}
		}

		return cli.RunPreview(in, cmd.OutOrStdout(), opts)
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().Bool("plain", false, "Print the transformed text without terminal styling")
	previewCmd.Flags().String("key", "", "Read the input as a JSON document and preview this field")
	previewCmd.Flags().Int("width", 0, "Word-wrap width for styled output (default: terminal width)")
}
