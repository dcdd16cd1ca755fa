package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/aretw0/chazz/internal/presentation/graph"
	"github.com/aretw0/chazz/pkg/markup"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rewrite rules in application order",
	Long: `Prints the rule table. Rules run top to bottom and each rewrites the output of the previous one.

Formats:
- text (default): one rule per line with its example tag.
- yaml: name, pattern, template and example of every rule.
- mermaid: a flowchart of the pipeline. With --sample, rules that rewrote
  tags in the sample file are highlighted with their match count.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		sample, _ := cmd.Flags().GetString("sample")
		out := cmd.OutOrStdout()

		infos := markup.DefaultTable().Describe()

		switch format {
		case "text":
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for i, info := range infos {
				fmt.Fprintf(tw, "%2d\t%s\t%s\n", i+1, info.Name, info.Example)
			}
			return tw.Flush()
		case "yaml":
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(infos); err != nil {
				return fmt.Errorf("failed to encode rules: %w", err)
			}
			return enc.Close()
		case "mermaid":
			var overlay *graph.Overlay
			if sample != "" {
				data, err := os.ReadFile(sample)
				if err != nil {
					return fmt.Errorf("failed to read sample: %w", err)
				}
				overlay = &graph.Overlay{Matches: map[string]int{}}
				engine := markup.NewEngine(markup.WithObserver(func(rule string, n int) {
					overlay.Matches[rule] += n
				}))
				engine.Transform(string(data))
			}
			fmt.Fprint(out, graph.GenerateMermaid(infos, overlay))
			return nil
		default:
			return fmt.Errorf("unknown format %q (supported: text, yaml, mermaid)", format)
		}
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().StringP("format", "f", "text", "Output format: text, yaml or mermaid")
	rulesCmd.Flags().String("sample", "", "Text file whose matches are highlighted in the mermaid output")
}
