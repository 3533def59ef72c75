package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"briefly/internal/bootstrap"
	"briefly/internal/observability/logging"
)

type options struct {
	jsonOutput bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "briefly",
		Short: "Summarize text, web pages and documents with every configured backend",
		Long: `briefly runs each configured summarization backend on the same input
concurrently and prints every summary side by side. Results are cached by
content, so text that reaches it from a file or a page is summarized once.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			bootstrap.InitLogger(cmd.ErrOrStderr(), logging.FormatText)
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&opts.jsonOutput, "json", "j", false, "Output as JSON")

	rootCmd.AddCommand(
		newSummarizeCmd(opts),
		newBackendsCmd(opts),
		newTokenCmd(opts),
		newMigrateCmd(),
		newPurgeCmd(opts),
	)
	return rootCmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readInput returns arg, or stdin when arg is "-".
func readInput(cmd *cobra.Command, arg string) ([]byte, error) {
	if arg != "-" {
		return []byte(arg), nil
	}
	return io.ReadAll(cmd.InOrStdin())
}
