package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"briefly/internal/bootstrap"
	"briefly/internal/domain/entity"
	"briefly/internal/usecase/summarize"
)

func newSummarizeCmd(opts *options) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize text, a URL or a document",
	}
	cmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Overall deadline")

	run := func(cmd *cobra.Command, fn func(ctx context.Context, svc *summarize.Service) (*entity.SummaryResult, error)) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		sum, err := bootstrap.NewSummarizer(ctx, slog.Default())
		if err != nil {
			return err
		}
		defer func() { _ = sum.Close() }()

		result, err := fn(ctx, sum.Service)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), opts, result)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "text TEXT|-",
		Short: fmt.Sprintf("Summarize raw text (at least %d words)", summarize.MinTextWords),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			text := string(data)
			if n := entity.CountWords(text); n < summarize.MinTextWords {
				return &summarize.InsufficientContentError{Words: n, Minimum: summarize.MinTextWords}
			}
			return run(cmd, func(ctx context.Context, svc *summarize.Service) (*entity.SummaryResult, error) {
				return svc.SummarizeText(ctx, text)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "url URL",
		Short: "Fetch a web page and summarize its main content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := entity.ValidateURL(args[0]); err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, svc *summarize.Service) (*entity.SummaryResult, error) {
				return svc.SummarizeURL(ctx, args[0])
			})
		},
	})

	var contentType string
	fileCmd := &cobra.Command{
		Use:   "file PATH",
		Short: "Summarize a .txt, .pdf or .docx document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ct := contentType
			if ct == "" {
				var ok bool
				if ct, ok = summarize.ContentTypeByExtension(args[0]); !ok {
					return fmt.Errorf("%w: cannot infer type of %s, pass --type", summarize.ErrUnsupportedFileType, filepath.Base(args[0]))
				}
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, svc *summarize.Service) (*entity.SummaryResult, error) {
				return svc.SummarizeFile(ctx, data, ct)
			})
		},
	}
	fileCmd.Flags().StringVar(&contentType, "type", "", "MIME type, inferred from the extension when empty")
	cmd.AddCommand(fileCmd)

	return cmd
}

func printResult(w io.Writer, opts *options, r *entity.SummaryResult) error {
	if opts.jsonOutput {
		return printJSON(w, r)
	}
	if r.ExtractedTitle != nil {
		fmt.Fprintf(w, "Title: %s\n", *r.ExtractedTitle)
	}
	fmt.Fprintf(w, "Original length: %d words\n", r.OriginalLength)
	for _, name := range r.BackendNames() {
		out := r.BackendResults[name]
		fmt.Fprintf(w, "\n[%s] (%.2fs)\n%s\n", name, out.ProcessingTimeSeconds, out.SummaryText)
	}
	return nil
}
