package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/petit-bac/internal/cli"
	"github.com/Veraticus/petit-bac/internal/model"
)

func batchCmd() *cobra.Command {
	var (
		asJSON      bool
		noProgress  bool
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Validate a CSV file of category,word pairs",
		Long: `Validate every "category,word" line of a CSV file ("-" reads stdin).
Blank lines and lines starting with # are ignored, as is a leading
"category,word" header. Press Ctrl+C to stop early and see the words
already checked.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := readBatchFile(args[0])
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Println(cli.FormatInfo("No words to validate."))
				return nil
			}

			// The handler owns SIGINT here so it can report partial results.
			interrupts := cli.NewInterruptHandler(os.Stderr)
			ctx, stop := interrupts.HandleInterrupts(context.WithoutCancel(cmd.Context()), true)
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			opts := cli.BatchOptions{Concurrency: concurrency}
			if !noProgress && !asJSON {
				opts.Progress = cli.NewProgressBar(os.Stderr, len(items))
			}

			results, runErr := cli.RunBatch(ctx, a.svc, items, opts)
			if runErr != nil && !interrupts.WasInterrupted() {
				slog.Warn("Batch stopped early", "error", runErr)
			}

			if asJSON {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(struct {
					Summary cli.BatchSummary  `json:"summary"`
					Results []cli.BatchResult `json:"results"`
				}{cli.Summarize(results), results}); err != nil {
					return fmt.Errorf("failed to encode results: %w", err)
				}
				return nil
			}

			printBatchResults(os.Stdout, results, a.svc.ConfidenceThreshold())
			fmt.Println()
			fmt.Println(cli.RenderSummary(cli.Summarize(results)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "hide the progress bar")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 4, "words validated in parallel")
	return cmd
}

func readBatchFile(path string) ([]cli.BatchItem, error) {
	if path == "-" {
		return cli.ReadBatch(os.Stdin)
	}

	f, err := os.Open(path) //nolint:gosec // path comes from the user
	if err != nil {
		return nil, fmt.Errorf("failed to open batch file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return cli.ReadBatch(f)
}

func printBatchResults(out io.Writer, results []cli.BatchResult, threshold float64) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		cli.BoldStyle.Render("Line"),
		cli.BoldStyle.Render("Category"),
		cli.BoldStyle.Render("Word"),
		cli.BoldStyle.Render("Verdict"),
		cli.BoldStyle.Render("Source"),
		cli.BoldStyle.Render("Confidence"))

	for _, r := range results {
		verdict := cli.VerdictLabel(r.Outcome, threshold)
		switch r.Outcome.Status {
		case model.StatusValid:
			verdict = cli.SuccessStyle.Render(verdict)
		case model.StatusInvalid, model.StatusError:
			verdict = cli.ErrorStyle.Render(verdict)
		default:
			verdict = cli.WarningStyle.Render(verdict)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%.2f\n",
			r.Line, r.Category, r.Word, verdict, r.Outcome.Source, r.Outcome.Confidence)
	}
}
