package cli

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/petit-bac/internal/model"
)

// WordValidator is the service a batch run submits words to.
type WordValidator interface {
	ValidateWord(ctx context.Context, category, word string) model.ValidationOutcome
}

// BatchItem is one line of a batch file.
type BatchItem struct {
	Category string `json:"category"`
	Word     string `json:"word"`
	Line     int    `json:"line"`
}

// BatchResult pairs an item with its outcome.
type BatchResult struct {
	Outcome model.ValidationOutcome `json:"outcome"`
	BatchItem
}

// ReadBatch parses "category,word" records. Blank lines, lines starting
// with '#' and a leading "category,word" header are skipped.
func ReadBatch(r io.Reader) ([]BatchItem, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var items []BatchItem
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read batch: %w", err)
		}

		line, _ := reader.FieldPos(0)
		if len(record) != 2 {
			return nil, fmt.Errorf("line %d: expected category,word but got %d fields", line, len(record))
		}
		if len(items) == 0 && strings.EqualFold(strings.TrimSpace(record[0]), "category") &&
			strings.EqualFold(strings.TrimSpace(record[1]), "word") {
			continue
		}

		items = append(items, BatchItem{
			Line:     line,
			Category: strings.TrimSpace(record[0]),
			Word:     strings.TrimSpace(record[1]),
		})
	}
	return items, nil
}

// BatchOptions configures RunBatch.
type BatchOptions struct {
	// Progress, when set, is advanced once per finished item.
	Progress    *progressbar.ProgressBar
	Concurrency int
}

// RunBatch validates items in parallel and returns results in input order.
// Items not started before ctx ends are left out.
func RunBatch(ctx context.Context, svc WordValidator, items []BatchItem, opts BatchOptions) ([]BatchResult, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}

	results := make([]BatchResult, len(items))
	done := make([]bool, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, item := range items {
		i, item := i, item
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = BatchResult{
				BatchItem: item,
				Outcome:   svc.ValidateWord(gctx, item.Category, item.Word),
			}
			done[i] = true

			if opts.Progress != nil {
				if err := opts.Progress.Add(1); err != nil {
					slog.Warn("Failed to update progress bar", "error", err)
				}
			}
			return nil
		})
	}

	err := g.Wait()

	finished := make([]BatchResult, 0, len(items))
	for i, ok := range done {
		if ok {
			finished = append(finished, results[i])
		}
	}
	if err == nil && len(finished) < len(items) {
		err = ctx.Err()
	}
	if err != nil {
		return finished, fmt.Errorf("batch stopped after %d of %d words: %w", len(finished), len(items), err)
	}
	return finished, nil
}

// NewProgressBar returns the progress bar used for batch runs.
func NewProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Validating words...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

// BatchSummary counts results by status and by source.
type BatchSummary struct {
	ByStatus map[model.ValidationStatus]int `json:"by_status"`
	BySource map[string]int                 `json:"by_source"`
	Total    int                            `json:"total"`
}

// Summarize tallies results.
func Summarize(results []BatchResult) BatchSummary {
	s := BatchSummary{
		ByStatus: make(map[model.ValidationStatus]int),
		BySource: make(map[string]int),
		Total:    len(results),
	}
	for _, r := range results {
		s.ByStatus[r.Outcome.Status]++
		s.BySource[r.Outcome.Source]++
	}
	return s
}

// RenderSummary formats a summary as two small tables.
func RenderSummary(s BatchSummary) string {
	var b strings.Builder

	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-12s %6s", "Status", "Words")))
	b.WriteString("\n")
	for _, status := range []model.ValidationStatus{
		model.StatusValid, model.StatusInvalid, model.StatusUncertain, model.StatusError,
	} {
		b.WriteString(TableCellStyle.Render(fmt.Sprintf("%-12s %6d", status, s.ByStatus[status])))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-14s %6s", "Source", "Words")))
	b.WriteString("\n")
	sources := make([]string, 0, len(s.BySource))
	for src := range s.BySource {
		sources = append(sources, src)
	}
	sort.Strings(sources)
	for _, src := range sources {
		b.WriteString(TableCellStyle.Render(fmt.Sprintf("%-14s %6d", src, s.BySource[src])))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(BoldStyle.Render(fmt.Sprintf("Total: %d", s.Total)))
	return b.String()
}
