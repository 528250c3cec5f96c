package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/petit-bac/internal/cli"
	"github.com/Veraticus/petit-bac/internal/common"
	"github.com/Veraticus/petit-bac/internal/model"
	"github.com/Veraticus/petit-bac/internal/service"
)

var errClearNotConfirmed = errors.New("refusing to clear the cache without --yes")

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the cache of confirmed words",
		Long: `The cache holds every (word, category) pair confirmed with full confidence.
Cached words are accepted immediately on later checks.`,
	}

	cmd.AddCommand(cacheListCmd())
	cmd.AddCommand(cacheAddCmd())
	cmd.AddCommand(cacheClearCmd())
	cmd.AddCommand(cacheStatsCmd())

	return cmd
}

func cacheListCmd() *cobra.Command {
	var (
		category string
		limit    int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached words, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			key := ""
			if category != "" {
				resolved, ok := service.ResolveCategory(category)
				if !ok {
					return fmt.Errorf("%w: %s", common.ErrUnknownCategory, category)
				}
				key = resolved.Key()
			}

			entries, err := a.store.List(ctx, key, limit)
			if err != nil {
				return fmt.Errorf("failed to list cached words: %w", err)
			}

			if asJSON {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(entries)
			}

			if len(entries) == 0 {
				fmt.Println(cli.InfoStyle.Render("The cache is empty."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				cli.BoldStyle.Render("Category"),
				cli.BoldStyle.Render("Word"),
				cli.BoldStyle.Render("Confirmed"))
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\n", categoryDisplay(e.Category), e.Word, e.RecordedAt.Local().Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only list words in this category")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of words (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")
	return cmd
}

func cacheAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <category> <word>",
		Short: "Record a word as confirmed for a category",
		Long: `Record a word as confirmed without running the validators, for answers a
referee accepted by hand. Adding a pair twice has no effect.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			resolved, ok := service.ResolveCategory(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", common.ErrUnknownCategory, args[0])
			}
			word := common.NormalizeInput(args[1])
			if word == "" {
				return fmt.Errorf("word must not be empty")
			}

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.InsertIfAbsent(ctx, word, resolved.Key()); err != nil {
				return fmt.Errorf("failed to cache word: %w", err)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("%s recorded for %s", word, resolved.Label())))
			return nil
		},
	}
}

func cacheClearCmd() *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached word",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirmed {
				return errClearNotConfirmed
			}
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			deleted, err := a.svc.ClearCache(ctx)
			if err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Removed %d cached words", deleted)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&confirmed, "yes", "y", false, "confirm removal")
	return cmd
}

func cacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache size per category and the active validators",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			counts, err := a.store.CountByCategory(ctx)
			if err != nil {
				return fmt.Errorf("failed to count cached words: %w", err)
			}

			keys := make([]string, 0, len(counts))
			for k := range counts {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			var b strings.Builder
			for _, k := range keys {
				fmt.Fprintf(&b, "%-24s %6d\n", categoryDisplay(k), counts[k])
			}
			if len(keys) == 0 {
				b.WriteString("No cached words yet.\n")
			}
			b.WriteString("\n")
			b.WriteString(a.svc.Stats(ctx).String())

			fmt.Println(cli.RenderBox(cli.ChartIcon+" Cache statistics", b.String()))
			if a.cfg.CacheBackend != "" {
				fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("%s backend: %s", cli.FolderIcon, a.cfg.CacheBackend)))
			}
			return nil
		},
	}
}

// categoryDisplay renders a cache key as "icon label" when it is known.
func categoryDisplay(key string) string {
	if c, ok := model.CategoryFromKey(key); ok {
		return c.Icon() + " " + c.Label()
	}
	return key
}
