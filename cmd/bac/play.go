package main

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/petit-bac/internal/common"
	"github.com/Veraticus/petit-bac/internal/live"
	"github.com/Veraticus/petit-bac/internal/model"
	"github.com/Veraticus/petit-bac/internal/service"
	"github.com/Veraticus/petit-bac/internal/tui"
	"github.com/Veraticus/petit-bac/internal/tui/themes"
)

func playCmd() *cobra.Command {
	var (
		letter     string
		theme      string
		categories []string
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Check words interactively as you type",
		Long: `Open the live checker: pick a category with Tab, type a word and watch the
verdict update. With --letter, words that do not start with the round
letter are flagged.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if utf8.RuneCountInString(letter) > 1 {
				return fmt.Errorf("--letter takes a single letter, got %q", letter)
			}

			var selected []model.Category
			for _, name := range categories {
				c, ok := service.ResolveCategory(name)
				if !ok {
					return fmt.Errorf("%w: %s", common.ErrUnknownCategory, name)
				}
				selected = append(selected, c)
			}

			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			// The checker owns the terminal; logs would corrupt the screen.
			level, _ := common.ParseLevel(viper.GetString("logging.level"))
			if err := common.SetupLogger(io.Discard, level, a.cfg.LogFormat); err != nil {
				return err
			}

			checker := live.NewChecker(a.svc, a.cfg.LiveDebounce)
			return tui.Run(ctx, checker,
				tui.WithTheme(themes.GetTheme(theme)),
				tui.WithLetter(letter),
				tui.WithThreshold(a.svc.ConfidenceThreshold()),
				tui.WithCategories(selected),
			)
		},
	}

	cmd.Flags().StringVarP(&letter, "letter", "l", "", "round letter every word must start with")
	cmd.Flags().StringVar(&theme, "theme", "default", "color theme (default, catppuccin-mocha)")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "restrict to these categories (repeatable)")
	return cmd
}
