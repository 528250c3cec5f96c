package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Veraticus/petit-bac/internal/cli"
	"github.com/Veraticus/petit-bac/internal/model"
	"github.com/Veraticus/petit-bac/internal/validator"
)

func categoriesCmd() *cobra.Command {
	var showAnchors bool

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the game categories",
		Long: `Display every category with its key, label and hint, and the size of its
built-in word list. With --anchors, also show the semantic anchors and the
dictionary keywords used for each category.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			lists, err := loadWordLists(cfg)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(cli.PrimaryColor)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				headerStyle.Render("Key"),
				headerStyle.Render("Category"),
				headerStyle.Render("Words"),
				headerStyle.Render("Hint"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 9),
				strings.Repeat("-", 22),
				strings.Repeat("-", 5),
				strings.Repeat("-", 40))

			for _, c := range model.Categories() {
				fmt.Fprintf(w, "%s\t%s %s\t%d\t%s\n", c, c.Icon(), c.Label(), lists.Size(c), c.Hint())
			}
			if err := w.Flush(); err != nil {
				return fmt.Errorf("failed to write categories: %w", err)
			}

			if !showAnchors {
				return nil
			}

			for _, c := range model.Categories() {
				keywords := validator.Keywords(c)
				dictionary := cli.SubtleStyle.Render("not covered")
				if len(keywords) > 0 {
					dictionary = strings.Join(keywords, ", ")
				}
				content := fmt.Sprintf("Anchors:    %s\nDictionary: %s",
					strings.Join(validator.Anchors(c), ", "), dictionary)
				fmt.Println()
				fmt.Println(cli.RenderBox(c.Icon()+" "+c.Label(), content))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showAnchors, "anchors", false, "show semantic anchors and dictionary keywords")
	return cmd
}
