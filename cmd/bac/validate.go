package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/petit-bac/internal/cli"
	"github.com/Veraticus/petit-bac/internal/service"
)

type validationOutput struct {
	Category string `json:"category"`
	Word     string `json:"word"`
	outcomeOutput
}

type outcomeOutput struct {
	Status     string  `json:"status"`
	Source     string  `json:"source"`
	Details    string  `json:"details"`
	Confidence float64 `json:"confidence"`
	LowTrust   bool    `json:"low_trust"`
}

func validateCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate <category> <word> [word...]",
		Short: "Check words against a category",
		Long: `Check one or more words against a category. The category may be given by
key (ANIMAL), by label (Animal) or by a fragment of the label.`,
		Example: `  bac validate ANIMAL chien
  bac validate pays france "côte d'ivoire"
  bac validate --json fruit pomme`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			category := args[0]
			threshold := a.svc.ConfidenceThreshold()
			resolved, known := service.ResolveCategory(category)

			outputs := make([]validationOutput, 0, len(args)-1)
			for _, word := range args[1:] {
				outcome := a.svc.ValidateWord(ctx, category, word)
				outputs = append(outputs, validationOutput{
					Category: category,
					Word:     word,
					outcomeOutput: outcomeOutput{
						Status:     string(outcome.Status),
						Source:     outcome.Source,
						Details:    outcome.Details,
						Confidence: outcome.Confidence,
						LowTrust:   outcome.IsValid() && outcome.Confidence < threshold,
					},
				})

				if asJSON {
					continue
				}
				if !known {
					fmt.Println(cli.FormatError(outcome.Details))
					continue
				}
				fmt.Println(cli.FormatOutcome(resolved, word, outcome, threshold))
				fmt.Println()
			}

			if asJSON {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(outputs); err != nil {
					return fmt.Errorf("failed to encode results: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}
