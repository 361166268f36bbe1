package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magefree/goldfish/internal/deck"
)

// validateReport is the JSON form of the validate command.
type validateReport struct {
	Deck       string   `json:"deck"`
	Cards      int      `json:"cards"`
	Lands      int      `json:"lands"`
	Commanders []string `json:"commanders"`
	Malformed  int      `json:"malformed_abilities"`
	Problems   []string `json:"problems"`
	Issues     []string `json:"issues"`
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a decklist without simulating it",
		Long: `Load a decklist and report what the simulator makes of it.

This command reports:
  - Abilities that were skipped as malformed
  - Format issues (deck size, commanders)

Examples:
  goldfish validate --deck decks/gruul.yaml
  goldfish validate --deck decks/gruul.yaml --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			deckPath, _ := cmd.Flags().GetString("deck")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := initLogger(cfg.Logging)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Sync()

			d, err := deck.Load(logger, deckPath)
			if err != nil {
				return err
			}

			report := validateReport{
				Deck:       d.Name,
				Cards:      len(d.Cards),
				Lands:      d.Lands(),
				Commanders: []string{},
				Malformed:  d.Malformed,
				Problems:   d.Problems,
				Issues:     d.Validate(),
			}
			for _, c := range d.Commanders() {
				report.Commanders = append(report.Commanders, c.Name)
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			fmt.Fprintf(out, "%s: %d cards, %d lands, commanders %v\n", report.Deck, report.Cards, report.Lands, report.Commanders)
			for _, p := range report.Problems {
				fmt.Fprintf(out, "  skipped: %s\n", p)
			}
			for _, issue := range report.Issues {
				fmt.Fprintf(out, "  issue: %s\n", issue)
			}
			if len(report.Problems) == 0 && len(report.Issues) == 0 {
				fmt.Fprintln(out, "  ok")
			}
			return nil
		},
	}

	cmd.Flags().String("deck", "", "Path to the decklist YAML file")
	_ = cmd.MarkFlagRequired("deck")

	return cmd
}
