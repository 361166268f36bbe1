package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/magefree/goldfish/internal/deck"
	"github.com/magefree/goldfish/internal/game"
	"github.com/magefree/goldfish/internal/metrics"
	"github.com/magefree/goldfish/internal/sim"
)

// runReport is the JSON form of the run command.
type runReport struct {
	*sim.Result
	Workers     int    `json:"workers"`
	Fingerprint string `json:"fingerprint"`
	Trace       string `json:"trace,omitempty"`
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate a deck and report its power curves",
		Long: `Play the deck solo for many trials against the opponent model and
summarize per-turn damage, board power, mana and win rates.

Trials are seeded from --seed and their index alone, so the same deck,
config and seed give the same report regardless of --workers.

Examples:
  goldfish run --deck decks/gruul.yaml
  goldfish run --deck decks/gruul.yaml --trials 5000 --turns 12 --seed 42
  goldfish run --deck decks/gruul.yaml --trace-trial 3 --trace-out traces/t3.journal`,
		RunE: runSimulation,
	}

	cmd.Flags().String("deck", "", "Path to the decklist YAML file")
	cmd.Flags().Int("trials", 0, "Number of trials (overrides config)")
	cmd.Flags().Int("turns", 0, "Turn limit per trial (overrides config)")
	cmd.Flags().Uint64("seed", 0, "Batch seed (overrides config)")
	cmd.Flags().Int("workers", 0, "Parallel workers, 0 for one per CPU (overrides config)")
	cmd.Flags().Bool("records", false, "Include every trial record in JSON output")
	cmd.Flags().Int("trace-trial", -1, "Replay this trial with an effect journal")
	cmd.Flags().String("trace-out", "", "Where to save the effect journal")
	_ = cmd.MarkFlagRequired("deck")

	return cmd
}

func runSimulation(cmd *cobra.Command, args []string) error {
	jsonOut, _ := cmd.Flags().GetBool("json")
	deckPath, _ := cmd.Flags().GetString("deck")
	withRecords, _ := cmd.Flags().GetBool("records")
	traceTrial, _ := cmd.Flags().GetInt("trace-trial")
	traceOut, _ := cmd.Flags().GetString("trace-out")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("trials") {
		cfg.Simulation.Trials, _ = flags.GetInt("trials")
	}
	if flags.Changed("turns") {
		cfg.Simulation.MaxTurns, _ = flags.GetInt("turns")
	}
	if flags.Changed("seed") {
		cfg.Simulation.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("workers") {
		cfg.Simulation.Workers, _ = flags.GetInt("workers")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if traceTrial >= cfg.Simulation.Trials {
		return fmt.Errorf("--trace-trial %d is outside the batch of %d trials", traceTrial, cfg.Simulation.Trials)
	}
	if traceTrial >= 0 && traceOut == "" {
		traceOut = filepath.Join("traces", fmt.Sprintf("trial-%d.journal", traceTrial))
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
	for _, issue := range d.Validate() {
		logger.Warn("deck format issue", zap.String("deck", d.Name), zap.String("issue", issue))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := game.NewEngine(logger, cfg, d.Cards, d.Malformed)
	batch := sim.NewBatch(d.Name, cfg.Simulation.Trials, cfg.Simulation.Seed)
	runner := sim.NewRunner(logger, engine, cfg.Simulation.Workers)

	result, runErr := runner.Run(ctx, batch)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	fingerprint, err := metrics.BatchFingerprint(result.Records)
	if err != nil {
		return err
	}

	report := runReport{Result: result, Workers: runner.Workers(), Fingerprint: fingerprint}
	if traceTrial >= 0 && runErr == nil {
		_, journal := engine.RunTrialWithJournal(traceTrial, game.TrialSeed(cfg.Simulation.Seed, traceTrial))
		if err := journal.SaveToFile(traceOut); err != nil {
			return fmt.Errorf("failed to save trace: %w", err)
		}
		logger.Info("trace saved",
			zap.Int("trial", traceTrial),
			zap.Int("entries", journal.Size()),
			zap.String("path", traceOut),
		)
		report.Trace = traceOut
	}
	if !withRecords {
		report.Records = nil
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printSummary(out, report)
	}
	return runErr
}

func printSummary(out io.Writer, report runReport) {
	s := report.Summary
	b := report.Batch

	fmt.Fprintf(out, "%s: %d trials, seed %d, %d workers (%s)\n", b.Deck, s.Trials, b.Seed, report.Workers, b.State)
	fmt.Fprintf(out, "Win rate: %.1f%%", s.WinRate*100)
	if s.WinTurn.N > 0 {
		fmt.Fprintf(out, ", win turn mean %.2f (p10 %.0f, p50 %.0f, p90 %.0f)", s.WinTurn.Mean, s.WinTurn.P10, s.WinTurn.P50, s.WinTurn.P90)
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Outcomes: %s\n", joinCounts(s.Outcomes))
	if len(s.WinTypes) > 0 {
		fmt.Fprintf(out, "Win types: %s\n", joinCounts(s.WinTypes))
	}
	fmt.Fprintln(out)

	table := tablewriter.NewTable(out,
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithRowAlignment(tw.AlignRight),
	)
	table.Header("Turn", "Running", "Combat", "Drain", "Power", "Mana", "Lands", "Tokens", "Drawn",
		"Cumulative p10", "p50", "p90")
	for _, t := range s.Turns {
		_ = table.Append([]string{
			strconv.Itoa(t.Turn), strconv.Itoa(t.Running),
			mean(t.CombatDamage), mean(t.DrainDamage), mean(t.BoardPower), mean(t.ManaSpent),
			mean(t.LandsPlayed), mean(t.TokensCreated), mean(t.CardsDrawn),
			whole(t.CumulativeDamage.P10), whole(t.CumulativeDamage.P50), whole(t.CumulativeDamage.P90),
		})
	}
	_ = table.Render()
	fmt.Fprintln(out)

	d := s.Diagnostics
	fmt.Fprintf(out, "Diagnostics: dropped firings %d, malformed abilities %d, mulligans %d, removal %d, wipes %d, held back %d\n",
		d.DroppedFirings, d.MalformedAbilities, d.Mulligans, d.RemovalTaken, d.WipesTaken, d.HeldBack)
	if len(s.AbortReasons) > 0 {
		fmt.Fprintf(out, "Abort reasons: %s\n", joinCounts(s.AbortReasons))
	}
	fmt.Fprintf(out, "Fingerprint: %s\n", report.Fingerprint)
	if report.Trace != "" {
		fmt.Fprintf(out, "Trace: %s\n", report.Trace)
	}
}

func mean(b metrics.Band) string { return strconv.FormatFloat(b.Mean, 'f', 2, 64) }

func whole(v float64) string { return strconv.FormatFloat(v, 'f', 0, 64) }

// joinCounts renders a count map in key order.
func joinCounts[K ~string](counts map[K]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %d", k, counts[K(k)]))
	}
	return strings.Join(parts, ", ")
}
