package cmd

import (
	"fmt"

	"github.com/catadaptive/pharmcat/internal/itembank"
	"github.com/catadaptive/pharmcat/internal/session"
	"github.com/catadaptive/pharmcat/internal/simulation"
	"github.com/catadaptive/pharmcat/internal/store"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a simulated adaptive session against an item bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		bankPath, _ := cmd.Flags().GetString("bank")
		topic, _ := cmd.Flags().GetString("topic")
		theta, _ := cmd.Flags().GetFloat64("theta")
		seed, _ := cmd.Flags().GetInt64("seed")
		maxItems, _ := cmd.Flags().GetInt("max-items")
		targetSE, _ := cmd.Flags().GetFloat64("target-se")
		save, _ := cmd.Flags().GetBool("save")

		bank, err := itembank.LoadFile(bankPath)
		if err != nil {
			return fmt.Errorf("load item bank: %w", err)
		}

		pool := bank.FilterByTopic(topic)
		if len(pool) == 0 {
			return fmt.Errorf("no items in bank %s for topic %q", bankPath, topic)
		}

		criteria := session.DefaultCriteria()
		if maxItems > 0 {
			criteria.MaxItems = maxItems
		}
		if targetSE > 0 {
			criteria.TargetStandardError = targetSE
		}

		cfg := simulation.DefaultConfig()
		cfg.TrueTheta = theta
		cfg.Seed = seed
		cfg.Criteria = criteria

		result, err := simulation.Run(pool, cfg)
		if err != nil {
			return fmt.Errorf("run simulation: %w", err)
		}

		fmt.Printf("Simulated learner: true theta %.2f, seed %d, %d items in pool\n\n", theta, seed, len(pool))
		fmt.Println("  #  item           b       answer   theta    se")
		for i, step := range result.Steps {
			answer := "wrong"
			if step.Correct {
				answer = "right"
			}
			fmt.Printf("%3d  %-12s %6.2f   %-6s  %6.2f  %5.2f\n",
				i+1, step.ItemID, step.Difficulty, answer, step.ThetaAfter, step.StandardError)
		}

		report := result.Report
		fmt.Printf("\nFinal estimate: theta %.2f (SE %.2f), true theta %.2f\n",
			report.FinalTheta, report.StandardError, theta)
		fmt.Printf("Answered %d/%d correctly (%.0f%%), stopped: %s\n",
			report.CorrectCount, report.TotalCount, report.AccuracyPercent, report.CompletionReason)

		if !save {
			return nil
		}
		return persistResult(cmd, result)
	},
}

// persistResult saves the finished session's snapshot and appends one
// response event per administered item.
func persistResult(cmd *cobra.Command, result *simulation.Result) error {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if err := st.Sessions().SaveSnapshot(ctx, result.Snapshot); err != nil {
		return err
	}

	events := st.Events()
	for _, r := range result.Snapshot.Responses {
		ev := store.ResponseEvent{
			SessionID:  result.Snapshot.SessionID,
			ItemID:     r.ItemID,
			Correct:    r.Correct,
			Score:      r.Score,
			TimeMs:     r.ResponseTime.Milliseconds(),
			ThetaAfter: r.AbilityAfter.Theta,
			SEAfter:    r.AbilityAfter.StandardError,
			Method:     string(r.AbilityAfter.Method),
			Timestamp:  r.AbilityAfter.Timestamp,
		}
		if err := events.AppendResponseEvent(ctx, ev); err != nil {
			return err
		}
	}

	fmt.Printf("Saved session %s to %s\n", result.Snapshot.SessionID, dbPath)
	return nil
}

func init() {
	simulateCmd.Flags().String("bank", "", "Path to item bank JSON file")
	simulateCmd.Flags().String("topic", "", "Restrict the pool to one topic")
	simulateCmd.Flags().Float64("theta", 0, "True ability of the simulated learner")
	simulateCmd.Flags().Int64("seed", 1, "RNG seed for reproducible runs")
	simulateCmd.Flags().Int("max-items", 0, "Override the maximum item count")
	simulateCmd.Flags().Float64("target-se", 0, "Override the target standard error")
	simulateCmd.Flags().Bool("save", false, "Persist the finished session to the database")
	_ = simulateCmd.MarkFlagRequired("bank")
}
