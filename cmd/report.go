package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/catadaptive/pharmcat/internal/itembank"
	"github.com/catadaptive/pharmcat/internal/session"
	"github.com/catadaptive/pharmcat/internal/store"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report <session-id>",
	Short: "Summarize a stored session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := args[0]
		bankPath, _ := cmd.Flags().GetString("bank")
		asJSON, _ := cmd.Flags().GetBool("json")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		snap, err := st.Sessions().LoadSnapshot(cmd.Context(), sessionID)
		if err != nil {
			return fmt.Errorf("load session %s: %w", sessionID, err)
		}

		bank, err := itembank.LoadFile(bankPath)
		if err != nil {
			return fmt.Errorf("load item bank: %w", err)
		}

		restored, err := session.Restore(snap, bank.FilterByTopic(""))
		if err != nil {
			return fmt.Errorf("restore session: %w", err)
		}
		report := session.BuildReport(restored)

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		fmt.Printf("Session %s for %s\n", report.SessionID, report.LearnerName)
		fmt.Printf("Ability: theta %.2f (SE %.2f)\n", report.FinalTheta, report.StandardError)
		fmt.Printf("Answered %d/%d correctly (%.0f%%)\n", report.CorrectCount, report.TotalCount, report.AccuracyPercent)
		if report.IsComplete {
			fmt.Printf("Completed: %s\n", report.CompletionReason)
		} else {
			fmt.Println("In progress")
		}

		if len(report.TopicPerformance) > 0 {
			fmt.Println("\nTopic performance:")
			topics := make([]string, 0, len(report.TopicPerformance))
			for topic := range report.TopicPerformance {
				topics = append(topics, topic)
			}
			sort.Strings(topics)
			for _, topic := range topics {
				fmt.Printf("  %-30s %5.0f%%\n", topic, report.TopicPerformance[topic]*100)
			}
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().String("bank", "", "Path to the item bank the session was run against")
	reportCmd.Flags().Bool("json", false, "Emit the report as JSON")
	_ = reportCmd.MarkFlagRequired("bank")
}
