package cmd

import (
	"fmt"

	"github.com/catadaptive/pharmcat/internal/store"
	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		summaries, err := st.Sessions().ListSessions(cmd.Context())
		if err != nil {
			return err
		}
		if len(summaries) == 0 {
			fmt.Println("No stored sessions.")
			return nil
		}

		fmt.Println("session id                            learner        items  theta    se  status")
		for _, s := range summaries {
			status := "in progress"
			if s.Complete {
				status = s.CompletionReason
			}
			fmt.Printf("%-36s  %-12s  %5d  %5.2f  %4.2f  %s\n",
				s.SessionID, s.LearnerName, s.ItemCount, s.Theta, s.StandardError, status)
		}
		return nil
	},
}
