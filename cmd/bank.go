package cmd

import (
	"fmt"

	"github.com/catadaptive/pharmcat/internal/itembank"
	"github.com/spf13/cobra"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Inspect item banks",
}

var bankValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate an item bank file against the schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bank, err := itembank.LoadFile(args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		fmt.Printf("%s: %d items, %d topics\n", args[0], bank.Len(), len(bank.Topics()))
		for _, topic := range bank.Topics() {
			fmt.Printf("  %-30s %d items\n", topic, len(bank.FilterByTopic(topic)))
		}
		return nil
	},
}

func init() {
	bankCmd.AddCommand(bankValidateCmd)
}
