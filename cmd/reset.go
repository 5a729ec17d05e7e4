package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/butce/internal/budget"
)

var resetCmd = &cobra.Command{
	Use:   "reset-paid",
	Short: "Mark every bill of the viewed month unpaid",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.apply(budget.ResetPaid); err != nil {
			return err
		}
		if !flagQuiet {
			fmt.Println("  All bills marked unpaid.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
