package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/butce/internal/cli"
	"github.com/theirongolddev/butce/internal/config"
	"github.com/theirongolddev/butce/internal/ledger"
	"github.com/theirongolddev/butce/internal/pipeline"
	"github.com/theirongolddev/butce/internal/tui"
	"github.com/theirongolddev/butce/internal/tui/theme"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	vals := tui.NewSetupValues(appCfg)
	if err := tui.NewSetupForm(vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled; nothing was saved.")
			return nil
		}
		return err
	}

	cfg, income, yk, err := vals.Apply(appCfg)
	if err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	appCfg = cfg
	theme.SetActive(cfg.Appearance.Theme)

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())

	// Seed the live month when the ledger has no incomes yet.
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	state := s.book.State()
	seeded := false
	if state.Income.IsZero() && !income.IsZero() {
		state, seeded = ledger.SetIncome(state, income), true
	}
	if state.YKIncome.IsZero() && !yk.IsZero() {
		state, seeded = ledger.SetYKIncome(state, yk), true
	}
	if seeded || s.load.Fresh {
		s.book.Replace(state)
		if err := s.save(pipeline.ReasonSave); err != nil {
			return err
		}
	}
	if seeded {
		fmt.Printf("  %s incomes: %s cash, %s meal card\n",
			cli.FormatMonth(state.CurrentMonth), cli.FormatMoney(state.Income), cli.FormatMoney(state.YKIncome))
	}
	fmt.Println("  Run `butce setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
