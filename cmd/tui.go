package cmd

import (
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/butce/internal/config"
	"github.com/theirongolddev/butce/internal/pipeline"
	"github.com/theirongolddev/butce/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:     "tui",
	Aliases: []string{"ui"},
	Short:   "Browse and edit the ledger interactively",
	RunE:    runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	// Saves run off the UI goroutine; each one writes the latest ledger.
	var mu sync.Mutex
	persist := func(reason string) error {
		mu.Lock()
		defer mu.Unlock()
		return s.save(reason)
	}

	app := tui.NewApp(tui.Options{
		Book:         s.book,
		Persist:      persist,
		Config:       appCfg,
		SaveConfig:   config.Save,
		NeedSetup:    !config.Exists(),
		DBPath:       dbPath(),
		SkipRollover: flagNoRollover,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	// A save still in flight at quit is lost with the program; an
	// unchanged ledger makes this a no-op.
	mu.Lock()
	defer mu.Unlock()
	return s.save(pipeline.ReasonSave)
}
