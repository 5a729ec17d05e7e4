package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/butce/internal/cli"
	"github.com/theirongolddev/butce/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appCfg

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Print(cli.RenderKV([]cli.KV{
		{Label: "Ledger", Value: dbPath()},
		{Label: "Forecast months", Value: fmt.Sprintf("%d", cfg.General.DefaultMonths)},
		{Label: "Backups kept", Value: keepLabel(cfg.General.KeepBackups)},
		{Label: "Log level", Value: orDefault(cfg.General.LogLevel, "warn")},
	}))
	fmt.Println()

	fmt.Println("  [Budget]")
	fmt.Print(cli.RenderKV([]cli.KV{
		{Label: "Default income", Value: seedLabel(cfg.Budget.DefaultIncome)},
		{Label: "Default meal card", Value: seedLabel(cfg.Budget.DefaultYKIncome)},
	}))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Print(cli.RenderKV([]cli.KV{
		{Label: "Address", Value: cfg.Daemon.Addr},
		{Label: "Schedule", Value: cfg.Daemon.Schedule},
		{Label: "Events kept", Value: fmt.Sprintf("%d", cfg.Daemon.EventsBuffer)},
	}))
	fmt.Println()

	fmt.Println("  Run `butce setup` to reconfigure.")
	return nil
}

func keepLabel(n int) string {
	if n <= 0 {
		return "all"
	}
	return fmt.Sprintf("%d", n)
}

func seedLabel(f *float64) string {
	if f == nil {
		return "not set"
	}
	return cli.FormatMoney(decimal.NewFromFloat(*f))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
