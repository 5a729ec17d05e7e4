// Package cmd implements the butce CLI commands.
package cmd

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/butce/internal/config"
	"github.com/theirongolddev/butce/internal/tui/theme"
)

var (
	flagDB         string
	flagMonth      string
	flagVerbose    bool
	flagQuiet      bool
	flagNoRollover bool

	appCfg = config.DefaultConfig()
)

var rootCmd = &cobra.Command{
	Use:               "butce",
	Short:             "Personal monthly budget ledger",
	Long:              "Track income, bills, daily spending, card statements and installment plans month by month, and plan the months ahead.",
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
	RunE:              runShow,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Ledger database path (default: data dir/ledger.db)")
	rootCmd.PersistentFlags().StringVarP(&flagMonth, "month", "m", "", "Month to view or plan (YYYY-MM, default: current)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress notices")
	rootCmd.PersistentFlags().BoolVar(&flagNoRollover, "no-rollover", false, "Do not advance the ledger to the current month")
}

// prepare loads config and configures the global logger.
func prepare(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		// Keep going on defaults; a broken config file should not lock the user out.
		log.Warn().Err(err).Msg("config unreadable, using defaults")
	} else {
		appCfg = cfg
	}
	setupLogging(appCfg.General.LogLevel)
	theme.SetActive(appCfg.Appearance.Theme)
	return nil
}

func setupLogging(level string) {
	lvl := zerolog.WarnLevel
	if level != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil {
			lvl = parsed
		}
	}
	switch {
	case flagVerbose:
		lvl = zerolog.DebugLevel
	case flagQuiet:
		lvl = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()
}
