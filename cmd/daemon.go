package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/butce/internal/cli"
	"github.com/theirongolddev/butce/internal/daemon"
	"github.com/theirongolddev/butce/internal/store"
)

var (
	flagDaemonAddr         string
	flagDaemonSchedule     string
	flagDaemonDetach       bool
	flagDaemonLogFile      string
	flagDaemonEventsBuffer int
	flagDaemonChild        bool
)

const daemonLong = `Run a background service that checks the ledger on a cron schedule.
The month rollover is applied as soon as the calendar month changes, and
month views and change events are served over HTTP.

One daemon runs per ledger. It records itself in <ledger>.daemon.json,
which "daemon status" and "daemon stop" read.`

var daemonCmd = &cobra.Command{
	Use:     "daemon",
	Short:   "Keep the ledger rolled over and serve it over HTTP/SSE",
	Long:    daemonLong,
	PreRunE: resolveDaemonDefaults,
	RunE:    runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the daemon and the ledger it keeps",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the daemon for this ledger",
	RunE:  runDaemonStop,
}

func init() {
	daemonCmd.Flags().StringVar(&flagDaemonAddr, "addr", "", "HTTP listen address (default from config)")
	daemonCmd.Flags().StringVar(&flagDaemonSchedule, "schedule", "", "Cron schedule for rollover checks, e.g. \"@every 1m\" or \"5 0 * * *\"")
	daemonCmd.Flags().StringVar(&flagDaemonLogFile, "log-file", "", "Log file for detached mode (default: <ledger>.daemon.log)")
	daemonCmd.Flags().IntVar(&flagDaemonEventsBuffer, "events-buffer", 0, "Max in-memory events retained (default from config)")
	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Run daemon as a background process")
	daemonCmd.Flags().BoolVar(&flagDaemonChild, "child", false, "Internal: mark detached child process")
	_ = daemonCmd.Flags().MarkHidden("child")

	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

// resolveDaemonDefaults fills unset flags from the loaded config. Flag
// defaults cannot be used because config is read after flag parsing.
func resolveDaemonDefaults(_ *cobra.Command, _ []string) error {
	if flagDaemonAddr == "" {
		flagDaemonAddr = appCfg.Daemon.Addr
	}
	if flagDaemonSchedule == "" {
		flagDaemonSchedule = appCfg.Daemon.Schedule
	}
	if flagDaemonEventsBuffer <= 0 {
		flagDaemonEventsBuffer = appCfg.Daemon.EventsBuffer
	}
	if flagDaemonLogFile == "" {
		flagDaemonLogFile = daemon.LogPath(dbPath())
	}
	return nil
}

func runDaemon(_ *cobra.Command, _ []string) error {
	switch {
	case flagDaemonDetach && flagDaemonChild:
		return errors.New("--detach and --child cannot be combined")
	case flagDaemonDetach:
		return startDetached()
	default:
		return serveLedger()
	}
}

// startDetached re-runs the current command line as a child that logs to
// the daemon log file, then returns once the child has started.
func startDetached() error {
	db := dbPath()
	if rt, err := daemon.ReadRuntime(daemon.RuntimePath(db)); err == nil {
		return fmt.Errorf("daemon already running for %s (pid %d)", db, rt.PID)
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolving executable: %w", err)
	}
	logf, err := openDaemonLog(flagDaemonLogFile)
	if err != nil {
		return err
	}
	defer func() { _ = logf.Close() }()

	child := exec.Command(exe, append(withoutDetach(os.Args[1:]), "--child")...) //nolint:gosec // re-runs our own invocation
	child.Stdout = logf
	child.Stderr = logf
	child.Env = os.Environ()
	if err := child.Start(); err != nil {
		return fmt.Errorf("starting daemon: %w", err)
	}

	fmt.Print(cli.RenderKV([]cli.KV{
		{Label: "Started", Value: fmt.Sprintf("pid %d", child.Process.Pid)},
		{Label: "Ledger", Value: db},
		{Label: "API", Value: "http://" + flagDaemonAddr + "/v1/status"},
		{Label: "Log", Value: flagDaemonLogFile},
	}))
	return nil
}

// serveLedger runs the service in this process until interrupted.
func serveLedger() error {
	db := dbPath()
	if flagDaemonChild {
		logf, err := openDaemonLog(flagDaemonLogFile)
		if err != nil {
			return err
		}
		defer func() { _ = logf.Close() }()
		log.Logger = zerolog.New(logf).With().Timestamp().Str("ledger", db).Logger()
	}

	path := daemon.RuntimePath(db)
	rt := daemon.Runtime{
		PID:       os.Getpid(),
		Addr:      flagDaemonAddr,
		Schedule:  flagDaemonSchedule,
		StartedAt: time.Now(),
		DBPath:    db,
	}
	if flagDaemonChild {
		rt.LogFile = flagDaemonLogFile
	}
	if err := daemon.Claim(path, rt); err != nil {
		return err
	}
	defer daemon.Release(path, rt.PID)

	st, err := store.Open(db)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	svc := daemon.New(daemon.Config{
		DBPath:       db,
		Addr:         flagDaemonAddr,
		Schedule:     flagDaemonSchedule,
		EventsBuffer: flagDaemonEventsBuffer,
	}, st)

	if !flagDaemonChild {
		fmt.Printf("  butce daemon listening on http://%s\n", flagDaemonAddr)
		fmt.Printf("  Checking %s on %q\n", db, flagDaemonSchedule)
		fmt.Println("  Stop with Ctrl+C or `butce daemon stop`")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info().Msg("daemon stopped")
	return nil
}

func runDaemonStatus(_ *cobra.Command, _ []string) error {
	db := dbPath()
	rt, err := daemon.ReadRuntime(daemon.RuntimePath(db))
	if errors.Is(err, daemon.ErrNotRunning) {
		fmt.Printf("  Daemon: not running for %s\n", db)
		return nil
	}
	if err != nil {
		return err
	}

	kv := []cli.KV{
		{Label: "Daemon", Value: fmt.Sprintf("pid %d since %s", rt.PID, rt.StartedAt.Local().Format("2006-01-02 15:04"))},
		{Label: "Address", Value: "http://" + rt.Addr},
		{Label: "Schedule", Value: rt.Schedule},
	}
	if rt.LogFile != "" {
		kv = append(kv, cli.KV{Label: "Log", Value: rt.LogFile})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	st, err := daemon.FetchStatus(ctx, rt.Addr)
	if err != nil {
		kv = append(kv, cli.KV{Label: "API", Value: "unreachable (" + err.Error() + ")"})
		fmt.Print(cli.RenderKV(kv))
		return nil
	}

	if st.LastPollAt.IsZero() {
		kv = append(kv, cli.KV{Label: "Last check", Value: "pending"})
	} else {
		kv = append(kv, cli.KV{Label: "Last check", Value: st.LastPollAt.Local().Format(time.RFC3339)})
	}
	kv = append(kv, cli.KV{Label: "Checks", Value: fmt.Sprintf("%d (%d rollovers)", st.PollCount, st.Rollovers)})
	if !st.LastPollAt.IsZero() && st.LastError == "" {
		sum := st.Summary.Summary
		kv = append(kv,
			cli.KV{Label: "Month", Value: cli.FormatMonth(st.Summary.Month)},
			cli.KV{Label: "Remaining cash", Value: cli.FormatMoney(sum.RemainingCash)},
			cli.KV{Label: "Remaining meal card", Value: cli.FormatMoney(sum.RemainingYK)},
			cli.KV{Label: "Card statement", Value: cli.FormatMoney(sum.CardTotal)},
		)
	}
	if st.LastError != "" {
		kv = append(kv, cli.KV{Label: "Last error", Value: st.LastError})
	}
	fmt.Print(cli.RenderKV(kv))
	return nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	path := daemon.RuntimePath(dbPath())
	rt, err := daemon.ReadRuntime(path)
	if err != nil {
		return err
	}
	if err := daemon.Stop(path, rt, 8*time.Second); err != nil {
		return err
	}
	fmt.Printf("  Stopped daemon (pid %d)\n", rt.PID)
	return nil
}

func openDaemonLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600) //nolint:gosec // path is configured by the local user
	if err != nil {
		return nil, fmt.Errorf("opening daemon log: %w", err)
	}
	return f, nil
}

func withoutDetach(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return out
}
