package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// ErrNotRunning is returned when no live daemon owns a runtime file.
var ErrNotRunning = errors.New("daemon is not running")

// Runtime is the record a running daemon keeps next to its ledger so
// that status and stop can find it.
type Runtime struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	Schedule  string    `json:"schedule"`
	StartedAt time.Time `json:"started_at"`
	DBPath    string    `json:"db_path"`
	LogFile   string    `json:"log_file,omitempty"`
}

// RuntimePath is the runtime file for the ledger at dbPath:
// ledger.db keeps its record in ledger.daemon.json.
func RuntimePath(dbPath string) string {
	return strings.TrimSuffix(dbPath, filepath.Ext(dbPath)) + ".daemon.json"
}

// LogPath is the default detached-mode log file for the ledger at dbPath.
func LogPath(dbPath string) string {
	return strings.TrimSuffix(dbPath, filepath.Ext(dbPath)) + ".daemon.log"
}

// ReadRuntime loads the record at path. A missing file, or one left by a
// process that has exited, reads as ErrNotRunning; the stale file is removed.
func ReadRuntime(path string) (Runtime, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is derived from the user's ledger
	if errors.Is(err, os.ErrNotExist) {
		return Runtime{}, ErrNotRunning
	}
	if err != nil {
		return Runtime{}, err
	}
	var rt Runtime
	if err := json.Unmarshal(data, &rt); err != nil || rt.PID <= 0 {
		return Runtime{}, fmt.Errorf("malformed daemon runtime file %s", path)
	}
	if !Alive(rt.PID) {
		_ = os.Remove(path)
		return Runtime{}, ErrNotRunning
	}
	return rt, nil
}

// Claim records rt at path unless a live daemon already owns it.
func Claim(path string, rt Runtime) error {
	prev, err := ReadRuntime(path)
	switch {
	case err == nil:
		return fmt.Errorf("daemon already running for %s (pid %d)", prev.DBPath, prev.PID)
	case !errors.Is(err, ErrNotRunning):
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating runtime dir: %w", err)
	}
	data, err := json.MarshalIndent(rt, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

// Release removes the record at path if it still belongs to pid.
func Release(path string, pid int) {
	data, err := os.ReadFile(path) //nolint:gosec // path is derived from the user's ledger
	if err != nil {
		return
	}
	var rt Runtime
	if json.Unmarshal(data, &rt) == nil && rt.PID == pid {
		_ = os.Remove(path)
	}
}

// Alive reports whether a process with the given pid exists.
func Alive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

// Stop sends SIGTERM to the daemon recorded in rt and waits up to timeout
// for it to exit.
func Stop(path string, rt Runtime, timeout time.Duration) error {
	proc, err := os.FindProcess(rt.PID)
	if err != nil {
		return fmt.Errorf("finding daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signaling daemon: %w", err)
	}
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !Alive(rt.PID) {
			Release(path, rt.PID)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}
	return fmt.Errorf("daemon (pid %d) did not exit in time", rt.PID)
}

// FetchStatus reads /v1/status from a daemon listening on addr.
func FetchStatus(ctx context.Context, addr string) (Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/v1/status", nil)
	if err != nil {
		return Status{}, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return Status{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Status{}, fmt.Errorf("status endpoint returned HTTP %d", resp.StatusCode)
	}
	var st Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return Status{}, fmt.Errorf("decoding status: %w", err)
	}
	return st, nil
}
