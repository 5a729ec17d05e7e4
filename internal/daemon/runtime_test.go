package daemon

import (
	"context"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntimePaths(t *testing.T) {
	assert.Equal(t, "/data/ledger.daemon.json", RuntimePath("/data/ledger.db"))
	assert.Equal(t, "/data/ledger.daemon.log", LogPath("/data/ledger.db"))
}

func TestClaimAndRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "ledger.daemon.json")
	rt := Runtime{PID: os.Getpid(), Addr: "127.0.0.1:8787", DBPath: "/data/ledger.db", StartedAt: time.Now()}

	require.NoError(t, Claim(path, rt))
	got, err := ReadRuntime(path)
	require.NoError(t, err)
	assert.Equal(t, rt.PID, got.PID)
	assert.Equal(t, rt.Addr, got.Addr)

	err = Claim(path, rt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")

	Release(path, rt.PID+1)
	assert.FileExists(t, path, "a foreign pid must not release the record")
	Release(path, rt.PID)
	_, err = ReadRuntime(path)
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestReadRuntime_StaleRecordIsCleared(t *testing.T) {
	done := exec.Command(os.Args[0], "-test.run=^$")
	require.NoError(t, done.Run())

	path := filepath.Join(t.TempDir(), "ledger.daemon.json")
	require.NoError(t, Claim(path, Runtime{PID: done.Process.Pid}))

	_, err := ReadRuntime(path)
	assert.ErrorIs(t, err, ErrNotRunning)
	assert.NoFileExists(t, path)
	assert.NoError(t, Claim(path, Runtime{PID: os.Getpid()}), "a stale record does not block a new daemon")
}

func TestReadRuntime_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.daemon.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	_, err := ReadRuntime(path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotRunning)
}

func TestFetchStatus(t *testing.T) {
	c := &clock{t: time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)}
	svc := newTestService(seeded(t, "2025-06"), c)
	svc.PollOnce()
	srv := httptest.NewServer(svc.Handler())
	defer srv.Close()

	st, err := FetchStatus(context.Background(), strings.TrimPrefix(srv.URL, "http://"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.PollCount)
	assert.Equal(t, "2025-06", st.Summary.Month.String())
	assert.Equal(t, "7000", st.Summary.Summary.RemainingCash.String())
}
