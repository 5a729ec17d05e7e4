package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestReadEmptySlot(t *testing.T) {
	st := openTemp(t)
	v, err := st.Read("budget_app_data")
	require.NoError(t, err)
	assert.Nil(t, v)

	ts, err := st.UpdatedAt("budget_app_data")
	require.NoError(t, err)
	assert.True(t, ts.IsZero())
}

func TestWriteKeepsBackups(t *testing.T) {
	st := openTemp(t)
	const key = "budget_app_data"

	require.NoError(t, st.Write(key, []byte(`{"version":6,"income":1}`), 6, "save"))
	require.NoError(t, st.Write(key, []byte(`{"version":6,"income":2}`), 6, "save"))
	require.NoError(t, st.Write(key, []byte(`{"version":6,"income":2}`), 6, "save"))
	require.NoError(t, st.Write(key, []byte(`{"version":6,"income":3}`), 6, "rollover"))

	v, err := st.Read(key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":6,"income":3}`, string(v))

	backups, err := st.Backups(key, 0)
	require.NoError(t, err)
	require.Len(t, backups, 2, "identical writes are not backed up")
	assert.Equal(t, "rollover", backups[0].Reason)
	assert.Nil(t, backups[0].Value)

	full, err := st.Backup(backups[0].ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":6,"income":2}`, string(full.Value))
	assert.Equal(t, 6, full.Version)
	assert.False(t, full.CreatedAt.IsZero())

	_, err = st.Backup(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPrune(t *testing.T) {
	st := openTemp(t)
	const key = "k"
	for i := 0; i < 6; i++ {
		require.NoError(t, st.Write(key, []byte{byte('a' + i)}, 1, "save"))
	}

	n, err := st.Prune(key, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	backups, err := st.Backups(key, 10)
	require.NoError(t, err)
	require.Len(t, backups, 2)
	latest, err := st.Backup(backups[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []byte{'e'}, latest.Value)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Write("k", []byte("v"), 1, "save"))
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = st.Close() }()
	v, err := st.Read("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/tmp/x", "ledger.db"), DefaultPath("/tmp/x"))
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "butce", "ledger.db"), DefaultPath(""))
}
