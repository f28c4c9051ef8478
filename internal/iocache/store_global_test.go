package iocache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/huangsam/repometrics/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetManager restores the global manager between tests.
func resetManager(t *testing.T) {
	t.Helper()
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &StoreManager{}
	t.Cleanup(func() {
		CloseStores()
		initOnce = sync.Once{}
		closeOnce = sync.Once{}
		Manager = &StoreManager{}
	})
}

func TestInitStores(t *testing.T) {
	t.Run("sqlite stores", func(t *testing.T) {
		resetManager(t)
		dir := t.TempDir()
		reportPath := filepath.Join(dir, "reports.db")
		runPath := filepath.Join(dir, "runs.db")

		require.NoError(t, InitStores(schema.SQLiteBackend, reportPath, schema.SQLiteBackend, runPath))
		require.NotNil(t, Manager.GetReportStore())
		require.NotNil(t, Manager.GetRunStore())

		CloseStores()
		_, err := os.Stat(reportPath)
		assert.NoError(t, err)
		_, err = os.Stat(runPath)
		assert.NoError(t, err)
	})

	t.Run("idempotent setup", func(t *testing.T) {
		resetManager(t)
		path := filepath.Join(t.TempDir(), "reports.db")

		require.NoError(t, InitStores(schema.SQLiteBackend, path, "", ""))
		first := Manager.GetReportStore()
		require.NoError(t, InitStores(schema.NoneBackend, "", schema.NoneBackend, ""))
		assert.Same(t, first, Manager.GetReportStore())
		assert.Nil(t, Manager.GetRunStore())

		CloseStores()
		CloseStores()
	})

	t.Run("none backends", func(t *testing.T) {
		resetManager(t)
		require.NoError(t, InitStores(schema.NoneBackend, "", schema.NoneBackend, ""))

		status, err := Manager.GetReportStore().GetStatus()
		require.NoError(t, err)
		assert.False(t, status.Connected)
	})

	t.Run("invalid run backend", func(t *testing.T) {
		resetManager(t)
		err := InitStores(schema.NoneBackend, "", "oracle", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to initialize run store")
		assert.Nil(t, Manager.GetReportStore())
	})
}

func TestStoreManagerConcurrency(t *testing.T) {
	resetManager(t)
	require.NoError(t, InitStores(schema.NoneBackend, "", schema.NoneBackend, ""))

	var wg sync.WaitGroup
	for range 20 {
		wg.Go(func() {
			assert.NotNil(t, Manager.GetReportStore())
			assert.NotNil(t, Manager.GetRunStore())
		})
	}
	wg.Wait()
}

func TestClearStores(t *testing.T) {
	t.Run("sqlite removes file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "reports.db")
		store, err := NewReportStore(schema.SQLiteBackend, path)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		require.NoError(t, ClearReports(schema.SQLiteBackend, path, ""))
		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("sqlite missing file", func(t *testing.T) {
		assert.NoError(t, ClearRuns(schema.SQLiteBackend, filepath.Join(t.TempDir(), "nope.db"), ""))
	})

	t.Run("sqlite empty path", func(t *testing.T) {
		assert.Error(t, ClearReports(schema.SQLiteBackend, "", ""))
	})

	t.Run("none backend", func(t *testing.T) {
		assert.NoError(t, ClearRuns(schema.NoneBackend, "", ""))
	})

	t.Run("unsupported backend", func(t *testing.T) {
		err := ClearReports("oracle", "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported backend")
	})
}
