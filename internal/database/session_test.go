package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audioworx/feedsync/internal/models"
)

func TestSyncSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	defer db.Close()

	session, err := db.StartSession(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.SessionRunning, session.Status)
	assert.False(t, session.StartedAt.IsZero())
	assert.Nil(t, session.FinishedAt)

	session.Status = models.SessionSuccess
	session.ProductsAdded = 12
	session.ProductsUpdated = 30
	session.Warnings = []string{"page 4 fetch failed, pagination ended early: timeout"}

	require.NoError(t, db.FinalizeSession(ctx, session))
	require.NotNil(t, session.FinishedAt)

	t.Run("finalize is one-shot", func(t *testing.T) {
		err := db.FinalizeSession(ctx, session)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already finalized")
	})

	t.Run("recent sessions returns it", func(t *testing.T) {
		sessions, err := db.RecentSessions(ctx, 10)
		require.NoError(t, err)
		require.NotEmpty(t, sessions)

		found := false
		for _, s := range sessions {
			if s.ID == session.ID {
				found = true
				assert.Equal(t, 12, s.ProductsAdded)
				assert.Equal(t, session.Warnings, s.Warnings)
			}
		}
		assert.True(t, found)
	})
}

func TestSupplierStatus(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	defer db.Close()

	supplier, err := db.SupplierBySlug(ctx, "esquire")
	require.NoError(t, err)

	require.NoError(t, db.SetSupplierStatus(ctx, supplier.ID, models.SupplierRunning, ""))

	require.NoError(t, db.MarkSyncResult(ctx, supplier.ID, models.SupplierError, "login failed"))

	got, err := db.SupplierBySlug(ctx, "esquire")
	require.NoError(t, err)
	assert.Equal(t, models.SupplierError, got.Status)
	assert.Equal(t, "login failed", got.LastError)
	assert.NotNil(t, got.LastSyncAt)
}

func TestSupplierBySlug_Missing(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.SupplierBySlug(ctx, "no-such-supplier")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}
