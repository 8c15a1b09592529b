package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audioworx/feedsync/internal/models"
)

type fakeStore struct {
	sessions    []*models.SyncSession
	suppliers   []*models.Supplier
	removed     int64
	err         error
	gotLimit    int
	dedupCalled bool
}

func (f *fakeStore) RecentSessions(ctx context.Context, limit int) ([]*models.SyncSession, error) {
	f.gotLimit = limit
	return f.sessions, f.err
}

func (f *fakeStore) Suppliers(ctx context.Context) ([]*models.Supplier, error) {
	return f.suppliers, f.err
}

func (f *fakeStore) DeduplicateProducts(ctx context.Context) (int64, error) {
	f.dedupCalled = true
	return f.removed, f.err
}

func newTestServer(store Store) *httptest.Server {
	handlers := NewHandlers(store, slog.Default())
	return httptest.NewServer(NewRouter(handlers))
}

func TestHealth(t *testing.T) {
	server := newTestServer(&fakeStore{})
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListSessions(t *testing.T) {
	store := &fakeStore{
		sessions: []*models.SyncSession{
			{SupplierID: 1, Status: models.SessionSuccess, ProductsAdded: 12},
		},
	}
	server := newTestServer(store)
	defer server.Close()

	t.Run("default limit", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/sessions")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 20, store.gotLimit)

		var body struct {
			Sessions []*models.SyncSession `json:"sessions"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body.Sessions, 1)
		assert.Equal(t, 12, body.Sessions[0].ProductsAdded)
	})

	t.Run("explicit limit", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/sessions?limit=5")
		require.NoError(t, err)
		resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 5, store.gotLimit)
	})

	t.Run("bad limit", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/sessions?limit=zero")
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestListSuppliers(t *testing.T) {
	store := &fakeStore{
		suppliers: []*models.Supplier{
			{ID: 1, Name: "Esquire", Slug: "esquire", Status: models.SupplierIdle},
			{ID: 9, Name: "Google Merchant", Slug: "google-merchant", IsManual: true},
		},
	}
	server := newTestServer(store)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/suppliers")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Suppliers []*models.Supplier `json:"suppliers"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Suppliers, 2)
	assert.Equal(t, "esquire", body.Suppliers[0].Slug)
}

func TestDeduplicate(t *testing.T) {
	store := &fakeStore{removed: 7}
	server := newTestServer(store)
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/dedup", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, store.dedupCalled)

	var body struct {
		Removed int64 `json:"removed"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(7), body.Removed)
}

func TestStoreErrorsReturn500(t *testing.T) {
	server := newTestServer(&fakeStore{err: errors.New("db down")})
	defer server.Close()

	for _, path := range []string{"/api/sessions", "/api/suppliers"} {
		resp, err := http.Get(server.URL + path)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode, path)
	}
}
