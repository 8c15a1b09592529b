package sonicdirect

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feedServer serves a fake storefront feed with the given page sizes; any
// page past the end is empty.
func feedServer(t *testing.T, pageSizes ...int) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections/all/products.json", r.URL.Path)

		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		require.NoError(t, err)

		var products []Product
		if page >= 1 && page <= len(pageSizes) {
			for i := 0; i < pageSizes[page-1]; i++ {
				products = append(products, Product{
					ID:     int64(page*1000 + i),
					Title:  fmt.Sprintf("Product %d-%d", page, i),
					Handle: fmt.Sprintf("product-%d-%d", page, i),
					Variants: []Variant{
						{ID: 1, SKU: fmt.Sprintf("SKU-%d-%d", page, i), Price: "199.00", Available: true},
					},
				})
			}
		}

		json.NewEncoder(w).Encode(productsResponse{Products: products})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSource_PagesThroughFeed(t *testing.T) {
	server := feedServer(t, 250, 250, 40)

	client := NewClient(server.URL, 250)
	source := NewSource(client, 3)
	require.NoError(t, source.Open(context.Background()))
	defer source.Close()

	total := 0
	for pageNum := 1; ; pageNum++ {
		page, err := source.NextPage(context.Background())
		require.NoError(t, err)

		if page.RawCount == 0 {
			break
		}

		assert.Empty(t, page.Errors)
		total += len(page.Products)

		// The runner stops on a short page; mirror that here so the test
		// exercises the same stopping rule.
		if page.RawCount < client.PageSize() {
			assert.Equal(t, 3, pageNum)
			break
		}
	}

	assert.Equal(t, 540, total)
}

func TestSource_TagsProductsWithSupplier(t *testing.T) {
	server := feedServer(t, 2)

	source := NewSource(NewClient(server.URL, 250), 77)

	page, err := source.NextPage(context.Background())
	require.NoError(t, err)
	require.Len(t, page.Products, 2)

	for _, p := range page.Products {
		assert.Equal(t, int64(77), p.SupplierID)
	}
}

func TestSource_CollectsTransformErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(productsResponse{Products: []Product{
			{ID: 1, Title: "Good", Handle: "good", Variants: []Variant{{SKU: "G-1", Price: "100.00"}}},
			{ID: 2, Title: "Bad", Handle: "bad", Variants: []Variant{{SKU: "B-1", Price: "call us"}}},
		}})
	}))
	defer server.Close()

	source := NewSource(NewClient(server.URL, 250), 1)

	page, err := source.NextPage(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, page.RawCount, "raw count includes the bad record")
	assert.Len(t, page.Products, 1)
	require.Len(t, page.Errors, 1)
	assert.Contains(t, page.Errors[0].Error(), "invalid price")
}

func TestNewClient_ClampsPageSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, NewClient("", 0).PageSize())
	assert.Equal(t, DefaultPageSize, NewClient("", 9999).PageSize())
	assert.Equal(t, 50, NewClient("", 50).PageSize())
}
