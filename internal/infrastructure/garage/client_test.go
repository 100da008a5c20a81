package garage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/garage/invoicer/internal/domain/listing"
	"github.com/garage/invoicer/internal/domain/shared"
)

const (
	listingID  = "3f2a1b4c-5d6e-4f70-8a9b-0c1d2e3f4a5b"
	categoryID = "c0ffee00-1111-4222-8333-444455556666"
)

const listingJSON = `{
  "id": "3f2a1b4c-5d6e-4f70-8a9b-0c1d2e3f4a5b",
  "secondaryId": 1042,
  "categoryId": "c0ffee00-1111-4222-8333-444455556666",
  "createdAt": "2024-03-01T10:00:00.000Z",
  "updatedAt": "2024-03-05T14:30:00.000Z",
  "listingTitle": "2015 Pierce Arrow XT Pumper",
  "sellingPrice": 185000,
  "estimatedPriceMin": 170000.5,
  "estimatedPriceMax": null,
  "imageUrls": ["https://cdn.example.com/a.jpg"],
  "itemBrand": "Pierce",
  "itemAge": 0,
  "itemWeight": 42500.5,
  "deliveryMethod": "GROUND_LTL",
  "ListingAttribute": [
    {"id": "la-1", "listingId": "3f2a1b4c-5d6e-4f70-8a9b-0c1d2e3f4a5b", "categoryAttributeId": "a1", "value": "Red"}
  ],
  "address": {"state": "TX"},
  "category": {"id": "c0ffee00-1111-4222-8333-444455556666", "name": "Pumpers", "parentCategoryId": null}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{BaseURL: server.URL, Timeout: 2 * time.Second}, WithLogger(zaptest.NewLogger(t)))
}

func TestClient_FetchListing(t *testing.T) {
	t.Run("decodes the listing", func(t *testing.T) {
		var gotPath, gotUA string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotUA = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(listingJSON))
		})

		l, err := client.FetchListing(context.Background(), listingID)
		require.NoError(t, err)

		assert.Equal(t, "/listings/"+listingID, gotPath)
		assert.Equal(t, "invoicer/1.0", gotUA)
		assert.Equal(t, listingID, l.ID)
		assert.Equal(t, "1042", l.DisplayID())
		assert.Equal(t, "2015 Pierce Arrow XT Pumper", l.Title)
		assert.Equal(t, "185000", l.SellingPrice.String())
		assert.True(t, l.EstimatedPriceMin.Valid)
		assert.False(t, l.EstimatedPriceMax.Valid)
		assert.False(t, l.AppraisedPrice.Valid)
		require.NotNil(t, l.Age)
		assert.Equal(t, 0.0, *l.Age)
		assert.Nil(t, l.Length)
		assert.Equal(t, categoryID, l.CategoryRef())
		assert.Equal(t, "Pumpers", l.CategoryName())
		assert.Equal(t, "TX", l.State())
		require.Len(t, l.Attributes, 1)
		assert.Equal(t, "a1", l.Attributes[0].CategoryAttributeID)
	})

	t.Run("not found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		})

		_, err := client.FetchListing(context.Background(), listingID)
		var fetchErr *listing.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.True(t, fetchErr.NotFound())
		assert.Equal(t, "Failed to fetch listing: 404", err.Error())
		assert.Equal(t, shared.CodeListingNotFound, fetchErr.Code())
	})

	t.Run("server error", func(t *testing.T) {
		calls := 0
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := client.FetchListing(context.Background(), listingID)
		var fetchErr *listing.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, listing.KindHTTP, fetchErr.Kind)
		assert.Equal(t, http.StatusServiceUnavailable, fetchErr.Status)
		assert.Equal(t, 1, calls, "no retries")
	})

	t.Run("malformed body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id": `))
		})

		_, err := client.FetchListing(context.Background(), listingID)
		var fetchErr *listing.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, listing.KindDecode, fetchErr.Kind)
		assert.Equal(t, shared.CodeListingDecodeFailed, fetchErr.Code())
	})

	t.Run("network failure", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()
		client := NewClient(Config{BaseURL: server.URL})

		_, err := client.FetchListing(context.Background(), listingID)
		var fetchErr *listing.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, listing.KindNetwork, fetchErr.Kind)
		assert.Equal(t, "Failed to fetch listing.", err.Error())
	})

	t.Run("cancelled context", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(listingJSON))
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.FetchListing(ctx, listingID)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestClient_FetchCategoryAttributes(t *testing.T) {
	t.Run("builds the label map", func(t *testing.T) {
		var gotPath string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			_, _ = w.Write([]byte(`{"attributes": [{"id": "a1", "label": "Color"}, {"id": "a2", "label": "Pump GPM"}]}`))
		})

		result := client.FetchCategoryAttributes(context.Background(), categoryID)
		assert.False(t, result.Degraded())
		assert.Equal(t, "/categories/"+categoryID+"/attributes", gotPath)
		assert.Equal(t, listing.AttributeLabelMap{"a1": "Color", "a2": "Pump GPM"}, result.Value)
	})

	t.Run("missing attributes key", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		})

		result := client.FetchCategoryAttributes(context.Background(), categoryID)
		assert.False(t, result.Degraded())
		assert.Empty(t, result.Value)
	})

	failures := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"malformed body": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[`))
		},
	}
	for name, handler := range failures {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, handler)

			result := client.FetchCategoryAttributes(context.Background(), categoryID)
			assert.True(t, result.Degraded())
			assert.NotNil(t, result.Value)
			assert.Empty(t, result.Value)
		})
	}

	t.Run("no category", func(t *testing.T) {
		client := NewClient(Config{})
		result := client.FetchCategoryAttributes(context.Background(), "")
		assert.ErrorIs(t, result.Err, ErrNoCategory)
		assert.Empty(t, result.Value)
	})
}
