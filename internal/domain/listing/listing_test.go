package listing

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garage/invoicer/internal/domain/shared"
)

func ptr[T any](v T) *T {
	return &v
}

func TestExtractID(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
		found    bool
	}{
		{"listing url", "https://www.withgarage.com/listing/pumper-3f2a1b4c-5d6e-4f70-8a9b-0c1d2e3f4a5b", "3f2a1b4c-5d6e-4f70-8a9b-0c1d2e3f4a5b", true},
		{"bare id", "3f2a1b4c-5d6e-4f70-8a9b-0c1d2e3f4a5b", "3f2a1b4c-5d6e-4f70-8a9b-0c1d2e3f4a5b", true},
		{"upper case kept as written", "see 3F2A1B4C-5D6E-4F70-8A9B-0C1D2E3F4A5B", "3F2A1B4C-5D6E-4F70-8A9B-0C1D2E3F4A5B", true},
		{"first match wins", "a 11111111-2222-3333-4444-555555555555 b aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee", "11111111-2222-3333-4444-555555555555", true},
		{"query string", "https://x.test/l?id=3f2a1b4c-5d6e-4f70-8a9b-0c1d2e3f4a5b&ref=home", "3f2a1b4c-5d6e-4f70-8a9b-0c1d2e3f4a5b", true},
		{"no uuid", "https://www.withgarage.com/listing/pumper", "", false},
		{"truncated uuid", "3f2a1b4c-5d6e-4f70-8a9b-0c1d2e3f4a5", "", false},
		{"non hex", "3f2a1b4c-5d6e-4f70-8a9b-0c1d2e3f4a5g", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ExtractID(tt.text)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestIsListingID(t *testing.T) {
	tests := []struct {
		id       string
		expected bool
	}{
		{"3f2a1b4c-5d6e-4f70-8a9b-0c1d2e3f4a5b", true},
		{"3F2A1B4C-5D6E-4F70-8A9B-0C1D2E3F4A5B", true},
		{"3f2a1b4c5d6e4f708a9b0c1d2e3f4a5b", false},
		{"{3f2a1b4c-5d6e-4f70-8a9b-0c1d2e3f4a5b}", false},
		{"urn:uuid:3f2a1b4c-5d6e-4f70-8a9b-0c1d2e3f4a5b", false},
		{"pumper-3f2a1b4c-5d6e-4f70-8a9b-0c1d2e3f4a5b", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsListingID(tt.id))
		})
	}
}

func TestAttribute_IsDisplayable(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{"text", "Red", true},
		{"number", "1500", true},
		{"boolean", "true", true},
		{"empty", "", false},
		{"uuid reference", "3fa85f64-5717-4562-b3fc-2c963f66afa6", false},
		{"uuid prefix upper case", "3FA85F64-5717-rest", false},
		{"sentinel", "pumper-engine", false},
		{"sentinel inside text", "pumper-engine v2", true},
		{"hex but too short", "3fa85f6-5717-4562", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Attribute{Value: tt.value}.IsDisplayable())
		})
	}
}

func TestAttribute_DisplayValue(t *testing.T) {
	assert.Equal(t, "Yes", Attribute{Value: "true"}.DisplayValue())
	assert.Equal(t, "No", Attribute{Value: "false"}.DisplayValue())
	assert.Equal(t, "TRUE", Attribute{Value: "TRUE"}.DisplayValue())
	assert.Equal(t, "Diesel", Attribute{Value: "Diesel"}.DisplayValue())
}

func TestListing_LabeledAttributes(t *testing.T) {
	l := &Listing{Attributes: []Attribute{
		{CategoryAttributeID: "a1", Value: "Red"},
		{CategoryAttributeID: "a2", Value: "3fa85f64-5717-4562-b3fc-2c963f66afa6"},
		{CategoryAttributeID: "a3", Value: "true"},
		{CategoryAttributeID: "a4", Value: ""},
		{CategoryAttributeID: "missing", Value: "1500"},
		{CategoryAttributeID: "a5", Value: "pumper-engine"},
	}}
	labels := AttributeLabelMap{"a1": "Color", "a2": "Engine", "a3": "Foam System", "a4": "Notes", "a5": "Pump"}

	assert.Equal(t, []LabeledAttribute{
		{Label: "Color", Value: "Red"},
		{Label: "Foam System", Value: "Yes"},
		{Label: "Attribute", Value: "1500"},
	}, l.LabeledAttributes(labels))

	t.Run("nil labels fall back", func(t *testing.T) {
		got := l.LabeledAttributes(nil)
		require.Len(t, got, 3)
		for _, a := range got {
			assert.Equal(t, "Attribute", a.Label)
		}
	})

	t.Run("no attributes", func(t *testing.T) {
		assert.Empty(t, (&Listing{}).LabeledAttributes(labels))
	})
}

func TestListing_DisplayID(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		secondaryID *int64
		expected    string
	}{
		{"secondary id wins", "3f2a1b4c-5d6e-4f70-8a9b-0c1d2e3f4a5b", ptr(int64(1042)), "1042"},
		{"zero secondary id is present", "3f2a1b4c-5d6e-4f70-8a9b-0c1d2e3f4a5b", ptr(int64(0)), "0"},
		{"prefix of full id", "3f2a1b4c-5d6e-4f70-8a9b-0c1d2e3f4a5b", nil, "3f2a1b4c"},
		{"id exactly eight characters", "abcdefgh", nil, "abcdefgh"},
		{"id shorter than eight characters", "abc", nil, "abc"},
		{"empty id", "", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &Listing{ID: tt.id, SecondaryID: tt.secondaryID}
			assert.Equal(t, tt.expected, l.DisplayID())
			assert.Equal(t, "invoice-"+tt.expected+".pdf", l.InvoiceFilename())
		})
	}
}

func TestListing_CategoryRef(t *testing.T) {
	tests := []struct {
		name       string
		categoryID *string
		category   *Category
		expected   string
	}{
		{"category id", ptr("c1"), &Category{ID: "c2"}, "c1"},
		{"empty category id falls back", ptr(""), &Category{ID: "c2"}, "c2"},
		{"nil category id falls back", nil, &Category{ID: "c2"}, "c2"},
		{"no category", nil, nil, ""},
		{"empty everywhere", ptr(""), nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &Listing{CategoryID: tt.categoryID, Category: tt.category}
			assert.Equal(t, tt.expected, l.CategoryRef())
		})
	}
}

func TestListing_Accessors(t *testing.T) {
	empty := &Listing{}
	assert.Equal(t, "", empty.CategoryName())
	assert.Equal(t, "", empty.State())
	assert.Equal(t, "", empty.PrimaryImageURL())
	assert.False(t, empty.HasEstimatedRange())

	l := &Listing{
		Category:  &Category{Name: "Pumpers"},
		Address:   &Address{State: ptr("TX")},
		ImageURLs: []string{"https://img.test/1.jpg", "https://img.test/2.jpg"},
	}
	assert.Equal(t, "Pumpers", l.CategoryName())
	assert.Equal(t, "TX", l.State())
	assert.Equal(t, "https://img.test/1.jpg", l.PrimaryImageURL())
	assert.Equal(t, "", (&Listing{Address: &Address{}}).State())
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "9", FormatNumber(9))
	assert.Equal(t, "12.5", FormatNumber(12.5))
	assert.Equal(t, "2015", FormatNumber(2015))
}

func TestListing_UnmarshalJSON(t *testing.T) {
	payload := `{
		"id": "3f2a1b4c-5d6e-4f70-8a9b-0c1d2e3f4a5b",
		"listingTitle": "Pumper",
		"sellingPrice": 185000,
		"appraisedPrice": 0,
		"itemAge": 0,
		"imageUrls": ["https://img.test/1.jpg"]
	}`
	var l Listing
	require.NoError(t, json.Unmarshal([]byte(payload), &l))

	assert.Equal(t, "Pumper", l.Title)
	assert.Equal(t, "185000", l.SellingPrice.String())
	assert.True(t, l.AppraisedPrice.Valid)
	assert.True(t, l.AppraisedPrice.Decimal.IsZero())
	assert.False(t, l.EstimatedPriceMin.Valid)
	require.NotNil(t, l.Age)
	assert.Equal(t, 0.0, *l.Age)
	assert.Nil(t, l.Brand)
	assert.Nil(t, l.SecondaryID)
}

func TestFetchError(t *testing.T) {
	tests := []struct {
		name     string
		err      *FetchError
		notFound bool
		code     string
		message  string
	}{
		{"not found", NewHTTPError(http.StatusNotFound), true, shared.CodeListingNotFound, "Failed to fetch listing: 404"},
		{"server error", NewHTTPError(http.StatusInternalServerError), false, shared.CodeListingFetchFailed, "Failed to fetch listing: 500"},
		{"network", NewNetworkError(errors.New("dial tcp")), false, shared.CodeListingUnavailable, "Failed to fetch listing."},
		{"decode", NewDecodeError(errors.New("unexpected EOF")), false, shared.CodeListingDecodeFailed, "Failed to read listing response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.notFound, tt.err.NotFound())
			assert.Equal(t, tt.code, tt.err.Code())
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}

	t.Run("unwrap", func(t *testing.T) {
		cause := errors.New("dial tcp")
		var err error = NewNetworkError(cause)
		assert.ErrorIs(t, err, cause)

		var fetchErr *FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, KindNetwork, fetchErr.Kind)
	})
}
