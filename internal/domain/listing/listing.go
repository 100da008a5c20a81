package listing

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Listing is a read-only snapshot of a marketplace item as returned by the
// listings API. Optional fields are pointers (or NullDecimal) so that an
// absent value is never confused with zero.
type Listing struct {
	ID                string              `json:"id"`
	SecondaryID       *int64              `json:"secondaryId,omitempty"`
	CategoryID        *string             `json:"categoryId,omitempty"`
	CreatedAt         string              `json:"createdAt"`
	UpdatedAt         string              `json:"updatedAt"`
	Title             string              `json:"listingTitle"`
	SellingPrice      decimal.Decimal     `json:"sellingPrice"`
	EstimatedPriceMin decimal.NullDecimal `json:"estimatedPriceMin"`
	EstimatedPriceMax decimal.NullDecimal `json:"estimatedPriceMax"`
	AppraisedPrice    decimal.NullDecimal `json:"appraisedPrice"`
	ImageURLs         []string            `json:"imageUrls"`
	Brand             *string             `json:"itemBrand,omitempty"`
	Description       *string             `json:"listingDescription,omitempty"`
	Age               *float64            `json:"itemAge,omitempty"`
	Length            *float64            `json:"itemLength,omitempty"`
	Width             *float64            `json:"itemWidth,omitempty"`
	Height            *float64            `json:"itemHeight,omitempty"`
	Weight            *float64            `json:"itemWeight,omitempty"`
	DeliveryMethod    *string             `json:"deliveryMethod,omitempty"`
	VIN               *string             `json:"vin,omitempty"`
	Attributes        []Attribute         `json:"ListingAttribute,omitempty"`
	Address           *Address            `json:"address,omitempty"`
	Category          *Category           `json:"category,omitempty"`
}

// Attribute is a key/value pair attached to a listing. CategoryAttributeID
// references a label defined on the listing's category.
type Attribute struct {
	ID                  string `json:"id"`
	CreatedAt           string `json:"createdAt"`
	UpdatedAt           string `json:"updatedAt"`
	ListingID           string `json:"listingId"`
	CategoryAttributeID string `json:"categoryAttributeId"`
	Value               string `json:"value"`
}

// Category is the category node a listing belongs to. The parent reference
// is carried but never traversed.
type Category struct {
	ID               string  `json:"id"`
	CreatedAt        string  `json:"createdAt"`
	UpdatedAt        string  `json:"updatedAt"`
	Name             string  `json:"name"`
	Description      *string `json:"description,omitempty"`
	ImageURL         *string `json:"imageUrl,omitempty"`
	Slug             *string `json:"slug,omitempty"`
	ParentCategoryID *string `json:"parentCategoryId,omitempty"`
}

// Address holds the coarse location of a listing
type Address struct {
	State *string `json:"state,omitempty"`
}

// shortIDLength is the number of identifier characters used when a listing
// has no secondary id
const shortIDLength = 8

// DisplayID returns the short display identifier: the secondary id when
// present, otherwise the first eight characters of the full identifier.
func (l *Listing) DisplayID() string {
	if l.SecondaryID != nil {
		return strconv.FormatInt(*l.SecondaryID, 10)
	}
	if len(l.ID) <= shortIDLength {
		return l.ID
	}
	return l.ID[:shortIDLength]
}

// InvoiceFilename returns the file name of the invoice document for l
func (l *Listing) InvoiceFilename() string {
	return "invoice-" + l.DisplayID() + ".pdf"
}

// CategoryRef returns the category identifier used to look up attribute
// labels, or "" when the listing has no category.
func (l *Listing) CategoryRef() string {
	if l.CategoryID != nil && *l.CategoryID != "" {
		return *l.CategoryID
	}
	if l.Category != nil {
		return l.Category.ID
	}
	return ""
}

// CategoryName returns the category name or ""
func (l *Listing) CategoryName() string {
	if l.Category == nil {
		return ""
	}
	return l.Category.Name
}

// State returns the address state or ""
func (l *Listing) State() string {
	if l.Address == nil {
		return ""
	}
	return Deref(l.Address.State)
}

// PrimaryImageURL returns the first image URL, or "" when there is none
func (l *Listing) PrimaryImageURL() string {
	if len(l.ImageURLs) == 0 {
		return ""
	}
	return l.ImageURLs[0]
}

// HasEstimatedRange reports whether both range bounds are present
func (l *Listing) HasEstimatedRange() bool {
	return l.EstimatedPriceMin.Valid && l.EstimatedPriceMax.Valid
}

// Deref returns the pointed-to string or ""
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// FormatNumber renders a plain number the way the listing UI prints raw
// numeric fields: shortest representation, no grouping.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
