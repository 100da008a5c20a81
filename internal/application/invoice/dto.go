// Package invoice orchestrates invoice generation for marketplace listings.
package invoice

import (
	"github.com/garage/invoicer/internal/domain/listing"
	"github.com/garage/invoicer/internal/domain/printing"
	infra "github.com/garage/invoicer/internal/infrastructure/printing"
)

// SoftStep names a best-effort input of the invoice
type SoftStep string

const (
	StepLabels SoftStep = "labels"
	StepLogo   SoftStep = "logo"
	StepImage  SoftStep = "image"
)

// Result is the outcome of a successful generation
type Result struct {
	Listing  *listing.Listing
	Document *printing.Document
	// Location is where the document was archived, empty without storage
	Location string
	// Degraded lists the best-effort steps that fell back to defaults
	Degraded []SoftStep
}

// DegradedSteps returns Degraded as strings
func (r *Result) DegradedSteps() []string {
	steps := make([]string, len(r.Degraded))
	for i, s := range r.Degraded {
		steps[i] = string(s)
	}
	return steps
}

// IsDegraded reports whether any best-effort step fell back
func (r *Result) IsDegraded() bool {
	return len(r.Degraded) > 0
}

// SummaryRow is a labelled detail of a listing summary
type SummaryRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Summary is the short listing overview shown before or after generating an
// invoice
type Summary struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Price       string       `json:"price"`
	Description string       `json:"description,omitempty"`
	Details     []SummaryRow `json:"details"`
	Filename    string       `json:"filename"`
}

// NewSummary builds the summary of l. Absent values are omitted; a zero age
// is shown.
func NewSummary(l *listing.Listing) *Summary {
	s := &Summary{
		ID:          l.ID,
		Title:       l.Title,
		Price:       infra.FormatCurrency(l.SellingPrice, 0),
		Description: listing.Deref(l.Description),
		Filename:    l.InvoiceFilename(),
	}

	add := func(label, value string) {
		if value != "" {
			s.Details = append(s.Details, SummaryRow{Label: label, Value: value})
		}
	}
	add("Category", l.CategoryName())
	add("Brand", listing.Deref(l.Brand))
	add("VIN", listing.Deref(l.VIN))
	if l.Age != nil {
		add("Age (years)", listing.FormatNumber(*l.Age))
	}
	add("Location", l.State())
	add("Listing ID", l.ID)
	return s
}
