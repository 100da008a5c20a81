package printing

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/garage/invoicer/internal/domain/listing"
	"github.com/garage/invoicer/internal/domain/printing"
)

func testImage(t *testing.T, format printing.ImageFormat, w, h int) *printing.Image {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 8), G: uint8(y * 8), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if format == printing.ImageFormatPNG {
		require.NoError(t, png.Encode(&buf, img))
	} else {
		require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}))
	}
	return &printing.Image{Format: format, Data: buf.Bytes(), Width: w, Height: h}
}

// fakeListing builds a fully populated listing from a seeded faker
func fakeListing(seed uint64) (*listing.Listing, listing.AttributeLabelMap) {
	f := gofakeit.New(seed)
	categoryID := f.UUID()
	l := &listing.Listing{
		ID:                f.UUID(),
		SecondaryID:       ptr(int64(f.Number(1000, 9999))),
		CategoryID:        &categoryID,
		CreatedAt:         "2024-01-10T08:00:00.000Z",
		UpdatedAt:         "2024-02-20T16:45:00.000Z",
		Title:             f.ProductName(),
		SellingPrice:      decimal.NewFromFloat(f.Price(1000, 250000)).Round(2),
		AppraisedPrice:    decimal.NewNullDecimal(decimal.NewFromInt(int64(f.Number(1000, 250000)))),
		EstimatedPriceMin: decimal.NewNullDecimal(decimal.NewFromInt(1000)),
		EstimatedPriceMax: decimal.NewNullDecimal(decimal.NewFromInt(300000)),
		Brand:             ptr(f.Company()),
		Description:       ptr(f.Paragraph(3, 5, 12, "\n")),
		Age:               ptr(float64(f.Number(0, 40))),
		Length:            ptr(float64(f.Number(100, 400))),
		Width:             ptr(float64(f.Number(60, 120))),
		Weight:            ptr(float64(f.Number(5000, 60000))),
		DeliveryMethod:    ptr("GROUND_LTL"),
		VIN:               ptr(strings.ToUpper(f.LetterN(17))),
		Address:           &listing.Address{State: ptr(f.StateAbr())},
		Category:          &listing.Category{ID: categoryID, Name: f.ProductCategory()},
	}
	labels := listing.AttributeLabelMap{}
	for i := 0; i < 5; i++ {
		id := f.UUID()
		labels[id] = f.ProductFeature()
		l.Attributes = append(l.Attributes, listing.Attribute{
			ID:                  f.UUID(),
			ListingID:           l.ID,
			CategoryAttributeID: id,
			Value:               f.Word(),
		})
	}
	return l, labels
}

func TestPDFRenderer_Render(t *testing.T) {
	renderer := NewPDFRenderer(nil, zaptest.NewLogger(t))
	inspector := NewInspector()

	t.Run("bare listing", func(t *testing.T) {
		doc, err := renderer.Render(context.Background(), &RenderInput{Listing: bareListing()})
		require.NoError(t, err)

		assert.Equal(t, "invoice-3f2a1b4c.pdf", doc.Filename)
		assert.Equal(t, 1, doc.PageCount)
		assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF-")))

		text, err := inspector.Extract(doc.Data)
		require.NoError(t, err)
		assert.Equal(t, 1, text.PageCount())
		assert.True(t, text.Contains("INVOICE"))
		assert.True(t, text.Contains("ITEM DETAILS"))
		assert.True(t, text.Contains("PRICING"))
		assert.True(t, text.Contains("Listing ID: "+testListingID))
		assert.False(t, text.Contains("SPECIFICATIONS"))
		assert.False(t, text.Contains("KEY ATTRIBUTES"))
		assert.False(t, text.Contains("DESCRIPTION"))
	})

	t.Run("full listing with images", func(t *testing.T) {
		l, labels := fakeListing(7)
		doc, err := renderer.Render(context.Background(), &RenderInput{
			Listing: l,
			Labels:  labels,
			Logo:    testImage(t, printing.ImageFormatPNG, 25, 6),
			Primary: testImage(t, printing.ImageFormatJPEG, 32, 24),
		})
		require.NoError(t, err)

		assert.Equal(t, fmt.Sprintf("invoice-%d.pdf", *l.SecondaryID), doc.Filename)

		text, err := inspector.Extract(doc.Data)
		require.NoError(t, err)
		assert.True(t, text.Contains("SPECIFICATIONS"))
		assert.True(t, text.Contains("KEY ATTRIBUTES"))
		assert.True(t, text.Contains("DESCRIPTION"))
		assert.True(t, text.Contains("Ground (LTL)"))
	})

	t.Run("long description paginates", func(t *testing.T) {
		lines := make([]string, 60)
		for i := range lines {
			lines[i] = fmt.Sprintf("Description line %02d", i+1)
		}
		l := bareListing()
		l.Description = ptr(strings.Join(lines, "\n"))

		doc, err := renderer.Render(context.Background(), &RenderInput{Listing: l})
		require.NoError(t, err)
		assert.Equal(t, 2, doc.PageCount)

		text, err := inspector.Extract(doc.Data)
		require.NoError(t, err)
		require.Equal(t, 2, text.PageCount())

		first := strings.Join(text.Pages[0].Lines, "\n")
		second := strings.Join(text.Pages[1].Lines, "\n")
		assert.NotContains(t, first, "Listing ID:")
		assert.Contains(t, second, "Listing ID: "+testListingID)
		assert.Contains(t, second, "Description line 60")
		assert.Less(t, strings.Index(second, "Description line 60"), strings.Index(second, "Listing ID:"))
	})

	t.Run("output is deterministic", func(t *testing.T) {
		l, labels := fakeListing(11)
		in := &RenderInput{
			Listing: l,
			Labels:  labels,
			Logo:    testImage(t, printing.ImageFormatPNG, 25, 6),
			Primary: testImage(t, printing.ImageFormatJPEG, 20, 30),
		}

		a, err := renderer.Render(context.Background(), in)
		require.NoError(t, err)
		b, err := renderer.Render(context.Background(), in)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(a.Data, b.Data))
	})

	t.Run("nil listing", func(t *testing.T) {
		_, err := renderer.Render(context.Background(), &RenderInput{})
		var renderErr *RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, ErrCodeInvalidInput, renderErr.Code)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := renderer.Render(ctx, &RenderInput{Listing: bareListing()})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestInspector_ExtractInvalid(t *testing.T) {
	_, err := NewInspector().Extract([]byte("not a pdf"))
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeExtractFailed, renderErr.Code)
}

func TestNewFpdfCanvas_PageGeometry(t *testing.T) {
	tests := []struct {
		size          printing.PaperSize
		width, height float64
	}{
		{printing.PaperSizeA4, 210, 297},
		{printing.PaperSizeLetter, 215.9, 279.4},
		{printing.PaperSize("A3"), 210, 297},
	}
	for _, tt := range tests {
		t.Run(tt.size.String(), func(t *testing.T) {
			pg := NewFpdfCanvas(FpdfCanvasOptions{PaperSize: tt.size}).Page()
			assert.Equal(t, tt.width, pg.Width)
			assert.Equal(t, tt.height, pg.Height)
			assert.Equal(t, printing.InvoiceMargins(), pg.Margins)
		})
	}
}
