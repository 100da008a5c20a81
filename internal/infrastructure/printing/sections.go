package printing

import (
	"fmt"
	"math"

	"github.com/garage/invoicer/internal/domain/listing"
	"github.com/garage/invoicer/internal/domain/printing"
)

// detailRow is one "Label: value" line. Rows with an empty value are skipped.
type detailRow struct {
	Label string
	Value string
}

func drawSeparator(cv Canvas, cur LayoutCursor) {
	pg := cv.Page()
	cv.Line(pg.Left(), cur.Y, pg.Right(), cur.Y, ColorSeparator, separatorWidth)
}

// closeSection adds the spacing, separator, spacing sequence that ends
// every section
func closeSection(cv Canvas, cur LayoutCursor) LayoutCursor {
	cur = cur.Advance(SectionSpacing)
	drawSeparator(cv, cur)
	return cur.Advance(SectionSpacing)
}

// drawHeading writes a section title and leaves the body font selected
func drawHeading(cv Canvas, cur LayoutCursor, title string) LayoutCursor {
	cv.SetFont(FontBold, SectionHeaderSize)
	cv.SetTextColor(ColorHeading)
	cv.Text(cv.Page().Left(), cur.Y, title)
	cv.SetTextColor(ColorBlack)
	cv.SetFont(FontRegular, BodySize)
	return cur.Advance(headingAdvance)
}

func drawRows(cv Canvas, cur LayoutCursor, rows []detailRow) LayoutCursor {
	left := cv.Page().Left()
	for _, row := range rows {
		if row.Value == "" {
			continue
		}
		cv.Text(left, cur.Y, row.Label+":")
		cv.Text(left+LabelWidth, cur.Y, row.Value)
		cur = cur.Advance(LineHeight)
	}
	return cur
}

func visibleRows(rows []detailRow) int {
	n := 0
	for _, row := range rows {
		if row.Value != "" {
			n++
		}
	}
	return n
}

// drawLogo places the logo at the top margin. Without a logo no space is
// reserved, but the separator and spacing are still drawn.
func drawLogo(cv Canvas, cur LayoutCursor, logo *printing.Image) LayoutCursor {
	if logo != nil {
		cv.Image(logo, cv.Page().Left(), cur.Y, LogoWidth, LogoHeight)
		cur = cur.Advance(LogoHeight + SectionSpacing)
	}
	drawSeparator(cv, cur)
	return cur.Advance(SectionSpacing + 4)
}

func drawHeader(cv Canvas, cur LayoutCursor, l *listing.Listing) LayoutCursor {
	pg := cv.Page()
	cv.SetFont(FontBold, TitleSize)
	cv.SetTextColor(ColorBlack)
	cv.Text(pg.Left(), cur.Y, "INVOICE")

	cv.SetFont(FontRegular, BodySize)
	cv.SetTextColor(ColorMeta)
	meta := fmt.Sprintf("Listing #%s · %s", l.DisplayID(), FormatDate(l.UpdatedAt))
	cv.Text(pg.Right()-cv.TextWidth(meta), cur.Y, meta)
	cv.SetTextColor(ColorBlack)

	cur = cur.Advance(LineHeight + SectionSpacing + 2)
	drawSeparator(cv, cur)
	return cur.Advance(SectionSpacing)
}

func itemDetailRows(l *listing.Listing) []detailRow {
	year := ""
	if l.Age != nil {
		year = listing.FormatNumber(*l.Age)
	}
	return []detailRow{
		{"Listing", l.Title},
		{"Category", l.CategoryName()},
		{"Brand", listing.Deref(l.Brand)},
		{"Year", year},
		{"Delivery", FormatDeliveryMethod(listing.Deref(l.DeliveryMethod))},
		{"Location", l.State()},
	}
}

// drawItemDetails writes the detail rows on the left of a band whose height
// is the larger of the rows and DetailsMinHeight. The primary image sits
// right-aligned in the same band.
func drawItemDetails(cv Canvas, cur LayoutCursor, l *listing.Listing, primary *printing.Image) LayoutCursor {
	rows := itemDetailRows(l)
	blockHeight := math.Max(float64(visibleRows(rows))*LineHeight, DetailsMinHeight)

	cur = drawHeading(cv, cur, "ITEM DETAILS")
	start := cur
	drawRows(cv, cur, rows)

	if primary != nil {
		if w, h, ok := fitImage(primary.AspectRatio(), blockHeight); ok {
			cv.Image(primary, cv.Page().Right()-w, start.Y, w, h)
		}
	}

	return closeSection(cv, start.Advance(blockHeight))
}

// fitImage sizes an image to min(MaxImageHeight, band) high, then narrows
// it to ImageColumnWidth if needed. The binding constraint wins and the
// aspect ratio is kept.
func fitImage(aspect, band float64) (w, h float64, ok bool) {
	if aspect <= 0 || math.IsInf(aspect, 0) || math.IsNaN(aspect) {
		return 0, 0, false
	}
	h = math.Min(MaxImageHeight, band)
	w = h * aspect
	if w > ImageColumnWidth {
		w = ImageColumnWidth
		h = ImageColumnWidth / aspect
	}
	return w, h, true
}

func drawPricing(cv Canvas, cur LayoutCursor, l *listing.Listing) LayoutCursor {
	cur = drawHeading(cv, cur, "PRICING")

	left := cv.Page().Left()
	cv.SetFont(FontBold, SectionHeaderSize)
	cv.Text(left, cur.Y, "Selling Price:")
	cv.Text(left+LabelWidth, cur.Y, FormatCurrencyDefault(l.SellingPrice))
	cur = cur.Advance(LineHeight + 2)

	cv.SetFont(FontRegular, BodySize)
	rows := make([]detailRow, 0, 2)
	if l.AppraisedPrice.Valid {
		rows = append(rows, detailRow{"Appraised Price", FormatCurrencyDefault(l.AppraisedPrice.Decimal)})
	}
	if l.HasEstimatedRange() {
		rows = append(rows, detailRow{"Est. Range",
			FormatCurrencyDefault(l.EstimatedPriceMin.Decimal) + " - " + FormatCurrencyDefault(l.EstimatedPriceMax.Decimal)})
	}
	cur = drawRows(cv, cur, rows)

	return closeSection(cv, cur)
}

func specificationRows(l *listing.Listing) []detailRow {
	var rows []detailRow
	if l.Length != nil || l.Width != nil || l.Height != nil {
		rows = append(rows, detailRow{"Dimensions", FormatDimensions(l.Length, l.Width, l.Height)})
	}
	if l.Weight != nil {
		rows = append(rows, detailRow{"Weight", FormatWeight(*l.Weight)})
	}
	if vin := listing.Deref(l.VIN); vin != "" {
		rows = append(rows, detailRow{"VIN", vin})
	}
	return rows
}

// drawSpecifications is skipped entirely when no specification is present
func drawSpecifications(cv Canvas, cur LayoutCursor, l *listing.Listing) LayoutCursor {
	rows := specificationRows(l)
	if len(rows) == 0 {
		return cur
	}
	cur = drawHeading(cv, cur, "SPECIFICATIONS")
	cur = drawRows(cv, cur, rows)
	return closeSection(cv, cur)
}

// drawAttributes lays attributes out in two columns. The left column takes
// the extra attribute when the count is odd.
func drawAttributes(cv Canvas, cur LayoutCursor, attrs []listing.LabeledAttribute) LayoutCursor {
	if len(attrs) == 0 {
		return cur
	}
	pg := cv.Page()
	colWidth := (pg.ContentWidth() - AttributeColumnGap) / 2
	leftX := pg.Left()
	rightX := leftX + colWidth + AttributeColumnGap

	cur = drawHeading(cv, cur, "KEY ATTRIBUTES")

	mid := (len(attrs) + 1) / 2
	left, right := attrs[:mid], attrs[mid:]
	for i, a := range left {
		rowY := cur.Y + float64(i)*LineHeight
		cv.Text(leftX, rowY, a.Label+":")
		cv.Text(leftX+LabelWidth, rowY, a.Value)
		if i < len(right) {
			cv.Text(rightX, rowY, right[i].Label+":")
			cv.Text(rightX+LabelWidth, rowY, right[i].Value)
		}
	}
	cur = cur.Advance(float64(len(left)) * LineHeight)

	return closeSection(cv, cur)
}

// drawDescription is the only section that flows across pages: a line that
// would cross the bottom margin starts a new page at the top margin.
func drawDescription(cv Canvas, cur LayoutCursor, text string) LayoutCursor {
	if text == "" {
		return cur
	}
	cur = drawHeading(cv, cur, "DESCRIPTION")

	pg := cv.Page()
	cv.SetFont(FontRegular, DescriptionSize)
	for _, line := range wrapText(cv, text, pg.ContentWidth()) {
		if cur.Y+DescriptionLineHeight > pg.Bottom() {
			cv.AddPage()
			cur = LayoutCursor{Y: pg.Top(), Page: cur.Page + 1}
		}
		cv.Text(pg.Left(), cur.Y, line)
		cur = cur.Advance(DescriptionLineHeight)
	}

	return closeSection(cv, cur)
}

func drawFooter(cv Canvas, cur LayoutCursor, id string) LayoutCursor {
	cur = cur.Advance(4)
	drawSeparator(cv, cur)
	cur = cur.Advance(SectionSpacing)

	cv.SetFont(FontRegular, FooterSize)
	cv.SetTextColor(ColorFooter)
	cv.Text(cv.Page().Left(), cur.Y, "Listing ID: "+id)
	cv.SetTextColor(ColorBlack)
	return cur
}
