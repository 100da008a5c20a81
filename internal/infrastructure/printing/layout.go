package printing

import (
	"strings"
	"unicode/utf8"

	"github.com/garage/invoicer/internal/domain/listing"
	"github.com/garage/invoicer/internal/domain/printing"
)

// Vertical rhythm and fonts
const (
	LineHeight        = 5.0
	SectionSpacing    = 4.0
	SectionHeaderSize = 11.0
	BodySize          = 9.0
	TitleSize         = 22.0
	FooterSize        = 8.0
	LabelWidth        = 45.0
)

// Column and image geometry
const (
	ImageColumnWidth   = 70.0
	MaxImageHeight     = 50.0
	DetailsMinHeight   = 35.0
	LogoWidth          = 50.0
	LogoHeight         = 12.0
	AttributeColumnGap = 12.0
)

// Description text settings
const (
	DescriptionSize       = 8.0
	DescriptionLineHeight = 3.5
)

const (
	separatorWidth = 0.2
	headingAdvance = LineHeight + 2
)

// LayoutCursor is the vertical write position. Section functions take the
// cursor where they should start and return where the next section starts.
type LayoutCursor struct {
	Y    float64
	Page int
}

// NewLayoutCursor returns the cursor at the top margin of the first page
func NewLayoutCursor(pg printing.PageGeometry) LayoutCursor {
	return LayoutCursor{Y: pg.Top(), Page: 1}
}

// Advance returns the cursor moved down by dy
func (c LayoutCursor) Advance(dy float64) LayoutCursor {
	c.Y += dy
	return c
}

// RenderInput is everything the layout needs. Labels, Logo and Primary are
// optional; a nil image is simply not drawn.
type RenderInput struct {
	Listing *listing.Listing
	Labels  listing.AttributeLabelMap
	Logo    *printing.Image
	Primary *printing.Image
}

// LayoutInvoice draws the whole invoice for in onto cv and returns the
// cursor after the footer. Positions follow the page geometry of cv.
func LayoutInvoice(cv Canvas, in *RenderInput) LayoutCursor {
	l := in.Listing
	cur := NewLayoutCursor(cv.Page())

	cur = drawLogo(cv, cur, in.Logo)
	cur = drawHeader(cv, cur, l)
	cur = drawItemDetails(cv, cur, l, in.Primary)
	cur = drawPricing(cv, cur, l)
	cur = drawSpecifications(cv, cur, l)
	cur = drawAttributes(cv, cur, l.LabeledAttributes(in.Labels))
	cur = drawDescription(cv, cur, listing.Deref(l.Description))
	return drawFooter(cv, cur, l.ID)
}

// wrapText splits text into lines no wider than width in the current font.
// Explicit line breaks are kept, runs of spaces collapse, and a word wider
// than the line is broken between runes.
func wrapText(cv Canvas, text string, width float64) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		current := ""
		for _, word := range words {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if cv.TextWidth(candidate) <= width {
				current = candidate
				continue
			}
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			for cv.TextWidth(word) > width {
				head, tail := splitToWidth(cv, word, width)
				lines = append(lines, head)
				word = tail
			}
			current = word
		}
		lines = append(lines, current)
	}
	return lines
}

// splitToWidth returns the longest prefix of word that fits width (at least
// one rune) and the remainder
func splitToWidth(cv Canvas, word string, width float64) (string, string) {
	cut := 0
	for i := range word {
		if i == 0 {
			continue
		}
		if cv.TextWidth(word[:i]) > width {
			break
		}
		cut = i
	}
	if cut == 0 {
		_, size := utf8.DecodeRuneInString(word)
		cut = size
	}
	return word[:cut], word[cut:]
}
