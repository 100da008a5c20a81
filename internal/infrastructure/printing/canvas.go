package printing

import "github.com/garage/invoicer/internal/domain/printing"

// FontStyle selects the face of the document font
type FontStyle string

const (
	FontRegular FontStyle = ""
	FontBold    FontStyle = "B"
)

// Color is an RGB color with 0-255 components
type Color struct {
	R, G, B int
}

// Colors used by the invoice layout
var (
	ColorBlack     = Color{0, 0, 0}
	ColorHeading   = Color{40, 40, 40}
	ColorMeta      = Color{90, 90, 90}
	ColorFooter    = Color{100, 100, 100}
	ColorSeparator = Color{200, 200, 200}
)

// Canvas is the drawing surface the layout engine writes to. Coordinates are
// millimeters from the top-left corner of the current page; Text places the
// baseline at y.
type Canvas interface {
	// Page returns the size and margins of every page
	Page() printing.PageGeometry
	// SetFont selects the style and point size for subsequent text
	SetFont(style FontStyle, size float64)
	// SetTextColor selects the color for subsequent text
	SetTextColor(c Color)
	// Text draws s with its baseline starting at (x, y)
	Text(x, y float64, s string)
	// TextWidth measures s in the current font
	TextWidth(s string) float64
	// Line draws a straight line of the given color and width
	Line(x1, y1, x2, y2 float64, c Color, width float64)
	// Image draws img scaled into the box at (x, y) with size w x h
	Image(img *printing.Image, x, y, w, h float64)
	// AddPage starts a new page
	AddPage()
	// PageCount returns the number of pages started so far
	PageCount() int
}
