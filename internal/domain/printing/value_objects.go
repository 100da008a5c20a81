package printing

import (
	"crypto/sha256"
	"encoding/hex"
)

// Margins represents the page margins in millimeters
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// InvoiceMargins returns the uniform 20mm margins used by invoices
func InvoiceMargins() Margins {
	return Margins{Top: 20, Right: 20, Bottom: 20, Left: 20}
}

// PageGeometry is a portrait page and its margins in millimeters
type PageGeometry struct {
	Width   float64
	Height  float64
	Margins Margins
}

// NewPageGeometry returns the geometry of size with the given margins
func NewPageGeometry(size PaperSize, m Margins) PageGeometry {
	w, h := size.Dimensions()
	return PageGeometry{Width: w, Height: h, Margins: m}
}

// Left is the x of the left margin
func (g PageGeometry) Left() float64 { return g.Margins.Left }

// Right is the x of the right margin
func (g PageGeometry) Right() float64 { return g.Width - g.Margins.Right }

// Top is the y of the top margin
func (g PageGeometry) Top() float64 { return g.Margins.Top }

// Bottom is the y of the bottom margin
func (g PageGeometry) Bottom() float64 { return g.Height - g.Margins.Bottom }

// ContentWidth is the distance between the left and right margins
func (g PageGeometry) ContentWidth() float64 { return g.Right() - g.Left() }

// Image is a decoded and re-encoded image ready to be embedded in a document.
// Width and Height are the pixel dimensions of the source.
type Image struct {
	Format ImageFormat
	Data   []byte
	Width  int
	Height int
}

// AspectRatio returns width divided by height, or 0 for an empty image
func (i *Image) AspectRatio() float64 {
	if i == nil || i.Height == 0 {
		return 0
	}
	return float64(i.Width) / float64(i.Height)
}

// Key returns a content-derived name for the image. Two images with the
// same bytes share a key, which keeps document output stable.
func (i *Image) Key() string {
	sum := sha256.Sum256(i.Data)
	return hex.EncodeToString(sum[:8])
}

// Document is a finished, named PDF payload
type Document struct {
	Filename  string
	Data      []byte
	PageCount int
}

// Size returns the payload size in bytes
func (d *Document) Size() int64 {
	return int64(len(d.Data))
}
