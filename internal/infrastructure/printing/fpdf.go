package printing

import (
	"bytes"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/garage/invoicer/internal/domain/printing"
)

const fontFamily = "Helvetica"

// FpdfCanvasOptions configures document level properties of an FpdfCanvas
type FpdfCanvasOptions struct {
	PaperSize printing.PaperSize
	Title     string
	Creator   string
	// Timestamp is written as both creation and modification date. A zero
	// value falls back to the Unix epoch so output stays reproducible.
	Timestamp   time.Time
	Compression bool
}

// FpdfCanvas implements Canvas on top of go-pdf/fpdf using the core
// Helvetica font. Text is translated to cp1252 before it reaches the PDF;
// runes outside that code page are replaced.
type FpdfCanvas struct {
	pdf       *fpdf.Fpdf
	page      printing.PageGeometry
	translate func(string) string
}

// NewFpdfCanvas creates a canvas with one empty portrait page
func NewFpdfCanvas(opts FpdfCanvasOptions) *FpdfCanvas {
	size := opts.PaperSize
	if !size.IsValid() {
		size = printing.PaperSizeA4
	}
	pdf := fpdf.New("P", "mm", string(size), "")

	ts := opts.Timestamp
	if ts.IsZero() {
		ts = time.Unix(0, 0).UTC()
	}
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(ts)
	pdf.SetModificationDate(ts)
	pdf.SetCompression(opts.Compression)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	if opts.Creator != "" {
		pdf.SetCreator(opts.Creator, true)
	}

	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont(fontFamily, "", 9)
	pdf.AddPage()

	return &FpdfCanvas{
		pdf:       pdf,
		page:      printing.NewPageGeometry(size, printing.InvoiceMargins()),
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (c *FpdfCanvas) Page() printing.PageGeometry {
	return c.page
}

func (c *FpdfCanvas) SetFont(style FontStyle, size float64) {
	c.pdf.SetFont(fontFamily, string(style), size)
}

func (c *FpdfCanvas) SetTextColor(col Color) {
	c.pdf.SetTextColor(col.R, col.G, col.B)
}

func (c *FpdfCanvas) Text(x, y float64, s string) {
	if s == "" {
		return
	}
	c.pdf.Text(x, y, c.translate(s))
}

func (c *FpdfCanvas) TextWidth(s string) float64 {
	return c.pdf.GetStringWidth(c.translate(s))
}

func (c *FpdfCanvas) Line(x1, y1, x2, y2 float64, col Color, width float64) {
	c.pdf.SetDrawColor(col.R, col.G, col.B)
	c.pdf.SetLineWidth(width)
	c.pdf.Line(x1, y1, x2, y2)
}

// Image registers img under a content-derived name and draws it. Drawing
// the same image twice reuses the embedded object.
func (c *FpdfCanvas) Image(img *printing.Image, x, y, w, h float64) {
	if img == nil || len(img.Data) == 0 {
		return
	}
	opts := fpdf.ImageOptions{ImageType: imageType(img.Format)}
	name := "img-" + img.Key()
	c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
	if c.pdf.Err() {
		return
	}
	c.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
}

func (c *FpdfCanvas) AddPage() {
	c.pdf.AddPage()
}

func (c *FpdfCanvas) PageCount() int {
	return c.pdf.PageCount()
}

// Err returns the first error recorded by the underlying document
func (c *FpdfCanvas) Err() error {
	return c.pdf.Error()
}

// Output closes the document and writes the PDF bytes to w
func (c *FpdfCanvas) Output(w io.Writer) error {
	return c.pdf.Output(w)
}

func imageType(f printing.ImageFormat) string {
	if f == printing.ImageFormatPNG {
		return "PNG"
	}
	return "JPG"
}

// Ensure FpdfCanvas implements Canvas
var _ Canvas = (*FpdfCanvas)(nil)
