package printing

import (
	"strings"
	"unicode/utf8"

	"github.com/garage/invoicer/internal/domain/printing"
)

// drawOp is one call recorded by recordingCanvas
type drawOp struct {
	Kind  string
	Page  int
	X, Y  float64
	W, H  float64
	Text  string
	Style FontStyle
	Size  float64
	Color Color
}

// recordingCanvas records drawing calls. Text width is a fixed fraction of
// the font size per rune so that layout arithmetic is predictable.
type recordingCanvas struct {
	geom  printing.PageGeometry
	ops   []drawOp
	page  int
	style FontStyle
	size  float64
	color Color
}

var a4 = printing.NewPageGeometry(printing.PaperSizeA4, printing.InvoiceMargins())

func newRecordingCanvas() *recordingCanvas {
	return newSizedRecordingCanvas(printing.PaperSizeA4)
}

func newSizedRecordingCanvas(size printing.PaperSize) *recordingCanvas {
	return &recordingCanvas{
		geom: printing.NewPageGeometry(size, printing.InvoiceMargins()),
		page: 1,
		size: BodySize,
	}
}

func (c *recordingCanvas) Page() printing.PageGeometry {
	return c.geom
}

func (c *recordingCanvas) SetFont(style FontStyle, size float64) {
	c.style, c.size = style, size
}

func (c *recordingCanvas) SetTextColor(col Color) {
	c.color = col
}

func (c *recordingCanvas) Text(x, y float64, s string) {
	c.ops = append(c.ops, drawOp{Kind: "text", Page: c.page, X: x, Y: y, Text: s, Style: c.style, Size: c.size, Color: c.color})
}

func (c *recordingCanvas) TextWidth(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * c.size * 0.2
}

func (c *recordingCanvas) Line(x1, y1, x2, y2 float64, col Color, width float64) {
	c.ops = append(c.ops, drawOp{Kind: "line", Page: c.page, X: x1, Y: y1, W: x2 - x1, Color: col})
}

func (c *recordingCanvas) Image(img *printing.Image, x, y, w, h float64) {
	c.ops = append(c.ops, drawOp{Kind: "image", Page: c.page, X: x, Y: y, W: w, H: h})
}

func (c *recordingCanvas) AddPage() {
	c.page++
}

func (c *recordingCanvas) PageCount() int {
	return c.page
}

func (c *recordingCanvas) texts() []drawOp {
	var out []drawOp
	for _, op := range c.ops {
		if op.Kind == "text" {
			out = append(out, op)
		}
	}
	return out
}

func (c *recordingCanvas) find(text string) (drawOp, bool) {
	for _, op := range c.texts() {
		if op.Text == text {
			return op, true
		}
	}
	return drawOp{}, false
}

func (c *recordingCanvas) findPrefix(prefix string) []drawOp {
	var out []drawOp
	for _, op := range c.texts() {
		if strings.HasPrefix(op.Text, prefix) {
			out = append(out, op)
		}
	}
	return out
}

func (c *recordingCanvas) kind(kind string) []drawOp {
	var out []drawOp
	for _, op := range c.ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Ensure recordingCanvas implements Canvas
var _ Canvas = (*recordingCanvas)(nil)
