package printing

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PageText is the plain text of one page, one entry per text line
type PageText struct {
	Number int
	Lines  []string
}

// DocumentText is the extracted text layer of a PDF
type DocumentText struct {
	Pages []PageText
}

// PageCount returns the number of pages
func (d *DocumentText) PageCount() int {
	return len(d.Pages)
}

// Contains reports whether any line of any page contains s
func (d *DocumentText) Contains(s string) bool {
	for _, p := range d.Pages {
		for _, line := range p.Lines {
			if strings.Contains(line, s) {
				return true
			}
		}
	}
	return false
}

// String joins all pages, separating pages with a form feed
func (d *DocumentText) String() string {
	pages := make([]string, 0, len(d.Pages))
	for _, p := range d.Pages {
		pages = append(pages, strings.Join(p.Lines, "\n"))
	}
	return strings.Join(pages, "\n\f\n")
}

// Inspector reads the text layer back out of rendered documents. Only
// embedded text is seen; images are ignored.
type Inspector struct{}

// NewInspector creates a new Inspector
func NewInspector() *Inspector {
	return &Inspector{}
}

// Extract returns the text of every page of data
func (i *Inspector) Extract(data []byte) (*DocumentText, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, NewRenderError(ErrCodeExtractFailed, "failed to open PDF", err)
	}

	fonts := make(map[string]*pdf.Font)
	doc := &DocumentText{}
	for n := 1; n <= r.NumPage(); n++ {
		p := r.Page(n)
		if p.V.IsNull() {
			continue
		}
		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := p.Font(name)
				fonts[name] = &f
			}
		}
		text, err := p.GetPlainText(fonts)
		if err != nil {
			return nil, NewRenderError(ErrCodeExtractFailed, "failed to read page text", err)
		}
		doc.Pages = append(doc.Pages, PageText{Number: n, Lines: splitLines(text)})
	}
	return doc, nil
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
