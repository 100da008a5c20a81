// Package printing lays out listing invoices and turns them into PDF bytes.
//
// This package contains:
// - Formatters for money, dates, weights, dimensions and delivery methods
// - The Canvas port and FpdfCanvas, its go-pdf/fpdf implementation
// - The invoice layout engine, built from section functions that thread a
//   LayoutCursor through the page
// - PDFRenderer, which runs the layout on a fresh canvas and emits a Document
// - Inspector, which extracts page text from rendered documents
// - FileSystemStorage, a DocumentStorage that writes invoices to disk
//
// Example usage:
//
//	renderer := NewPDFRenderer(DefaultRendererConfig(), logger)
//	doc, err := renderer.Render(ctx, &RenderInput{
//	    Listing: l,
//	    Labels:  labels,
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Generated %s: %d bytes\n", doc.Filename, doc.Size())
package printing
