package extractor

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFPage is the plain text of one page. Err is set when the page could not
// be decoded.
type PDFPage struct {
	Number int
	Text   string
	Err    error
}

// ReadPDFPages decodes every non-empty page of the document in order.
// Per-page failures are reported on the page, not returned.
func ReadPDFPages(data []byte) ([]PDFPage, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF reader: %w", err)
	}

	pages := make([]PDFPage, 0, r.NumPage())
	for n := 1; n <= r.NumPage(); n++ {
		p := r.Page(n)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		pages = append(pages, PDFPage{Number: n, Text: text, Err: err})
	}
	return pages, nil
}
