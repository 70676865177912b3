// Package pdftext extracts plain text from uploaded PDF documents.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoText is returned for documents without extractable text, such as scans.
var ErrNoText = errors.New("no extractable text in PDF")

// Document is the text of a PDF.
type Document struct {
	Pages int
	Text  string
}

// Extract reads every page of the PDF in data. Malformed documents return an
// error instead of panicking.
func Extract(data []byte) (doc Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = Document{}, fmt.Errorf("read pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Document{}, fmt.Errorf("open pdf: %w", err)
	}

	doc.Pages = r.NumPage()
	parts := make([]string, 0, doc.Pages)
	fonts := make(map[string]*pdf.Font)
	for i := 1; i <= doc.Pages; i++ {
		p := r.Page(i)
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
			return Document{}, fmt.Errorf("page %d: %w", i, err)
		}
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
	}

	doc.Text = strings.Join(parts, "\n")
	if doc.Text == "" {
		return doc, ErrNoText
	}
	return doc, nil
}
