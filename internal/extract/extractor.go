// Package extract converts uploaded PDF bytes into plain text under page and
// byte ceilings.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"docsimplifier/internal/models"
)

var (
	// ErrInvalidFormat flags a buffer that is not a parsable PDF.
	ErrInvalidFormat = errors.New("invalid document format")
	// ErrNoExtractableText flags a document with no text runs at all, such as
	// a pure image scan.
	ErrNoExtractableText = errors.New("no extractable text")
)

// Extractor parses PDF documents. The zero value is usable; New exists for
// symmetry with the other components.
type Extractor struct{}

// New creates an Extractor.
func New() *Extractor { return &Extractor{} }

// Extract parses data as a PDF and concatenates the text of the first
// min(totalPages, pageCeiling) pages, stopping once textByteCeiling bytes have
// been accumulated. A fault on a single page is contained: that page
// contributes empty text and extraction continues.
func (e *Extractor) Extract(data []byte, pageCeiling, textByteCeiling int) (*models.ExtractedText, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document buffer", ErrInvalidFormat)
	}

	totalPages, err := pageCount(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if totalPages == 0 {
		return nil, fmt.Errorf("%w: document has no pages", ErrNoExtractableText)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	pagesProcessed := min(totalPages, pageCeiling)
	if totalPages > pageCeiling {
		slog.Warn("Document exceeds page ceiling; processing a prefix.",
			"totalPages", totalPages, "pageCeiling", pageCeiling)
	}

	var (
		text        strings.Builder
		pageTexts   []string
		byteLimited bool
	)
	for i := 1; i <= pagesProcessed && i <= reader.NumPage(); i++ {
		pageText, err := readPage(reader, i)
		if err != nil {
			slog.Warn("Could not read page; skipping.", "page", i, "error", err)
			pageTexts = append(pageTexts, "")
			continue
		}
		pageText += "\n"

		remaining := textByteCeiling - text.Len()
		if len(pageText) >= remaining {
			pageText = pageText[:remaining]
			byteLimited = true
		}
		text.WriteString(pageText)
		pageTexts = append(pageTexts, pageText)
		if byteLimited {
			slog.Warn("Text byte ceiling reached; truncating extraction.",
				"page", i, "textByteCeiling", textByteCeiling)
			break
		}
	}

	if strings.TrimSpace(text.String()) == "" {
		return nil, fmt.Errorf("%w: document appears empty or contains only images", ErrNoExtractableText)
	}

	return &models.ExtractedText{
		PageTexts:      pageTexts,
		Text:           text.String(),
		PagesProcessed: pagesProcessed,
		TotalPages:     totalPages,
		Truncated:      totalPages > pageCeiling || byteLimited,
	}, nil
}

// pageCount validates the buffer as a PDF and returns its page count. Relaxed
// validation accepts the slightly malformed files real uploads tend to be.
func pageCount(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return api.PageCount(bytes.NewReader(data), conf)
}

// readPage extracts the plain text of one page. The underlying parser can
// panic on malformed page trees; the recover here is what guarantees a single
// bad page never aborts the document.
func readPage(reader *pdf.Reader, pageNum int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("page parser fault: %v", rec)
		}
	}()
	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}
