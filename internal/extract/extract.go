// Package extract derives plain text from uploaded office documents.
//
// Dispatch is by lower-cased extension: pdf, docx, doc, and txt are supported;
// anything else yields empty text plus a logged notice. A failure inside any
// extractor (corrupt file, unsupported internal structure) degrades to empty
// text rather than propagating, so ingestion is never blocked by extraction.
package extract

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cloudwego/eino-ext/components/document/parser/docx"
	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
)

// SupportedExt reports whether ext (without dot, any case) is a file type the
// ingestion pipeline accepts.
func SupportedExt(ext string) bool {
	switch strings.ToLower(ext) {
	case "pdf", "docx", "doc", "txt":
		return true
	default:
		return false
	}
}

// Text extracts plain text from the file at path according to its declared
// extension. It always returns a string: unsupported types and extraction
// failures produce "" and a log entry, never an error.
func Text(ctx context.Context, path, ext string) string {
	var (
		text string
		err  error
	)
	switch strings.ToLower(ext) {
	case "pdf":
		text, err = fromPDF(path)
	case "docx", "doc":
		text, err = fromDocx(ctx, path)
	case "txt":
		text, err = fromTxt(path)
	default:
		log.Info().Str("path", path).Str("ext", ext).Msg("unsupported file type for extraction")
		return ""
	}
	if err != nil {
		log.Warn().Err(err).Str("path", path).Str("ext", ext).Msg("text extraction failed")
		return ""
	}
	return text
}

// fromPDF concatenates per-page text with a trailing newline per page. Pages
// whose text cannot be decoded are skipped.
func fromPDF(path string) (text string, err error) {
	// The pdf library panics on some malformed files; keep that inside the
	// extraction boundary.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf reader panic: %v", rec)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, perr := page.GetPlainText(nil)
		if perr != nil {
			log.Debug().Err(perr).Str("path", path).Int("page", i).Msg("skipping unreadable pdf page")
			continue
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// fromDocx concatenates per-section text with a trailing newline per section.
func fromDocx(ctx context.Context, path string) (string, error) {
	parser, err := docx.NewDocxParser(ctx, &docx.Config{
		ToSections:      true,
		IncludeComments: false,
		IncludeHeaders:  true,
		IncludeFooters:  false,
		IncludeTables:   true,
	})
	if err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	docs, err := parser.Parse(ctx, f)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, d := range docs {
		b.WriteString(d.Content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func fromTxt(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
