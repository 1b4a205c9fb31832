// Package pdf converts report HTML into a best-effort plain-text PDF. It is
// deliberately not a layout engine: markup is stripped, styling, images and
// tables are discarded, and the remaining text is drawn line by line onto A4
// pages. Good enough for an email attachment a warehouse can print.
package pdf

import (
	"bytes"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	fontFamily = "Helvetica"
	fontSize   = 11.0

	marginX    = 40.0  // left edge of every line, points
	marginY    = 50.0  // top offset of the first line and bottom page margin
	lineHeight = 20.0  // vertical advance per line
	maxLineLen = 100   // characters kept per line, no wrapping
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Exporter renders PDFs. It is stateless apart from its logger; a single
// instance is shared by the HTTP layer and the scheduler.
type Exporter struct {
	logger *slog.Logger
}

// New returns an Exporter.
func New(logger *slog.Logger) *Exporter {
	return &Exporter{logger: logger}
}

// ToPDF converts htmlContent to a paginated PDF byte stream. Markup is
// replaced with spaces, whitespace is collapsed, and the text is split on
// ". " as a cheap sentence boundary — one sentence per drawn line, truncated
// to 100 characters. Returns nil if serialization fails; the error never
// propagates past this package.
func (e *Exporter) ToPDF(htmlContent string) []byte {
	out, err := e.generate(htmlContent)
	if err != nil {
		e.logger.Error("pdf: generation failed", "error", err)
		return nil
	}
	return out
}

func (e *Exporter) generate(htmlContent string) (out []byte, err error) {
	// fpdf reports most problems through doc.Error(), but font and encoding
	// edge cases can panic. Fold those into the error return.
	defer func() {
		if p := recover(); p != nil {
			out = nil
			err = fmt.Errorf("pdf: panic during generation: %v", p)
		}
	}()

	text := tagPattern.ReplaceAllString(htmlContent, " ")
	text = strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))

	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()
	doc.SetFont(fontFamily, "", fontSize)

	// Core fonts are cp1252; translate so the currency glyph and similar
	// characters degrade gracefully instead of corrupting the stream.
	tr := doc.UnicodeTranslatorFromDescriptor("")

	_, pageHeight := doc.GetPageSize()
	y := marginY

	for _, line := range strings.Split(text, ". ") {
		if y > pageHeight-marginY {
			doc.AddPage()
			y = marginY
		}
		line = strings.TrimSpace(line)
		if runes := []rune(line); len(runes) > maxLineLen {
			line = string(runes[:maxLineLen])
		}
		doc.Text(marginX, y, tr(line))
		y += lineHeight
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: serialize: %w", err)
	}
	return buf.Bytes(), nil
}
