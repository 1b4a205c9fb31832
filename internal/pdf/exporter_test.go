package pdf

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func newTestExporter() *Exporter {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestToPDF_PlainTextProducesDocument(t *testing.T) {
	e := newTestExporter()

	out := e.ToPDF("Stock report for today. Three items are below threshold. Please reorder soon.")
	if out == nil {
		t.Fatal("expected non-nil output")
	}
	if len(out) == 0 {
		t.Fatal("expected non-empty byte stream")
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("output does not start with PDF header: %q", out[:8])
	}
}

func TestToPDF_StripsMarkup(t *testing.T) {
	e := newTestExporter()

	html := `<h2>⚠️ Low Stock Alert</h2><table><tr><td>P1</td><td>Widget</td></tr></table>`
	out := e.ToPDF(html)
	if out == nil {
		t.Fatal("expected non-nil output for HTML input")
	}
	// Tag text must not survive into the content stream as-is.
	if bytes.Contains(out, []byte("<h2>")) {
		t.Error("markup leaked into the PDF stream")
	}
}

func TestToPDF_LongInputPaginates(t *testing.T) {
	e := newTestExporter()

	// ~200 sentences at 20pt line height overflows several A4 pages.
	input := strings.TrimSuffix(strings.Repeat("This sentence fills one drawn line of the report. ", 200), " ")
	out := e.ToPDF(input)
	if out == nil {
		t.Fatal("expected non-nil output")
	}
	// Every page contributes a /Page object.
	if n := bytes.Count(out, []byte("/Type /Page")); n < 3 {
		t.Errorf("expected multiple pages, found %d page markers", n)
	}
}

func TestToPDF_EmptyInputStillSerializes(t *testing.T) {
	e := newTestExporter()

	out := e.ToPDF("")
	if out == nil {
		t.Fatal("expected a valid (single blank page) document for empty input")
	}
}

func TestToPDF_TruncatesOversizedLines(t *testing.T) {
	e := newTestExporter()

	// A single 500-char sentence must not error — it is cut at 100 chars.
	out := e.ToPDF(strings.Repeat("x", 500))
	if out == nil {
		t.Fatal("expected non-nil output")
	}
}
