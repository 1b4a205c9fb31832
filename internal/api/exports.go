package api

import "net/http"

// ─── POST /api/exports/pdf ───────────────────────────────────────────────────

type exportPDFRequest struct {
	HTML string `json:"html"`
}

// handleExportPDF converts report HTML to the best-effort plain-text PDF and
// streams it back. The exporter never propagates its own errors; a nil result
// maps to a 500 here.
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	var req exportPDFRequest
	if !decode(w, r, &req) {
		return
	}
	if req.HTML == "" {
		respondErr(w, http.StatusBadRequest, "html must not be empty")
		return
	}

	out := s.exporter.ToPDF(req.HTML)
	if out == nil {
		respondErr(w, http.StatusInternalServerError, "pdf generation failed")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="report.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}
