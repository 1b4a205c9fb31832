package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meridianerp/notify-backend/internal/db"
	"github.com/meridianerp/notify-backend/internal/notify"
)

// dispatchResponse is the envelope every notification trigger returns. The
// caller gets the full outcome, not a collapsed boolean, so it can tell
// "feature disabled" apart from "provider rejected the send".
type dispatchResponse struct {
	Status     notify.Status `json:"status"`
	Recipients int           `json:"recipients,omitempty"`
	Error      string        `json:"error,omitempty"`
}

func toDispatchResponse(res notify.Result) dispatchResponse {
	out := dispatchResponse{
		Status:     res.Status,
		Recipients: res.Recipients,
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	return out
}

// ─── POST /api/notifications/low-stock ───────────────────────────────────────

// handleLowStockAlert scans inventory for products at or below their minimum
// threshold and broadcasts the alert. The ERP calls this after stock
// movements; the scheduler calls the same dispatcher path periodically.
func (s *Server) handleLowStockAlert(w http.ResponseWriter, r *http.Request) {
	products, err := s.q.ListLowStockProducts(r.Context())
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("list low stock products: %w", err))
		return
	}

	if len(products) == 0 {
		respond(w, http.StatusOK, map[string]string{
			"status": "skipped",
			"reason": "no low stock products",
		})
		return
	}

	res := s.notifier.SendLowStockAlert(r.Context(), products)
	respond(w, http.StatusOK, toDispatchResponse(res))
}

// ─── POST /api/notifications/orders/{orderID} ────────────────────────────────

// handleOrderConfirmation loads a purchase order with its vendor and line
// items and broadcasts the confirmation email.
func (s *Server) handleOrderConfirmation(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		respondErr(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := s.q.GetOrder(r.Context(), orderID)
	if errors.Is(err, sql.ErrNoRows) {
		respondErr(w, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("get order %d: %w", orderID, err))
		return
	}

	if order.Type != db.OrderTypePurchase {
		respondErr(w, http.StatusUnprocessableEntity, "order is not a purchase order")
		return
	}

	var vendor db.Vendor
	if order.VendorID.Valid {
		vendor, err = s.q.GetVendor(r.Context(), order.VendorID.Int64)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			s.respondInternalErr(w, r, fmt.Errorf("get vendor %d: %w", order.VendorID.Int64, err))
			return
		}
	}

	items, err := s.q.ListOrderItems(r.Context(), orderID)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("list order items: %w", err))
		return
	}

	res := s.notifier.SendPurchaseOrderConfirmation(r.Context(), order, vendor, items)
	respond(w, http.StatusOK, toDispatchResponse(res))
}

// ─── POST /api/notifications/daily-summary ───────────────────────────────────

// handleDailySummary triggers the daily metrics report on demand. Aggregate
// query failures surface as a 500 — the summary is never sent from partial
// reads.
func (s *Server) handleDailySummary(w http.ResponseWriter, r *http.Request) {
	res, err := s.notifier.SendDailySummary(r.Context())
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}
	respond(w, http.StatusOK, toDispatchResponse(res))
}
