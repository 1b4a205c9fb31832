package notify

import (
	"context"
	"fmt"

	"github.com/meridianerp/notify-backend/internal/db"
	"github.com/meridianerp/notify-backend/internal/settings"
)

const timestampLayout = "2006-01-02 03:04 PM"

// SendLowStockAlert renders and broadcasts the low-stock table for the given
// products. Gated by LOW_STOCK_EMAIL_ENABLED: when the flag is off the call
// returns StatusDisabled without rendering anything.
func (d *Dispatcher) SendLowStockAlert(ctx context.Context, products []db.Product) Result {
	if !d.settings.Bool(ctx, settings.KeyLowStockEmailEnabled, d.cfg.LowStockEmailEnabled) {
		d.logger.Info("notify: low-stock emails disabled, skipping")
		return Result{Status: StatusDisabled}
	}

	rows := make([]lowStockRow, len(products))
	for i, p := range products {
		rows[i] = lowStockRow{
			Code:     p.Code,
			Name:     p.Name,
			Stock:    p.StockQuantity,
			MinStock: p.MinStockAlert,
		}
	}

	html, err := render(lowStockTmpl, lowStockContext{
		Products:    rows,
		GeneratedAt: d.now().Format(timestampLayout),
	})
	if err != nil {
		d.logger.Error("notify: low-stock render failed", "error", err)
		return Result{Status: StatusFailed, Err: err}
	}

	return d.Dispatch(ctx, Message{
		// nil To: broadcast to all active users.
		Subject: fmt.Sprintf("🚨 Low Stock Alert - %d Products", len(products)),
		HTML:    html,
	})
}

// SendPurchaseOrderConfirmation renders and broadcasts the confirmation for a
// purchase order. Gated by ORDER_EMAIL_ENABLED.
func (d *Dispatcher) SendPurchaseOrderConfirmation(ctx context.Context, order db.Order, vendor db.Vendor, items []db.OrderItem) Result {
	if !d.settings.Bool(ctx, settings.KeyOrderEmailEnabled, d.cfg.OrderEmailEnabled) {
		d.logger.Info("notify: order emails disabled, skipping", "order_id", order.ID)
		return Result{Status: StatusDisabled}
	}

	rows := make([]orderItemRow, len(items))
	for i, it := range items {
		rows[i] = orderItemRow{
			Code:     it.ProductCode,
			Name:     it.ProductName,
			Quantity: it.Quantity,
			Price:    inr(it.Price),
			Total:    inr(it.Total),
		}
	}

	ref := fmt.Sprintf("PO-%d", order.ID)
	html, err := render(orderTmpl, orderContext{
		OrderRef:   ref,
		VendorName: vendor.Name,
		Date:       order.Date.Format(timestampLayout),
		Status:     order.Status,
		Items:      rows,
		GrandTotal: inr(order.TotalAmount),
	})
	if err != nil {
		d.logger.Error("notify: order render failed", "order_id", order.ID, "error", err)
		return Result{Status: StatusFailed, Err: err}
	}

	return d.Dispatch(ctx, Message{
		Subject: "Purchase Order Confirmed - " + ref,
		HTML:    html,
	})
}

// SendDailySummary computes today's aggregates and broadcasts the metrics
// panel. Gated by DAILY_REPORT_EMAIL_ENABLED.
//
// Unlike the other two builders, an aggregate query failure here is returned
// to the caller rather than folded into the Result: the summary is assembled
// from live data, and sending a report built on partial reads would be worse
// than sending nothing.
func (d *Dispatcher) SendDailySummary(ctx context.Context) (Result, error) {
	if !d.settings.Bool(ctx, settings.KeyDailyReportEmailEnabled, d.cfg.DailyReportEmailEnabled) {
		d.logger.Info("notify: daily report emails disabled, skipping")
		return Result{Status: StatusDisabled}, nil
	}

	today := d.now()

	purchases, err := d.q.SumPurchaseTotalsOn(ctx, today)
	if err != nil {
		return Result{}, fmt.Errorf("notify: sum today's purchases: %w", err)
	}

	lowStock, err := d.q.CountLowStockProducts(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("notify: count low-stock products: %w", err)
	}

	total, err := d.q.CountProducts(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("notify: count products: %w", err)
	}

	html, err := render(dailySummaryTmpl, dailySummaryContext{
		Date:           today.Format("02 January 2006"),
		TodayPurchases: inr(purchases),
		LowStockCount:  lowStock,
		TotalProducts:  total,
		DashboardURL:   d.cfg.BaseURL,
	})
	if err != nil {
		d.logger.Error("notify: daily summary render failed", "error", err)
		return Result{Status: StatusFailed, Err: err}, nil
	}

	return d.Dispatch(ctx, Message{
		Subject: "📊 Daily Report - " + today.Format("02 Jan 2006"),
		HTML:    html,
	}), nil
}
