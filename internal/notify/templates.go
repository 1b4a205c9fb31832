package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

// Report bodies are rendered through html/template with typed context
// structs. Monetary values are pre-formatted into strings here so the
// templates stay free of formatting logic; everything else is escaped by the
// template engine.

// inr formats a monetary value with the currency glyph and two decimals.
func inr(v float64) string {
	return fmt.Sprintf("₹%.2f", v)
}

// ─── LOW STOCK ALERT ─────────────────────────────────────────────────────────

type lowStockRow struct {
	Code     string
	Name     string
	Stock    int64
	MinStock int64
}

type lowStockContext struct {
	Products    []lowStockRow
	GeneratedAt string // "2006-01-02 03:04 PM"
}

var lowStockTmpl = template.Must(template.New("low_stock").Parse(`
<h2>⚠️ Low Stock Alert - ERP System</h2>
<p>The following products are running low on stock:</p>
<table border="1" cellpadding="10" style="border-collapse: collapse;">
    <thead style="background-color: #f8d7da;">
        <tr>
            <th>Product Code</th>
            <th>Product Name</th>
            <th>Current Stock</th>
            <th>Minimum Required</th>
        </tr>
    </thead>
    <tbody>
    {{- range .Products}}
        <tr>
            <td>{{.Code}}</td>
            <td>{{.Name}}</td>
            <td style="color: red; font-weight: bold;">{{.Stock}}</td>
            <td>{{.MinStock}}</td>
        </tr>
    {{- end}}
    </tbody>
</table>
<p><strong>Action Required:</strong> Please reorder these items to maintain inventory levels.</p>
<p style="color: #666; font-size: 12px;">Generated on: {{.GeneratedAt}}</p>
`))

// ─── PURCHASE ORDER CONFIRMATION ─────────────────────────────────────────────

type orderItemRow struct {
	Code     string
	Name     string
	Quantity int64
	Price    string // "₹%.2f"
	Total    string // "₹%.2f"
}

type orderContext struct {
	OrderRef   string // "PO-42"
	VendorName string
	Date       string // "2006-01-02 03:04 PM"
	Status     string
	Items      []orderItemRow
	GrandTotal string // "₹%.2f"
}

var orderTmpl = template.Must(template.New("purchase_order").Parse(`
<h2>✅ Purchase Order Confirmation</h2>
<p><strong>Order ID:</strong> {{.OrderRef}}</p>
<p><strong>Vendor:</strong> {{.VendorName}}</p>
<p><strong>Date:</strong> {{.Date}}</p>
<p><strong>Status:</strong> <span style="background-color: #28a745; color: white; padding: 4px 8px; border-radius: 4px;">{{.Status}}</span></p>

<h3>Order Items</h3>
<table border="1" cellpadding="10" style="border-collapse: collapse; width: 100%;">
    <thead style="background-color: #007bff; color: white;">
        <tr>
            <th>Code</th>
            <th>Product</th>
            <th>Quantity</th>
            <th>Price</th>
            <th>Total</th>
        </tr>
    </thead>
    <tbody>
    {{- range .Items}}
        <tr>
            <td>{{.Code}}</td>
            <td>{{.Name}}</td>
            <td>{{.Quantity}}</td>
            <td>{{.Price}}</td>
            <td>{{.Total}}</td>
        </tr>
    {{- end}}
    </tbody>
    <tfoot>
        <tr style="background-color: #f0f0f0; font-weight: bold;">
            <td colspan="4" align="right">Grand Total:</td>
            <td>{{.GrandTotal}}</td>
        </tr>
    </tfoot>
</table>

<p style="margin-top: 20px;"><strong>✅ Stock has been automatically updated.</strong></p>
<p style="color: #666; font-size: 12px;">This is an automated notification from ERP System.</p>
`))

// ─── DAILY SUMMARY ───────────────────────────────────────────────────────────

type dailySummaryContext struct {
	Date           string // "02 January 2006"
	TodayPurchases string // "₹%.2f"
	LowStockCount  int64
	TotalProducts  int64
	DashboardURL   string
}

var dailySummaryTmpl = template.Must(template.New("daily_summary").Parse(`
<h2>📊 Daily Summary Report - {{.Date}}</h2>

<div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3>Key Metrics</h3>
    <table style="width: 100%;">
        <tr>
            <td style="padding: 10px;">
                <strong>🛒 Today's Purchases:</strong>
            </td>
            <td style="padding: 10px; text-align: right; font-size: 20px; color: #ffc107;">
                {{.TodayPurchases}}
            </td>
        </tr>
        <tr>
            <td style="padding: 10px;">
                <strong>⚠️ Low Stock Items:</strong>
            </td>
            <td style="padding: 10px; text-align: right; font-size: 20px; color: #dc3545;">
                {{.LowStockCount}}
            </td>
        </tr>
        <tr>
            <td style="padding: 10px;">
                <strong>📦 Total Products:</strong>
            </td>
            <td style="padding: 10px; text-align: right; font-size: 20px; color: #007bff;">
                {{.TotalProducts}}
            </td>
        </tr>
    </table>
</div>

<p><strong>Access your ERP Dashboard:</strong> <a href="{{.DashboardURL}}">Login to ERP</a></p>
<p style="color: #666; font-size: 12px;">This is an automated daily report from your ERP System.</p>
`))

// render executes tmpl with ctx and returns the HTML string.
func render(tmpl *template.Template, ctx any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("notify: render %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
