package db

import (
	"context"
	"time"
)

const getOrder = `
SELECT id, type, status, date, total_amount, vendor_id, metadata
FROM orders
WHERE id = $1
`

func (q *Queries) GetOrder(ctx context.Context, id int64) (Order, error) {
	row := q.db.QueryRowContext(ctx, getOrder, id)
	var o Order
	err := row.Scan(
		&o.ID,
		&o.Type,
		&o.Status,
		&o.Date,
		&o.TotalAmount,
		&o.VendorID,
		&o.Metadata,
	)
	return o, err
}

const getVendor = `
SELECT id, name, email
FROM vendors
WHERE id = $1
`

func (q *Queries) GetVendor(ctx context.Context, id int64) (Vendor, error) {
	row := q.db.QueryRowContext(ctx, getVendor, id)
	var v Vendor
	err := row.Scan(&v.ID, &v.Name, &v.Email)
	return v, err
}

const listOrderItems = `
SELECT id, order_id, product_code, product_name, quantity, price, total
FROM order_items
WHERE order_id = $1
ORDER BY product_code
`

func (q *Queries) ListOrderItems(ctx context.Context, orderID int64) ([]OrderItem, error) {
	rows, err := q.db.QueryContext(ctx, listOrderItems, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(
			&it.ID,
			&it.OrderID,
			&it.ProductCode,
			&it.ProductName,
			&it.Quantity,
			&it.Price,
			&it.Total,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

const sumPurchaseTotalsOn = `
SELECT COALESCE(SUM(total_amount), 0)
FROM orders
WHERE type = 'PURCHASE' AND date::date = $1::date
`

// SumPurchaseTotalsOn returns the grand total of all purchase orders dated on
// the given calendar day (zero when there are none).
func (q *Queries) SumPurchaseTotalsOn(ctx context.Context, day time.Time) (float64, error) {
	row := q.db.QueryRowContext(ctx, sumPurchaseTotalsOn, day)
	var sum float64
	err := row.Scan(&sum)
	return sum, err
}
