package db

import "context"

const listLowStockProducts = `
SELECT id, code, name, stock_quantity, min_stock_alert
FROM products
WHERE stock_quantity <= min_stock_alert
ORDER BY code
`

// ListLowStockProducts returns every product at or below its minimum stock
// threshold, in code order for a stable email table.
func (q *Queries) ListLowStockProducts(ctx context.Context) ([]Product, error) {
	rows, err := q.db.QueryContext(ctx, listLowStockProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.StockQuantity, &p.MinStockAlert); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

const countLowStockProducts = `
SELECT COUNT(*)
FROM products
WHERE stock_quantity <= min_stock_alert
`

func (q *Queries) CountLowStockProducts(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countLowStockProducts)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countProducts = `
SELECT COUNT(*) FROM products
`

func (q *Queries) CountProducts(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countProducts)
	var count int64
	err := row.Scan(&count)
	return count, err
}
