package db

import (
	"context"
	"time"
)

// Querier is the query surface the rest of the service depends on. *Queries
// implements it against Postgres; tests implement it with in-memory stubs.
type Querier interface {
	// Settings
	GetSetting(ctx context.Context, key string) (Setting, error)

	// Users
	ListActiveUserEmails(ctx context.Context) ([]string, error)

	// Products
	ListLowStockProducts(ctx context.Context) ([]Product, error)
	CountLowStockProducts(ctx context.Context) (int64, error)
	CountProducts(ctx context.Context) (int64, error)

	// Orders
	GetOrder(ctx context.Context, id int64) (Order, error)
	GetVendor(ctx context.Context, id int64) (Vendor, error)
	ListOrderItems(ctx context.Context, orderID int64) ([]OrderItem, error)
	SumPurchaseTotalsOn(ctx context.Context, day time.Time) (float64, error)
}

var _ Querier = (*Queries)(nil)
