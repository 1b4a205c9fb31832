package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

// OrderType distinguishes purchase orders from sales orders. String values
// match the Postgres enum owned by the ERP schema.
type OrderType string

const (
	OrderTypePurchase OrderType = "PURCHASE"
	OrderTypeSales    OrderType = "SALES"
)

// Setting is one key-value configuration row. Values are stored as text;
// boolean settings hold "true"/"false". This service never writes settings.
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// User is the slice of the accounts table this service reads: enough to
// build a broadcast recipient list.
type User struct {
	ID        uuid.UUID
	Email     string
	IsActive  bool
	CreatedAt time.Time
}

// Product mirrors the inventory table columns the notification paths need.
type Product struct {
	ID            int64
	Code          string
	Name          string
	StockQuantity int64
	MinStockAlert int64
}

// Vendor is the supplier a purchase order was placed with.
type Vendor struct {
	ID    int64
	Name  string
	Email sql.NullString
}

// Order is a purchase or sales order header. Metadata is a free-form JSONB
// blob written by the ERP (approval chain, source document refs).
type Order struct {
	ID          int64
	Type        OrderType
	Status      string
	Date        time.Time
	TotalAmount float64
	VendorID    sql.NullInt64
	Metadata    pqtype.NullRawMessage
}

// OrderItem is one line on an order. Product code and name are denormalised
// onto the row by the ERP at order time, so a rename later does not rewrite
// history.
type OrderItem struct {
	ID          uuid.UUID
	OrderID     int64
	ProductCode string
	ProductName string
	Quantity    int64
	Price       float64
	Total       float64
}
