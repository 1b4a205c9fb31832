package db_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	_ "github.com/lib/pq"

	"github.com/meridianerp/notify-backend/internal/db"
)

// ─── TEST INFRASTRUCTURE ──────────────────────────────────────────────────────

// openTestDB returns a *sql.DB from DATABASE_URL. Skips if the env var is not
// set so the test suite still passes in CI without a Postgres instance.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set — skipping db integration tests")
	}
	pool, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if err := pool.PingContext(context.Background()); err != nil {
		pool.Close()
		t.Fatalf("ping: %v", err)
	}
	t.Cleanup(func() { pool.Close() })
	return pool
}

// ─── GetSetting ──────────────────────────────────────────────────────────────

func TestGetSetting_RoundTrip(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	q := db.New(pool)

	key := "TEST_SETTING_" + t.Name()
	if _, err := pool.ExecContext(ctx,
		"INSERT INTO settings (key, value) VALUES ($1, $2)", key, "hello"); err != nil {
		t.Fatalf("seed setting: %v", err)
	}
	t.Cleanup(func() { _, _ = pool.ExecContext(ctx, "DELETE FROM settings WHERE key=$1", key) })

	s, err := q.GetSetting(ctx, key)
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if s.Value != "hello" {
		t.Errorf("value: got %q", s.Value)
	}
	if s.UpdatedAt.IsZero() {
		t.Error("expected updated_at to be set")
	}
}

func TestGetSetting_MissingKeyReturnsErrNoRows(t *testing.T) {
	pool := openTestDB(t)
	q := db.New(pool)

	_, err := q.GetSetting(context.Background(), "NO_SUCH_KEY_"+t.Name())
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got: %v", err)
	}
}

// ─── ListActiveUserEmails ────────────────────────────────────────────────────

func TestListActiveUserEmails_FiltersAndOrders(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	q := db.New(pool)

	// Oldest first; inactive and blank addresses excluded.
	base := time.Now().Add(-time.Hour)
	seed := []struct {
		email  string
		active bool
		offset time.Duration
	}{
		{"second_" + t.Name() + "@erp.test", true, 10 * time.Minute},
		{"first_" + t.Name() + "@erp.test", true, 0},
		{"inactive_" + t.Name() + "@erp.test", false, 5 * time.Minute},
		{"", true, 1 * time.Minute},
	}
	for _, u := range seed {
		if _, err := pool.ExecContext(ctx,
			"INSERT INTO users (email, is_active, created_at) VALUES ($1, $2, $3)",
			u.email, u.active, base.Add(u.offset)); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	t.Cleanup(func() {
		_, _ = pool.ExecContext(ctx, "DELETE FROM users WHERE email LIKE $1 OR (email = '' AND created_at = $2)",
			"%"+t.Name()+"@erp.test", base.Add(1*time.Minute))
	})

	emails, err := q.ListActiveUserEmails(ctx)
	if err != nil {
		t.Fatalf("ListActiveUserEmails: %v", err)
	}

	var mine []string
	for _, e := range emails {
		if strings.Contains(e, t.Name()) {
			mine = append(mine, e)
		}
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 seeded addresses, got %v", mine)
	}
	if mine[0] != "first_"+t.Name()+"@erp.test" || mine[1] != "second_"+t.Name()+"@erp.test" {
		t.Errorf("order: got %v", mine)
	}
}

// ─── Low-stock scan ──────────────────────────────────────────────────────────

func TestListLowStockProducts_ThresholdIsInclusive(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	q := db.New(pool)

	codes := []string{
		"LOW_" + t.Name(),  // below threshold
		"EDGE_" + t.Name(), // exactly at threshold
		"OK_" + t.Name(),   // above threshold
	}
	rows := []struct {
		code  string
		stock int64
		min   int64
	}{
		{codes[0], 2, 10},
		{codes[1], 10, 10},
		{codes[2], 11, 10},
	}
	for _, r := range rows {
		if _, err := pool.ExecContext(ctx,
			"INSERT INTO products (code, name, stock_quantity, min_stock_alert) VALUES ($1, $2, $3, $4)",
			r.code, "Test "+r.code, r.stock, r.min); err != nil {
			t.Fatalf("seed product: %v", err)
		}
	}
	t.Cleanup(func() {
		for _, c := range codes {
			_, _ = pool.ExecContext(ctx, "DELETE FROM products WHERE code=$1", c)
		}
	})

	products, err := q.ListLowStockProducts(ctx)
	if err != nil {
		t.Fatalf("ListLowStockProducts: %v", err)
	}

	found := map[string]bool{}
	for _, p := range products {
		found[p.Code] = true
	}
	if !found[codes[0]] || !found[codes[1]] {
		t.Errorf("expected both at-and-below-threshold products, got %v", found)
	}
	if found[codes[2]] {
		t.Error("above-threshold product must not be flagged")
	}
}

// ─── SumPurchaseTotalsOn ─────────────────────────────────────────────────────

func TestSumPurchaseTotalsOn_CountsOnlyTodaysPurchases(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	q := db.New(pool)

	day := time.Now()
	seed := []struct {
		typ    string
		date   time.Time
		amount float64
	}{
		{"PURCHASE", day, 100.25},
		{"PURCHASE", day, 50.25},
		{"PURCHASE", day.AddDate(0, 0, -1), 999},
		{"SALES", day, 777},
	}

	var ids []int64
	for _, o := range seed {
		var id int64
		err := pool.QueryRowContext(ctx,
			"INSERT INTO orders (type, status, date, total_amount) VALUES ($1, 'CONFIRMED', $2, $3) RETURNING id",
			o.typ, o.date, o.amount).Scan(&id)
		if err != nil {
			t.Fatalf("seed order: %v", err)
		}
		ids = append(ids, id)
	}
	t.Cleanup(func() {
		for _, id := range ids {
			_, _ = pool.ExecContext(ctx, "DELETE FROM orders WHERE id=$1", id)
		}
	})

	sum, err := q.SumPurchaseTotalsOn(ctx, day)
	if err != nil {
		t.Fatalf("SumPurchaseTotalsOn: %v", err)
	}
	// Other tests may write purchase rows for today, so assert a lower bound.
	if sum < 150.5 {
		t.Errorf("sum: got %v, want at least 150.50", sum)
	}
}

// ─── GetOrder / ListOrderItems ───────────────────────────────────────────────

func TestGetOrder_LoadsHeaderVendorAndItems(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	q := db.New(pool)

	var vendorID int64
	if err := pool.QueryRowContext(ctx,
		"INSERT INTO vendors (name, email) VALUES ($1, $2) RETURNING id",
		"Vendor "+t.Name(), "vendor@erp.test").Scan(&vendorID); err != nil {
		t.Fatalf("seed vendor: %v", err)
	}

	var orderID int64
	if err := pool.QueryRowContext(ctx,
		`INSERT INTO orders (type, status, total_amount, vendor_id, metadata)
		 VALUES ('PURCHASE', 'CONFIRMED', 150.5, $1, '{"source":"test"}') RETURNING id`,
		vendorID).Scan(&orderID); err != nil {
		t.Fatalf("seed order: %v", err)
	}

	if _, err := pool.ExecContext(ctx,
		`INSERT INTO order_items (order_id, product_code, product_name, quantity, price, total)
		 VALUES ($1, 'P1', 'Widget', 5, 30.1, 150.5)`, orderID); err != nil {
		t.Fatalf("seed item: %v", err)
	}

	t.Cleanup(func() {
		_, _ = pool.ExecContext(ctx, "DELETE FROM order_items WHERE order_id=$1", orderID)
		_, _ = pool.ExecContext(ctx, "DELETE FROM orders WHERE id=$1", orderID)
		_, _ = pool.ExecContext(ctx, "DELETE FROM vendors WHERE id=$1", vendorID)
	})

	order, err := q.GetOrder(ctx, orderID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if order.Type != db.OrderTypePurchase || order.TotalAmount != 150.5 {
		t.Errorf("order: %+v", order)
	}
	if !order.Metadata.Valid {
		t.Error("expected metadata JSONB to scan as valid")
	}

	vendor, err := q.GetVendor(ctx, order.VendorID.Int64)
	if err != nil {
		t.Fatalf("GetVendor: %v", err)
	}
	if vendor.Name != "Vendor "+t.Name() {
		t.Errorf("vendor: got %q", vendor.Name)
	}

	items, err := q.ListOrderItems(ctx, orderID)
	if err != nil {
		t.Fatalf("ListOrderItems: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items: got %d", len(items))
	}
	if got := fmt.Sprintf("%s/%d", items[0].ProductCode, items[0].Quantity); got != "P1/5" {
		t.Errorf("item: got %s", got)
	}
}
