package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/meridianerp/notify-backend/internal/db"
	"github.com/meridianerp/notify-backend/internal/notify"
)

// ─── STUBS ────────────────────────────────────────────────────────────────────

type stubQuerier struct {
	db.Querier

	mu       sync.Mutex
	lowStock []db.Product
	scans    int
}

func (q *stubQuerier) ListLowStockProducts(_ context.Context) ([]db.Product, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.scans++
	return q.lowStock, nil
}

func (q *stubQuerier) scanCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.scans
}

type stubNotifier struct {
	mu       sync.Mutex
	alerts   int
	products []db.Product
}

func (n *stubNotifier) SendLowStockAlert(_ context.Context, products []db.Product) notify.Result {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts++
	n.products = products
	return notify.Result{Status: notify.StatusSent, Recipients: 1}
}

func (n *stubNotifier) SendDailySummary(_ context.Context) (notify.Result, error) {
	return notify.Result{Status: notify.StatusSent, Recipients: 1}, nil
}

func (n *stubNotifier) alertCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.alerts
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ─── nextRun ─────────────────────────────────────────────────────────────────

func TestNextRun_BeforeHourFiresSameDay(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	got := nextRun(now, 18)
	want := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestNextRun_AfterHourFiresNextDay(t *testing.T) {
	now := time.Date(2026, 3, 14, 21, 5, 0, 0, time.UTC)

	got := nextRun(now, 18)
	want := time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestNextRun_ExactlyAtHourFiresNextDay(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

	got := nextRun(now, 18)
	want := time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("strictly-after rule: got %v, want %v", got, want)
	}
}

func TestNextRun_PreservesLocation(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, loc)

	got := nextRun(now, 18)
	if got.Location() != loc {
		t.Errorf("location: got %v", got.Location())
	}
}

// ─── CONFIG DEFAULTS ─────────────────────────────────────────────────────────

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.applyDefaults()

	if cfg.DailyReportHour != 18 {
		t.Errorf("daily report hour: got %d", cfg.DailyReportHour)
	}
	if cfg.LowStockScanInterval != 6*time.Hour {
		t.Errorf("scan interval: got %v", cfg.LowStockScanInterval)
	}
	if cfg.DispatchTimeout != 2*time.Minute {
		t.Errorf("dispatch timeout: got %v", cfg.DispatchTimeout)
	}
}

func TestApplyDefaults_OutOfRangeHourResets(t *testing.T) {
	cfg := Config{DailyReportHour: 25}
	cfg.applyDefaults()
	if cfg.DailyReportHour != 18 {
		t.Errorf("got %d", cfg.DailyReportHour)
	}
}

// ─── LOW-STOCK LOOP ──────────────────────────────────────────────────────────

func TestLowStockLoop_DispatchesWhenScanFindsProducts(t *testing.T) {
	q := &stubQuerier{lowStock: []db.Product{{Code: "P1", Name: "Widget"}}}
	n := &stubNotifier{}

	r := NewRunner(q, n, Config{LowStockScanInterval: 10 * time.Millisecond}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Start(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for n.alertCount() == 0 {
		select {
		case <-deadline:
			cancel()
			t.Fatal("no alert dispatched within deadline")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done

	if len(n.products) != 1 || n.products[0].Code != "P1" {
		t.Errorf("dispatched products: %+v", n.products)
	}
}

func TestLowStockLoop_SkipsDispatchOnEmptyScan(t *testing.T) {
	q := &stubQuerier{} // no low-stock rows
	n := &stubNotifier{}

	r := NewRunner(q, n, Config{LowStockScanInterval: 10 * time.Millisecond}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Start(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for q.scanCount() < 2 {
		select {
		case <-deadline:
			cancel()
			t.Fatal("scans did not run within deadline")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done

	if n.alertCount() != 0 {
		t.Errorf("expected no dispatch for empty scans, got %d", n.alertCount())
	}
}

func TestStart_ReturnsAfterCancel(t *testing.T) {
	r := NewRunner(&stubQuerier{}, &stubNotifier{}, Config{}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after context cancellation")
	}
}
