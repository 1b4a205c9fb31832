// Package scheduler runs the two background loops the ERP relied on cron for:
// the once-a-day summary report and the periodic low-stock scan. It is
// decoupled from the HTTP layer — both layers call the same dispatcher, so a
// manual trigger and a scheduled run behave identically.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/meridianerp/notify-backend/internal/db"
	"github.com/meridianerp/notify-backend/internal/notify"
)

// Notifier is the slice of the dispatcher the scheduler drives.
type Notifier interface {
	SendLowStockAlert(ctx context.Context, products []db.Product) notify.Result
	SendDailySummary(ctx context.Context) (notify.Result, error)
}

// Config holds tuning parameters for the Runner. Zero values get defaults.
type Config struct {
	// DailyReportHour is the local hour (0–23) the summary fires. Default 18.
	DailyReportHour int

	// LowStockScanInterval is how often inventory is scanned for products at
	// or below their threshold. Default 6h.
	LowStockScanInterval time.Duration

	// DispatchTimeout bounds each scheduled dispatch. Default 2m.
	DispatchTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.DailyReportHour <= 0 || c.DailyReportHour > 23 {
		c.DailyReportHour = 18
	}
	if c.LowStockScanInterval <= 0 {
		c.LowStockScanInterval = 6 * time.Hour
	}
	if c.DispatchTimeout <= 0 {
		c.DispatchTimeout = 2 * time.Minute
	}
}

// Runner owns the two loops. Dispatch failures are logged and swallowed —
// a provider outage must not stop the next day's report.
type Runner struct {
	q        db.Querier
	notifier Notifier
	cfg      Config
	logger   *slog.Logger

	wg  sync.WaitGroup
	now func() time.Time
}

// NewRunner constructs a Runner. Call Start() to begin processing.
func NewRunner(q db.Querier, notifier Notifier, cfg Config, logger *slog.Logger) *Runner {
	cfg.applyDefaults()
	return &Runner{
		q:        q,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Start launches both loops and blocks until ctx is cancelled. Call it in a
// goroutine from main:
//
//	go runner.Start(ctx)
func (r *Runner) Start(ctx context.Context) {
	r.logger.Info("scheduler: starting",
		"daily_report_hour", r.cfg.DailyReportHour,
		"low_stock_scan_interval", r.cfg.LowStockScanInterval,
	)

	r.wg.Add(2)
	go r.dailyLoop(ctx)
	go r.lowStockLoop(ctx)

	r.wg.Wait()
	r.logger.Info("scheduler: stopped")
}

// dailyLoop fires the summary once per day at the configured local hour.
func (r *Runner) dailyLoop(ctx context.Context) {
	defer r.wg.Done()

	for {
		next := nextRun(r.now(), r.cfg.DailyReportHour)
		r.logger.Debug("scheduler: next daily summary", "at", next)

		timer := time.NewTimer(next.Sub(r.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		dispatchCtx, cancel := context.WithTimeout(ctx, r.cfg.DispatchTimeout)
		res, err := r.notifier.SendDailySummary(dispatchCtx)
		cancel()

		switch {
		case err != nil:
			r.logger.Error("scheduler: daily summary failed", "error", err)
		case res.Sent():
			r.logger.Info("scheduler: daily summary sent", "recipients", res.Recipients)
		default:
			r.logger.Info("scheduler: daily summary not sent", "status", res.Status)
		}
	}
}

// lowStockLoop scans inventory on the configured interval and broadcasts an
// alert whenever any product sits at or below its minimum threshold.
func (r *Runner) lowStockLoop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.LowStockScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		scanCtx, cancel := context.WithTimeout(ctx, r.cfg.DispatchTimeout)
		products, err := r.q.ListLowStockProducts(scanCtx)
		if err != nil {
			cancel()
			r.logger.Error("scheduler: low-stock scan failed", "error", err)
			continue
		}

		if len(products) == 0 {
			cancel()
			r.logger.Debug("scheduler: no low-stock products")
			continue
		}

		res := r.notifier.SendLowStockAlert(scanCtx, products)
		cancel()
		if res.Sent() {
			r.logger.Info("scheduler: low-stock alert sent",
				"products", len(products),
				"recipients", res.Recipients,
			)
		} else {
			r.logger.Info("scheduler: low-stock alert not sent", "status", res.Status)
		}
	}
}

// nextRun returns the next occurrence of hour o'clock strictly after now, in
// now's location.
func nextRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
