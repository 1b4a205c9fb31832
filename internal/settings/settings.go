// Package settings resolves configuration keys against the ERP's settings
// table with per-key fallback to the static values in config.Config. The
// table is owned by the ERP admin screens — this service only reads it, so a
// flag flipped in the dashboard takes effect on the next notification without
// a restart.
package settings

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strconv"

	"github.com/meridianerp/notify-backend/internal/db"
)

// Keys consumed by this service. The same strings appear in the ERP's admin
// settings screen.
const (
	KeyEnableEmailNotifications = "ENABLE_EMAIL_NOTIFICATIONS"
	KeyResendAPIKey             = "RESEND_API_KEY"
	KeyEmailFrom                = "EMAIL_FROM"
	KeyAdminEmail               = "ADMIN_EMAIL"
	KeyLowStockEmailEnabled     = "LOW_STOCK_EMAIL_ENABLED"
	KeyOrderEmailEnabled        = "ORDER_EMAIL_ENABLED"
	KeyDailyReportEmailEnabled  = "DAILY_REPORT_EMAIL_ENABLED"
)

// Store reads settings rows through a db.Querier. It holds no cache: every
// lookup is one indexed primary-key read, and notifications are infrequent.
type Store struct {
	q      db.Querier
	logger *slog.Logger
}

// New returns a Store backed by q.
func New(q db.Querier, logger *slog.Logger) *Store {
	return &Store{q: q, logger: logger}
}

// String returns the value stored for key, or fallback when no row exists.
// A query failure (connection loss, schema drift) also resolves to fallback —
// a broken settings table must not take notifications down with it.
func (s *Store) String(ctx context.Context, key, fallback string) string {
	row, err := s.q.GetSetting(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback
	}
	if err != nil {
		s.logger.Warn("settings: lookup failed, using default", "key", key, "error", err)
		return fallback
	}
	return row.Value
}

// Bool is String for boolean flags. Unparseable stored values resolve to
// fallback rather than an error, matching the forgiving read-side contract.
func (s *Store) Bool(ctx context.Context, key string, fallback bool) bool {
	row, err := s.q.GetSetting(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback
	}
	if err != nil {
		s.logger.Warn("settings: lookup failed, using default", "key", key, "error", err)
		return fallback
	}
	v, err := strconv.ParseBool(row.Value)
	if err != nil {
		s.logger.Warn("settings: value is not a boolean, using default", "key", key, "value", row.Value)
		return fallback
	}
	return v
}
