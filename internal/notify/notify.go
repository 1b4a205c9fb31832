// Package notify is the notification dispatcher for the ERP: it renders the
// HTML reports (low-stock alert, purchase-order confirmation, daily summary)
// and delivers them through the email provider.
//
// Delivery is fire-and-forget. Every failure mode short of a report-assembly
// query error degrades to "no email sent" plus a log line — callers never see
// a panic or an error from the delivery path, only a Result explaining what
// happened.
package notify

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/meridianerp/notify-backend/internal/db"
	"github.com/meridianerp/notify-backend/internal/email"
	"github.com/meridianerp/notify-backend/internal/settings"
)

// sandboxSender is Resend's onboarding identity. A sandbox account can only
// deliver to its single verified address — broadcasting through it fails the
// whole request, so the dispatcher narrows the audience instead.
const sandboxSender = "onboarding@resend.dev"

// Config carries the static defaults the dispatcher falls back to when the
// settings table has no row for a key. Populated from config.Config in main.
type Config struct {
	EnableEmailNotifications bool
	LowStockEmailEnabled     bool
	OrderEmailEnabled        bool
	DailyReportEmailEnabled  bool
	AdminEmail               string
	BaseURL                  string // dashboard link in the daily summary
}

// ─── RESULT ──────────────────────────────────────────────────────────────────

// Status says what became of a dispatch attempt. Collapsing these to a bool
// hides the difference between "feature is off" and "provider rejected the
// send" — callers and tests need to tell them apart.
type Status string

const (
	// StatusSent — the provider accepted exactly one API call.
	StatusSent Status = "sent"
	// StatusDisabled — a feature flag short-circuited the send. Not an error.
	StatusDisabled Status = "disabled"
	// StatusNoRecipients — resolution produced an empty list; nothing was sent.
	StatusNoRecipients Status = "no_recipients"
	// StatusFailed — the provider call failed (network, auth, or validation).
	StatusFailed Status = "failed"
)

// Result is the outcome of one dispatch. Err is set only for StatusFailed.
type Result struct {
	Status     Status
	Recipients int // number of addresses the provider call targeted
	Err        error
}

// Sent reports whether an email actually went out.
func (r Result) Sent() bool { return r.Status == StatusSent }

// ─── DISPATCHER ──────────────────────────────────────────────────────────────

// Message is one dispatch request. A nil/empty To triggers broadcast
// resolution to all active users.
type Message struct {
	To          []string
	Subject     string
	HTML        string
	Attachments []email.Attachment
}

// Dispatcher composes the recipient resolver, the report renderers, and the
// delivery gateway. It reads the ERP database and settings table and holds an
// immutable email.Sender — no per-call credential mutation.
type Dispatcher struct {
	q        db.Querier
	settings *settings.Store
	sender   email.Sender
	cfg      Config
	logger   *slog.Logger

	// now is swapped out in tests for deterministic timestamps and
	// daily-summary date boundaries.
	now func() time.Time
}

// New constructs a Dispatcher.
func New(q db.Querier, st *settings.Store, sender email.Sender, cfg Config, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		q:        q,
		settings: st,
		sender:   sender,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Dispatch is the delivery gateway: it applies the master enable flag,
// normalizes recipients, applies the sandbox-safety override, and performs
// exactly one provider call. Nothing it does can surface as an error to the
// caller — every failure is folded into the Result.
func (d *Dispatcher) Dispatch(ctx context.Context, m Message) Result {
	if !d.settings.Bool(ctx, settings.KeyEnableEmailNotifications, d.cfg.EnableEmailNotifications) {
		d.logger.Info("notify: email notifications disabled, skipping send",
			"subject", m.Subject,
			"to", m.To,
		)
		return Result{Status: StatusDisabled}
	}

	recipients := m.To
	if len(recipients) == 0 {
		recipients = d.resolveRecipients(ctx)
	}

	if len(recipients) == 0 {
		d.logger.Warn("notify: no recipients resolved, aborting send", "subject", m.Subject)
		return Result{Status: StatusNoRecipients}
	}

	// Sandbox safety override: a restricted sender can only deliver to the
	// verified admin address. Replacing the list keeps the provider call from
	// failing outright; the narrowed audience is deliberate.
	if strings.Contains(d.sender.From(), sandboxSender) {
		admin := d.settings.String(ctx, settings.KeyAdminEmail, d.cfg.AdminEmail)
		d.logger.Info("notify: restricted sandbox sender, narrowing recipients to admin",
			"admin", admin,
			"dropped", len(recipients),
		)
		recipients = []string{admin}
	}

	err := d.sender.Send(ctx, email.Message{
		To:          recipients,
		Subject:     m.Subject,
		HTML:        m.HTML,
		Attachments: m.Attachments,
	})
	if err != nil {
		d.logger.Error("notify: email send failed", "subject", m.Subject, "error", err)
		return Result{Status: StatusFailed, Recipients: len(recipients), Err: err}
	}

	d.logger.Info("notify: email sent",
		"subject", m.Subject,
		"recipients", len(recipients),
	)
	return Result{Status: StatusSent, Recipients: len(recipients)}
}

// resolveRecipients returns the broadcast list: every active user's address,
// in account-creation order, no dedup. If the user query fails it recovers
// with the configured admin address; if that is unset too, the returned list
// is empty and the caller aborts the send.
func (d *Dispatcher) resolveRecipients(ctx context.Context) []string {
	emails, err := d.q.ListActiveUserEmails(ctx)
	if err != nil {
		d.logger.Warn("notify: active-user query failed, falling back to admin address", "error", err)
		admin := d.settings.String(ctx, settings.KeyAdminEmail, d.cfg.AdminEmail)
		if admin == "" {
			return nil
		}
		return []string{admin}
	}
	return emails
}
