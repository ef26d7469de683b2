// Package notify fans a scored lead out to the configured notification
// channels. Channels fail independently: a dead SMS provider never blocks the
// admin email, and no channel failure bubbles up to the intake response
// status.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/crewsight/crewsight-platform/internal/leadstore"
	"github.com/crewsight/crewsight-platform/pkg/logging"
)

// Channel names as reported in dispatch results.
const (
	ChannelAdminEmail = "admin_email"
	ChannelUserEmail  = "user_email"
	ChannelSMS        = "sms"
	ChannelSheetSync  = "sheet_sync"
)

// Outcome states. "disabled" means missing credentials; "failed" means
// attempted and lost.
const (
	OutcomeOK       = "ok"
	OutcomeFailed   = "failed"
	OutcomeDisabled = "disabled"
)

// ChannelOutcome is the per-channel delivery result.
type ChannelOutcome struct {
	Status   string `json:"status"`
	Attempts int    `json:"attempts,omitempty"`
	Error    string `json:"error,omitempty"`
}

// DispatchResult aggregates every channel's outcome. Channel order never
// affects the persisted record.
type DispatchResult struct {
	PerChannel map[string]ChannelOutcome `json:"perChannel"`
}

// FailedChannels lists channels that were attempted and lost.
func (r DispatchResult) FailedChannels() []string {
	var out []string
	for name, outcome := range r.PerChannel {
		if outcome.Status == OutcomeFailed {
			out = append(out, name)
		}
	}
	return out
}

// Config is the explicit channel-availability object handed to the
// dispatcher. Channel functions never read ambient process state.
type Config struct {
	// AdminEmail receives the lead alert. Empty disables the admin channel.
	AdminEmail string
	// AdminCC is kept on every admin alert so replies stay visible to the
	// whole sales team.
	AdminCC string
	// SalesPhone receives the SMS alert. Empty disables the SMS channel.
	SalesPhone string
	// ChannelTimeout bounds each delivery attempt.
	ChannelTimeout time.Duration
	// SheetRetry is the backoff budget for the spreadsheet sync channel.
	SheetRetry RetryPolicy
}

// Dispatcher owns the notification fan-out for scored leads.
type Dispatcher struct {
	email  EmailSender
	sms    SMSSender
	sheets SheetSyncer
	cfg    Config
	logger *logging.Logger
}

// NewDispatcher wires the channels. Nil senders are allowed and reported as
// disabled channels.
func NewDispatcher(email EmailSender, sms SMSSender, sheets SheetSyncer, cfg Config, logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.ChannelTimeout <= 0 {
		cfg.ChannelTimeout = 10 * time.Second
	}
	if cfg.SheetRetry.MaxAttempts <= 0 {
		cfg.SheetRetry = DefaultRetryPolicy
	}
	return &Dispatcher{
		email:  email,
		sms:    sms,
		sheets: sheets,
		cfg:    cfg,
		logger: logger,
	}
}

// Dispatch sends the lead to every configured channel concurrently and
// returns once all of them have succeeded or exhausted their retries.
// The record is already durably stored when this runs, so failures
// here are reported but never fatal.
func (d *Dispatcher) Dispatch(ctx context.Context, rec *leadstore.Record) DispatchResult {
	result := DispatchResult{PerChannel: make(map[string]ChannelOutcome, 4)}

	var mu sync.Mutex
	var wg sync.WaitGroup
	record := func(channel string, outcome ChannelOutcome) {
		mu.Lock()
		result.PerChannel[channel] = outcome
		mu.Unlock()
	}

	wg.Add(4)
	go func() {
		defer wg.Done()
		record(ChannelAdminEmail, d.sendAdminAlert(ctx, rec))
	}()
	go func() {
		defer wg.Done()
		record(ChannelUserEmail, d.sendUserConfirmation(ctx, rec))
	}()
	go func() {
		defer wg.Done()
		record(ChannelSMS, d.sendSMSAlert(ctx, rec))
	}()
	go func() {
		defer wg.Done()
		record(ChannelSheetSync, d.syncSheet(ctx, rec))
	}()
	wg.Wait()

	if failed := result.FailedChannels(); len(failed) > 0 {
		d.logger.Warn("lead dispatched with channel failures", "lead_id", rec.ID, "failed", failed)
	} else {
		d.logger.Info("lead dispatched", "lead_id", rec.ID, "priority", rec.Score.Priority)
	}
	return result
}

func (d *Dispatcher) sendAdminAlert(ctx context.Context, rec *leadstore.Record) ChannelOutcome {
	if d.email == nil || d.cfg.AdminEmail == "" {
		return ChannelOutcome{Status: OutcomeDisabled}
	}

	msg := BuildAdminAlert(rec)
	msg.To = d.cfg.AdminEmail
	msg.CC = d.cfg.AdminCC

	ctx, cancel := context.WithTimeout(ctx, d.cfg.ChannelTimeout)
	defer cancel()

	if err := d.email.Send(ctx, msg); err != nil {
		d.logger.Error("admin alert failed", "error", err, "lead_id", rec.ID)
		return ChannelOutcome{Status: OutcomeFailed, Attempts: 1, Error: err.Error()}
	}
	return ChannelOutcome{Status: OutcomeOK, Attempts: 1}
}

func (d *Dispatcher) sendUserConfirmation(ctx context.Context, rec *leadstore.Record) ChannelOutcome {
	if d.email == nil {
		return ChannelOutcome{Status: OutcomeDisabled}
	}

	ctx, cancel := context.WithTimeout(ctx, d.cfg.ChannelTimeout)
	defer cancel()

	if err := d.email.Send(ctx, BuildUserConfirmation(rec)); err != nil {
		d.logger.Error("user confirmation failed", "error", err, "lead_id", rec.ID)
		return ChannelOutcome{Status: OutcomeFailed, Attempts: 1, Error: err.Error()}
	}
	return ChannelOutcome{Status: OutcomeOK, Attempts: 1}
}

func (d *Dispatcher) sendSMSAlert(ctx context.Context, rec *leadstore.Record) ChannelOutcome {
	if d.sms == nil || d.cfg.SalesPhone == "" {
		return ChannelOutcome{Status: OutcomeDisabled}
	}

	ctx, cancel := context.WithTimeout(ctx, d.cfg.ChannelTimeout)
	defer cancel()

	if err := d.sms.SendSMS(ctx, d.cfg.SalesPhone, BuildSMSAlert(rec)); err != nil {
		d.logger.Error("sms alert failed", "error", err, "lead_id", rec.ID)
		return ChannelOutcome{Status: OutcomeFailed, Attempts: 1, Error: err.Error()}
	}
	return ChannelOutcome{Status: OutcomeOK, Attempts: 1}
}

func (d *Dispatcher) syncSheet(ctx context.Context, rec *leadstore.Record) ChannelOutcome {
	if d.sheets == nil {
		return ChannelOutcome{Status: OutcomeDisabled}
	}

	attempts, err := Retry(ctx, d.cfg.SheetRetry, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, d.cfg.ChannelTimeout)
		defer cancel()
		return d.sheets.AppendLead(attemptCtx, rec)
	})
	if err != nil {
		d.logger.Error("sheet sync failed", "error", err, "lead_id", rec.ID, "attempts", attempts)
		return ChannelOutcome{Status: OutcomeFailed, Attempts: attempts, Error: err.Error()}
	}
	return ChannelOutcome{Status: OutcomeOK, Attempts: attempts}
}
