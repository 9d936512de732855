package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"titledoctor/features/job"
	"titledoctor/internal/config"
	"titledoctor/internal/middleware"
)

// ErrorHandler is the compensation sink: every *.error topic converges
// here, and each failure produces exactly one user-visible outcome, the
// notification email. If that dispatch itself fails, the failure is
// logged and swallowed; there is no secondary escalation channel.
type ErrorHandler struct {
	store   job.Store
	pub     Publisher
	sender  EmailSender
	from    string
	timeout time.Duration
}

func NewErrorHandler(store job.Store, pub Publisher, sender EmailSender, from string, timeout time.Duration) *ErrorHandler {
	return &ErrorHandler{store: store, pub: pub, sender: sender, from: from, timeout: timeout}
}

func (h *ErrorHandler) Handle(ctx context.Context, body []byte) error {
	var ev StageFailed
	if err := json.Unmarshal(body, &ev); err != nil {
		slog.Error("invalid error payload", "error", err)
		return nil
	}

	if ev.CorrelationID != "" {
		ctx = middleware.WithCorrelationID(ctx, ev.CorrelationID)
	}

	if ev.JobID == "" || ev.Email == "" {
		slog.ErrorContext(ctx, "cannot send error notification, missing jobId or email")
		return nil
	}

	slog.InfoContext(ctx, "handling error notification", "job_id", ev.JobID, "email", ev.Email, "error", ev.Error)

	snap, err := h.store.Get(ctx, ev.JobID)
	if err != nil {
		slog.ErrorContext(ctx, "job load failed", "job_id", ev.JobID, "error", err)
		return err
	}
	if snap.Status == job.StatusErrorNotified {
		slog.WarnContext(ctx, "job already notified, dropping", "job_id", ev.JobID)
		return nil
	}

	snap = snap.Apply(job.Patch{Status: job.StatusSendingEmail})
	if err := h.store.Set(ctx, ev.JobID, snap); err != nil {
		slog.ErrorContext(ctx, "status persist failed", "job_id", ev.JobID, "error", err)
		return err
	}

	if h.from == "" {
		// Notification fault: bounded blind spot, log only.
		slog.ErrorContext(ctx, "failed to send error notification email", "job_id", ev.JobID, "email", ev.Email, "error", "sender address not configured")
		return nil
	}

	text := fmt.Sprintf("Dear User, We are facing some issues while processing your request.\n\nError Details: %s", ev.Error)

	callCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	emailID, err := h.sender.Send(callCtx, Email{
		From:    h.from,
		To:      ev.Email,
		Subject: "Request failed for YouTube Title Doctor",
		Text:    text,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to send error notification email", "job_id", ev.JobID, "email", ev.Email, "error", err)
		return nil
	}

	now := time.Now().UTC()
	snap = snap.Apply(job.Patch{Status: job.StatusErrorNotified, EmailID: emailID, CompletedAt: &now})
	if err := h.store.Set(ctx, ev.JobID, snap); err != nil {
		slog.ErrorContext(ctx, "terminal status persist failed", "job_id", ev.JobID, "error", err)
	}

	slog.InfoContext(ctx, "error notification email sent", "job_id", ev.JobID, "email_id", emailID)

	notified, err := json.Marshal(ErrorNotified{
		JobID:         ev.JobID,
		Email:         ev.Email,
		EmailID:       emailID,
		CorrelationID: ev.CorrelationID,
	})
	if err != nil {
		slog.ErrorContext(ctx, "encode error.notified failed", "error", err)
		return nil
	}
	if err := h.pub.Publish(config.TopicErrorNotified, notified); err != nil {
		slog.ErrorContext(ctx, "publish error.notified failed", "job_id", ev.JobID, "error", err)
	}
	return nil
}
