package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"titledoctor/features/job"
	"titledoctor/internal/config"
)

// SendEmail renders the improved-titles report and dispatches it.
type SendEmail struct {
	runner *Runner
	sender EmailSender
	from   string
}

func NewSendEmail(runner *Runner, sender EmailSender, from string) *SendEmail {
	return &SendEmail{runner: runner, sender: sender, from: from}
}

var sendEmailStage = Stage{
	Name:         "SendEmail",
	Running:      job.StatusSendingEmail,
	Done:         job.StatusEmailSent,
	SuccessTopic: config.TopicEmailSent,
	ErrorTopic:   config.TopicEmailError,
	Fallback:     "Failed to send email.",
}

func (h *SendEmail) Handle(ctx context.Context, body []byte) error {
	var ev TitlesGenerated
	if err := json.Unmarshal(body, &ev); err != nil {
		slog.Error("invalid titles.generated payload", "error", err)
		return nil
	}

	id := Identity{JobID: ev.JobID, Email: ev.Email, CorrelationID: ev.CorrelationID}
	return h.runner.Execute(ctx, sendEmailStage, id, func(ctx context.Context, snap job.Job) (job.Patch, any, error) {
		if h.from == "" {
			return job.Patch{}, nil, fmt.Errorf("sender address not configured")
		}

		emailID, err := h.sender.Send(ctx, Email{
			From:    h.from,
			To:      ev.Email,
			Subject: fmt.Sprintf("Improved YouTube Titles for %q", ev.ChannelName),
			Text:    RenderReport(ev.ChannelName, ev.ImprovedTitles),
		})
		if err != nil {
			return job.Patch{}, nil, err
		}

		slog.InfoContext(ctx, "email sent", "job_id", ev.JobID, "email_id", emailID)

		now := time.Now().UTC()
		patch := job.Patch{EmailID: emailID, CompletedAt: &now}
		next := EmailSent{
			JobID:         ev.JobID,
			Email:         ev.Email,
			EmailID:       emailID,
			CorrelationID: ev.CorrelationID,
		}
		return patch, next, nil
	})
}
