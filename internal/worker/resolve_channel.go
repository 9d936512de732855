package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"titledoctor/features/job"
	"titledoctor/internal/config"
)

// ResolveChannel turns the submitted handle or name into a channel id.
// The first search match is authoritative.
type ResolveChannel struct {
	runner *Runner
	search ChannelSearcher
}

func NewResolveChannel(runner *Runner, search ChannelSearcher) *ResolveChannel {
	return &ResolveChannel{runner: runner, search: search}
}

var resolveChannelStage = Stage{
	Name:         "ResolveChannel",
	Running:      job.StatusResolvingChannel,
	Done:         job.StatusChannelResolved,
	SuccessTopic: config.TopicChannelResolved,
	ErrorTopic:   config.TopicChannelError,
	Fallback:     "Failed to resolve channel, please try again later",
}

func (h *ResolveChannel) Handle(ctx context.Context, body []byte) error {
	var ev Submitted
	if err := json.Unmarshal(body, &ev); err != nil {
		// Poison pill, don't retry.
		slog.Error("invalid job.submitted payload", "error", err)
		return nil
	}

	id := Identity{JobID: ev.JobID, Email: ev.Email, CorrelationID: ev.CorrelationID}
	return h.runner.Execute(ctx, resolveChannelStage, id, func(ctx context.Context, snap job.Job) (job.Patch, any, error) {
		query := strings.TrimPrefix(ev.Channel, "@")

		matches, err := h.search.SearchChannel(ctx, query)
		if err != nil {
			return job.Patch{}, nil, err
		}
		if len(matches) == 0 {
			return job.Patch{}, nil, NewFault("Channel not found")
		}

		ch := matches[0]
		slog.InfoContext(ctx, "channel resolved", "job_id", ev.JobID, "channel_id", ch.ID, "channel_name", ch.Name)

		patch := job.Patch{ChannelID: ch.ID, ChannelName: ch.Name}
		next := ChannelResolved{
			JobID:         ev.JobID,
			Email:         ev.Email,
			ChannelID:     ch.ID,
			ChannelName:   ch.Name,
			CorrelationID: ev.CorrelationID,
		}
		return patch, next, nil
	})
}
