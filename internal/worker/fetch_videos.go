package worker

import (
	"context"
	"encoding/json"
	"log/slog"

	"titledoctor/features/job"
	"titledoctor/internal/config"
)

// videoPageSize is the fixed number of recent videos each report covers.
const videoPageSize = 5

// FetchVideos lists the channel's most recent uploads.
type FetchVideos struct {
	runner *Runner
	lister VideoLister
}

func NewFetchVideos(runner *Runner, lister VideoLister) *FetchVideos {
	return &FetchVideos{runner: runner, lister: lister}
}

var fetchVideosStage = Stage{
	Name:         "FetchVideos",
	Running:      job.StatusFetchingVideos,
	Done:         job.StatusVideosFetched,
	SuccessTopic: config.TopicVideosFetched,
	ErrorTopic:   config.TopicVideosError,
	Fallback:     "Failed to fetch videos, please try again later.",
}

func (h *FetchVideos) Handle(ctx context.Context, body []byte) error {
	var ev ChannelResolved
	if err := json.Unmarshal(body, &ev); err != nil {
		slog.Error("invalid channel.resolved payload", "error", err)
		return nil
	}

	id := Identity{JobID: ev.JobID, Email: ev.Email, CorrelationID: ev.CorrelationID}
	return h.runner.Execute(ctx, fetchVideosStage, id, func(ctx context.Context, snap job.Job) (job.Patch, any, error) {
		videos, err := h.lister.RecentVideos(ctx, ev.ChannelID, videoPageSize)
		if err != nil {
			return job.Patch{}, nil, err
		}
		if len(videos) == 0 {
			return job.Patch{}, nil, NewFault("No videos found for this channel")
		}

		slog.InfoContext(ctx, "videos fetched", "job_id", ev.JobID, "channel_id", ev.ChannelID, "count", len(videos))

		patch := job.Patch{Videos: videos}
		next := VideosFetched{
			JobID:         ev.JobID,
			Email:         ev.Email,
			ChannelName:   ev.ChannelName,
			Videos:        videos,
			CorrelationID: ev.CorrelationID,
		}
		return patch, next, nil
	})
}
