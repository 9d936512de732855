package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"titledoctor/features/job"
	"titledoctor/internal/config"
)

// GenerateTitles asks the model for one improved title per fetched video.
//
// The model is not asked to echo video ids; the response array is matched
// to the input videos by position. That makes count validation mandatory:
// a response with a different length is rejected rather than risk
// attributing an improved title to the wrong video.
type GenerateTitles struct {
	runner    *Runner
	generator TitleGenerator
}

func NewGenerateTitles(runner *Runner, generator TitleGenerator) *GenerateTitles {
	return &GenerateTitles{runner: runner, generator: generator}
}

var generateTitlesStage = Stage{
	Name:         "GenerateTitles",
	Running:      job.StatusGeneratingTitles,
	Done:         job.StatusTitlesGenerated,
	SuccessTopic: config.TopicTitlesGenerated,
	ErrorTopic:   config.TopicTitlesError,
	Fallback:     "Failed to generate titles, please try again later.",
}

func (h *GenerateTitles) Handle(ctx context.Context, body []byte) error {
	var ev VideosFetched
	if err := json.Unmarshal(body, &ev); err != nil {
		slog.Error("invalid videos.fetched payload", "error", err)
		return nil
	}

	id := Identity{JobID: ev.JobID, Email: ev.Email, CorrelationID: ev.CorrelationID}
	return h.runner.Execute(ctx, generateTitlesStage, id, func(ctx context.Context, snap job.Job) (job.Patch, any, error) {
		if len(ev.Videos) == 0 {
			return job.Patch{}, nil, NewFault("No videos found for this channel")
		}

		raw, err := h.generator.Generate(ctx, titlePrompt(ev.ChannelName, ev.Videos))
		if err != nil {
			return job.Patch{}, nil, err
		}

		improved, err := parseTitleResponse(raw, ev.Videos)
		if err != nil {
			return job.Patch{}, nil, err
		}

		slog.InfoContext(ctx, "titles generated", "job_id", ev.JobID, "count", len(improved))

		patch := job.Patch{ImprovedTitles: improved}
		next := TitlesGenerated{
			JobID:          ev.JobID,
			Email:          ev.Email,
			ChannelName:    ev.ChannelName,
			ImprovedTitles: improved,
			CorrelationID:  ev.CorrelationID,
		}
		return patch, next, nil
	})
}

func titlePrompt(channelName string, videos []job.Video) string {
	var titles strings.Builder
	for i, v := range videos {
		fmt.Fprintf(&titles, "%d. %q\n", i+1, v.Title)
	}

	return fmt.Sprintf(`You are a YouTube title optimization expert. Below are %d video titles from the channel %q.

For each title, provide:
1. An improved version that is more engaging, SEO-friendly, and likely to get more clicks
2. A brief rationale (1-2 sentences) explaining why the new title is better

Guidelines:
- Keep the core topic and authenticity
- Use action verbs, numbers, and specific value propositions
- Make it curiosity-inducing without being clickbait
- Optimize for searchability and clarity

Video titles:
%s
Respond in JSON format:
{
    "titles": [
        {
            "original": "...",
            "improved": "...",
            "rationale": "..."
        }
    ]
}`, len(videos), channelName, titles.String())
}

// parseTitleResponse validates the model output and maps it back onto the
// input videos positionally.
func parseTitleResponse(raw string, videos []job.Video) ([]job.ImprovedTitle, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	var resp struct {
		Titles []struct {
			Original  string `json:"original"`
			Improved  string `json:"improved"`
			Rationale string `json:"rationale"`
		} `json:"titles"`
	}
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}
	if len(resp.Titles) != len(videos) {
		return nil, fmt.Errorf("model returned %d titles for %d videos", len(resp.Titles), len(videos))
	}

	improved := make([]job.ImprovedTitle, len(videos))
	for i, t := range resp.Titles {
		improved[i] = job.ImprovedTitle{
			VideoID:       videos[i].VideoID,
			OriginalTitle: t.Original,
			ImprovedTitle: t.Improved,
			Rationale:     t.Rationale,
			URL:           videos[i].URL,
		}
	}
	return improved, nil
}
