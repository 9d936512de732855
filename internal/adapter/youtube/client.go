package youtube

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"titledoctor/features/job"
	"titledoctor/internal/worker"
)

// Client wraps the YouTube Data API v3 for channel search and recent-video
// listing. A missing API key surfaces as a per-call fault so it routes
// through the normal stage error path instead of refusing to boot.
type Client struct {
	service *yt.Service
	apiKey  string
}

func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	c := &Client{apiKey: apiKey}
	if apiKey == "" {
		return c, nil
	}
	service, err := yt.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}
	c.service = service
	return c, nil
}

func (c *Client) SearchChannel(ctx context.Context, query string) ([]worker.Channel, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("YouTube API key not configured")
	}

	call := c.service.Search.List([]string{"snippet"}).
		Q(query).
		Type("channel").
		MaxResults(1)

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("channel search %q: %w", query, err)
	}

	channels := make([]worker.Channel, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Snippet == nil {
			continue
		}
		channels = append(channels, worker.Channel{
			ID:   item.Snippet.ChannelId,
			Name: item.Snippet.Title,
		})
	}

	slog.DebugContext(ctx, "channel search", "query", query, "matches", len(channels))
	return channels, nil
}

func (c *Client) RecentVideos(ctx context.Context, channelID string, limit int) ([]job.Video, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("YouTube API key not configured")
	}

	call := c.service.Search.List([]string{"snippet"}).
		ChannelId(channelID).
		Type("video").
		Order("date").
		MaxResults(int64(limit))

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("video listing for %s: %w", channelID, err)
	}

	videos := make([]job.Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Snippet == nil {
			continue
		}
		v := job.Video{
			VideoID:     item.Id.VideoId,
			Title:       item.Snippet.Title,
			URL:         fmt.Sprintf("https://www.youtube.com/watch?v=%s", item.Id.VideoId),
			PublishedAt: item.Snippet.PublishedAt,
		}
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Default != nil {
			v.Thumbnail = item.Snippet.Thumbnails.Default.Url
		}
		videos = append(videos, v)
	}

	slog.DebugContext(ctx, "videos listed", "channel_id", channelID, "count", len(videos))
	return videos, nil
}
