package worker

import (
	"context"

	"titledoctor/features/job"
)

type Channel struct {
	ID   string
	Name string
}

// ChannelSearcher resolves a channel handle or name to concrete channels.
// An empty result is valid; the stage decides what it means.
type ChannelSearcher interface {
	SearchChannel(ctx context.Context, query string) ([]Channel, error)
}

type VideoLister interface {
	RecentVideos(ctx context.Context, channelID string, limit int) ([]job.Video, error)
}

// TitleGenerator is an opaque text-in/text-out model call; the worker owns
// prompt construction and response validation.
type TitleGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Email struct {
	From    string
	To      string
	Subject string
	Text    string
}

// EmailSender dispatches one message and returns the provider's id.
type EmailSender interface {
	Send(ctx context.Context, email Email) (string, error)
}

type Publisher interface {
	Publish(topic string, body []byte) error
}
