package job

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"titledoctor/internal/config"
	"titledoctor/internal/middleware"
)

type EventPublisher interface {
	Publish(topic string, body []byte) error
}

// Service creates the initial job record and hands it to the pipeline.
type Service struct {
	store Store
	pub   EventPublisher
	now   func() time.Time
}

func NewService(store Store, pub EventPublisher) *Service {
	return &Service{store: store, pub: pub, now: time.Now}
}

// Submit persists a queued job and publishes job.submitted. The returned
// snapshot carries the generated job id.
func (s *Service) Submit(ctx context.Context, channel, email string) (Job, error) {
	j := Job{
		ID:        uuid.New().String(),
		Channel:   channel,
		Email:     email,
		Status:    StatusQueued,
		CreatedAt: s.now().UTC(),
	}

	if err := s.store.Set(ctx, j.ID, j); err != nil {
		return Job{}, fmt.Errorf("create job: %w", err)
	}

	body, err := json.Marshal(struct {
		JobID         string `json:"jobId"`
		Channel       string `json:"channel"`
		Email         string `json:"email"`
		CorrelationID string `json:"correlation_id,omitempty"`
	}{
		JobID:         j.ID,
		Channel:       channel,
		Email:         email,
		CorrelationID: middleware.GetCorrelationID(ctx),
	})
	if err != nil {
		return Job{}, fmt.Errorf("encode submit event: %w", err)
	}

	if err := s.pub.Publish(config.TopicJobSubmitted, body); err != nil {
		return Job{}, fmt.Errorf("publish submit event: %w", err)
	}

	slog.InfoContext(ctx, "job created", "job_id", j.ID, "channel", channel, "email", email)
	return j, nil
}

func (s *Service) Get(ctx context.Context, id string) (Job, error) {
	return s.store.Get(ctx, id)
}
