package job

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"titledoctor/internal/config"
)

type memStore struct {
	mu   sync.Mutex
	jobs map[string]Job
	err  error
}

func newMemStore() *memStore {
	return &memStore{jobs: make(map[string]Job)}
}

func (s *memStore) Get(ctx context.Context, id string) (Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id], s.err
}

func (s *memStore) Set(ctx context.Context, id string, snap Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.jobs[id] = snap
	return nil
}

type capturePublisher struct {
	mu     sync.Mutex
	topics []string
	bodies [][]byte
	err    error
}

func (p *capturePublisher) Publish(topic string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	p.bodies = append(p.bodies, body)
	return nil
}

func TestSubmit_CreatesQueuedJobAndPublishes(t *testing.T) {
	store := newMemStore()
	pub := &capturePublisher{}
	svc := NewService(store, pub)

	j, err := svc.Submit(context.Background(), "@MyChannel", "a@b.com")
	require.NoError(t, err)
	require.NotEmpty(t, j.ID)
	assert.Equal(t, StatusQueued, j.Status)

	stored := store.jobs[j.ID]
	assert.Equal(t, "@MyChannel", stored.Channel)
	assert.Equal(t, "a@b.com", stored.Email)
	assert.False(t, stored.CreatedAt.IsZero())

	require.Len(t, pub.topics, 1)
	assert.Equal(t, config.TopicJobSubmitted, pub.topics[0])

	var ev struct {
		JobID   string `json:"jobId"`
		Channel string `json:"channel"`
		Email   string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(pub.bodies[0], &ev))
	assert.Equal(t, j.ID, ev.JobID)
	assert.Equal(t, "@MyChannel", ev.Channel)
	assert.Equal(t, "a@b.com", ev.Email)
}

func TestSubmit_StoreFailure(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("db down")
	svc := NewService(store, &capturePublisher{})

	_, err := svc.Submit(context.Background(), "@c", "a@b.com")
	assert.Error(t, err)
}

func TestSubmit_PublishFailure(t *testing.T) {
	store := newMemStore()
	pub := &capturePublisher{err: errors.New("nsqd unreachable")}
	svc := NewService(store, pub)

	_, err := svc.Submit(context.Background(), "@c", "a@b.com")
	assert.Error(t, err)
}

func TestGet_AbsentIsEmpty(t *testing.T) {
	svc := NewService(newMemStore(), &capturePublisher{})

	j, err := svc.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, j.ID)
}
