package worker

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"titledoctor/features/job"
)

type memStore struct {
	mu     sync.Mutex
	jobs   map[string]job.Job
	getErr error
	setErr error
}

func newMemStore() *memStore {
	return &memStore{jobs: make(map[string]job.Job)}
}

func (s *memStore) Get(ctx context.Context, id string) (job.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return job.Job{}, s.getErr
	}
	return s.jobs[id], nil
}

func (s *memStore) Set(ctx context.Context, id string, snap job.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.jobs[id] = snap
	return nil
}

func (s *memStore) get(id string) job.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

func (s *memStore) put(j job.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.ID] = j
}

type capturePublisher struct {
	mu     sync.Mutex
	err    error
	topics []string
	bodies map[string][][]byte
}

func newCapturePublisher() *capturePublisher {
	return &capturePublisher{bodies: make(map[string][][]byte)}
}

func (p *capturePublisher) Publish(topic string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	p.bodies[topic] = append(p.bodies[topic], body)
	return nil
}

func (p *capturePublisher) published(topic string) [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bodies[topic]
}

type MockSearcher struct{ mock.Mock }

func (m *MockSearcher) SearchChannel(ctx context.Context, query string) ([]Channel, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Channel), args.Error(1)
}

type MockLister struct{ mock.Mock }

func (m *MockLister) RecentVideos(ctx context.Context, channelID string, limit int) ([]job.Video, error) {
	args := m.Called(ctx, channelID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]job.Video), args.Error(1)
}

type MockGenerator struct{ mock.Mock }

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type MockSender struct{ mock.Mock }

func (m *MockSender) Send(ctx context.Context, email Email) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}
