package job

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Store is the single source of truth for job progress. Get on an absent
// id returns an empty snapshot, not an error, so a stage can merge onto
// "nothing" the first time it touches a job. Set replaces the whole record;
// callers merge (Job.Apply) before calling. Last write wins.
type Store interface {
	Get(ctx context.Context, id string) (Job, error)
	Set(ctx context.Context, id string, snap Job) error
}

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Job, error) {
	query := `SELECT id, channel, email, status, channel_id, channel_name, videos, improved_titles, error, email_id, created_at, completed_at
		FROM jobs WHERE id = $1`

	var j Job
	var videos, titles []byte
	var completedAt sql.NullTime

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&j.ID, &j.Channel, &j.Email, &j.Status, &j.ChannelID, &j.ChannelName,
		&videos, &titles, &j.Error, &j.EmailID, &j.CreatedAt, &completedAt,
	)
	if err == sql.ErrNoRows {
		return Job{}, nil
	}
	if err != nil {
		return Job{}, fmt.Errorf("get job %s: %w", id, err)
	}

	if len(videos) > 0 {
		if err := json.Unmarshal(videos, &j.Videos); err != nil {
			return Job{}, fmt.Errorf("decode videos for job %s: %w", id, err)
		}
	}
	if len(titles) > 0 {
		if err := json.Unmarshal(titles, &j.ImprovedTitles); err != nil {
			return Job{}, fmt.Errorf("decode improved titles for job %s: %w", id, err)
		}
	}
	if completedAt.Valid {
		t := completedAt.Time
		j.CompletedAt = &t
	}
	return j, nil
}

func (s *PostgresStore) Set(ctx context.Context, id string, snap Job) error {
	var videos, titles []byte
	var err error
	if snap.Videos != nil {
		if videos, err = json.Marshal(snap.Videos); err != nil {
			return fmt.Errorf("encode videos for job %s: %w", id, err)
		}
	}
	if snap.ImprovedTitles != nil {
		if titles, err = json.Marshal(snap.ImprovedTitles); err != nil {
			return fmt.Errorf("encode improved titles for job %s: %w", id, err)
		}
	}

	var completedAt sql.NullTime
	if snap.CompletedAt != nil {
		completedAt = sql.NullTime{Time: *snap.CompletedAt, Valid: true}
	}

	// A stage may first-touch a job whose submit write has not landed yet.
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO jobs (id, channel, email, status, channel_id, channel_name, videos, improved_titles, error, email_id, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			channel = EXCLUDED.channel,
			email = EXCLUDED.email,
			status = EXCLUDED.status,
			channel_id = EXCLUDED.channel_id,
			channel_name = EXCLUDED.channel_name,
			videos = EXCLUDED.videos,
			improved_titles = EXCLUDED.improved_titles,
			error = EXCLUDED.error,
			email_id = EXCLUDED.email_id,
			completed_at = EXCLUDED.completed_at,
			updated_at = now()`

	_, err = s.db.ExecContext(ctx, query,
		id, snap.Channel, snap.Email, snap.Status, snap.ChannelID, snap.ChannelName,
		videos, titles, snap.Error, snap.EmailID, snap.CreatedAt, completedAt,
	)
	if err != nil {
		return fmt.Errorf("set job %s: %w", id, err)
	}
	return nil
}
