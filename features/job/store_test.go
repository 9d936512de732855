package job

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(db), mock
}

func jobColumns() []string {
	return []string{"id", "channel", "email", "status", "channel_id", "channel_name",
		"videos", "improved_titles", "error", "email_id", "created_at", "completed_at"}
}

func TestPostgresStore_Get(t *testing.T) {
	store, mock := newMockStore(t)

	created := time.Now()
	rows := sqlmock.NewRows(jobColumns()).AddRow(
		"job-1", "@chan", "a@b.com", "videos fetched", "UC123", "Chan",
		[]byte(`[{"videoId":"v1","title":"T","url":"u","publishedAt":"p","thumbnail":"th"}]`),
		nil, "", "", created, nil,
	)
	mock.ExpectQuery("SELECT id, channel, email, status").
		WithArgs("job-1").
		WillReturnRows(rows)

	j, err := store.Get(context.Background(), "job-1")
	require.NoError(t, err)

	assert.Equal(t, "job-1", j.ID)
	assert.Equal(t, StatusVideosFetched, j.Status)
	require.Len(t, j.Videos, 1)
	assert.Equal(t, "v1", j.Videos[0].VideoID)
	assert.Nil(t, j.ImprovedTitles)
	assert.Nil(t, j.CompletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetAbsentReturnsEmpty(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, channel, email, status").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	j, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Equal(t, Job{}, j)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SetUpserts(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO jobs").
		WillReturnResult(sqlmock.NewResult(0, 1))

	now := time.Now()
	snap := Job{
		ID: "job-1", Channel: "@chan", Email: "a@b.com",
		Status: StatusEmailSent, EmailID: "msg-1", CreatedAt: now, CompletedAt: &now,
	}
	require.NoError(t, store.Set(context.Background(), "job-1", snap))
	assert.NoError(t, mock.ExpectationsWereMet())
}
