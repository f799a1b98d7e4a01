package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/fortune-service/internal/history"
	"github.com/PratikDhanave/fortune-service/internal/models"
	"github.com/PratikDhanave/fortune-service/internal/store"
)

var columns = []string{"id", "user_id", "name", "birth_date", "topic", "topic_label", "fortune", "created_at"}

func newMock(t *testing.T) (*store.PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
	return store.New(mock), mock
}

func sampleRecord(id uuid.UUID, createdAt time.Time) models.FortuneRecord {
	return models.FortuneRecord{
		ID:         id.String(),
		UserID:     "user_1",
		Name:       "홍길동",
		BirthDate:  "1990-05-17",
		Topic:      "study",
		TopicLabel: "학업/성장",
		Fortune:    "성장의 해입니다.",
		CreatedAt:  createdAt,
	}
}

func TestPostgresStore_Insert(t *testing.T) {
	s, mock := newMock(t)
	id := uuid.New()
	createdAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := sampleRecord(id, createdAt)

	mock.ExpectExec(`INSERT INTO fortunes \(id,user_id,name,birth_date,topic,topic_label,fortune,created_at\) VALUES`).
		WithArgs(id, rec.UserID, rec.Name, rec.BirthDate, rec.Topic, rec.TopicLabel, rec.Fortune, createdAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.Insert(context.Background(), rec))
}

func TestPostgresStore_Insert_InvalidID(t *testing.T) {
	s, _ := newMock(t)
	rec := sampleRecord(uuid.New(), time.Now())
	rec.ID = "nope"
	assert.Error(t, s.Insert(context.Background(), rec))
}

func TestPostgresStore_Insert_DBError(t *testing.T) {
	s, mock := newMock(t)
	boom := errors.New("connection reset")
	mock.ExpectExec(`INSERT INTO fortunes`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(boom)

	err := s.Insert(context.Background(), sampleRecord(uuid.New(), time.Now()))
	assert.ErrorIs(t, err, boom)
}

func TestPostgresStore_ListByOwner(t *testing.T) {
	s, mock := newMock(t)
	newer, older := uuid.New(), uuid.New()
	t2 := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows(columns).
		AddRow(newer, "user_1", "A", "1990-01-01", "love", "연애/인간관계", "second", t2).
		AddRow(older, "user_1", "A", "1990-01-01", "love", "연애/인간관계", "first", t1)

	mock.ExpectQuery(`SELECT id, user_id, name, birth_date, topic, topic_label, fortune, created_at FROM fortunes WHERE user_id = \$1 ORDER BY created_at DESC`).
		WithArgs("user_1").
		WillReturnRows(rows)

	recs, err := s.ListByOwner(context.Background(), "user_1")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, newer.String(), recs[0].ID)
	assert.Equal(t, "second", recs[0].Fortune)
	assert.Equal(t, t2, recs[0].CreatedAt)
	assert.Equal(t, older.String(), recs[1].ID)
}

func TestPostgresStore_ListByOwner_Empty(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(`FROM fortunes WHERE user_id`).
		WithArgs("nobody").
		WillReturnRows(pgxmock.NewRows(columns))

	recs, err := s.ListByOwner(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestPostgresStore_GetByID(t *testing.T) {
	id := uuid.New()
	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		id      string
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "found",
			id:   id.String(),
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM fortunes WHERE id = \$1 LIMIT 1`).
					WithArgs(id).
					WillReturnRows(pgxmock.NewRows(columns).
						AddRow(id, "user_1", "홍길동", "1990-05-17", "study", "학업/성장", "성장의 해입니다.", createdAt))
			},
		},
		{
			name: "not found",
			id:   id.String(),
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM fortunes WHERE id = \$1`).
					WithArgs(id).
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: history.ErrNotFound,
		},
		{
			name:    "malformed id never queries",
			id:      "abc",
			setup:   func(pgxmock.PgxPoolIface) {},
			wantErr: history.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMock(t)
			tt.setup(mock)

			rec, err := s.GetByID(context.Background(), tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, sampleRecord(id, createdAt), rec)
		})
	}
}

func TestPostgresStore_GetByID_DBError(t *testing.T) {
	s, mock := newMock(t)
	id := uuid.New()
	boom := errors.New("too many connections")
	mock.ExpectQuery(`FROM fortunes`).WithArgs(id).WillReturnError(boom)

	_, err := s.GetByID(context.Background(), id.String())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, history.ErrNotFound)
}

func TestPostgresStore_PingAndClose(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("down"))
	mock.ExpectClose()

	assert.NoError(t, s.Ping(context.Background()))
	assert.Error(t, s.Ping(context.Background()))
	s.Close()
}

func TestPostgresStore_EnsureSchemaNeedsPool(t *testing.T) {
	s, _ := newMock(t)
	assert.Error(t, s.EnsureSchema(context.Background()))
}
