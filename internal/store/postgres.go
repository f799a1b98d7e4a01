package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PratikDhanave/fortune-service/internal/history"
	"github.com/PratikDhanave/fortune-service/internal/models"
)

// Querier is implemented by *pgxpool.Pool and by pgxmock pools.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const fortunesTable = "fortunes"

var fortuneColumns = []string{
	"id", "user_id", "name", "birth_date", "topic", "topic_label", "fortune", "created_at",
}

// PostgresStore is the durable record store for fortunes.
type PostgresStore struct {
	db   Querier
	pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool and fails fast if the DB is unreachable.
func NewPostgresStore(ctx context.Context, dbURL string, maxConns int32) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{db: pool, pool: pool}, nil
}

// New wraps an existing querier. EnsureSchema is unavailable on such a store.
func New(db Querier) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema applies the embedded migrations.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	if p.pool == nil {
		return errors.New("schema migration requires a pgx pool")
	}
	return Migrate(ctx, p.pool)
}

// Ping is used by the readiness endpoint to validate DB connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() {
	p.db.Close()
}

// Insert persists rec. The caller assigns ID and CreatedAt.
func (p *PostgresStore) Insert(ctx context.Context, rec models.FortuneRecord) error {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return fmt.Errorf("insert fortune: invalid id %q: %w", rec.ID, err)
	}

	sql, args, err := psql.Insert(fortunesTable).
		Columns(fortuneColumns...).
		Values(id, rec.UserID, rec.Name, rec.BirthDate, rec.Topic, rec.TopicLabel, rec.Fortune, rec.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := p.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert fortune %s: %w", rec.ID, err)
	}
	return nil
}

// ListByOwner returns userID's fortunes ordered by created_at, newest first.
// Returns an empty slice (not nil) when there are none.
func (p *PostgresStore) ListByOwner(ctx context.Context, userID string) ([]models.FortuneRecord, error) {
	sql, args, err := psql.Select(fortuneColumns...).
		From(fortunesTable).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}

	rows, err := p.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list fortunes: %w", err)
	}
	defer rows.Close()

	out := []models.FortuneRecord{}
	for rows.Next() {
		rec, err := scanFortune(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fortune: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list fortunes: %w", err)
	}
	return out, nil
}

// GetByID returns history.ErrNotFound when no row matches.
func (p *PostgresStore) GetByID(ctx context.Context, id string) (models.FortuneRecord, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return models.FortuneRecord{}, history.ErrNotFound
	}

	sql, args, err := psql.Select(fortuneColumns...).
		From(fortunesTable).
		// squirrel.Eq would expand the [16]byte UUID into an IN list.
		Where("id = ?", uid).
		Limit(1).
		ToSql()
	if err != nil {
		return models.FortuneRecord{}, fmt.Errorf("build get: %w", err)
	}

	rec, err := scanFortune(p.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.FortuneRecord{}, history.ErrNotFound
	}
	if err != nil {
		return models.FortuneRecord{}, fmt.Errorf("get fortune %s: %w", id, err)
	}
	return rec, nil
}

func scanFortune(row pgx.Row) (models.FortuneRecord, error) {
	var (
		rec models.FortuneRecord
		id  uuid.UUID
	)
	err := row.Scan(&id, &rec.UserID, &rec.Name, &rec.BirthDate, &rec.Topic, &rec.TopicLabel, &rec.Fortune, &rec.CreatedAt)
	if err != nil {
		return models.FortuneRecord{}, err
	}
	rec.ID = id.String()
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, nil
}
