// Package history stores generated fortunes per owner and enforces that
// only the owner can write or read them.
package history

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PratikDhanave/fortune-service/internal/auth"
	"github.com/PratikDhanave/fortune-service/internal/fortune"
	"github.com/PratikDhanave/fortune-service/internal/models"
)

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidInput    = errors.New("invalid input")
	ErrDisabled        = errors.New("persistence is disabled")
	// ErrNotFound is returned by a RecordStore for a missing id.
	ErrNotFound = errors.New("fortune not found")
)

// RecordStore is the document store holding fortune records.
type RecordStore interface {
	Insert(ctx context.Context, rec models.FortuneRecord) error
	// ListByOwner returns the owner's records, newest first.
	ListByOwner(ctx context.Context, userID string) ([]models.FortuneRecord, error)
	// GetByID returns ErrNotFound when no record has the id.
	GetByID(ctx context.Context, id string) (models.FortuneRecord, error)
}

// Clock abstracts the insert timestamp source for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// SaveInput is what a client submits after a successful generation.
type SaveInput struct {
	UserID     string
	Name       string
	BirthDate  string
	Topic      string
	TopicLabel string
	Fortune    string
}

// Service is the persistence gateway. A nil store means persistence is
// disabled: saves fail with ErrDisabled, reads return nothing.
type Service struct {
	store  RecordStore
	clock  Clock
	logger *slog.Logger
}

// NewService builds the persistence gateway. A nil store disables persistence;
// a nil clock uses the wall clock.
func NewService(store RecordStore, clock Clock, logger *slog.Logger) *Service {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, clock: clock, logger: logger}
}

// Enabled reports whether a store is configured.
func (s *Service) Enabled() bool {
	return s.store != nil
}

// Save inserts a new record owned by in.UserID and returns its id.
func (s *Service) Save(ctx context.Context, in SaveInput) (string, error) {
	subject, ok := auth.SubjectFrom(ctx)
	if !ok {
		return "", ErrUnauthenticated
	}
	if subject != in.UserID {
		s.logger.WarnContext(ctx, "save rejected: owner mismatch", "subject", subject)
		return "", ErrUnauthorized
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.BirthDate) == "" ||
		strings.TrimSpace(in.Topic) == "" || strings.TrimSpace(in.Fortune) == "" {
		return "", fmt.Errorf("%w: name, birthDate, topic and fortune are required", ErrInvalidInput)
	}
	if !s.Enabled() {
		return "", ErrDisabled
	}

	label := in.TopicLabel
	if strings.TrimSpace(label) == "" {
		label = fortune.TopicLabel(in.Topic)
	}

	rec := models.FortuneRecord{
		ID:         uuid.NewString(),
		UserID:     in.UserID,
		Name:       in.Name,
		BirthDate:  in.BirthDate,
		Topic:      in.Topic,
		TopicLabel: label,
		Fortune:    in.Fortune,
		// Postgres keeps microseconds.
		CreatedAt: s.clock.Now().UTC().Truncate(time.Microsecond),
	}

	if err := s.store.Insert(ctx, rec); err != nil {
		return "", fmt.Errorf("insert fortune: %w", err)
	}
	return rec.ID, nil
}

// ListByOwner returns userID's records newest first.
// An anonymous caller gets an empty list rather than an error.
func (s *Service) ListByOwner(ctx context.Context, userID string) ([]models.FortuneRecord, error) {
	subject, ok := auth.SubjectFrom(ctx)
	if !ok {
		return []models.FortuneRecord{}, nil
	}
	if subject != userID {
		return nil, ErrUnauthorized
	}
	if !s.Enabled() {
		return []models.FortuneRecord{}, nil
	}

	recs, err := s.store.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list fortunes: %w", err)
	}
	if recs == nil {
		recs = []models.FortuneRecord{}
	}

	slices.SortStableFunc(recs, func(a, b models.FortuneRecord) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	return recs, nil
}

// GetByID returns the record with id. found is false when it does not exist.
// The record's existence is not hidden from non-owners: they get ErrUnauthorized.
func (s *Service) GetByID(ctx context.Context, id string) (rec models.FortuneRecord, found bool, err error) {
	subject, ok := auth.SubjectFrom(ctx)
	if !ok {
		return models.FortuneRecord{}, false, ErrUnauthenticated
	}
	if !s.Enabled() {
		return models.FortuneRecord{}, false, nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return models.FortuneRecord{}, false, nil
	}

	rec, err = s.store.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return models.FortuneRecord{}, false, nil
	}
	if err != nil {
		return models.FortuneRecord{}, false, fmt.Errorf("get fortune %s: %w", id, err)
	}

	if rec.UserID != subject {
		return models.FortuneRecord{}, false, ErrUnauthorized
	}
	return rec, true, nil
}
