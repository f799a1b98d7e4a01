// Package fortune turns a name, birth date and topic into a generated new year fortune.
package fortune

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

// TextGenerator turns a prompt into generated text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service validates requests, builds the prompt and calls the generator once.
// A nil generator leaves the service unconfigured: every Generate call fails
// with KindConfiguration without reaching the provider.
type Service struct {
	gen    TextGenerator
	year   int
	logger *slog.Logger
}

// NewService builds the request handler. A nil gen leaves the service
// unconfigured: every Generate call then fails with KindConfiguration.
func NewService(gen TextGenerator, year int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{gen: gen, year: year, logger: logger}
}

// Configured reports whether a provider is available.
func (s *Service) Configured() bool {
	return s.gen != nil
}

// RequireConfigured returns a KindConfiguration *Error when no provider is
// available. It is checked before anything about the request is read.
func (s *Service) RequireConfigured(ctx context.Context) error {
	if s.Configured() {
		return nil
	}
	s.logger.ErrorContext(ctx, "generation provider is not configured")
	return &Error{Kind: KindConfiguration, Message: msgNotConfigured}
}

// Generate returns the fortune text for the given inputs.
// All failures are *Error values.
func (s *Service) Generate(ctx context.Context, name, birthDate, topic string) (string, error) {
	if err := s.RequireConfigured(ctx); err != nil {
		return "", err
	}

	name = strings.TrimSpace(name)
	birthDate = strings.TrimSpace(birthDate)
	topic = strings.TrimSpace(topic)

	if name == "" || birthDate == "" || topic == "" {
		return "", &Error{Kind: KindValidation, Message: msgMissingFields}
	}
	if _, err := time.Parse(time.DateOnly, birthDate); err != nil {
		return "", &Error{Kind: KindValidation, Message: msgBadBirthDate, Err: err}
	}

	prompt := BuildPrompt(name, birthDate, TopicLabel(topic), s.year)

	text, err := s.gen.Generate(ctx, prompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = errors.New("provider returned empty text")
	}
	if err != nil {
		ferr := providerError(err)
		s.logger.ErrorContext(ctx, "fortune generation failed",
			"kind", ferr.Kind.String(),
			"topic", topic,
			"error", err,
		)
		return "", ferr
	}

	return text, nil
}
