package fortune

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a generation failure.
type Kind int

const (
	KindGeneration Kind = iota
	KindValidation
	KindConfiguration
	KindRateLimited
	KindAuth
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConfiguration:
		return "configuration"
	case KindRateLimited:
		return "rate_limited"
	case KindAuth:
		return "auth"
	default:
		return "generation"
	}
}

// HTTPStatus is the status code a Kind is surfaced as.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Provider adapters wrap these so Classify does not depend on message text.
var (
	ErrRateLimited  = errors.New("provider rate limited")
	ErrProviderAuth = errors.New("provider rejected credentials")
)

// User-facing messages.
const (
	msgNotConfigured = "API 키가 설정되지 않았습니다. 서버 관리자에게 문의하세요."
	msgMissingFields = "모든 필드를 입력해주세요."
	msgBadBirthDate  = "생년월일은 YYYY-MM-DD 형식이어야 합니다."
	msgRateLimited   = "일시적으로 요청이 많습니다. 잠시 후 다시 시도해주세요."
	msgAuth          = "API 인증에 문제가 있습니다. 관리자에게 문의하세요."
	msgGeneration    = "운세 생성 중 오류가 발생했습니다."
)

// Error is returned by Service.Generate. Message is safe to show to a caller;
// Err carries the underlying cause and is only for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Classify maps a provider error onto a Kind.
// Typed sentinels are checked first, then the provider's message text.
func Classify(err error) Kind {
	if err == nil {
		return KindGeneration
	}
	switch {
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, ErrProviderAuth):
		return KindAuth
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "quota"), strings.Contains(msg, "429"):
		return KindRateLimited
	case strings.Contains(msg, "API key"):
		return KindAuth
	default:
		return KindGeneration
	}
}

func providerError(err error) *Error {
	kind := Classify(err)
	msg := msgGeneration
	switch kind {
	case KindRateLimited:
		msg = msgRateLimited
	case KindAuth:
		msg = msgAuth
	}
	return &Error{Kind: kind, Message: msg, Err: err}
}
