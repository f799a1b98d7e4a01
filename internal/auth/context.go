package auth

import (
	"context"

	"github.com/gin-gonic/gin"
)

type subjectCtxKey struct{}

// WithSubject returns a context carrying the authenticated owner identity.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectCtxKey{}, subject)
}

// SubjectFrom returns the authenticated owner identity, if any.
func SubjectFrom(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(subjectCtxKey{}).(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Subject returns the authenticated owner identity of a gin request, or "".
func Subject(c *gin.Context) string {
	s, _ := SubjectFrom(c.Request.Context())
	return s
}
