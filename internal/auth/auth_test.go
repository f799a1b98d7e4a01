package auth

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-at-least-32-bytes-long"

func signHS256(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func validClaims(sub string) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Subject:   sub,
		Issuer:    "https://clerk.example",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
}

func TestHMACVerifier(t *testing.T) {
	v := NewHMACVerifier(testSecret, "https://clerk.example")

	sub, err := v.Verify(signHS256(t, testSecret, validClaims("user_123")))
	require.NoError(t, err)
	assert.Equal(t, "user_123", sub)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := v.Verify(signHS256(t, "another-secret-another-secret-123", validClaims("user_123")))
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		c := validClaims("user_123")
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		_, err := v.Verify(signHS256(t, testSecret, c))
		assert.Error(t, err)
	})

	t.Run("missing expiry", func(t *testing.T) {
		c := validClaims("user_123")
		c.ExpiresAt = nil
		_, err := v.Verify(signHS256(t, testSecret, c))
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		c := validClaims("user_123")
		c.Issuer = "someone-else"
		_, err := v.Verify(signHS256(t, testSecret, c))
		assert.Error(t, err)
	})

	t.Run("no subject", func(t *testing.T) {
		_, err := v.Verify(signHS256(t, testSecret, validClaims("")))
		assert.Error(t, err)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := v.Verify("")
		assert.Error(t, err)
	})
}

func TestRSAVerifier(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	pemKey := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))

	v, err := NewRSAVerifier(pemKey, "")
	require.NoError(t, err)

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, validClaims("user_rsa")).SignedString(priv)
	require.NoError(t, err)

	sub, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user_rsa", sub)

	// An HS256 token must not be accepted by an RS256 verifier.
	_, err = v.Verify(signHS256(t, testSecret, validClaims("user_rsa")))
	assert.Error(t, err)

	_, err = NewRSAVerifier("not a pem", "")
	assert.Error(t, err)
}

func TestNewVerifier(t *testing.T) {
	v, err := NewVerifier("", "", "")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = NewVerifier(testSecret, "", "")
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func TestIdentityMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	newRouter := func(v *Verifier) *gin.Engine {
		r := gin.New()
		r.Use(IdentityMiddleware(v, logger))
		r.GET("/whoami", func(c *gin.Context) {
			sub, ok := SubjectFrom(c.Request.Context())
			c.JSON(http.StatusOK, gin.H{"subject": sub, "authenticated": ok})
		})
		return r
	}

	do := func(r *gin.Engine, header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	v := NewHMACVerifier(testSecret, "")

	t.Run("valid token sets subject", func(t *testing.T) {
		w := do(newRouter(v), "Bearer "+signHS256(t, testSecret, validClaims("user_9")))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"subject":"user_9","authenticated":true}`, w.Body.String())
	})

	t.Run("lowercase scheme accepted", func(t *testing.T) {
		w := do(newRouter(v), "bearer "+signHS256(t, testSecret, validClaims("user_9")))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_9"`)
	})

	t.Run("no header is anonymous", func(t *testing.T) {
		w := do(newRouter(v), "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"subject":"","authenticated":false}`, w.Body.String())
	})

	t.Run("non-bearer header is anonymous", func(t *testing.T) {
		w := do(newRouter(v), "Basic dXNlcjpwYXNz")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"authenticated":false`)
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		logs.Reset()
		w := do(newRouter(v), "Bearer garbage")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, logs.String(), "rejected bearer token")
	})

	t.Run("nil verifier ignores tokens", func(t *testing.T) {
		w := do(newRouter(nil), "Bearer garbage")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"authenticated":false`)
	})
}

func TestSubjectFrom_EmptyIsAnonymous(t *testing.T) {
	ctx := WithSubject(httptest.NewRequest(http.MethodGet, "/", nil).Context(), "")
	_, ok := SubjectFrom(ctx)
	assert.False(t, ok)
}
