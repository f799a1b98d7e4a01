package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates identity-provider tokens and extracts the subject.
type Verifier struct {
	method jwt.SigningMethod
	key    any
	issuer string
}

// NewHMACVerifier verifies HS256 tokens signed with secret.
func NewHMACVerifier(secret, issuer string) *Verifier {
	return &Verifier{method: jwt.SigningMethodHS256, key: []byte(secret), issuer: issuer}
}

// NewRSAVerifier verifies RS256 tokens against a PEM-encoded public key.
func NewRSAVerifier(publicKeyPEM, issuer string) (*Verifier, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("parse RSA public key: %w", err)
	}
	return newRSAVerifier(key, issuer), nil
}

func newRSAVerifier(key *rsa.PublicKey, issuer string) *Verifier {
	return &Verifier{method: jwt.SigningMethodRS256, key: key, issuer: issuer}
}

// NewVerifier picks a verifier from configuration. It returns nil when
// neither a secret nor a public key is set; every request is then anonymous.
func NewVerifier(secret, publicKeyPEM, issuer string) (*Verifier, error) {
	switch {
	case strings.TrimSpace(publicKeyPEM) != "":
		return NewRSAVerifier(publicKeyPEM, issuer)
	case secret != "":
		return NewHMACVerifier(secret, issuer), nil
	default:
		return nil, nil
	}
}

// Verify parses and validates token and returns its "sub" claim.
func (v *Verifier) Verify(token string) (string, error) {
	if token == "" {
		return "", errors.New("token is empty")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{v.method.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	if !parsed.Valid {
		return "", errors.New("invalid token")
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}
