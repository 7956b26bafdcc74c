package apiclient

import (
	"errors"
	"net/http"
	"time"

	"go-hris-admin/internal/shared/apperror"

	"github.com/golang-jwt/jwt/v5"
)

// Credentials decorates outgoing requests.
type Credentials interface {
	Apply(req *http.Request) error
}

type noCredentials struct{}

func (noCredentials) Apply(*http.Request) error { return nil }

// BearerToken attaches a static token. When the token is a JWT its exp claim
// is checked locally so an expired session fails before hitting the network.
// The signature is not verified here; that is the backend's job.
type BearerToken struct {
	token string
	now   func() time.Time
}

func NewBearerToken(token string) *BearerToken {
	return &BearerToken{token: token, now: time.Now}
}

func (b *BearerToken) Apply(req *http.Request) error {
	if b.token == "" {
		return nil
	}

	claims := jwt.RegisteredClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(b.token, &claims)
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		// opaque token
	case err != nil:
		return apperror.Wrap(err, apperror.CodeUnauthorized, "Invalid API token", http.StatusUnauthorized)
	case claims.ExpiresAt != nil && !claims.ExpiresAt.After(b.now()):
		return apperror.New(apperror.CodeUnauthorized, "API token expired", http.StatusUnauthorized)
	}

	req.Header.Set("Authorization", "Bearer "+b.token)
	return nil
}
