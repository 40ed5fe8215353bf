// Package authn gates protected routes on a verified bearer token and hands
// the caller's identity to downstream handlers through the request context.
package authn

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-tracker-go/internal/token"
	"github.com/ovaphlow/pitchfork/service-tracker-go/pkg/utilities"
)

var ErrMissingCredential = errors.New("missing bearer credential")

// Verifier validates a bearer token at the given instant.
type Verifier interface {
	Verify(tokenString string, now time.Time) (*token.Identity, error)
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id token.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity attached by Middleware.
func IdentityFrom(ctx context.Context) (token.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(token.Identity)
	return id, ok
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
// The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, error) {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", ErrMissingCredential
	}
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return "", ErrMissingCredential
	}
	return tok, nil
}

// Middleware rejects requests without a valid bearer token with a generic 401.
// The concrete reason is only logged at debug level.
func Middleware(v Verifier, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := authenticate(r, v)
			if err != nil {
				logger.Debugw("request unauthorized", "path", r.URL.Path, "reason", err.Error())
				w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
				utilities.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), *id)))
		})
	}
}

func authenticate(r *http.Request, v Verifier) (*token.Identity, error) {
	raw, err := BearerToken(r)
	if err != nil {
		return nil, err
	}
	return v.Verify(raw, time.Now().UTC())
}
