// Package auth resolves the caller identity from a bearer token.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Tomlord1122/todo-api/internal/domain"
)

var (
	// ErrUnauthenticated means the request carried no bearer token.
	ErrUnauthenticated = errors.New("authentication token missing")
	// ErrInvalidToken means the identity provider rejected the token.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrIdentityProvider covers any other verification failure.
	ErrIdentityProvider = errors.New("authentication error")
)

// Verifier turns an opaque bearer token into a user. Implementations fail
// closed with one of the package errors.
type Verifier interface {
	Verify(ctx context.Context, token string) (domain.User, error)
}

// VerifierFunc adapts a function to the Verifier interface.
type VerifierFunc func(ctx context.Context, token string) (domain.User, error)

func (f VerifierFunc) Verify(ctx context.Context, token string) (domain.User, error) {
	return f(ctx, token)
}

type contextKey struct{}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user domain.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// UserFromContext returns the user stored by RequireUser.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(contextKey{}).(domain.User)
	return user, ok && user.UID != ""
}

// BearerToken extracts the token of an "Authorization: Bearer ..." header.
// It returns "" when the header is missing or uses another scheme.
func BearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireUser verifies the bearer token once per request and stores the
// resulting user in the request context. Failures are handed to fail and
// the chain stops there.
func RequireUser(v Verifier, fail func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				fail(w, r, ErrUnauthenticated)
				return
			}

			user, err := v.Verify(r.Context(), token)
			if err != nil {
				fail(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}
