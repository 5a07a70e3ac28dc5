package auth

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/Tomlord1122/todo-api/internal/config"
	"github.com/Tomlord1122/todo-api/internal/domain"
)

// idTokenVerifier is the part of *fbauth.Client the verifier needs.
type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseVerifier checks Firebase ID tokens with the Admin SDK. Verified
// tokens are not cached.
type FirebaseVerifier struct {
	client idTokenVerifier
}

// NewFirebaseVerifier initializes a Firebase app from the credentials in
// cfg: inline JSON, then an explicit path, then the default file.
func NewFirebaseVerifier(ctx context.Context, cfg *config.Config) (*FirebaseVerifier, error) {
	app, err := firebase.NewApp(ctx, nil, credentialsOption(cfg))
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase auth client: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

func credentialsOption(cfg *config.Config) option.ClientOption {
	kind, value := cfg.CredentialsSource()
	if kind == "json" {
		return option.WithCredentialsJSON([]byte(value))
	}
	return option.WithCredentialsFile(value)
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, ErrUnauthenticated
	}

	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		if rejected(err) {
			return domain.User{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		return domain.User{}, fmt.Errorf("%w: %v", ErrIdentityProvider, err)
	}
	if decoded.UID == "" {
		return domain.User{}, fmt.Errorf("%w: token has no subject", ErrInvalidToken)
	}

	email, _ := decoded.Claims["email"].(string)
	if email == "" {
		email = domain.UnknownEmail
	}
	return domain.User{UID: decoded.UID, Email: email}, nil
}

// rejected reports whether err means the token itself is bad, as opposed
// to the provider being unreachable or misconfigured.
func rejected(err error) bool {
	return fbauth.IsIDTokenInvalid(err) ||
		fbauth.IsIDTokenExpired(err) ||
		fbauth.IsIDTokenRevoked(err) ||
		fbauth.IsUserDisabled(err)
}
