package social

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"

	"google.golang.org/api/idtoken"
)

// Provider names accepted by the social login endpoint. Only Google is
// implemented; the rest fail with ErrUnsupportedProvider.
const ProviderGoogle = "google"

var (
	ErrUnsupportedProvider = errors.New("unsupported social login provider")
	ErrTokenInvalid        = errors.New("social identity token invalid")
	ErrUnavailable         = errors.New("social identity provider unavailable")
)

// Identity is what a verified provider token resolves to.
type Identity struct {
	Email   string
	Name    string
	Picture string
}

// Verifier validates a provider identity token and extracts the identity.
type Verifier interface {
	Verify(ctx context.Context, provider, rawToken string) (*Identity, error)
}

type googleVerifier struct {
	audience string
}

// NewGoogleVerifier builds a verifier that validates Google ID tokens
// against the given OAuth client id.
func NewGoogleVerifier(clientID string) Verifier {
	return &googleVerifier{audience: clientID}
}

func (g *googleVerifier) Verify(ctx context.Context, provider, rawToken string) (*Identity, error) {
	if !strings.EqualFold(provider, ProviderGoogle) {
		return nil, ErrUnsupportedProvider
	}

	payload, err := idtoken.Validate(ctx, rawToken, g.audience)
	if err != nil {
		if isTransient(err) {
			return nil, ErrUnavailable
		}
		return nil, ErrTokenInvalid
	}

	id := &Identity{
		Email:   claimString(payload.Claims, "email"),
		Name:    claimString(payload.Claims, "name"),
		Picture: claimString(payload.Claims, "picture"),
	}
	if id.Email == "" {
		return nil, ErrTokenInvalid
	}
	return id, nil
}

// isTransient separates "could not reach Google" from "Google said no".
func isTransient(err error) bool {
	var urlErr *url.Error
	var netErr net.Error
	return errors.As(err, &urlErr) ||
		errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
