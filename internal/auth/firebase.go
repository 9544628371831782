package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwk"
)

const firebaseIssuerPrefix = "https://securetoken.google.com/"

// FirebaseClaims are the ID token claims read by the service.
type FirebaseClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	jwt.RegisteredClaims
}

// FirebaseVerifier checks Firebase ID tokens against the provider's
// published signing keys.
type FirebaseVerifier struct {
	projectID string
	keys      jwk.Set
	parser    *jwt.Parser
}

type FirebaseOption func(*firebaseOptions)

type firebaseOptions struct {
	client  *http.Client
	refresh time.Duration
}

func WithHTTPClient(client *http.Client) FirebaseOption {
	return func(o *firebaseOptions) { o.client = client }
}

func WithRefreshInterval(d time.Duration) FirebaseOption {
	return func(o *firebaseOptions) { o.refresh = d }
}

// NewFirebaseVerifier registers the key set URL in a cache that refreshes in
// the background for the lifetime of ctx. The first fetch happens here so a
// bad URL fails at startup.
func NewFirebaseVerifier(ctx context.Context, projectID, jwksURL string, opts ...FirebaseOption) (*FirebaseVerifier, error) {
	if projectID == "" {
		return nil, errors.New("firebase project id is required")
	}
	o := firebaseOptions{client: http.DefaultClient, refresh: time.Hour}
	for _, opt := range opts {
		opt(&o)
	}

	cache := jwk.NewCache(ctx)
	if err := cache.Register(jwksURL,
		jwk.WithHTTPClient(o.client),
		jwk.WithMinRefreshInterval(o.refresh),
	); err != nil {
		return nil, fmt.Errorf("register jwks %s: %w", jwksURL, err)
	}
	if _, err := cache.Refresh(ctx, jwksURL); err != nil {
		return nil, fmt.Errorf("fetch jwks %s: %w", jwksURL, err)
	}

	return &FirebaseVerifier{
		projectID: projectID,
		keys:      jwk.NewCachedSet(cache, jwksURL),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithIssuer(firebaseIssuerPrefix+projectID),
			jwt.WithAudience(projectID),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
	}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (Principal, error) {
	var claims FirebaseClaims
	if _, err := v.parser.ParseWithClaims(token, &claims, v.keyFunc); err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return Principal{}, fmt.Errorf("%w: empty subject", ErrUnauthorized)
	}
	if claims.Email == "" {
		return Principal{}, fmt.Errorf("%w: token has no email", ErrUnauthorized)
	}
	return Principal{Email: claims.Email, Subject: claims.Subject}, nil
}

func (v *FirebaseVerifier) keyFunc(token *jwt.Token) (interface{}, error) {
	kid, _ := token.Header["kid"].(string)
	if kid == "" {
		return nil, errors.New("token has no kid")
	}
	key, ok := v.keys.LookupKeyID(kid)
	if !ok {
		return nil, fmt.Errorf("unknown kid %q", kid)
	}
	var raw interface{}
	if err := key.Raw(&raw); err != nil {
		return nil, fmt.Errorf("decode key %q: %w", kid, err)
	}
	return raw, nil
}
