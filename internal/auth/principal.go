package auth

import (
	"context"
	"errors"
)

// ErrUnauthorized is returned for every rejected credential. The cause is
// wrapped for logs and never shown to the caller.
var ErrUnauthorized = errors.New("unauthorized")

// Principal is the identity proven by a verified token.
type Principal struct {
	Email   string
	Subject string
}

// Verifier turns a bearer token into a Principal.
type Verifier interface {
	Verify(ctx context.Context, token string) (Principal, error)
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal attached by the auth middleware.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok && p.Email != ""
}
