package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const hmacIssuer = "bloodbridge"

// HMACClaims carry the principal of a locally issued token.
type HMACClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// HMACVerifier accepts HS256 tokens signed with a shared secret. It stands in
// for the identity provider in local and test deployments.
type HMACVerifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewHMACVerifier(secret string) (*HMACVerifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &HMACVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(hmacIssuer),
			jwt.WithExpirationRequired(),
		),
	}, nil
}

// IssueToken signs a token for email that expires after ttl.
func (v *HMACVerifier) IssueToken(email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := HMACClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    hmacIssuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

func (v *HMACVerifier) Verify(_ context.Context, token string) (Principal, error) {
	var claims HMACClaims
	_, err := v.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if claims.Email == "" {
		return Principal{}, fmt.Errorf("%w: token has no email", ErrUnauthorized)
	}
	return Principal{Email: claims.Email, Subject: claims.Subject}, nil
}
