package middleware

import (
	"github.com/arzan03/BloodBridge/internal/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// Capability is an access requirement a route declares.
type Capability int

const (
	// Verified requires a valid bearer token.
	Verified Capability = iota + 1
	// Admin requires the verified principal to hold the admin role.
	Admin
)

func (c Capability) String() string {
	switch c {
	case Verified:
		return "verified"
	case Admin:
		return "admin"
	default:
		return "unknown"
	}
}

// GateDeps are the collaborators a gate consults.
type GateDeps struct {
	Verifier auth.Verifier
	Users    RoleLookup
	Logger   zerolog.Logger
}

// Gate builds the handler chain that enforces requires. Admin implies
// Verified, and verification always runs first. No requirements yields an
// empty chain.
func Gate(deps GateDeps, requires ...Capability) []fiber.Handler {
	var verified, admin bool
	for _, r := range requires {
		switch r {
		case Verified:
			verified = true
		case Admin:
			verified, admin = true, true
		}
	}

	var chain []fiber.Handler
	if verified {
		chain = append(chain, AuthMiddleware(deps.Verifier, deps.Logger))
	}
	if admin {
		chain = append(chain, AdminMiddleware(deps.Users, deps.Logger))
	}
	return chain
}
