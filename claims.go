package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// IdentityClaims is the claim set carried by issued tokens. Roles are
// embedded so validation never needs a registry round-trip.
type IdentityClaims struct {
	jwt.RegisteredClaims
	UID       string   `json:"uid,omitempty"`
	UserEmail string   `json:"email,omitempty"`
	Roles     []string `json:"roles,omitempty"`
}

// Subject returns the subject claim
func (c *IdentityClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID
func (c *IdentityClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// HasRole checks if the claim set carries a specific role
func (c *IdentityClaims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Expires returns the expiration time
func (c *IdentityClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAtTime returns the issued at time
func (c *IdentityClaims) IssuedAtTime() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// Principal rebuilds the request principal from the embedded claims.
func (c *IdentityClaims) Principal() *Principal {
	roles := make([]string, len(c.Roles))
	copy(roles, c.Roles)

	return &Principal{
		ID:    c.UserID(),
		Email: c.UserEmail,
		Roles: roles,
	}
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
