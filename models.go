package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Role is a coarse grained account role
type Role = string

const (
	// RoleUser is the default role every account receives at registration
	RoleUser Role = "USER"
	// RoleAdmin grants access to administrative operations
	RoleAdmin Role = "ADMIN"
)

// Account is the persisted account model. The email column carries a unique
// constraint; that constraint, not the registry's pre-check, is the
// authoritative uniqueness guarantee.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acc"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Roles         []Role     `bun:"roles,type:jsonb" json:"roles,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// HasRole reports whether the account carries the given role.
func (a *Account) HasRole(role Role) bool {
	if a == nil {
		return false
	}
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// GrantRole appends a role if the account does not already carry it.
func (a *Account) GrantRole(role Role) *Account {
	if a == nil || a.HasRole(role) {
		return a
	}
	a.Roles = append(a.Roles, role)
	return a
}

// Principal is the ephemeral, request-scoped projection of an account used
// for authorization decisions. It is produced by authentication or token
// validation and never persisted.
type Principal struct {
	ID    string   `json:"id"`
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

// HasRole reports whether the principal carries the given role.
func (p *Principal) HasRole(role string) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the principal's role set intersects roles.
func (p *Principal) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if p.HasRole(role) {
			return true
		}
	}
	return false
}

// PrincipalFromAccount projects an account into a principal.
func PrincipalFromAccount(account *Account) *Principal {
	if account == nil {
		return nil
	}

	roles := make([]string, len(account.Roles))
	copy(roles, account.Roles)

	return &Principal{
		ID:    account.ID.String(),
		Email: account.Email,
		Roles: roles,
	}
}
