package identity_test

import (
	"testing"

	"github.com/google/uuid"
	identity "github.com/goliatone/go-identity"
	"github.com/stretchr/testify/assert"
)

func TestAccountRoles(t *testing.T) {
	account := &identity.Account{Roles: []identity.Role{identity.RoleUser}}

	assert.True(t, account.HasRole(identity.RoleUser))
	assert.False(t, account.HasRole(identity.RoleAdmin))

	account.GrantRole(identity.RoleAdmin)
	assert.True(t, account.HasRole(identity.RoleAdmin))

	account.GrantRole(identity.RoleAdmin)
	assert.Len(t, account.Roles, 2)
}

func TestPrincipalFromAccount(t *testing.T) {
	t.Run("projects id, email, and roles", func(t *testing.T) {
		id := uuid.New()
		account := &identity.Account{
			ID:           id,
			Email:        "a@x.com",
			PasswordHash: "digest:secret",
			Roles:        []identity.Role{identity.RoleUser},
		}

		principal := identity.PrincipalFromAccount(account)

		assert.Equal(t, id.String(), principal.ID)
		assert.Equal(t, "a@x.com", principal.Email)
		assert.Equal(t, []string{identity.RoleUser}, principal.Roles)
	})

	t.Run("role slice is a copy", func(t *testing.T) {
		account := &identity.Account{Roles: []identity.Role{identity.RoleUser}}

		principal := identity.PrincipalFromAccount(account)
		principal.Roles[0] = identity.RoleAdmin

		assert.Equal(t, identity.RoleUser, account.Roles[0])
	})

	t.Run("nil account yields nil principal", func(t *testing.T) {
		assert.Nil(t, identity.PrincipalFromAccount(nil))
	})
}

func TestPrincipalRoleChecks(t *testing.T) {
	principal := &identity.Principal{ID: "u1", Roles: []string{identity.RoleUser}}

	assert.True(t, principal.HasRole(identity.RoleUser))
	assert.False(t, principal.HasRole(identity.RoleAdmin))
	assert.True(t, principal.HasAnyRole(identity.RoleAdmin, identity.RoleUser))
	assert.False(t, principal.HasAnyRole(identity.RoleAdmin))

	var nilPrincipal *identity.Principal
	assert.False(t, nilPrincipal.HasRole(identity.RoleUser))
	assert.False(t, nilPrincipal.HasAnyRole(identity.RoleUser))
}
