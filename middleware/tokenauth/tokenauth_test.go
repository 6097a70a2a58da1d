package tokenauth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	identity "github.com/goliatone/go-identity"
	"github.com/goliatone/go-identity/middleware/tokenauth"
	"github.com/stretchr/testify/assert"
)

type stubValidator struct {
	principal *identity.Principal
	err       error
	seen      string
}

func (s *stubValidator) Validate(raw string) (*identity.Principal, error) {
	s.seen = raw
	if s.err != nil {
		return nil, s.err
	}
	return s.principal, nil
}

func newTestApp(validator tokenauth.TokenValidator) (*fiber.App, *int) {
	handled := 0

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			res := identity.MapError(err, c.Path())
			return c.Status(res.Status).JSON(res)
		},
	})

	app.Get("/protected", tokenauth.New(tokenauth.Config{Validator: validator}), func(c *fiber.Ctx) error {
		handled++

		principal, ok := tokenauth.PrincipalFromCtx(c, "")
		if !ok {
			return identity.ErrUnauthenticated
		}

		return c.JSON(principal)
	})

	return app, &handled
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	validator := &stubValidator{principal: &identity.Principal{ID: "u1"}}
	app, handled := newTestApp(validator)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	res, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Zero(t, *handled)
	assert.Empty(t, validator.seen)
}

func TestMiddlewareRejectsWrongScheme(t *testing.T) {
	validator := &stubValidator{principal: &identity.Principal{ID: "u1"}}
	app, handled := newTestApp(validator)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Token abc123")
	res, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Zero(t, *handled)
}

func TestMiddlewareResolvesPrincipal(t *testing.T) {
	validator := &stubValidator{
		principal: &identity.Principal{ID: "u1", Roles: []string{identity.RoleUser}},
	}
	app, handled := newTestApp(validator)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer raw-token-value")
	res, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, 1, *handled)
	assert.Equal(t, "raw-token-value", validator.seen)
}

func TestMiddlewarePropagatesValidatorError(t *testing.T) {
	validator := &stubValidator{err: identity.ErrTokenExpired}
	app, handled := newTestApp(validator)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer stale-token")
	res, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Zero(t, *handled)
}

func TestMiddlewareStoresPrincipalInUserContext(t *testing.T) {
	validator := &stubValidator{principal: &identity.Principal{ID: "u1"}}

	app := fiber.New()
	app.Get("/ctx", tokenauth.New(tokenauth.Config{Validator: validator}), func(c *fiber.Ctx) error {
		principal, ok := identity.PrincipalFromContext(c.UserContext())
		assert.True(t, ok)
		assert.Equal(t, "u1", principal.ID)
		return c.SendStatus(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ctx", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer token")
	res, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
}
