// Package tokenauth provides a Fiber middleware that resolves the request
// principal from a bearer token before protected handlers run.
package tokenauth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	identity "github.com/goliatone/go-identity"
)

// DefaultContextKey is the Locals key the resolved principal is stored under.
const DefaultContextKey = "principal"

// TokenValidator validates a raw bearer token into a principal.
type TokenValidator interface {
	Validate(raw string) (*identity.Principal, error)
}

// Config holds middleware options.
type Config struct {
	// Validator validates extracted tokens. Required.
	Validator TokenValidator

	// AuthScheme expected in the Authorization header. Defaults to "Bearer".
	AuthScheme string

	// ContextKey under which the principal is stored in Locals.
	// Defaults to DefaultContextKey.
	ContextKey string

	// ErrorHandler receives extraction and validation failures. Defaults to
	// returning the error so the application error handler maps it.
	ErrorHandler fiber.ErrorHandler
}

// New returns the middleware. A missing or malformed Authorization header
// fails as unauthenticated; an extracted token that does not validate fails
// with the validator's error.
func New(config Config) fiber.Handler {
	cfg := configDefault(config)

	return func(c *fiber.Ctx) error {
		raw, err := extractToken(c, cfg.AuthScheme)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		principal, err := cfg.Validator.Validate(raw)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(cfg.ContextKey, principal)
		c.SetUserContext(identity.WithPrincipal(c.UserContext(), principal))

		return c.Next()
	}
}

// PrincipalFromCtx extracts the principal stored by the middleware. The
// second return is false on unauthenticated requests.
func PrincipalFromCtx(c *fiber.Ctx, key string) (*identity.Principal, bool) {
	if key == "" {
		key = DefaultContextKey
	}

	raw := c.Locals(key)
	if raw == nil {
		return nil, false
	}

	principal, ok := raw.(*identity.Principal)
	return principal, ok
}

func extractToken(c *fiber.Ctx, scheme string) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", identity.ErrUnauthenticated
	}

	prefix := scheme + " "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", identity.ErrUnauthenticated
	}

	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", identity.ErrUnauthenticated
	}

	return token, nil
}

func configDefault(cfg Config) Config {
	if cfg.Validator == nil {
		panic("tokenauth: Validator is required")
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
			return err
		}
	}

	return cfg
}
