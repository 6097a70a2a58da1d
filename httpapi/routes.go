// Package httpapi wires the identity core to a Fiber application: route
// registration, payload validation, the bearer-token middleware, and the
// single error-mapping boundary.
package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	identity "github.com/goliatone/go-identity"
	"github.com/goliatone/go-identity/middleware/tokenauth"
)

// Protected operations. The guard's policy table is keyed on these; the
// policy for each is declared once, at registration time.
const (
	OpListAccounts  = "accounts.list"
	OpGetAccount    = "accounts.get"
	OpDeleteAccount = "accounts.delete"
)

// NewGuard returns the guard with the static operation policy table.
func NewGuard() *identity.Guard {
	return identity.NewGuard().
		RegisterPolicy(OpListAccounts, identity.RequireRole(identity.RoleAdmin)).
		RegisterPolicy(OpGetAccount, identity.RequireOwnerOr(identity.RoleAdmin)).
		RegisterPolicy(OpDeleteAccount, identity.RequireRole(identity.RoleAdmin))
}

// Register mounts the auth and account routes. Account routes run the
// bearer-token middleware before any handler; the guard check inside each
// handler then evaluates the operation's declared policy.
func Register(app *fiber.App, ctrl *Controller) {
	protected := tokenauth.New(tokenauth.Config{
		Validator: ctrl.Auther.TokenService(),
	})

	auth := app.Group("/auth")
	auth.Post("/register", ctrl.RegistrationCreate)
	auth.Post("/login", ctrl.LoginPost)

	users := app.Group("/users", protected)
	users.Get("/", ctrl.ListAccounts)
	users.Get("/:id", ctrl.GetAccount)
	users.Delete("/:id", ctrl.DeleteAccount)
}

// ErrorHandler is the outermost mapping boundary: it turns any error that
// escapes a handler into the structured error response, exactly once per
// failing request. Unclassified failures are logged server side and leave
// only a generic message in the body.
func ErrorHandler(logger identity.Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = identity.DefaultLogger()
	}

	return func(c *fiber.Ctx, err error) error {
		if fe, ok := err.(*fiber.Error); ok {
			// Router-level errors (unknown route, method not allowed) are
			// not part of the taxonomy; pass their status through.
			return c.Status(fe.Code).JSON(identity.ErrorResponse{
				Timestamp: time.Now(),
				Status:    fe.Code,
				Error:     fe.Message,
				Message:   fe.Message,
				Path:      c.Path(),
			})
		}

		res := identity.MapError(err, c.Path())
		if res.Status >= fiber.StatusInternalServerError {
			logger.Error("unclassified failure on %s: %v", c.Path(), err)
		}

		return c.Status(res.Status).JSON(res)
	}
}

// NewApp builds a Fiber app with the error boundary installed and all
// routes registered.
func NewApp(ctrl *Controller) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(ctrl.Logger),
	})

	Register(app, ctrl)

	return app
}
