package httpapi

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	identity "github.com/goliatone/go-identity"
	"github.com/goliatone/go-identity/middleware/tokenauth"
)

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
	)
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// TokenResponse is returned on successful login.
type TokenResponse struct {
	Token string   `json:"token"`
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// AccountResponse is the outward projection of an account. It never carries
// the password hash.
type AccountResponse struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// MessageResponse wraps one-line confirmations.
type MessageResponse struct {
	Message string `json:"message"`
}

// Controller exposes the account and auth endpoints.
type Controller struct {
	Registry *identity.Registry
	Auther   *identity.Auther
	Guard    *identity.Guard
	Logger   identity.Logger
}

// NewController wires a controller around the core components.
func NewController(registry *identity.Registry, auther *identity.Auther, guard *identity.Guard) *Controller {
	return &Controller{
		Registry: registry,
		Auther:   auther,
		Guard:    guard,
		Logger:   identity.DefaultLogger(),
	}
}

func (ctrl *Controller) WithLogger(logger identity.Logger) *Controller {
	ctrl.Logger = logger
	return ctrl
}

// RegistrationCreate handles POST /auth/register.
func (ctrl *Controller) RegistrationCreate(c *fiber.Ctx) error {
	payload := RegisterRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid request payload")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	account, err := ctrl.Registry.Register(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(accountResponse(account))
}

// LoginPost handles POST /auth/login.
func (ctrl *Controller) LoginPost(c *fiber.Ctx) error {
	payload := LoginRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid request payload")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	token, principal, err := ctrl.Auther.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return err
	}

	return c.JSON(TokenResponse{
		Token: token,
		ID:    principal.ID,
		Email: principal.Email,
		Roles: principal.Roles,
	})
}

// ListAccounts handles GET /users. Requires the admin role.
func (ctrl *Controller) ListAccounts(c *fiber.Ctx) error {
	principal, _ := tokenauth.PrincipalFromCtx(c, "")
	if err := ctrl.Guard.Check(principal, OpListAccounts, ""); err != nil {
		return err
	}

	accounts, err := ctrl.Registry.List(c.UserContext())
	if err != nil {
		return err
	}

	out := make([]AccountResponse, len(accounts))
	for i, account := range accounts {
		out[i] = accountResponse(account)
	}

	return c.JSON(out)
}

// GetAccount handles GET /users/:id. Owner or admin.
func (ctrl *Controller) GetAccount(c *fiber.Ctx) error {
	id := c.Params("id")

	principal, _ := tokenauth.PrincipalFromCtx(c, "")
	if err := ctrl.Guard.Check(principal, OpGetAccount, id); err != nil {
		return err
	}

	account, err := ctrl.Registry.FindByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(accountResponse(account))
}

// DeleteAccount handles DELETE /users/:id. Admin only.
func (ctrl *Controller) DeleteAccount(c *fiber.Ctx) error {
	id := c.Params("id")

	principal, _ := tokenauth.PrincipalFromCtx(c, "")
	if err := ctrl.Guard.Check(principal, OpDeleteAccount, id); err != nil {
		return err
	}

	if err := ctrl.Registry.Delete(c.UserContext(), id); err != nil {
		return err
	}

	return c.JSON(MessageResponse{Message: "Account deleted successfully"})
}

func accountResponse(account *identity.Account) AccountResponse {
	return AccountResponse{
		ID:    account.ID.String(),
		Email: account.Email,
		Roles: account.Roles,
	}
}
