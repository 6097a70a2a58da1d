package identity

import (
	"context"
	"fmt"

	"github.com/goliatone/go-errors"
)

// Registry owns the account lifecycle: registration with uniqueness
// enforcement, lookups, and deletion. It is backed by an AccountStore and
// never exposes password hashes beyond the Account model's own JSON policy.
type Registry struct {
	store  AccountStore
	hasher PasswordHasher
	logger Logger
}

// NewRegistry returns a Registry backed by the given store.
func NewRegistry(store AccountStore) *Registry {
	return &Registry{
		store:  store,
		hasher: BcryptHasher{},
		logger: defLogger{},
	}
}

func (r *Registry) WithLogger(logger Logger) *Registry {
	r.logger = logger
	return r
}

// WithHasher overrides the hashing primitive, mostly for tests.
func (r *Registry) WithHasher(hasher PasswordHasher) *Registry {
	r.hasher = hasher
	return r
}

// Register creates a new account with the default role set. The existence
// pre-check is an early exit only; two concurrent registrations can both
// pass it, and the store's unique constraint resolves the race. A conflict
// surfaced by either layer comes back as the same duplicate-email error.
func (r *Registry) Register(ctx context.Context, email, password string) (*Account, error) {
	taken, err := r.store.Exists(ctx, email)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check email availability")
	}

	if taken {
		return nil, ErrEmailInUse
	}

	hash, err := r.hasher.HashPassword(password)
	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	account := &Account{
		Email:        email,
		PasswordHash: hash,
		Roles:        []Role{RoleUser},
	}

	created, err := r.store.Insert(ctx, account)
	if err != nil {
		if isConflict(err) {
			r.logger.Info("registration lost a duplicate-email race for %s", email)
			return nil, ErrEmailInUse
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not create account")
	}

	return created, nil
}

// FindByID fetches an account by id.
func (r *Registry) FindByID(ctx context.Context, id string) (*Account, error) {
	account, err := r.store.GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, accountNotFound(id)
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve account")
	}
	return account, nil
}

// FindByEmail fetches an account by email.
func (r *Registry) FindByEmail(ctx context.Context, email string) (*Account, error) {
	account, err := r.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, accountNotFound(email)
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve account")
	}
	return account, nil
}

// List returns every account. Intended for administrative listings.
func (r *Registry) List(ctx context.Context) ([]*Account, error) {
	accounts, err := r.store.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list accounts")
	}
	return accounts, nil
}

// Delete removes an account by id.
func (r *Registry) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, id); err != nil {
		if errors.IsNotFound(err) {
			return accountNotFound(id)
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete account")
	}
	return nil
}

func accountNotFound(identifier string) error {
	clone := ErrAccountNotFound.Clone()
	if clone == nil {
		return ErrAccountNotFound
	}
	clone.Message = fmt.Sprintf("account not found with id: %s", identifier)
	return clone.WithMetadata(map[string]any{"identifier": identifier})
}

func isConflict(err error) bool {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.Category == errors.CategoryConflict
}
