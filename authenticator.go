package identity

import (
	"context"

	"github.com/goliatone/go-errors"
)

// AccountFinder is the read-only registry surface authentication needs.
type AccountFinder interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
}

// Authenticator verifies credentials against the registry and projects the
// matching account into a Principal. Unknown email and wrong password fail
// with the same error so responses cannot be used to enumerate accounts.
type Authenticator struct {
	accounts AccountFinder
	hasher   PasswordHasher
	logger   Logger
}

// NewAuthenticator returns a new Authenticator.
func NewAuthenticator(accounts AccountFinder) *Authenticator {
	return &Authenticator{
		accounts: accounts,
		hasher:   BcryptHasher{},
		logger:   defLogger{},
	}
}

func (a *Authenticator) WithLogger(logger Logger) *Authenticator {
	a.logger = logger
	return a
}

func (a *Authenticator) WithHasher(hasher PasswordHasher) *Authenticator {
	a.hasher = hasher
	return a
}

// Authenticate verifies the email/password pair. It is read only: no state
// changes regardless of outcome.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (*Principal, error) {
	account, err := a.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrBadCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve account during verification")
	}

	if err := a.hasher.ComparePasswordAndHash(password, account.PasswordHash); err != nil {
		if IsBadCredentialsError(err) {
			return nil, ErrBadCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to compare password hash")
	}

	return PrincipalFromAccount(account), nil
}

// Auther orchestrates credential verification and token issuance.
type Auther struct {
	authenticator *Authenticator
	tokenService  *TokenService
	logger        Logger
}

// NewAuther wires an Authenticator and a TokenService from config.
func NewAuther(accounts AccountFinder, cfg Config) *Auther {
	return &Auther{
		authenticator: NewAuthenticator(accounts),
		tokenService: NewTokenService(
			[]byte(cfg.GetSigningKey()),
			cfg.GetTokenExpiration(),
			cfg.GetIssuer(),
			cfg.GetAudience(),
			defLogger{},
		),
		logger: defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	s.authenticator.WithLogger(logger)
	return s
}

func (s *Auther) WithHasher(hasher PasswordHasher) *Auther {
	s.authenticator.WithHasher(hasher)
	return s
}

// TokenService returns the TokenService instance used by this Auther.
func (s *Auther) TokenService() *TokenService {
	return s.tokenService
}

// Login authenticates the credentials and issues a bearer token for the
// resulting principal.
func (s *Auther) Login(ctx context.Context, email, password string) (string, *Principal, error) {
	principal, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		s.logger.Error("Login verify credentials error: %v", err)
		return "", nil, err
	}

	token, err := s.tokenService.Issue(principal)
	if err != nil {
		s.logger.Error("Login token issue error: %v", err)
		return "", nil, err
	}

	return token, principal, nil
}

// PrincipalFromToken validates a raw bearer token and reconstructs the
// principal from its claims. No store lookup is involved.
func (s *Auther) PrincipalFromToken(raw string) (*Principal, error) {
	principal, err := s.tokenService.Validate(raw)
	if err != nil {
		s.logger.Error("PrincipalFromToken validation failed: %v", err)
		return nil, err
	}
	return principal, nil
}
