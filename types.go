package identity

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds token options
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() int
	GetIssuer() string
	GetAudience() []string
}

// BasicConfig is a plain Config implementation for wiring.
type BasicConfig struct {
	SigningKey      string
	TokenExpiration int
	Issuer          string
	Audience        []string
}

func (c BasicConfig) GetSigningKey() string   { return c.SigningKey }
func (c BasicConfig) GetTokenExpiration() int { return c.TokenExpiration }
func (c BasicConfig) GetIssuer() string       { return c.Issuer }
func (c BasicConfig) GetAudience() []string   { return c.Audience }

// AccountStore is the durable storage contract the registry depends on.
// Insert must be atomic and uniqueness-enforcing on email.
type AccountStore interface {
	Exists(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, account *Account) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	List(ctx context.Context) ([]*Account, error)
	Delete(ctx context.Context, id string) error
}

// DefaultLogger returns the printf-backed logger used when no Logger is
// injected.
func DefaultLogger() Logger {
	return defLogger{}
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] IDENTITY "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] IDENTITY "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] IDENTITY "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
