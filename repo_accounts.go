package identity

import (
	"context"
	"strings"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Accounts is the generic repository surface for the accounts table.
type Accounts interface {
	repository.Repository[*Account]
}

// NewAccountsRepository builds the Bun-backed accounts repository.
func NewAccountsRepository(db *bun.DB) Accounts {
	return repository.NewRepository[*Account](db, repository.ModelHandlers[*Account]{
		NewRecord: func() *Account { return &Account{} },
		GetID: func(a *Account) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Account, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})
}

// BunAccountStore implements AccountStore on top of the accounts repository.
// Unique-constraint violations from the database are translated into the
// duplicate-email conflict so the registry sees one error kind no matter
// which layer detected the collision.
type BunAccountStore struct {
	db   *bun.DB
	repo Accounts
}

var _ AccountStore = (*BunAccountStore)(nil)

// NewBunAccountStore returns an AccountStore backed by Bun.
func NewBunAccountStore(db *bun.DB) *BunAccountStore {
	return &BunAccountStore{
		db:   db,
		repo: NewAccountsRepository(db),
	}
}

func (s *BunAccountStore) Exists(ctx context.Context, email string) (bool, error) {
	return s.db.NewSelect().
		Model((*Account)(nil)).
		Where("?TableAlias.email = ?", email).
		Exists(ctx)
}

func (s *BunAccountStore) Insert(ctx context.Context, account *Account) (*Account, error) {
	created, err := s.repo.Create(ctx, account)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}
	return created, nil
}

func (s *BunAccountStore) GetByID(ctx context.Context, id string) (*Account, error) {
	record := &Account{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) || strings.Contains(err.Error(), "no rows") {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id})
		}
		return nil, err
	}
	return record, nil
}

func (s *BunAccountStore) GetByEmail(ctx context.Context, email string) (*Account, error) {
	account, err := s.repo.GetByIdentifier(ctx, email)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *BunAccountStore) List(ctx context.Context) ([]*Account, error) {
	var records []*Account
	err := s.db.NewSelect().
		Model(&records).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *BunAccountStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.NewDelete().
		Model((*Account)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id})
	}

	return nil
}

// isUniqueViolation matches the constraint errors SQLite and Postgres emit
// for duplicate keys.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.Category == errors.CategoryConflict {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
