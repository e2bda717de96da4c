package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/user-service/internal/domain"
)

// ErrDuplicateIdentifier signals a registration with an identifier that is
// already taken.
var ErrDuplicateIdentifier = errors.New("identifier already registered")

// AccountRepository defines persistence access for credential holders.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByIdentifier(ctx context.Context, identifier string) (*domain.Account, error)
	GetByID(ctx context.Context, id string) (*domain.Account, error)
}

type accountRepository struct {
	db *sql.DB
}

// NewAccountRepository returns a SQLite-backed implementation.
func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (id, identifier, password_hash, created_at)
        VALUES (?, ?, ?, ?)`

	account.ID = uuid.NewString()
	account.CreatedAt = time.Now().UTC()

	if _, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.Identifier,
		account.PasswordHash,
		account.CreatedAt,
	); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: accounts.identifier") {
			return ErrDuplicateIdentifier
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *accountRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.Account, error) {
	const query = `
        SELECT id, identifier, password_hash, created_at
        FROM accounts WHERE identifier = ?`

	return r.fetchSingle(ctx, query, identifier)
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	const query = `
        SELECT id, identifier, password_hash, created_at
        FROM accounts WHERE id = ?`

	return r.fetchSingle(ctx, query, id)
}

func (r *accountRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var account domain.Account
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&account.ID,
		&account.Identifier,
		&account.PasswordHash,
		&account.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}
