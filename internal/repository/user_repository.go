package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/user-service/internal/domain"
)

// List pagination bounds.
const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// UserFilter captures list query parameters. Name filters match
// case-insensitive substrings; age bounds are inclusive.
type UserFilter struct {
	FirstName *string
	LastName  *string
	MinAge    *int
	MaxAge    *int
	Limit     int
	Offset    int
}

// UserPatch carries a partial update; nil fields are left untouched.
type UserPatch struct {
	FirstName *string
	LastName  *string
	Age       *int
}

// UserRepository encapsulates user persistence. Absent records surface as
// sql.ErrNoRows from every operation that takes an id.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Patch(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository returns a SQLite-backed implementation.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (id, first_name, last_name, age, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Age,
		user.CreatedAt,
		user.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT id, first_name, last_name, age, created_at, updated_at
        FROM users WHERE id = ?`

	var user domain.User
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Age,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns users matching the filter, ordered by created_at then id so
// identical queries always return the same sequence.
func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]domain.User, error) {
	base := `SELECT id, first_name, last_name, age, created_at, updated_at FROM users`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.FirstName != nil && strings.TrimSpace(*filter.FirstName) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.FirstName))+"%")
		clauses = append(clauses, "LOWER(first_name) LIKE ?")
	}
	if filter.LastName != nil && strings.TrimSpace(*filter.LastName) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.LastName))+"%")
		clauses = append(clauses, "LOWER(last_name) LIKE ?")
	}
	if filter.MinAge != nil {
		args = append(args, *filter.MinAge)
		clauses = append(clauses, "age >= ?")
	}
	if filter.MaxAge != nil {
		args = append(args, *filter.MaxAge)
		clauses = append(clauses, "age <= ?")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at, id LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

// Update replaces all mutable fields and refreshes updated_at.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET first_name=?, last_name=?, age=?, updated_at=?
        WHERE id=?`

	user.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query,
		user.FirstName,
		user.LastName,
		user.Age,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Patch replaces only the supplied fields in a single statement, then reads
// back the full record. updated_at is refreshed even for an empty patch.
func (r *userRepository) Patch(ctx context.Context, id string, patch UserPatch) (*domain.User, error) {
	sets := []string{"updated_at=?"}
	args := []any{time.Now().UTC()}

	if patch.FirstName != nil {
		sets = append(sets, "first_name=?")
		args = append(args, *patch.FirstName)
	}
	if patch.LastName != nil {
		sets = append(sets, "last_name=?")
		args = append(args, *patch.LastName)
	}
	if patch.Age != nil {
		sets = append(sets, "age=?")
		args = append(args, *patch.Age)
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id=?`, strings.Join(sets, ", "))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("patch user: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return nil, sql.ErrNoRows
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM users WHERE id=?`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanUsers(rows *sql.Rows) ([]domain.User, error) {
	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.FirstName,
			&user.LastName,
			&user.Age,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
