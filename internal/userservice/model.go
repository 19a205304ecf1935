package userservice

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sushihentaime/blogapi/internal/common"
)

var (
	ErrDuplicateEmail = errors.New("duplicate email")
	ErrNotFound       = errors.New("user not found")
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func NewUserModel(db *sqlx.DB) *UserModel {
	return &UserModel{db: db}
}

// insert persists u, hashing its password first unless it already holds a hash.
func (m *UserModel) insert(ctx context.Context, u *User) error {
	if err := u.Password.ensureHashed(); err != nil {
		return err
	}

	query := `
		INSERT INTO users (first_name, last_name, email, password)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	args := []any{
		u.FirstName,
		u.LastName,
		u.Email,
		u.Password.hash,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		switch {
		case common.UniqueViolation(err, "users_email_key"):
			return ErrDuplicateEmail
		default:
			return err
		}
	}

	return nil
}

func (m *UserModel) getByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, first_name, last_name, email, password, created_at, updated_at
		FROM users
		WHERE email = $1`

	var row userRow

	err := m.db.GetContext(ctx, &row, query, email)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return row.user(), nil
}

// findIDsByName returns the ids of users whose first or last name contains term, ignoring case.
func (m *UserModel) findIDsByName(ctx context.Context, term string) ([]uuid.UUID, error) {
	query := `
		SELECT id
		FROM users
		WHERE first_name ILIKE $1 OR last_name ILIKE $1`

	var ids []uuid.UUID

	err := m.db.SelectContext(ctx, &ids, query, "%"+likeEscaper.Replace(term)+"%")
	if err != nil {
		return nil, err
	}

	return ids, nil
}
