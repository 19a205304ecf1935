package userservice

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sushihentaime/blogapi/internal/common"
)

const (
	AccessTokenTime time.Duration = time.Hour
)

type UserService struct {
	m      *UserModel
	tokens *TokenService
	mb     common.MessageProducer
	logger *slog.Logger
}

type UserModel struct {
	db *sqlx.DB
}

type User struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Password  Password  `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Password holds either the plaintext submitted by a client or the bcrypt hash read from the
// store. hashed is set once hash holds a bcrypt value so that saving a user twice never hashes a hash.
type Password struct {
	Plain  string `json:"-"`
	hash   []byte
	hashed bool
}

// userRow mirrors the users table for sqlx scanning.
type userRow struct {
	ID        uuid.UUID `db:"id"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	Email     string    `db:"email"`
	Password  []byte    `db:"password"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r userRow) user() *User {
	return &User{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Password:  Password{hash: r.Password, hashed: true},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type SignUpRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// AuthResult is returned by a successful signup or login.
type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
