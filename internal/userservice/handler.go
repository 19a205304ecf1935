package userservice

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sushihentaime/blogapi/internal/common"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// NewUserService wires the user store and token service. mb may be nil, in which case no
// user.created events are published.
func NewUserService(db *sqlx.DB, tokens *TokenService, mb common.MessageProducer, logger *slog.Logger) *UserService {
	return &UserService{
		m:      NewUserModel(db),
		tokens: tokens,
		mb:     mb,
		logger: logger,
	}
}

// SignUp creates a new user account, issues an access token and publishes a user.created event.
func (s *UserService) SignUp(ctx context.Context, req *SignUpRequest) (*AuthResult, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = normalizeEmail(req.Email)

	// Perform validation
	v := common.NewValidator()
	validateSignUp(v, req)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  Password{Plain: req.Password},
	}

	// The store hashes the password and is the arbiter of email uniqueness
	err := s.m.insert(ctx, &u)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return nil, err
	}

	s.publishUserCreated(ctx, &u)

	return &AuthResult{Token: token, User: &u}, nil
}

// Login checks the credentials and returns a fresh access token. Blank credentials, an unknown
// email and a wrong password all fail with ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.m.getByEmail(ctx, email)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, ErrInvalidCredentials
		default:
			return nil, err
		}
	}

	ok, err := user.Password.compare(password)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, User: user}, nil
}

// Authenticate resolves a bearer token to the id of the user it was issued for.
func (s *UserService) Authenticate(token string) (uuid.UUID, error) {
	return s.tokens.Verify(token)
}

// FindAuthorIDs returns the ids of users whose first or last name contains term.
func (s *UserService) FindAuthorIDs(ctx context.Context, term string) ([]uuid.UUID, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}

	return s.m.findIDsByName(ctx, term)
}

func (s *UserService) publishUserCreated(ctx context.Context, u *User) {
	if s.mb == nil {
		return
	}

	event := common.UserCreatedEvent{UserID: u.ID.String(), Email: u.Email, FirstName: u.FirstName}

	// the account exists at this point, so a broker failure must not fail the signup
	err := common.PublishUserCreated(ctx, s.mb, event)
	if err != nil {
		s.logger.Error("could not publish user.created event", slog.String("user_id", u.ID.String()), slog.String("error", err.Error()))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
