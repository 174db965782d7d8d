package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"stayfinder/internal/domain/shared/fault"
	domainuser "stayfinder/internal/domain/user"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid email or password")
	ErrInvalidToken       = errors.New("auth: invalid token")
)

const minPasswordLength = 6

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenManager issues and verifies stateless bearer tokens.
type TokenManager interface {
	Issue(id domainuser.ID) (string, error)
	Parse(token string) (domainuser.ID, error)
}

type Service struct {
	Users     domainuser.Repository
	Passwords PasswordHasher
	Tokens    TokenManager
	Logger    *slog.Logger
}

type RegisterParams struct {
	Username string
	Email    string
	Password string
	Role     string
}

type LoginParams struct {
	Email    string
	Password string
}

// AuthResult carries the account together with its freshly issued token.
type AuthResult struct {
	User  *domainuser.User
	Token string
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	if err := validateRegister(params); err != nil {
		return nil, err
	}
	role := domainuser.RoleGuest
	if strings.TrimSpace(params.Role) != "" {
		parsed, err := domainuser.ParseRole(params.Role)
		if err != nil {
			return nil, fault.Invalid("role", "invalid role")
		}
		role = parsed
	}

	email := domainuser.NormalizeEmail(params.Email)
	username := strings.TrimSpace(params.Username)
	existing, err := s.Users.ByEmailOrUsername(ctx, email, username)
	if err != nil && !errors.Is(err, domainuser.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fault.Conflict("user with this email or username already exists")
	}

	hash, err := s.Passwords.Hash(params.Password)
	if err != nil {
		return nil, err
	}
	account, err := domainuser.New(domainuser.CreateParams{
		ID:           domainuser.ID(uuid.NewString()),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Users.Save(ctx, account); err != nil {
		return nil, err
	}
	token, err := s.Tokens.Issue(account.ID)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("user registered", "user_id", account.ID, "role", account.Role)
	}
	return &AuthResult{User: account, Token: token}, nil
}

func (s *Service) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	email := domainuser.NormalizeEmail(params.Email)
	if email == "" || params.Password == "" {
		return nil, ErrInvalidCredentials
	}
	account, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.Passwords.Compare(account.PasswordHash, params.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, err := s.Tokens.Issue(account.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: account, Token: token}, nil
}

// Resolve maps a bearer token to the account it was issued for.
func (s *Service) Resolve(ctx context.Context, token string) (*domainuser.User, error) {
	id, err := s.Tokens.Parse(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	account, err := s.Users.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return account, nil
}

func validateRegister(params RegisterParams) error {
	verr := &fault.ValidationError{}
	if strings.TrimSpace(params.Username) == "" {
		verr.Add("username", "username is required")
	}
	if !validEmail(params.Email) {
		verr.Add("email", "please enter a valid email")
	}
	if len(params.Password) < minPasswordLength {
		verr.Add("password", "password must be at least 6 characters long")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.ContainsAny(email, " \t")
}
