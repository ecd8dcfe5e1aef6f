package account

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/bazarche/bazarche/internal/domain"
	"github.com/bazarche/bazarche/internal/middleware"
)

// accountService implements domain.AccountService.
type accountService struct {
	repo        domain.UserRepository
	jwtSecret   string
	tokenExpiry time.Duration
}

// NewAccountService creates an AccountService that signs tokens with the
// given secret.
func NewAccountService(repo domain.UserRepository, jwtSecret string, tokenExpiry time.Duration) domain.AccountService {
	if tokenExpiry <= 0 {
		tokenExpiry = 24 * time.Hour
	}
	return &accountService{repo: repo, jwtSecret: jwtSecret, tokenExpiry: tokenExpiry}
}

// Register validates input, hashes the password, and persists a new user.
// Registration never grants the admin flag.
func (s *accountService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if err := validateRegistration(name, email, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "failed to hash password", err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if domain.IsAlreadyExists(err) {
			return nil, domain.NewAppError(domain.CodeAlreadyExists, "email is already registered", err)
		}
		return nil, err
	}

	return user, nil
}

// Login verifies the credentials and issues a signed token. Missing users
// and wrong passwords are indistinguishable to the caller.
func (s *accountService) Login(ctx context.Context, email, password string) (*domain.TokenResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, errBadCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, errBadCredentials
		}
		return nil, domain.NewAppError(domain.CodeInternal, "failed to verify password", err)
	}

	token, expiresAt, err := middleware.IssueToken(s.jwtSecret, user.ID, user.Admin, s.tokenExpiry)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "failed to issue token", err)
	}

	return &domain.TokenResponse{Token: token, ExpiresAt: expiresAt.Unix()}, nil
}

var errBadCredentials = domain.NewAppError(domain.CodeUnauthorized, "invalid email or password", nil)

func validateRegistration(name, email, password string) error {
	if name == "" {
		return domain.NewAppError(domain.CodeValidation, "name is required", nil)
	}
	if utf8.RuneCountInString(name) < 2 {
		return domain.NewAppError(domain.CodeValidation, "name must be at least 2 characters", nil)
	}
	if utf8.RuneCountInString(name) > 100 {
		return domain.NewAppError(domain.CodeValidation, "name must be at most 100 characters", nil)
	}

	if email == "" {
		return domain.NewAppError(domain.CodeValidation, "email is required", nil)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.NewAppError(domain.CodeValidation, "email must be a valid email address", nil)
	}

	if len(password) < 8 {
		return domain.NewAppError(domain.CodeValidation, "password must be at least 8 characters", nil)
	}
	if len(password) > 72 {
		// bcrypt truncates beyond 72 bytes.
		return domain.NewAppError(domain.CodeValidation, "password must be at most 72 characters", nil)
	}

	return nil
}
