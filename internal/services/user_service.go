package services

import (
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/trymedating/trymed/internal/models"
	"github.com/trymedating/trymed/internal/repositories"
	"github.com/trymedating/trymed/internal/security"
	"github.com/trymedating/trymed/pkg/errors"
)

var handleRegex = regexp.MustCompile(`^[a-z0-9_]{3,32}$`)

type UserService struct {
	repo      *repositories.UserRepository
	jwtSecret string
}

func NewUserService(repo *repositories.UserRepository, jwtSecret string) *UserService {
	return &UserService{
		repo:      repo,
		jwtSecret: jwtSecret,
	}
}

// Register creates an account and returns a session token.
func (s *UserService) Register(handle, email, password, displayName string) (*models.User, string, error) {
	handle = strings.ToLower(strings.TrimSpace(handle))
	email = strings.ToLower(strings.TrimSpace(email))

	if !handleRegex.MatchString(handle) {
		return nil, "", errors.New(errors.ErrCodeValidation, "handle must be 3-32 chars of a-z, 0-9 or _")
	}
	if !strings.Contains(email, "@") {
		return nil, "", errors.New(errors.ErrCodeValidation, "invalid email")
	}
	if len(password) < 8 {
		return nil, "", errors.New(errors.ErrCodeValidation, "password must be at least 8 characters")
	}

	if _, err := s.repo.GetUserByHandle(handle); err == nil {
		return nil, "", errors.New(errors.ErrCodeAlreadyExists, "handle already taken")
	}
	if _, err := s.repo.GetUserByEmail(email); err == nil {
		return nil, "", errors.New(errors.ErrCodeAlreadyExists, "email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 11)
	if err != nil {
		return nil, "", errors.Wrap(err, errors.ErrCodeInternalError, "failed to hash password")
	}

	user := &models.User{
		Handle:       handle,
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  security.SanitizeText(displayName),
	}
	if err := s.repo.CreateUser(user); err != nil {
		return nil, "", err
	}

	token, err := security.GenerateJWT(user.ID, user.Handle, s.jwtSecret)
	if err != nil {
		return nil, "", errors.Wrap(err, errors.ErrCodeInternalError, "failed to issue token")
	}
	return user, token, nil
}

// Login verifies credentials and returns a session token.
func (s *UserService) Login(email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetUserByEmail(email)
	if err != nil {
		return nil, "", errors.New(errors.ErrCodeUnauthorized, "invalid credentials")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", errors.New(errors.ErrCodeUnauthorized, "invalid credentials")
	}

	token, err := security.GenerateJWT(user.ID, user.Handle, s.jwtSecret)
	if err != nil {
		return nil, "", errors.Wrap(err, errors.ErrCodeInternalError, "failed to issue token")
	}

	if err := s.repo.UpdateLastActivity(user.ID); err != nil {
		// non-fatal
		return user, token, nil
	}
	return user, token, nil
}

// GetByHandle returns a user's public profile.
func (s *UserService) GetByHandle(handle string) (*models.User, error) {
	return s.repo.GetUserByHandle(strings.ToLower(strings.TrimSpace(handle)))
}
