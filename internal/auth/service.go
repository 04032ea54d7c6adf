package auth

import (
	"errors"
	"fmt"
	"strings"

	"examtrack/internal/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is deliberately generic: a login failure never
	// reveals whether the username or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrEmptyCredentials is returned when a registration is submitted with a
	// blank username or password.
	ErrEmptyCredentials = errors.New("username and password are required")
)

// UserStore is the persistence the auth service needs. Implementations signal
// conflicts and misses with store.ErrDuplicateUsername and store.ErrNotFound.
type UserStore interface {
	CreateUser(user *models.User) error
	UserByUsername(username string) (*models.User, error)
}

// Service handles registration and credential checks.
type Service struct {
	users UserStore
	log   logrus.FieldLogger
}

// NewService creates a new auth service
func NewService(users UserStore, log logrus.FieldLogger) *Service {
	return &Service{users: users, log: log}
}

// Register creates a user with a bcrypt-hashed password and returns the new
// user's id. Surrounding whitespace in both fields is ignored.
func (s *Service) Register(username, password string) (string, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return "", ErrEmptyCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.users.CreateUser(user); err != nil {
		return "", err
	}

	s.log.WithField("username", username).Info("user registered")
	return user.ID, nil
}

// Authenticate checks the credentials and returns the user's id on success.
func (s *Service) Authenticate(username, password string) (string, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	user, err := s.users.UserByUsername(username)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return user.ID, nil
}
