package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sdpro1234/skin-disease-ai/internal/apperr"
	"github.com/sdpro1234/skin-disease-ai/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(username, email, password string) (models.User, error)
	Authenticate(username, password string) (models.User, error)
	GetByUsername(username string) (models.User, error)
}

// UserService provides registration and credential verification backed by SQLite.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a new user, hashing their password. Uniqueness of username
// and email is enforced by the table constraints, not a pre-check, so two
// concurrent registrations cannot race past each other.
func (s *UserService) Register(username, email, password string) (models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, username, email, password_hash) VALUES(?, ?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(user.ID, user.Username, user.Email, user.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, fmt.Errorf("register %q: %w", username, apperr.ErrUserExists)
		}
		return models.User{}, err
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// Authenticate verifies a user's credentials. An unknown username and a wrong
// password both produce ErrInvalidCredentials so the caller's response cannot
// reveal which one it was.
func (s *UserService) Authenticate(username, password string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?", username)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("authenticate %q: %w", username, apperr.ErrInvalidCredentials)
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, fmt.Errorf("authenticate %q: %w", username, apperr.ErrInvalidCredentials)
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// GetByUsername retrieves a single user by their username.
func (s *UserService) GetByUsername(username string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, email, created_at FROM users WHERE username = ?", username)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("user %q not found", username)
		}
		return models.User{}, err
	}
	return user, nil
}

// isUniqueViolation reports whether err comes from a UNIQUE constraint.
// The modernc driver exposes no typed error for this, only the message.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
