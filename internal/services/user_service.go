package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/imruiz/gotodo-be/internal/auth"
	"github.com/imruiz/gotodo-be/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, email, password string) (models.User, error)
	Authenticate(ctx context.Context, email, password string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByToken(ctx context.Context, userID, token, purpose string) (models.User, error)
	AddToken(ctx context.Context, userID, purpose, token string) error
	RemoveToken(ctx context.Context, userID, token string) error
}

// UserService provides business logic for accounts and their token lists.
type UserService struct {
	db     *sql.DB
	hasher *auth.Hasher
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, hasher *auth.Hasher) *UserService {
	return &UserService{db: db, hasher: hasher}
}

// Register creates a new account. The password is hashed before anything is
// persisted; callers validate email format and password length beforehand.
func (s *UserService) Register(ctx context.Context, email, password string) (models.User, error) {
	email = strings.TrimSpace(email)

	var taken int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM users WHERE email = ?", email).Scan(&taken)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to check email: %w", err)
	}
	if taken > 0 {
		return models.User{}, ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
	}

	_, err = s.db.ExecContext(ctx, "INSERT INTO users(id, email, password_hash) VALUES(?, ?, ?)",
		user.ID, user.Email, user.PasswordHash)
	if err != nil {
		// The pre-check races with concurrent registrations; the UNIQUE
		// constraint is the authority.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}

	user.PasswordHash = ""
	return user, nil
}

// Authenticate verifies a user's credentials. An unknown email and a wrong
// password are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	email = strings.TrimSpace(email)

	var user models.User
	row := s.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, created_at FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return models.User{}, ErrInvalidCredentials
	}

	user.PasswordHash = ""
	return user, nil
}

// GetByID retrieves a single user by their ID.
func (s *UserService) GetByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx, "SELECT id, email, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Email, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// GetByToken resolves a user only if the exact token string is still a
// member of that user's token list with the given purpose. This is the
// revocation check: a logged-out token no longer has a row here no matter
// how well it is signed.
func (s *UserService) GetByToken(ctx context.Context, userID, token, purpose string) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.email, u.created_at
		FROM users u
		JOIN user_tokens t ON t.user_id = u.id
		WHERE u.id = ? AND t.token = ? AND t.purpose = ?`,
		userID, token, purpose)
	err := row.Scan(&user.ID, &user.Email, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// AddToken appends a token to the user's token list. Insertion order is the
// issuance order.
func (s *UserService) AddToken(ctx context.Context, userID, purpose, token string) error {
	_, err := s.db.ExecContext(ctx, "INSERT INTO user_tokens(user_id, purpose, token) VALUES(?, ?, ?)",
		userID, purpose, token)
	if err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// RemoveToken deletes exactly one token from the user's list. Removing a
// token that is already absent is not an error.
func (s *UserService) RemoveToken(ctx context.Context, userID, token string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM user_tokens WHERE user_id = ? AND token = ?",
		userID, token)
	return err
}
