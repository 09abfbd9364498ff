package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"market-directory/internal/db"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
)

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

type Repository struct {
	db *sql.DB
}

func NewRepository(database *sql.DB) *Repository {
	return &Repository{db: database}
}

// Create inserts a user. The unique index on username decides races between
// concurrent registrations.
func (r *Repository) Create(ctx context.Context, username, passwordHash string) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.db, func(ctx context.Context, tx db.DBTX) error {
		return tx.QueryRowContext(ctx, `
			INSERT INTO users (username, password_hash)
			VALUES ($1, $2)
			RETURNING user_id
		`, username, passwordHash).Scan(&id)
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return 0, ErrDuplicateUsername
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	return id, nil
}

func (r *Repository) GetByUsername(ctx context.Context, username string) (User, error) {
	var user User
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, username, password_hash, created_at
		FROM users
		WHERE username = $1
	`, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("query user by username: %w", err)
	}

	return user, nil
}
