package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/WikiSmart/internal/models"
)

// PostgresUserRepository stores accounts in the users table.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the given database connection.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// CreateUser inserts a new account. A taken username yields ErrDuplicate.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, username, email, hashedPassword string, role models.Role) (models.User, error) {
	u := models.User{Username: username, Email: email, Role: role}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO users (username, email, hashed_password, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, username, email, hashedPassword, string(role)).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrDuplicate
		}
		return models.User{}, fmt.Errorf("CreateUser: %w", err)
	}
	return u, nil
}

// GetByUsername returns the account and its password hash.
func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (models.User, string, error) {
	var (
		u    models.User
		hash string
		role string
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, username, email, hashed_password, role FROM users WHERE username = $1
	`, username).Scan(&u.ID, &u.Username, &u.Email, &hash, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, "", ErrNotFound
	}
	if err != nil {
		return models.User{}, "", fmt.Errorf("GetByUsername: %w", err)
	}
	u.Role = models.Role(role)
	return u, hash, nil
}

// GetByID returns the account with the given id.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	var (
		u    models.User
		role string
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, username, email, role FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Username, &u.Email, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("GetByID: %w", err)
	}
	u.Role = models.Role(role)
	return u, nil
}
