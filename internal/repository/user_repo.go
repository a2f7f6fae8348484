package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"tollway/internal/models"
)

// ErrUserNotFound represents missing user rows.
var ErrUserNotFound = errors.New("user not found")

// UserRepository handles CRUD for the user table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository returns repository instance.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByUsername fetches a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	const query = `
		SELECT username, password, type, operatorid, created_at
		FROM "user"
		WHERE username = $1
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, query, strings.TrimSpace(username))
	var user models.User
	if err := row.Scan(&user.Username, &user.PasswordHash, &user.Role, &user.OperatorID, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	const query = `
		INSERT INTO "user" (username, password, type, operatorid)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query, user.Username, user.PasswordHash, user.Role, user.OperatorID).
		Scan(&user.CreatedAt)
}

// UpdatePassword replaces the stored hash, keeping role and operator id.
func (r *UserRepository) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	const query = `UPDATE "user" SET password = $1 WHERE username = $2`
	res, err := r.db.ExecContext(ctx, query, passwordHash, username)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListUsernames returns every username.
func (r *UserRepository) ListUsernames(ctx context.Context) ([]string, error) {
	const query = `SELECT username FROM "user" ORDER BY username`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usernames []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		usernames = append(usernames, name)
	}
	return usernames, rows.Err()
}

// SeedTx inserts a user inside an ongoing transaction, ignoring duplicates.
// Password hashes from the fixture CSV are stored as-is.
func (r *UserRepository) SeedTx(ctx context.Context, tx *sql.Tx, user models.User) error {
	const query = `
		INSERT INTO "user" (username, password, type, operatorid)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (username) DO NOTHING
	`
	_, err := tx.ExecContext(ctx, query, user.Username, user.PasswordHash, user.Role, user.OperatorID)
	return err
}

// TruncateTx empties the user table (and dependents) inside a transaction.
func (r *UserRepository) TruncateTx(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `TRUNCATE TABLE "user" RESTART IDENTITY CASCADE`)
	return err
}

// Count returns the number of user rows.
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "user"`).Scan(&n)
	return n, err
}
