package db

import (
	"context"
	"strconv"
	"strings"

	"github.com/fazletdinov/vidstream/internal/model"
)

func (db *Postgres) EnsureUserSchema(ctx context.Context) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			email TEXT NOT NULL,
			password_hash BYTEA NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			is_superuser BOOLEAN NOT NULL DEFAULT FALSE,
			role TEXT NOT NULL DEFAULT 'user',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
		// Only active identities hold the email; a deactivated account
		// frees its address for re-registration.
		`CREATE UNIQUE INDEX IF NOT EXISTS users_email_active_idx
			ON users (LOWER(email)) WHERE is_active`,
	}

	for _, query := range queries {
		if _, err := db.Pool.Exec(ctx, query); err != nil {
			return wrap("ensure user schema", err)
		}
	}
	return nil
}

const userColumns = `id, email, password_hash, is_active, is_superuser, role, created_at`

func (db *Postgres) CreateUser(ctx context.Context, email string, passwordHash []byte) (*model.User, error) {
	query := `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING ` + userColumns
	var user model.User
	err := db.Pool.QueryRow(ctx, query, email, passwordHash).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.IsActive,
		&user.IsSuperuser,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, wrap("create user", err)
	}
	return &user, nil
}

// GetUserByEmail matches case-insensitively and does not filter on the
// active flag; callers decide how an inactive identity is reported.
func (db *Postgres) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE LOWER(email) = LOWER($1)
		ORDER BY is_active DESC, id DESC
		LIMIT 1
	`
	var user model.User
	err := db.Pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.IsActive,
		&user.IsSuperuser,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, wrap("get user by email", err)
	}
	return &user, nil
}

func (db *Postgres) GetUserByID(ctx context.Context, userID int64) (*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`
	var user model.User
	err := db.Pool.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.IsActive,
		&user.IsSuperuser,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, wrap("get user by id", err)
	}
	return &user, nil
}

// UpdateUser applies only the provided fields. At least one of email or
// passwordHash must be set; the service layer enforces that.
func (db *Postgres) UpdateUser(ctx context.Context, userID int64, email *string, passwordHash []byte) (*model.User, error) {
	sets := make([]string, 0, 2)
	args := []any{userID}

	if email != nil {
		args = append(args, *email)
		sets = append(sets, "email = $"+strconv.Itoa(len(args)))
	}
	if passwordHash != nil {
		args = append(args, passwordHash)
		sets = append(sets, "password_hash = $"+strconv.Itoa(len(args)))
	}

	query := `
		UPDATE users
		SET ` + strings.Join(sets, ", ") + `
		WHERE id = $1
		RETURNING ` + userColumns

	var user model.User
	err := db.Pool.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.IsActive,
		&user.IsSuperuser,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, wrap("update user", err)
	}
	return &user, nil
}

// DeactivateUser soft-deletes. No active-flag filter in the WHERE clause:
// deactivating an already-inactive identity succeeds with the same id.
func (db *Postgres) DeactivateUser(ctx context.Context, userID int64) (int64, error) {
	query := `
		UPDATE users
		SET is_active = FALSE
		WHERE id = $1
		RETURNING id
	`
	var id int64
	if err := db.Pool.QueryRow(ctx, query, userID).Scan(&id); err != nil {
		return 0, wrap("deactivate user", err)
	}
	return id, nil
}
