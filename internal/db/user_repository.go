package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/onecho-dev/onecho/internal/model"
)

// UserRepository manages account rows.
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a UserRepository.
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, username_safe, password_hash, email,
	privileges, country, silence_end, created_at, latest_active`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Username, &u.UsernameSafe, &u.PasswordHash, &u.Email,
		&u.Privileges, &u.Country, &u.SilenceEnd, &u.CreatedAt, &u.LatestActive,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ByUsernameSafe loads a user by canonical username.
// Returns nil, nil when no such user exists.
func (r *UserRepository) ByUsernameSafe(ctx context.Context, safe string) (*model.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username_safe = $1`, safe))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying user %q: %w", safe, err)
	}
	return u, nil
}

// ByID loads a user by id. Returns nil, nil when no such user exists.
func (r *UserRepository) ByID(ctx context.Context, id int32) (*model.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying user %d: %w", id, err)
	}
	return u, nil
}

// Create inserts a new account row and fills in the assigned id.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO users
			(username, username_safe, password_hash, email, privileges, country, created_at, latest_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		u.Username, u.UsernameSafe, u.PasswordHash, u.Email,
		u.Privileges, u.Country, u.CreatedAt, u.LatestActive,
	).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("inserting user %q: %w", u.UsernameSafe, err)
	}
	return nil
}

// UpdateLatestActive stamps the account's last-seen time.
func (r *UserRepository) UpdateLatestActive(ctx context.Context, id int32, t time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET latest_active = $1 WHERE id = $2`, t, id)
	if err != nil {
		return fmt.Errorf("updating latest_active for user %d: %w", id, err)
	}
	return nil
}
