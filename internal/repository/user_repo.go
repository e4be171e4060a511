package repository

import (
	"context"
	"errors"
	"strings"

	"tasktracker/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, email, password_hash, confirmed_at, confirmation_token, created_at`

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts u, assigning its id and created_at. Emails are stored
// lower-cased.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = NormalizeEmail(u.Email)

	err := r.db.QueryRow(ctx, `
		INSERT INTO users (id, email, password_hash, confirmed_at, confirmation_token)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		u.ID, u.Email, u.PasswordHash, u.ConfirmedAt, u.ConfirmationToken,
	).Scan(&u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrUserExists
		}
		return internal("create user", err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, NormalizeEmail(email))
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// Confirm marks the user holding token as confirmed and clears the token.
func (r *UserRepository) Confirm(ctx context.Context, token uuid.UUID) (*domain.User, error) {
	u, err := r.getOne(ctx, `
		UPDATE users
		SET confirmed_at = now(), confirmation_token = NULL
		WHERE confirmation_token = $1
		RETURNING `+userColumns, token)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidConfirmation
	}
	return u, err
}

func (r *UserRepository) getOne(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.ConfirmedAt,
		&u.ConfirmationToken,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, internal("get user", err)
	}
	return &u, nil
}

// NormalizeEmail trims and lower-cases an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
