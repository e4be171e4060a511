package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"tasktracker/internal/db"
	"tasktracker/internal/domain"
	"tasktracker/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// openDB connects to DATABASE_URL and applies migrations, or skips the test.
func openDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := db.Migrate(context.Background(), pool, nil); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}

// newUser inserts a confirmed user with a unique email. Its tasks are removed
// with it through the foreign key.
func newUser(t *testing.T, pool *pgxpool.Pool, passwordHash string) *domain.User {
	t.Helper()
	now := time.Now()
	u := &domain.User{
		Email:        "it-" + uuid.NewString() + "@example.com",
		PasswordHash: passwordHash,
		ConfirmedAt:  &now,
	}
	if err := repository.NewUserRepository(pool).Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, u.ID)
	})
	return u
}
