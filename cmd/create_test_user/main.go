package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"tasktracker/internal/cache"
	"tasktracker/internal/config"
	"tasktracker/internal/db"
	"tasktracker/internal/domain"
	"tasktracker/internal/repository"
	"tasktracker/internal/service"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	email := flag.String("email", "tester@example.com", "account email")
	password := flag.String("password", "password123", "account password")
	flag.Parse()

	cfg := config.Load()

	pool := db.Connect(cfg.DatabaseURL)
	defer pool.Close()

	repo := repository.NewUserRepository(pool)
	ctx := context.Background()

	u, err := repo.GetByEmail(ctx, *email)
	switch {
	case err == nil:
		log.Printf("user already exists id=%s\n", u.ID)
	case errors.Is(err, domain.ErrUserNotFound):
		hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}
		now := time.Now()
		u = &domain.User{Email: *email, PasswordHash: string(hash), ConfirmedAt: &now}
		if err := repo.Create(ctx, u); err != nil {
			log.Fatalf("create user failed: %v", err)
		}
		log.Printf("user created id=%s email=%s\n", u.ID, u.Email)
	default:
		log.Fatalf("lookup user failed: %v", err)
	}

	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL)
	token, claims, err := tokens.Generate(u.ID, u.Email)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}

	// Tokens are only honoured while their session key exists in Redis.
	if store := service.NewSessionStore(cache.Connect(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)); store != nil {
		err := store.Save(ctx, &domain.Session{
			ID:        claims.ID,
			UserID:    u.ID,
			Email:     u.Email,
			ExpiresAt: claims.ExpiresAt.Time,
		})
		if err != nil {
			log.Fatalf("failed to store session: %v", err)
		}
	}

	log.Printf("token=%s\n", token)
}
