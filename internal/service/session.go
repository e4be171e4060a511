package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"tasktracker/internal/domain"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "task_session"

const bearerSchema = "Bearer "

// SessionVerifier resolves the caller's identity from a request.
type SessionVerifier struct {
	tokens *TokenManager
	store  SessionStore
}

func NewSessionVerifier(tokens *TokenManager, store SessionStore) *SessionVerifier {
	return &SessionVerifier{tokens: tokens, store: store}
}

// Verify returns (nil, nil) when the request carries no usable session. An
// error is returned only when the session backend itself fails.
func (v *SessionVerifier) Verify(ctx context.Context, r *http.Request) (*domain.Session, error) {
	raw := TokenFromRequest(r)
	if raw == "" {
		return nil, nil
	}

	claims, err := v.tokens.Parse(raw)
	if err != nil {
		return nil, nil
	}

	if v.store != nil {
		ok, err := v.store.Exists(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
	}

	var expires time.Time
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	return &domain.Session{
		ID:        claims.ID,
		UserID:    claims.UserID(),
		Email:     claims.Email,
		ExpiresAt: expires,
	}, nil
}

// TokenFromRequest reads the session cookie, falling back to a bearer token.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, bearerSchema) {
		return strings.TrimSpace(h[len(bearerSchema):])
	}
	return ""
}
