package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"tasktracker/internal/domain"
	"tasktracker/internal/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength matches the sign-up form's constraint.
const MinPasswordLength = 6

// AuthProvider is the identity backend behind the auth routes.
type AuthProvider interface {
	SignUp(ctx context.Context, email, password, redirectTo string) (*SignUpResult, error)
	SignIn(ctx context.Context, email, password string) (*SignInResult, error)
	SignOut(ctx context.Context, sess *domain.Session) error
	Confirm(ctx context.Context, token uuid.UUID) (*domain.User, error)
}

// UserStore is the persistence the local provider needs.
type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Confirm(ctx context.Context, token uuid.UUID) (*domain.User, error)
}

// ConfirmationSender delivers sign-up confirmation links.
type ConfirmationSender interface {
	SendConfirmation(ctx context.Context, email, link string) error
}

// LogConfirmationSender writes confirmation links to the log instead of
// sending mail.
type LogConfirmationSender struct{}

func (LogConfirmationSender) SendConfirmation(ctx context.Context, email, link string) error {
	logger.WithContext(ctx).Info("confirmation link issued", "email", email, "link", link)
	return nil
}

type SignUpResult struct {
	User                 *domain.User
	ConfirmationRequired bool
}

type SignInResult struct {
	User    *domain.User
	Session *domain.Session
	Token   string
}

// AuthConfig tunes LocalAuthProvider.
type AuthConfig struct {
	PublicURL   string // base of the default confirmation callback
	AutoConfirm bool
	BcryptCost  int
}

// LocalAuthProvider authenticates against the users table and issues session
// tokens.
type LocalAuthProvider struct {
	users    UserStore
	tokens   *TokenManager
	sessions SessionStore
	sender   ConfirmationSender
	cfg      AuthConfig
}

func NewLocalAuthProvider(users UserStore, tokens *TokenManager, sessions SessionStore, sender ConfirmationSender, cfg AuthConfig) *LocalAuthProvider {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if sender == nil {
		sender = LogConfirmationSender{}
	}
	return &LocalAuthProvider{
		users:    users,
		tokens:   tokens,
		sessions: sessions,
		sender:   sender,
		cfg:      cfg,
	}
}

func (p *LocalAuthProvider) SignUp(ctx context.Context, email, password, redirectTo string) (*SignUpResult, error) {
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("password too short: %w", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w: %w", domain.ErrInternal, err)
	}

	u := &domain.User{Email: email, PasswordHash: string(hash)}
	if p.cfg.AutoConfirm {
		now := time.Now()
		u.ConfirmedAt = &now
	} else {
		token := uuid.New()
		u.ConfirmationToken = &token
	}

	if err := p.users.Create(ctx, u); err != nil {
		return nil, err
	}

	if u.ConfirmationToken != nil {
		link := p.confirmationLink(redirectTo, *u.ConfirmationToken)
		if err := p.sender.SendConfirmation(ctx, u.Email, link); err != nil {
			return nil, fmt.Errorf("send confirmation: %w: %w", domain.ErrInternal, err)
		}
	}

	return &SignUpResult{User: u, ConfirmationRequired: !u.Confirmed()}, nil
}

func (p *LocalAuthProvider) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	u, err := p.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !u.Confirmed() {
		return nil, domain.ErrEmailNotConfirmed
	}

	token, claims, err := p.tokens.Generate(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInternal, err)
	}
	sess := &domain.Session{
		ID:        claims.ID,
		UserID:    u.ID,
		Email:     u.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if p.sessions != nil {
		if err := p.sessions.Save(ctx, sess); err != nil {
			return nil, err
		}
	}

	return &SignInResult{User: u, Session: sess, Token: token}, nil
}

// SignOut revokes the session. A nil session is a no-op.
func (p *LocalAuthProvider) SignOut(ctx context.Context, sess *domain.Session) error {
	if sess == nil || p.sessions == nil {
		return nil
	}
	return p.sessions.Revoke(ctx, sess.ID)
}

func (p *LocalAuthProvider) Confirm(ctx context.Context, token uuid.UUID) (*domain.User, error) {
	return p.users.Confirm(ctx, token)
}

// confirmationLink appends the token to redirectTo when it points at this
// deployment, otherwise to the default callback.
func (p *LocalAuthProvider) confirmationLink(redirectTo string, token uuid.UUID) string {
	base := strings.TrimRight(p.cfg.PublicURL, "/") + "/auth/callback"
	if redirectTo != "" && p.cfg.PublicURL != "" && strings.HasPrefix(redirectTo, strings.TrimRight(p.cfg.PublicURL, "/")+"/") {
		base = redirectTo
	}

	u, err := url.Parse(base)
	if err != nil {
		return base + "?token=" + token.String()
	}
	q := u.Query()
	q.Set("token", token.String())
	u.RawQuery = q.Encode()
	return u.String()
}
