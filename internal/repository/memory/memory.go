// Package memory holds map-backed stores with the same contracts as the
// Postgres repositories and the Redis session store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"tasktracker/internal/domain"

	"github.com/google/uuid"
)

// TaskStore keeps tasks in a map. Its clock advances one millisecond per
// mutation, so created and updated times are strictly increasing.
type TaskStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.Task
	now   time.Time
	Fail  error
}

func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make(map[uuid.UUID]*domain.Task),
		now:   time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (s *TaskStore) tick() time.Time {
	s.now = s.now.Add(time.Millisecond)
	return s.now
}

func (s *TaskStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	res := make([]*domain.Task, 0)
	for _, t := range s.tasks {
		if t.UserID == ownerID {
			cp := *t
			res = append(res, &cp)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}

func (s *TaskStore) Create(_ context.Context, ownerID uuid.UUID, title string, description *string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("title is required: %w", domain.ErrValidation)
	}
	if description != nil && strings.TrimSpace(*description) == "" {
		description = nil
	}
	now := s.tick()
	t := &domain.Task{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(title),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		UserID:      ownerID,
	}
	s.tasks[t.ID] = t
	cp := *t
	return &cp, nil
}

func (s *TaskStore) FindByID(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	t, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *TaskStore) UpdateCompletion(_ context.Context, id uuid.UUID, isCompleted bool) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	t, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	t.IsCompleted = isCompleted
	t.UpdatedAt = s.tick()
	cp := *t
	return &cp, nil
}

func (s *TaskStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	if _, ok := s.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

type UserStore struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]*domain.User)}
}

func (s *UserStore) Create(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if _, ok := s.users[u.Email]; ok {
		return domain.ErrUserExists
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = time.Now()
	cp := *u
	s.users[u.Email] = &cp
	return nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *UserStore) Confirm(_ context.Context, token uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ConfirmationToken != nil && *u.ConfirmationToken == token {
			now := time.Now()
			u.ConfirmedAt = &now
			u.ConfirmationToken = nil
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrInvalidConfirmation
}

// SessionStore tracks live session ids in a map.
type SessionStore struct {
	mu   sync.Mutex
	ids  map[string]uuid.UUID
	Fail error
}

func NewSessionStore() *SessionStore {
	return &SessionStore{ids: make(map[string]uuid.UUID)}
}

func (s *SessionStore) Save(_ context.Context, sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	s.ids[sess.ID] = sess.UserID
	return nil
}

func (s *SessionStore) Exists(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return false, s.Fail
	}
	_, ok := s.ids[id]
	return ok, nil
}

func (s *SessionStore) Revoke(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	delete(s.ids, id)
	return nil
}

