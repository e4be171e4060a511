package service

import (
	"context"
	"errors"
	"fmt"

	"tasktracker/internal/domain"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var taskOperations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "task_operations_total",
		Help: "Task operations by kind and outcome",
	},
	[]string{"op", "result"},
)

// TaskStore is the persistence behind TaskService. *repository.TaskRepository
// satisfies it.
type TaskStore interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error)
	Create(ctx context.Context, ownerID uuid.UUID, title string, description *string) (*domain.Task, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	UpdateCompletion(ctx context.Context, id uuid.UUID, isCompleted bool) (*domain.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateTaskInput is the create payload. UserID is optional; when present it
// must name the caller.
type CreateTaskInput struct {
	Title       string
	Description *string
	UserID      *uuid.UUID
}

// TaskService applies the per-request access rules on top of a TaskStore.
// Every call re-reads what it needs; nothing is cached between requests.
type TaskService struct {
	store TaskStore
}

func NewTaskService(store TaskStore) *TaskService {
	return &TaskService{store: store}
}

// List returns the caller's tasks, newest first.
func (s *TaskService) List(ctx context.Context, callerID uuid.UUID) (tasks []*domain.Task, err error) {
	defer observe("list", &err)
	if callerID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.store.ListByOwner(ctx, callerID)
}

// Create stores a task owned by the caller.
func (s *TaskService) Create(ctx context.Context, callerID uuid.UUID, in CreateTaskInput) (task *domain.Task, err error) {
	defer observe("create", &err)
	if callerID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	if in.UserID != nil && *in.UserID != callerID {
		return nil, fmt.Errorf("owner %s is not the caller: %w", in.UserID, domain.ErrForbidden)
	}
	return s.store.Create(ctx, callerID, in.Title, in.Description)
}

// Get returns one task the caller owns.
func (s *TaskService) Get(ctx context.Context, callerID, id uuid.UUID) (task *domain.Task, err error) {
	defer observe("get", &err)
	return s.owned(ctx, callerID, id)
}

// UpdateCompletion sets the completion flag of a task the caller owns.
func (s *TaskService) UpdateCompletion(ctx context.Context, callerID, id uuid.UUID, isCompleted bool) (task *domain.Task, err error) {
	defer observe("update", &err)
	if _, err := s.owned(ctx, callerID, id); err != nil {
		return nil, err
	}
	return s.store.UpdateCompletion(ctx, id, isCompleted)
}

// Delete removes a task the caller owns.
func (s *TaskService) Delete(ctx context.Context, callerID, id uuid.UUID) (err error) {
	defer observe("delete", &err)
	if _, err := s.owned(ctx, callerID, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// owned resolves the task and checks ownership, in that order: an unknown id
// is reported before a foreign one.
func (s *TaskService) owned(ctx context.Context, callerID, id uuid.UUID) (*domain.Task, error) {
	if callerID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	task, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !task.OwnedBy(callerID) {
		return nil, domain.ErrForbidden
	}
	return task, nil
}

func observe(op string, errp *error) {
	taskOperations.WithLabelValues(op, resultLabel(*errp)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrTaskNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}
