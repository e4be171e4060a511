package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"tasktracker/internal/domain"
	"tasktracker/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCreateDefaultsToIncompleteAndOwnedByCaller(t *testing.T) {
	svc := NewTaskService(memory.NewTaskStore())
	owner := uuid.New()

	task, err := svc.Create(context.Background(), owner, CreateTaskInput{Title: "Buy milk", UserID: &owner})
	require.NoError(t, err)

	assert.False(t, task.IsCompleted)
	assert.Equal(t, owner, task.UserID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Nil(t, task.Description)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
}

func TestCreateRejectsForeignOwnerAndEmptyTitle(t *testing.T) {
	svc := NewTaskService(memory.NewTaskStore())
	ctx := context.Background()
	owner := uuid.New()

	_, err := svc.Create(ctx, owner, CreateTaskInput{Title: "x", UserID: ptr(uuid.New())})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Create(ctx, owner, CreateTaskInput{Title: "   "})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Create(ctx, uuid.Nil, CreateTaskInput{Title: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestListReturnsOwnTasksNewestFirst(t *testing.T) {
	svc := NewTaskService(memory.NewTaskStore())
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()

	const n = 5
	for i := 0; i < n; i++ {
		_, err := svc.Create(ctx, owner, CreateTaskInput{Title: fmt.Sprintf("task %d", i)})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, other, CreateTaskInput{Title: "someone else's"})
	require.NoError(t, err)

	tasks, err := svc.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, tasks, n)
	for i := 1; i < len(tasks); i++ {
		assert.True(t, tasks[i-1].CreatedAt.After(tasks[i].CreatedAt), "tasks must be ordered by createdAt desc")
		assert.Equal(t, owner, tasks[i].UserID)
	}
	assert.Equal(t, "task 4", tasks[0].Title)

	empty, err := svc.List(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestToggleTwiceRestoresValueAndAdvancesUpdatedAt(t *testing.T) {
	svc := NewTaskService(memory.NewTaskStore())
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.Create(ctx, owner, CreateTaskInput{Title: "Buy milk"})
	require.NoError(t, err)

	first, err := svc.UpdateCompletion(ctx, owner, created.ID, !created.IsCompleted)
	require.NoError(t, err)
	assert.True(t, first.IsCompleted)
	assert.True(t, first.UpdatedAt.After(created.UpdatedAt))

	second, err := svc.UpdateCompletion(ctx, owner, created.ID, !first.IsCompleted)
	require.NoError(t, err)
	assert.Equal(t, created.IsCompleted, second.IsCompleted)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	assert.Equal(t, created.CreatedAt, second.CreatedAt)
}

func TestMutationsEnforceOwnership(t *testing.T) {
	store := memory.NewTaskStore()
	svc := NewTaskService(store)
	ctx := context.Background()
	owner, intruder := uuid.New(), uuid.New()

	task, err := svc.Create(ctx, owner, CreateTaskInput{Title: "private"})
	require.NoError(t, err)

	_, err = svc.UpdateCompletion(ctx, intruder, task.ID, true)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, intruder, task.ID), domain.ErrForbidden)

	stored, err := store.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task, stored, "row must be unmodified")
}

func TestMutationsOnUnknownIDAreNotFound(t *testing.T) {
	svc := NewTaskService(memory.NewTaskStore())
	ctx := context.Background()
	caller := uuid.New()

	_, err := svc.UpdateCompletion(ctx, caller, uuid.New(), true)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, caller, uuid.New()), domain.ErrTaskNotFound)
}

func TestMutationsWithoutCallerAreUnauthenticated(t *testing.T) {
	store := memory.NewTaskStore()
	svc := NewTaskService(store)
	ctx := context.Background()
	owner := uuid.New()
	task, err := svc.Create(ctx, owner, CreateTaskInput{Title: "x"})
	require.NoError(t, err)

	_, err = svc.UpdateCompletion(ctx, uuid.Nil, task.ID, true)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.ErrorIs(t, svc.Delete(ctx, uuid.Nil, task.ID), domain.ErrUnauthenticated)

	stored, err := store.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsCompleted)
}

func TestDeleteThenFindIsNotFound(t *testing.T) {
	store := memory.NewTaskStore()
	svc := NewTaskService(store)
	ctx := context.Background()
	owner := uuid.New()

	task, err := svc.Create(ctx, owner, CreateTaskInput{Title: "x"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, owner, task.ID))

	_, err = store.FindByID(ctx, task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, owner, task.ID), domain.ErrTaskNotFound)
}

func TestStorageFailuresPropagate(t *testing.T) {
	store := memory.NewTaskStore()
	store.Fail = fmt.Errorf("list tasks: %w: %w", domain.ErrInternal, errors.New("connection reset"))
	svc := NewTaskService(store)

	_, err := svc.List(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrInternal)
}

func TestResultLabel(t *testing.T) {
	assert.Equal(t, "ok", resultLabel(nil))
	assert.Equal(t, "forbidden", resultLabel(fmt.Errorf("x: %w", domain.ErrForbidden)))
	assert.Equal(t, "not_found", resultLabel(domain.ErrTaskNotFound))
	assert.Equal(t, "invalid", resultLabel(domain.ErrValidation))
	assert.Equal(t, "error", resultLabel(errors.New("boom")))
}
