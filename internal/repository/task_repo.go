package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tasktracker/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, title, description, is_completed, created_at, updated_at, user_id`

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

// ListByOwner returns the owner's tasks, newest first. It never returns a nil
// slice so the JSON encoding is always an array.
func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, ownerID)
	if err != nil {
		return nil, internal("list tasks", err)
	}
	defer rows.Close()

	res := make([]*domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, internal("scan task", err)
		}
		res = append(res, t)
	}
	if err := rows.Err(); err != nil {
		return nil, internal("list tasks", err)
	}
	return res, nil
}

// Create inserts a new incomplete task for ownerID.
func (r *TaskRepository) Create(ctx context.Context, ownerID uuid.UUID, title string, description *string) (*domain.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", domain.ErrValidation)
	}
	if description != nil && strings.TrimSpace(*description) == "" {
		description = nil
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO tasks (id, title, description, is_completed, user_id)
		VALUES ($1, $2, $3, false, $4)
		RETURNING `+taskColumns,
		uuid.New(), title, description, ownerID,
	)
	t, err := scanTask(row)
	if err != nil {
		return nil, internal("create task", err)
	}
	return t, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	row := r.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, internal("find task", err)
	}
	return t, nil
}

// UpdateCompletion sets is_completed. updated_at is bumped past its previous
// value even when the clock has not advanced.
func (r *TaskRepository) UpdateCompletion(ctx context.Context, id uuid.UUID, isCompleted bool) (*domain.Task, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE tasks
		SET is_completed = $2,
		    updated_at = GREATEST(now(), updated_at + interval '1 microsecond')
		WHERE id = $1
		RETURNING `+taskColumns,
		id, isCompleted,
	)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, internal("update task", err)
	}
	return t, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return internal("delete task", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.IsCompleted,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.UserID,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

// internal wraps a storage failure so callers can match domain.ErrInternal
// while the cause stays in the message for logs.
func internal(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrInternal, err)
}
