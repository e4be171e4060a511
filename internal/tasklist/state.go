// Package tasklist is the client-side state of the task list screen. All
// mutation goes through State's methods; a Begin call guards and records the
// in-flight request, and exactly one of the matching Complete or Fail calls
// settles it.
package tasklist

import (
	"errors"
	"strings"

	"tasktracker/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrEmptyTitle  = errors.New("タイトルを入力してください")
	ErrSubmitting  = errors.New("タスクを追加しています")
	ErrPending     = errors.New("このタスクは処理中です")
	ErrUnknownTask = errors.New("タスクが見つかりません")
)

// Draft is the new-task form.
type Draft struct {
	Title       string
	Description string
}

// AddRequest is what BeginAdd asks the caller to send.
type AddRequest struct {
	Title       string
	Description *string
}

// Snapshot is a task as it was before an optimistic toggle.
type Snapshot struct {
	task domain.Task
}

// Target is the completion value the server should be asked to store.
func (s Snapshot) Target() bool {
	return !s.task.IsCompleted
}

type State struct {
	Tasks      []domain.Task
	Pending    map[uuid.UUID]bool
	Submitting bool
	Draft      Draft
	Err        error
}

func New(tasks []*domain.Task) *State {
	s := &State{Pending: make(map[uuid.UUID]bool)}
	s.Load(tasks)
	return s
}

// Load replaces the list with a fresh server copy.
func (s *State) Load(tasks []*domain.Task) {
	s.Tasks = make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t != nil {
			s.Tasks = append(s.Tasks, *t)
		}
	}
}

func (s *State) index(id uuid.UUID) int {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the task with id.
func (s *State) Find(id uuid.UUID) (domain.Task, bool) {
	if i := s.index(id); i >= 0 {
		return s.Tasks[i], true
	}
	return domain.Task{}, false
}

// Counts returns the number of tasks and how many are completed.
func (s *State) Counts() (total, completed int) {
	for _, t := range s.Tasks {
		if t.IsCompleted {
			completed++
		}
	}
	return len(s.Tasks), completed
}

// BeginAdd validates the draft and marks the form as submitting. The list is
// not touched until the server answers.
func (s *State) BeginAdd() (AddRequest, error) {
	title := strings.TrimSpace(s.Draft.Title)
	if title == "" {
		return AddRequest{}, ErrEmptyTitle
	}
	if s.Submitting {
		return AddRequest{}, ErrSubmitting
	}

	req := AddRequest{Title: title}
	if d := strings.TrimSpace(s.Draft.Description); d != "" {
		req.Description = &d
	}
	s.Submitting = true
	s.Err = nil
	return req, nil
}

// CompleteAdd prepends the server-returned task and clears the form.
func (s *State) CompleteAdd(task domain.Task) {
	s.Tasks = append([]domain.Task{task}, s.Tasks...)
	s.Draft = Draft{}
	s.Submitting = false
}

// FailAdd keeps the draft so the user can retry.
func (s *State) FailAdd(err error) {
	s.Submitting = false
	s.Err = err
}

// BeginToggle flips the task locally and returns the pre-toggle snapshot.
func (s *State) BeginToggle(id uuid.UUID) (Snapshot, error) {
	i := s.index(id)
	if i < 0 {
		return Snapshot{}, ErrUnknownTask
	}
	if s.Pending[id] {
		return Snapshot{}, ErrPending
	}

	snap := Snapshot{task: s.Tasks[i]}
	s.Tasks[i].IsCompleted = !s.Tasks[i].IsCompleted
	s.Pending[id] = true
	s.Err = nil
	return snap, nil
}

// CompleteToggle replaces the local copy with the server's.
func (s *State) CompleteToggle(task domain.Task) {
	delete(s.Pending, task.ID)
	if i := s.index(task.ID); i >= 0 {
		s.Tasks[i] = task
	}
}

// FailToggle restores the task to its snapshot. Other tasks keep any changes
// made while the request was in flight.
func (s *State) FailToggle(snap Snapshot, err error) {
	id := snap.task.ID
	delete(s.Pending, id)
	if i := s.index(id); i >= 0 {
		s.Tasks[i] = snap.task
	}
	s.Err = err
}

func (s *State) BeginDelete(id uuid.UUID) error {
	if s.index(id) < 0 {
		return ErrUnknownTask
	}
	if s.Pending[id] {
		return ErrPending
	}
	s.Pending[id] = true
	s.Err = nil
	return nil
}

func (s *State) CompleteDelete(id uuid.UUID) {
	delete(s.Pending, id)
	if i := s.index(id); i >= 0 {
		s.Tasks = append(s.Tasks[:i], s.Tasks[i+1:]...)
	}
}

// FailDelete leaves the list as it was.
func (s *State) FailDelete(id uuid.UUID, err error) {
	delete(s.Pending, id)
	s.Err = err
}
