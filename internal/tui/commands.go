package tui

import (
	"context"

	"tasktracker/internal/authform"
	"tasktracker/internal/client"
	"tasktracker/internal/domain"
	"tasktracker/internal/tasklist"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// API is the part of *client.Client the terminal UI uses.
type API interface {
	CallbackURL() string
	SignUp(ctx context.Context, email, password, redirectTo string) (*client.SignUpResult, error)
	SignIn(ctx context.Context, email, password string) (*client.User, error)
	SignOut(ctx context.Context) error
	Session(ctx context.Context) (*client.User, error)
	ListTasks(ctx context.Context) ([]*domain.Task, error)
	CreateTask(ctx context.Context, in client.CreateTaskInput) (*domain.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, isCompleted bool) (*domain.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
}

type sessionCheckedMsg struct {
	user *client.User
	err  error
}

type authFinishedMsg struct {
	req  authform.Request
	user *client.User
	err  error
}

type tasksLoadedMsg struct {
	tasks []*domain.Task
	err   error
}

type taskAddedMsg struct {
	task *domain.Task
	err  error
}

type taskToggledMsg struct {
	snap tasklist.Snapshot
	task *domain.Task
	err  error
}

type taskDeletedMsg struct {
	id  uuid.UUID
	err error
}

type signedOutMsg struct {
	err error
}

func checkSession(api API) tea.Cmd {
	return func() tea.Msg {
		u, err := api.Session(context.Background())
		return sessionCheckedMsg{user: u, err: err}
	}
}

func submitAuth(api API, req authform.Request) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if req.Mode == authform.ModeSignUp {
			_, err := api.SignUp(ctx, req.Email, req.Password, api.CallbackURL())
			return authFinishedMsg{req: req, err: err}
		}
		u, err := api.SignIn(ctx, req.Email, req.Password)
		return authFinishedMsg{req: req, user: u, err: err}
	}
}

func loadTasks(api API) tea.Cmd {
	return func() tea.Msg {
		tasks, err := api.ListTasks(context.Background())
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func addTask(api API, req tasklist.AddRequest) tea.Cmd {
	return func() tea.Msg {
		task, err := api.CreateTask(context.Background(), client.CreateTaskInput{
			Title:       req.Title,
			Description: req.Description,
		})
		return taskAddedMsg{task: task, err: err}
	}
}

func toggleTask(api API, id uuid.UUID, snap tasklist.Snapshot) tea.Cmd {
	return func() tea.Msg {
		task, err := api.UpdateTask(context.Background(), id, snap.Target())
		return taskToggledMsg{snap: snap, task: task, err: err}
	}
}

func deleteTask(api API, id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		return taskDeletedMsg{id: id, err: api.DeleteTask(context.Background(), id)}
	}
}

func signOut(api API) tea.Cmd {
	return func() tea.Msg {
		return signedOutMsg{err: api.SignOut(context.Background())}
	}
}
