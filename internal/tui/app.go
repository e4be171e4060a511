// Package tui is the terminal client: an auth screen and a task list screen
// driven by bubbletea.
package tui

import (
	"errors"
	"net/http"

	"tasktracker/internal/authform"
	"tasktracker/internal/client"
	"tasktracker/internal/domain"
	"tasktracker/internal/tasklist"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type screen int

const (
	screenLoading screen = iota
	screenAuth
	screenTasks
)

// App is the root model.
type App struct {
	api    API
	screen screen
	user   *client.User

	form       authform.Form
	authInputs []textinput.Model
	authFocus  int

	list      *tasklist.State
	cursor    int
	editing   bool
	addInputs []textinput.Model
	addFocus  int

	width int
}

func NewApp(api API) *App {
	a := &App{api: api, screen: screenLoading}
	a.resetAuth()
	a.resetTasks()
	return a
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	return in
}

func (a *App) resetAuth() {
	email := newInput("example@example.com", 254)
	password := newInput("6文字以上で入力", 72)
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	email.Focus()

	a.form = authform.Form{}
	a.authInputs = []textinput.Model{email, password}
	a.authFocus = 0
}

func (a *App) resetTasks() {
	a.list = tasklist.New(nil)
	a.cursor = 0
	a.editing = false
	a.addInputs = []textinput.Model{
		newInput("タスクのタイトル", 200),
		newInput("説明（任意）", 1000),
	}
	a.addFocus = 0
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, checkSession(a.api))
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.screen {
		case screenAuth:
			return a.updateAuthKeys(msg)
		case screenTasks:
			return a.updateTaskKeys(msg)
		}
		return a, nil

	case sessionCheckedMsg:
		if msg.err != nil || msg.user == nil {
			a.screen = screenAuth
			if msg.err != nil {
				a.form.Err = authform.LocalizeError(msg.err)
			}
			return a, nil
		}
		return a, a.enterTasks(msg.user)

	case authFinishedMsg:
		if msg.err != nil {
			a.form.Fail(msg.err)
			return a, nil
		}
		if a.form.Succeed() == authform.OutcomeNavigateHome {
			return a, a.enterTasks(msg.user)
		}
		return a, nil

	case tasksLoadedMsg:
		if msg.err != nil {
			if a.sessionLost(msg.err) {
				return a, nil
			}
			a.list.Err = msg.err
			return a, nil
		}
		a.list.Load(msg.tasks)
		a.clampCursor()
		return a, nil

	case taskAddedMsg:
		if msg.err != nil {
			a.list.FailAdd(msg.err)
			a.sessionLost(msg.err)
			return a, nil
		}
		a.list.CompleteAdd(*msg.task)
		for i := range a.addInputs {
			a.addInputs[i].SetValue("")
		}
		a.cursor = 0
		a.stopEditing()
		return a, nil

	case taskToggledMsg:
		if msg.err != nil {
			a.list.FailToggle(msg.snap, msg.err)
			a.sessionLost(msg.err)
			return a, nil
		}
		a.list.CompleteToggle(*msg.task)
		return a, nil

	case taskDeletedMsg:
		if msg.err != nil {
			a.list.FailDelete(msg.id, msg.err)
			a.sessionLost(msg.err)
			return a, nil
		}
		a.list.CompleteDelete(msg.id)
		a.clampCursor()
		return a, nil

	case signedOutMsg:
		if msg.err != nil {
			a.list.Err = msg.err
			return a, nil
		}
		return a, a.enterAuth()
	}

	return a, a.updateFocusedInput(msg)
}

func (a *App) enterTasks(u *client.User) tea.Cmd {
	a.user = u
	a.screen = screenTasks
	a.resetTasks()
	return loadTasks(a.api)
}

// enterAuth drops all task state and shows a fresh sign-in form.
func (a *App) enterAuth() tea.Cmd {
	a.user = nil
	a.screen = screenAuth
	a.resetTasks()
	a.resetAuth()
	return textinput.Blink
}

// sessionLost switches to the auth screen when the server no longer accepts
// the session.
func (a *App) sessionLost(err error) bool {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		return false
	}
	a.enterAuth()
	a.form.Err = apiErr.Message
	return true
}

func (a *App) updateAuthKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		a.focusAuth(a.authFocus + 1)
		return a, nil
	case "shift+tab", "up":
		a.focusAuth(a.authFocus - 1)
		return a, nil
	case "ctrl+t":
		a.form.Toggle()
		return a, nil
	case "enter":
		a.form.Email = a.authInputs[0].Value()
		a.form.Password = a.authInputs[1].Value()
		req, err := a.form.Begin()
		if err != nil {
			return a, nil
		}
		return a, submitAuth(a.api, req)
	}
	if a.form.Loading {
		return a, nil
	}
	return a, a.updateFocusedInput(msg)
}

func (a *App) focusAuth(i int) {
	n := len(a.authInputs)
	a.authFocus = (i%n + n) % n
	for j := range a.authInputs {
		if j == a.authFocus {
			a.authInputs[j].Focus()
		} else {
			a.authInputs[j].Blur()
		}
	}
}

func (a *App) updateTaskKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.editing {
		return a.updateAddKeys(msg)
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.list.Tasks)-1 {
			a.cursor++
		}
	case "a", "n":
		a.editing = true
		a.addFocus = 0
		a.addInputs[0].Focus()
		return a, textinput.Blink
	case " ", "x":
		task, ok := a.selected()
		if !ok {
			return a, nil
		}
		snap, err := a.list.BeginToggle(task.ID)
		if err != nil {
			a.list.Err = err
			return a, nil
		}
		return a, toggleTask(a.api, task.ID, snap)
	case "d", "delete":
		task, ok := a.selected()
		if !ok {
			return a, nil
		}
		if err := a.list.BeginDelete(task.ID); err != nil {
			a.list.Err = err
			return a, nil
		}
		return a, deleteTask(a.api, task.ID)
	case "r":
		return a, loadTasks(a.api)
	case "L":
		return a, signOut(a.api)
	}
	return a, nil
}

func (a *App) updateAddKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.stopEditing()
		return a, nil
	case "tab", "shift+tab":
		a.addInputs[a.addFocus].Blur()
		a.addFocus = 1 - a.addFocus
		a.addInputs[a.addFocus].Focus()
		return a, nil
	case "enter":
		a.list.Draft = tasklist.Draft{
			Title:       a.addInputs[0].Value(),
			Description: a.addInputs[1].Value(),
		}
		req, err := a.list.BeginAdd()
		if err != nil {
			a.list.Err = err
			return a, nil
		}
		return a, addTask(a.api, req)
	}
	if a.list.Submitting {
		return a, nil
	}
	return a, a.updateFocusedInput(msg)
}

func (a *App) stopEditing() {
	a.editing = false
	for i := range a.addInputs {
		a.addInputs[i].Blur()
	}
}

func (a *App) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case a.screen == screenAuth:
		a.authInputs[a.authFocus], cmd = a.authInputs[a.authFocus].Update(msg)
	case a.screen == screenTasks && a.editing:
		a.addInputs[a.addFocus], cmd = a.addInputs[a.addFocus].Update(msg)
	}
	return cmd
}

func (a *App) selected() (domain.Task, bool) {
	if a.cursor < 0 || a.cursor >= len(a.list.Tasks) {
		return domain.Task{}, false
	}
	return a.list.Tasks[a.cursor], true
}

func (a *App) clampCursor() {
	if a.cursor >= len(a.list.Tasks) {
		a.cursor = len(a.list.Tasks) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}
