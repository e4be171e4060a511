package tui

import (
	"errors"
	"fmt"
	"strings"

	"tasktracker/internal/client"
	"tasktracker/internal/domain"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")).MarginBottom(1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#777777")).Strikethrough(true)
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

func (a *App) View() string {
	switch a.screen {
	case screenAuth:
		return a.authView()
	case screenTasks:
		return a.tasksView()
	default:
		return hintStyle.Render("接続しています...")
	}
}

func (a *App) authView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(a.form.Title()))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("メールアドレス"))
	b.WriteString("\n")
	b.WriteString(a.authInputs[0].View())
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("パスワード"))
	b.WriteString("\n")
	b.WriteString(a.authInputs[1].View())
	b.WriteString("\n\n")
	b.WriteString(cursorStyle.Render("[ " + a.form.SubmitLabel() + " ]"))
	b.WriteString("\n")

	if a.form.Notice != "" {
		b.WriteString("\n" + noticeStyle.Render(a.form.Notice) + "\n")
	}
	if a.form.Err != "" {
		b.WriteString("\n" + errorStyle.Render(a.form.Err) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render("ctrl+t: " + a.form.ToggleLabel() + " · tab: 移動 · enter: 送信 · ctrl+c: 終了"))
	return boxStyle.Render(b.String())
}

func (a *App) tasksView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("タスク管理アプリ"))
	b.WriteString("\n")
	if a.user != nil {
		total, done := a.list.Counts()
		b.WriteString(labelStyle.Render(fmt.Sprintf("%s · %d件中%d件完了", a.user.Email, total, done)))
		b.WriteString("\n\n")
	}

	if a.editing {
		b.WriteString(a.addInputs[0].View())
		b.WriteString("\n")
		b.WriteString(a.addInputs[1].View())
		b.WriteString("\n")
		if a.list.Submitting {
			b.WriteString(pendingStyle.Render("追加しています..."))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(a.list.Tasks) == 0 {
		b.WriteString(hintStyle.Render("タスクがありません。新しいタスクを追加してください。"))
		b.WriteString("\n")
	}
	for i, t := range a.list.Tasks {
		b.WriteString(a.taskLine(i, t))
		b.WriteString("\n")
	}

	if a.list.Err != nil {
		b.WriteString("\n" + errorStyle.Render(errorText(a.list.Err)) + "\n")
	}

	b.WriteString("\n")
	if a.editing {
		b.WriteString(hintStyle.Render("enter: 追加 · tab: 移動 · esc: キャンセル"))
	} else {
		b.WriteString(hintStyle.Render("a: 追加 · space: 完了切替 · d: 削除 · r: 再読込 · L: ログアウト · q: 終了"))
	}
	return boxStyle.Render(b.String())
}

func (a *App) taskLine(i int, t domain.Task) string {
	pointer := "  "
	if i == a.cursor && !a.editing {
		pointer = cursorStyle.Render("> ")
	}
	check := "[ ]"
	if t.IsCompleted {
		check = "[x]"
	}

	title := t.Title
	if t.IsCompleted {
		title = doneStyle.Render(title)
	}
	line := fmt.Sprintf("%s%s %s %s", pointer, check, title, hintStyle.Render(formatDate(t)))
	if t.Description != nil && *t.Description != "" {
		line += "\n      " + labelStyle.Render(*t.Description)
	}
	if a.list.Pending[t.ID] {
		line += " " + pendingStyle.Render("…")
	}
	return line
}

func formatDate(t domain.Task) string {
	return t.CreatedAt.Local().Format("1月2日 15:04")
}

// errorText shows the server's message without the status code.
func errorText(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
