// Package authform is the state of the sign-in / sign-up screen.
package authform

import (
	"errors"
	"net/mail"
	"strings"

	"tasktracker/internal/client"
)

const minPasswordLength = 6

const (
	NoticeConfirmationSent = "確認メールを送信しました。メールをご確認ください。"
	NoticeSignedIn         = "ログインしました。"

	msgInvalidCredentials = "メールアドレスまたはパスワードが間違っています。"
	msgEmailNotConfirmed  = "メールアドレスの確認が完了していません。"
	msgGeneric            = "エラーが発生しました。もう一度お試しください。"
)

var (
	ErrBusy         = errors.New("処理中です")
	ErrInvalidEmail = errors.New("有効なメールアドレスを入力してください")
	ErrWeakPassword = errors.New("パスワードは6文字以上で入力してください")
)

type Mode int

const (
	ModeSignIn Mode = iota
	ModeSignUp
)

// Outcome tells the caller what to do after a successful submit.
type Outcome int

const (
	OutcomeStay Outcome = iota
	OutcomeNavigateHome
)

// Request is a validated submission.
type Request struct {
	Mode     Mode
	Email    string
	Password string
}

type Form struct {
	Mode     Mode
	Email    string
	Password string
	Loading  bool
	Notice   string
	Err      string
}

// Toggle switches between sign-in and sign-up. It is ignored while a request
// is in flight.
func (f *Form) Toggle() {
	if f.Loading {
		return
	}
	if f.Mode == ModeSignIn {
		f.Mode = ModeSignUp
	} else {
		f.Mode = ModeSignIn
	}
	f.Notice, f.Err = "", ""
}

// Begin validates the fields and marks the form as loading.
func (f *Form) Begin() (Request, error) {
	if f.Loading {
		return Request{}, ErrBusy
	}
	email := strings.TrimSpace(f.Email)
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		f.Err = ErrInvalidEmail.Error()
		return Request{}, ErrInvalidEmail
	}
	if len(f.Password) < minPasswordLength {
		f.Err = ErrWeakPassword.Error()
		return Request{}, ErrWeakPassword
	}

	f.Loading = true
	f.Notice, f.Err = "", ""
	return Request{Mode: f.Mode, Email: email, Password: f.Password}, nil
}

// Succeed settles a successful request. Sign-up stays on the form with a
// notice; sign-in moves on to the task list.
func (f *Form) Succeed() Outcome {
	f.Loading = false
	if f.Mode == ModeSignUp {
		f.Notice = NoticeConfirmationSent
		return OutcomeStay
	}
	f.Notice = NoticeSignedIn
	f.Password = ""
	return OutcomeNavigateHome
}

func (f *Form) Fail(err error) {
	f.Loading = false
	f.Err = LocalizeError(err)
}

// LocalizeError maps the auth provider's messages to user-facing text.
func LocalizeError(err error) string {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return msgGeneric
	}
	switch apiErr.Message {
	case "Invalid login credentials":
		return msgInvalidCredentials
	case "Email not confirmed":
		return msgEmailNotConfirmed
	default:
		return msgGeneric
	}
}

func (f *Form) Title() string {
	if f.Mode == ModeSignUp {
		return "アカウント作成"
	}
	return "ログイン"
}

func (f *Form) SubmitLabel() string {
	switch {
	case f.Loading:
		return "処理中..."
	case f.Mode == ModeSignUp:
		return "アカウントを作成"
	default:
		return "ログイン"
	}
}

func (f *Form) ToggleLabel() string {
	if f.Mode == ModeSignUp {
		return "すでにアカウントをお持ちの方はこちら"
	}
	return "アカウントをお持ちでない方はこちら"
}
