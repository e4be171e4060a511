package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"tasktracker/internal/domain"
	"tasktracker/internal/http/handlers"
	"tasktracker/internal/repository/memory"
	"tasktracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

type testApp struct {
	engine *gin.Engine
	tasks  *memory.TaskStore
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWith(t, true, nil)
}

func newTestAppWith(t *testing.T, autoConfirm bool, sender service.ConfirmationSender) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := service.NewTokenManager("routes-test-secret", time.Hour)
	sessions := memory.NewSessionStore()
	store := memory.NewTaskStore()
	auth := service.NewLocalAuthProvider(memory.NewUserStore(), tokens, sessions, sender, service.AuthConfig{
		PublicURL:   "http://localhost:8080",
		AutoConfirm: autoConfirm,
		BcryptCost:  bcrypt.MinCost,
	})

	r := gin.New()
	RegisterRoutes(r, Deps{
		Handler:  handlers.NewHandler(service.NewTaskService(store), auth, handlers.CookieConfig{TTL: time.Hour}),
		Health:   handlers.NewHealthHandler(okPinger{}, nil, "test"),
		Sessions: service.NewSessionVerifier(tokens, sessions),
	}, RouteConfig{
		APIRateLimit:   1000,
		APIRateWindow:  time.Minute,
		AuthRateLimit:  1000,
		AuthRateWindow: time.Minute,
	})
	return &testApp{engine: r, tasks: store}
}

func (a *testApp) do(method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

// signIn registers email and returns its session cookie.
func (a *testApp) signIn(t *testing.T, email string) *http.Cookie {
	t.Helper()
	creds := gin.H{"email": email, "password": "secret1"}
	w := a.do(http.MethodPost, "/auth/signup", creds, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(http.MethodPost, "/auth/signin", creds, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	for _, c := range w.Result().Cookies() {
		if c.Name == service.SessionCookie {
			return c
		}
	}
	t.Fatal("sign-in did not set the session cookie")
	return nil
}

func decodeTask(t *testing.T, w *httptest.ResponseRecorder) domain.Task {
	t.Helper()
	var task domain.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	return task
}

func TestTaskLifecycleAcrossOwners(t *testing.T) {
	app := newTestApp(t)
	u := app.signIn(t, "u@example.com")
	v := app.signIn(t, "v@example.com")

	w := app.do(http.MethodPost, "/api/tasks", gin.H{"title": "Buy milk"}, u)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decodeTask(t, w)
	assert.False(t, created.IsCompleted)
	assert.Equal(t, "Buy milk", created.Title)

	path := "/api/tasks/" + created.ID.String()

	w = app.do(http.MethodPatch, path, gin.H{"isCompleted": true}, u)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decodeTask(t, w).IsCompleted)

	w = app.do(http.MethodPatch, path, gin.H{"isCompleted": false}, v)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"権限がありません"}`, w.Body.String())

	w = app.do(http.MethodDelete, path, nil, v)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(http.MethodDelete, path, nil, u)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"タスクを削除しました"}`, w.Body.String())

	w = app.do(http.MethodGet, path, nil, u)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"タスクが見つかりません"}`, w.Body.String())
}

func TestTaskRoutesRequireSession(t *testing.T) {
	app := newTestApp(t)
	u := app.signIn(t, "u@example.com")
	w := app.do(http.MethodPost, "/api/tasks", gin.H{"title": "keep"}, u)
	require.Equal(t, http.StatusOK, w.Code)
	task := decodeTask(t, w)
	path := "/api/tasks/" + task.ID.String()

	for _, tc := range []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/api/tasks", nil},
		{http.MethodPost, "/api/tasks", gin.H{"title": "x"}},
		{http.MethodPatch, path, gin.H{"isCompleted": true}},
		{http.MethodDelete, path, nil},
	} {
		w := app.do(tc.method, tc.path, tc.body, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
		assert.JSONEq(t, `{"error":"認証が必要です"}`, w.Body.String())
	}

	stored, err := app.tasks.FindByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsCompleted)
}

func TestListIsOwnerScopedAndNewestFirst(t *testing.T) {
	app := newTestApp(t)
	u := app.signIn(t, "u@example.com")
	v := app.signIn(t, "v@example.com")

	for _, title := range []string{"first", "second", "third"} {
		require.Equal(t, http.StatusOK, app.do(http.MethodPost, "/api/tasks", gin.H{"title": title}, u).Code)
	}
	require.Equal(t, http.StatusOK, app.do(http.MethodPost, "/api/tasks", gin.H{"title": "other"}, v).Code)

	w := app.do(http.MethodGet, "/api/tasks", nil, u)
	require.Equal(t, http.StatusOK, w.Code)
	var tasks []domain.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	require.Len(t, tasks, 3)
	assert.Equal(t, "third", tasks[0].Title)
	assert.Equal(t, "first", tasks[2].Title)
}

func TestCreateTaskRejectsInput(t *testing.T) {
	app := newTestApp(t)
	u := app.signIn(t, "u@example.com")

	w := app.do(http.MethodPost, "/api/tasks", gin.H{"title": "   "}, u)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"タイトルを入力してください"}`, w.Body.String())

	w = app.do(http.MethodPost, "/api/tasks", gin.H{"title": "x", "userId": "00000000-0000-0000-0000-000000000001"}, u)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(http.MethodPatch, "/api/tasks/not-a-uuid", gin.H{"isCompleted": true}, u)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(http.MethodPatch, "/api/tasks/00000000-0000-0000-0000-000000000001", gin.H{}, u)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStorageFailureIsInternalError(t *testing.T) {
	app := newTestApp(t)
	u := app.signIn(t, "u@example.com")
	app.tasks.Fail = domain.ErrInternal

	w := app.do(http.MethodGet, "/api/tasks", nil, u)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"タスクの取得に失敗しました"}`, w.Body.String())

	w = app.do(http.MethodGet, "/", nil, u)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ログイン")
}

func TestSignOutRevokesCookie(t *testing.T) {
	app := newTestApp(t)
	u := app.signIn(t, "u@example.com")

	w := app.do(http.MethodGet, "/auth/session", nil, u)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u@example.com")

	w = app.do(http.MethodPost, "/auth/signout", nil, u)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(http.MethodGet, "/api/tasks", nil, u)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "revoked token must not authenticate")
}

func TestAuthErrorsUseProviderWording(t *testing.T) {
	app := newTestApp(t)
	app.signIn(t, "u@example.com")

	w := app.do(http.MethodPost, "/auth/signin", gin.H{"email": "u@example.com", "password": "wrong!!"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid login credentials"}`, w.Body.String())

	w = app.do(http.MethodPost, "/auth/signup", gin.H{"email": "short@example.com", "password": "123"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Password should be at least 6 characters"}`, w.Body.String())

	w = app.do(http.MethodPost, "/auth/signup", gin.H{"email": "not-an-email", "password": "secret1"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type linkSender struct{ link string }

func (s *linkSender) SendConfirmation(_ context.Context, _, link string) error {
	s.link = link
	return nil
}

func TestSignUpConfirmationFlow(t *testing.T) {
	sender := &linkSender{}
	app := newTestAppWith(t, false, sender)
	creds := gin.H{"email": "new@example.com", "password": "secret1"}

	w := app.do(http.MethodPost, "/auth/signup", creds, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "確認メールを送信しました")

	w = app.do(http.MethodPost, "/auth/signin", creds, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Email not confirmed"}`, w.Body.String())

	link, err := url.Parse(sender.link)
	require.NoError(t, err)
	w = app.do(http.MethodGet, link.RequestURI(), nil, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = app.do(http.MethodGet, link.RequestURI(), nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "links are single use")

	w = app.do(http.MethodPost, "/auth/signin", creds, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHomeRendersOwnerTasks(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ログイン")

	u := app.signIn(t, "u@example.com")
	v := app.signIn(t, "v@example.com")
	require.Equal(t, http.StatusOK, app.do(http.MethodPost, "/api/tasks", gin.H{"title": "Buy milk", "description": "2 liters"}, u).Code)
	require.Equal(t, http.StatusOK, app.do(http.MethodPost, "/api/tasks", gin.H{"title": "Secret plan"}, v).Code)

	w = app.do(http.MethodGet, "/", nil, u)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Buy milk")
	assert.Contains(t, body, "2 liters")
	assert.NotContains(t, body, "Secret plan")
}

func TestHealthEndpoints(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(http.MethodGet, "/readyz", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp handlers.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "disabled", resp.Checks["redis"])

	w = app.do(http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",path="/healthz",status="200"}`)
}
