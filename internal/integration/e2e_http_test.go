package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tasktracker/internal/client"
	httpserver "tasktracker/internal/http"
	"tasktracker/internal/http/handlers"
	"tasktracker/internal/repository"
	"tasktracker/internal/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func TestE2E_TaskScenario(t *testing.T) {
	pool := openDB(t)
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	uUser := newUser(t, pool, string(hash))
	vUser := newUser(t, pool, string(hash))

	tokens := service.NewTokenManager("e2e-secret", time.Hour)
	auth := service.NewLocalAuthProvider(repository.NewUserRepository(pool), tokens, nil, nil, service.AuthConfig{})
	r := gin.New()
	httpserver.RegisterRoutes(r, httpserver.Deps{
		Handler:  handlers.NewHandler(service.NewTaskService(repository.NewTaskRepository(pool)), auth, handlers.CookieConfig{TTL: time.Hour}),
		Health:   handlers.NewHealthHandler(pool, nil, "e2e"),
		Sessions: service.NewSessionVerifier(tokens, nil),
	}, httpserver.RouteConfig{
		APIRateLimit:   1000,
		APIRateWindow:  time.Minute,
		AuthRateLimit:  1000,
		AuthRateWindow: time.Minute,
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx := context.Background()
	signIn := func(email string) *client.Client {
		c, err := client.New(srv.URL, 5*time.Second)
		if err != nil {
			t.Fatalf("client: %v", err)
		}
		if _, err := c.SignIn(ctx, email, "secret1"); err != nil {
			t.Fatalf("sign in %s: %v", email, err)
		}
		return c
	}
	u, v := signIn(uUser.Email), signIn(vUser.Email)

	task, err := u.CreateTask(ctx, client.CreateTaskInput{Title: "Buy milk"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.IsCompleted || task.UserID != uUser.ID {
		t.Fatalf("unexpected task: %+v", task)
	}

	updated, err := u.UpdateTask(ctx, task.ID, true)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !updated.IsCompleted {
		t.Fatalf("expected isCompleted=true")
	}

	if _, err := v.UpdateTask(ctx, task.ID, false); client.StatusOf(err) != http.StatusForbidden {
		t.Fatalf("foreign toggle: expected 403, got %v", err)
	}

	if err := u.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := u.GetTask(ctx, task.ID); client.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %v", err)
	}

	resp, err := http.Get(srv.URL + "/readyz")
	if err != nil {
		t.Fatalf("readyz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("readyz: expected 200, got %d", resp.StatusCode)
	}
}
