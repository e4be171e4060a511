// Command api_smoke runs the create / toggle / foreign-toggle / delete
// scenario against a running server with two fresh accounts. The server must
// run with DEV_MODE=true so sign-ups are confirmed immediately.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"tasktracker/internal/client"

	"github.com/google/uuid"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "server URL")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	u := account(ctx, *server, "smoke-u")
	v := account(ctx, *server, "smoke-v")

	task, err := u.CreateTask(ctx, client.CreateTaskInput{Title: "Buy milk"})
	check(err, "create")
	expect(!task.IsCompleted, "new task must not be completed")
	fmt.Printf("created %s\n", task.ID)

	updated, err := u.UpdateTask(ctx, task.ID, true)
	check(err, "toggle as owner")
	expect(updated.IsCompleted, "toggle must set isCompleted")
	expect(updated.UpdatedAt.After(task.UpdatedAt), "updatedAt must increase")

	_, err = v.UpdateTask(ctx, task.ID, false)
	expect(client.StatusOf(err) == http.StatusForbidden, fmt.Sprintf("foreign toggle: want 403, got %v", err))

	check(u.DeleteTask(ctx, task.ID), "delete")

	_, err = u.GetTask(ctx, task.ID)
	expect(client.StatusOf(err) == http.StatusNotFound, fmt.Sprintf("read after delete: want 404, got %v", err))

	check(u.SignOut(ctx), "sign out")
	_, err = u.ListTasks(ctx)
	expect(client.StatusOf(err) == http.StatusUnauthorized, fmt.Sprintf("list after sign-out: want 401, got %v", err))

	fmt.Println("smoke OK")
}

func account(ctx context.Context, server, prefix string) *client.Client {
	c, err := client.New(server, 10*time.Second)
	check(err, "client")

	email := fmt.Sprintf("%s-%s@example.com", prefix, uuid.NewString()[:8])
	res, err := c.SignUp(ctx, email, "smoke-password", "")
	check(err, "sign up "+email)
	if res.ConfirmationRequired {
		log.Fatalf("%s needs email confirmation; run the server with DEV_MODE=true", email)
	}
	_, err = c.SignIn(ctx, email, "smoke-password")
	check(err, "sign in "+email)
	return c
}

func check(err error, step string) {
	if err != nil {
		log.Fatalf("%s: %v", step, err)
	}
}

func expect(ok bool, msg string) {
	if !ok {
		log.Fatal(msg)
	}
}
