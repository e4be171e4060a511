package service

import (
	"context"
)

type recordingSender struct {
	email, link string
}

func (r *recordingSender) SendConfirmation(_ context.Context, email, link string) error {
	r.email, r.link = email, link
	return nil
}
