package main

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const userIDContextKey = contextKey("userID")

func (app *application) contextSetUserID(r *http.Request, userID uuid.UUID) *http.Request {
	ctx := context.WithValue(r.Context(), userIDContextKey, userID)
	return r.WithContext(ctx)
}

// contextGetUserID must only be called behind requireAuth.
func (app *application) contextGetUserID(r *http.Request) uuid.UUID {
	userID, ok := r.Context().Value(userIDContextKey).(uuid.UUID)
	if !ok {
		panic("missing user id value in request context")
	}
	return userID
}
