// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const (
	keyProjectID   ctxKey = "project_id"
	keyProjectSlug ctxKey = "project_slug"
)

// WithRequest annotates context with common request scoped ids
func WithRequest(ctx context.Context, reqID, projectSlug string) context.Context {
	if reqID != "" {
		// set chi RequestID so chimw.GetReqID can retrieve it
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if projectSlug != "" {
		ctx = context.WithValue(ctx, keyProjectSlug, projectSlug)
	}
	return ctx
}

// WithProject annotates context with the authenticated project identity
func WithProject(ctx context.Context, id int64, slug string) context.Context {
	if id != 0 {
		ctx = context.WithValue(ctx, keyProjectID, id)
	}
	if slug != "" {
		ctx = context.WithValue(ctx, keyProjectSlug, slug)
	}
	return ctx
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	if v := chimw.GetReqID(ctx); v != "" {
		return v
	}
	return ""
}

// ProjectID returns the numeric project id set by auth, zero when anonymous
func ProjectID(ctx context.Context) int64 {
	if v, ok := ctx.Value(keyProjectID).(int64); ok {
		return v
	}
	return 0
}

// ProjectSlug returns the project slug on the context if present
func ProjectSlug(ctx context.Context) string {
	if v, ok := ctx.Value(keyProjectSlug).(string); ok {
		return v
	}
	return ""
}
