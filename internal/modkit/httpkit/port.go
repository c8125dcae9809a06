// Package httpkit provides tiny HTTP helpers and adapters
package httpkit

import (
	"net/http"

	"spillway/internal/platform/net/middleware"
)

// AuthFunc adapts a plain function to middleware.AuthPort
type AuthFunc func(r *http.Request) (projectID int64, slug string, err error)

// Authenticate implements middleware.AuthPort
func (f AuthFunc) Authenticate(r *http.Request) (int64, string, error) { return f(r) }

// AdminFunc adapts a plain function to middleware.AdminPort
type AdminFunc func(r *http.Request) error

// Authorize implements middleware.AdminPort
func (f AdminFunc) Authorize(r *http.Request) error { return f(r) }

// RateFunc adapts a plain function to middleware.RatePort
type RateFunc func(r *http.Request) []middleware.RateDecision

// Check implements middleware.RatePort
func (f RateFunc) Check(r *http.Request) []middleware.RateDecision { return f(r) }

var (
	_ middleware.AuthPort  = (AuthFunc)(nil)
	_ middleware.AdminPort = (AdminFunc)(nil)
	_ middleware.RatePort  = (RateFunc)(nil)
)
