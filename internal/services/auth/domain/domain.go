// Package domain defines the ports for the auth service
package domain

import "context"

// RegistryPort resolves an API key hash to a project. The projects module
// implements it; auth never touches the projects table directly
type RegistryPort interface {
	// ResolveKey looks up a project by the SHA-256 hex digest of its API key
	ResolveKey(ctx context.Context, keyHash string) (id int64, slug string, err error)
}
