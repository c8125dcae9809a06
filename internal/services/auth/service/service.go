// Package service verifies request signatures and operator tokens.
//
// Ingest clients sign the exact bytes they send: lowercase hex
// HMAC-SHA-256 over the raw body, keyed with the deployment-wide secret.
// Requests without a body sign the raw query string instead, so signed
// reads stay verifiable
package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"spillway/internal/modkit/httpkit"
	perr "spillway/internal/platform/errors"
	"spillway/internal/platform/net/middleware"
	"spillway/internal/services/auth/domain"
)

// Config for the auth service
type Config struct {
	Secret     string        // shared HMAC key, every project signs with it
	AdminToken string        // operator token for the admin surface
	Timeout    time.Duration // registry lookup budget
}

// Service implements middleware.AuthPort and middleware.AdminPort
type Service struct {
	registry domain.RegistryPort
	cfg      Config
}

// New creates a new auth service
func New(registry domain.RegistryPort, cfg Config) *Service {
	if registry == nil {
		panic("auth.Service requires a non nil RegistryPort")
	}
	if cfg.Secret == "" {
		panic("auth.Service requires a signing secret")
	}
	if cfg.AdminToken == "" {
		panic("auth.Service requires an admin token")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Service{registry: registry, cfg: cfg}
}

// Authenticate resolves the calling project and verifies the signature.
// Header checks run before the registry lookup so missing credentials never
// cost a round trip
func (s *Service) Authenticate(r *http.Request) (int64, string, error) {
	key, err := httpkit.ProjectKey(r)
	if err != nil {
		return 0, "", err
	}
	sig, err := httpkit.Signature(r)
	if err != nil {
		return 0, "", err
	}

	sum := sha256.Sum256([]byte(key))
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Timeout)
	defer cancel()

	id, slug, err := s.registry.ResolveKey(ctx, hex.EncodeToString(sum[:]))
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return 0, "", perr.Wiref(perr.ErrorCodeUnauthorized, perr.WireProjectNotFound, "unknown project key")
		}
		return 0, "", perr.Wiref(perr.ErrorCodeUnauthorized, perr.WireDatabaseError, "project lookup failed")
	}

	if !s.signatureMatches(material(r), sig) {
		return 0, "", perr.Wiref(perr.ErrorCodeUnauthorized, perr.WireSignatureInvalid, "request signature mismatch")
	}
	return id, slug, nil
}

// Authorize verifies the operator token on admin requests
func (s *Service) Authorize(r *http.Request) error {
	tok, err := httpkit.AdminToken(r)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(tok), []byte(s.cfg.AdminToken)) != 1 {
		return perr.Wiref(perr.ErrorCodeUnauthorized, perr.WireAdminTokenInvalid, "admin token mismatch")
	}
	return nil
}

// material picks the signed bytes: the captured body when one crossed the
// wire, the raw query string otherwise
func material(r *http.Request) []byte {
	if b, ok := middleware.RawBodyFrom(r.Context()); ok {
		return b
	}
	return []byte(r.URL.RawQuery)
}

// signatureMatches compares in constant time. The header tolerates uppercase
// hex; the computed digest is the lowercase reference
func (s *Service) signatureMatches(signed []byte, header string) bool {
	mac := hmac.New(sha256.New, []byte(s.cfg.Secret))
	mac.Write(signed)
	want := hex.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(want), []byte(strings.ToLower(header))) == 1
}
