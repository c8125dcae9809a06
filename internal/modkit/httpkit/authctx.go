package httpkit

import (
	"net/http"
	"strings"

	perrs "spillway/internal/platform/errors"
	pnet "spillway/internal/platform/net"
)

// Header names of the signed request scheme
const (
	HeaderProjectKey = "X-Project-Key"
	HeaderSignature  = "X-Signature"
	HeaderAdminToken = "X-Admin-Token"
)

// Project returns the authenticated project id from the request context
func Project(r *http.Request) (int64, error) {
	id := pnet.ProjectID(r.Context())
	if id == 0 {
		return 0, perrs.Wiref(perrs.ErrorCodeUnauthorized, perrs.WireProjectKeyMissing, "missing project key")
	}
	return id, nil
}

// ProjectSlug returns the authenticated project slug, empty when unauthenticated
func ProjectSlug(r *http.Request) string {
	return pnet.ProjectSlug(r.Context())
}

// MustProject returns the authenticated project id or panics
// only use on routes protected by the signed middleware
func MustProject(r *http.Request) int64 {
	id, err := Project(r)
	if err != nil {
		panic(err)
	}
	return id
}

// ProjectKey returns the raw project key header
func ProjectKey(r *http.Request) (string, error) {
	key := strings.TrimSpace(r.Header.Get(HeaderProjectKey))
	if key == "" {
		return "", perrs.Wiref(perrs.ErrorCodeUnauthorized, perrs.WireProjectKeyMissing, "missing project key")
	}
	return key, nil
}

// Signature returns the raw request signature header
func Signature(r *http.Request) (string, error) {
	sig := strings.TrimSpace(r.Header.Get(HeaderSignature))
	if sig == "" {
		return "", perrs.Wiref(perrs.ErrorCodeUnauthorized, perrs.WireSignatureMissing, "missing request signature")
	}
	return sig, nil
}

// AdminToken returns the raw admin token header
func AdminToken(r *http.Request) (string, error) {
	tok := strings.TrimSpace(r.Header.Get(HeaderAdminToken))
	if tok == "" {
		return "", perrs.Wiref(perrs.ErrorCodeUnauthorized, perrs.WireAdminTokenMissing, "missing admin token")
	}
	return tok, nil
}
