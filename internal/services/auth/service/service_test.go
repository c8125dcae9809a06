package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spillway/internal/modkit/httpkit"
	perr "spillway/internal/platform/errors"
	"spillway/internal/platform/net/middleware"
)

// Vectors computed with openssl dgst -sha256 -hmac over the exact bytes
const (
	testSecret = "0123456789abcdef0123456789abcdef"
	testAdmin  = "admintoken-admintoken-admintoken"

	bodySig  = "e1d3863194c22cee21a0defefb844a0287c0db0567af75cdc5e194df055ba926" // [{"message":"hi"}]
	querySig = "3d24bed80e46659a79e2638a85a8ad1c6a3a332d307b1805aa8cf8347b9daa6d" // limit=5&level=error
	emptySig = "796cd3078af14636753d26b3b5555422ff55a3e261cf847b48e95371b9bd0aa2" // zero bytes

	// sha256 of "key_live_7f3a"
	keyHash = "d64da350cfcd8db2e08eeaec39e7ab24437edcffe7fc2385ccaf47a0f4fbded1"
)

type fakeRegistry struct {
	id    int64
	slug  string
	err   error
	hash  string
	calls int

	sawDeadline bool
}

func (f *fakeRegistry) ResolveKey(ctx context.Context, keyHash string) (int64, string, error) {
	f.calls++
	f.hash = keyHash
	_, f.sawDeadline = ctx.Deadline()
	return f.id, f.slug, f.err
}

func newSvc(reg *fakeRegistry) *Service {
	return New(reg, Config{Secret: testSecret, AdminToken: testAdmin})
}

func signedReq(method, target, key, sig string, body []byte) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	if key != "" {
		r.Header.Set(httpkit.HeaderProjectKey, key)
	}
	if sig != "" {
		r.Header.Set(httpkit.HeaderSignature, sig)
	}
	if body != nil {
		r = r.WithContext(middleware.WithRawBody(r.Context(), body))
	}
	return r
}

func TestAuthenticate_MissingKeyRejectsBeforeLookup(t *testing.T) {
	t.Parallel()

	reg := &fakeRegistry{}
	_, _, err := newSvc(reg).Authenticate(signedReq(http.MethodPost, "/api/log", "", bodySig, nil))
	if !perr.IsWire(err, perr.WireProjectKeyMissing) {
		t.Fatalf("wire = %q, want %q", perr.WireOf(err), perr.WireProjectKeyMissing)
	}
	if reg.calls != 0 {
		t.Fatalf("registry consulted %d times for a headerless request", reg.calls)
	}
}

func TestAuthenticate_MissingSignatureRejectsBeforeLookup(t *testing.T) {
	t.Parallel()

	reg := &fakeRegistry{}
	_, _, err := newSvc(reg).Authenticate(signedReq(http.MethodPost, "/api/log", "key_live_7f3a", "", nil))
	if !perr.IsWire(err, perr.WireSignatureMissing) {
		t.Fatalf("wire = %q, want %q", perr.WireOf(err), perr.WireSignatureMissing)
	}
	if reg.calls != 0 {
		t.Fatalf("registry consulted %d times without a signature", reg.calls)
	}
}

func TestAuthenticate_UnknownKey(t *testing.T) {
	t.Parallel()

	reg := &fakeRegistry{err: perr.ErrNotFound}
	_, _, err := newSvc(reg).Authenticate(
		signedReq(http.MethodPost, "/api/log", "key_live_7f3a", bodySig, []byte(`[{"message":"hi"}]`)))

	if !perr.IsWire(err, perr.WireProjectNotFound) {
		t.Fatalf("wire = %q, want %q", perr.WireOf(err), perr.WireProjectNotFound)
	}
	if got := perr.HTTPStatus(err); got != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", got)
	}
	if reg.hash != keyHash {
		t.Fatalf("lookup hash = %q, want sha256 of the key", reg.hash)
	}
}

func TestAuthenticate_RegistryFailureMapsToDatabaseError(t *testing.T) {
	t.Parallel()

	reg := &fakeRegistry{err: errors.New("pool exhausted")}
	_, _, err := newSvc(reg).Authenticate(
		signedReq(http.MethodPost, "/api/log", "key_live_7f3a", bodySig, []byte(`[{"message":"hi"}]`)))

	if !perr.IsWire(err, perr.WireDatabaseError) {
		t.Fatalf("wire = %q, want %q", perr.WireOf(err), perr.WireDatabaseError)
	}
	if got := perr.HTTPStatus(err); got != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", got)
	}
}

func TestAuthenticate_ValidBodySignature(t *testing.T) {
	t.Parallel()

	reg := &fakeRegistry{id: 42, slug: "acme"}
	id, slug, err := newSvc(reg).Authenticate(
		signedReq(http.MethodPost, "/api/log", "key_live_7f3a", bodySig, []byte(`[{"message":"hi"}]`)))

	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if id != 42 || slug != "acme" {
		t.Fatalf("identity = %d/%q", id, slug)
	}
	if !reg.sawDeadline {
		t.Fatal("registry lookup ran without a deadline")
	}
}

func TestAuthenticate_UppercaseHexAccepted(t *testing.T) {
	t.Parallel()

	reg := &fakeRegistry{id: 42, slug: "acme"}
	upper := "E1D3863194C22CEE21A0DEFEFB844A0287C0DB0567AF75CDC5E194DF055BA926"
	_, _, err := newSvc(reg).Authenticate(
		signedReq(http.MethodPost, "/api/log", "key_live_7f3a", upper, []byte(`[{"message":"hi"}]`)))
	if err != nil {
		t.Fatalf("uppercase hex rejected: %v", err)
	}
}

func TestAuthenticate_QueryStringMaterialWhenBodyless(t *testing.T) {
	t.Parallel()

	reg := &fakeRegistry{id: 7, slug: "acme"}
	r := signedReq(http.MethodGet, "/api/log?limit=5&level=error", "key_live_7f3a", querySig, nil)
	if _, _, err := newSvc(reg).Authenticate(r); err != nil {
		t.Fatalf("query material rejected: %v", err)
	}

	// no query at all signs zero bytes
	r = signedReq(http.MethodGet, "/api/log", "key_live_7f3a", emptySig, nil)
	if _, _, err := newSvc(reg).Authenticate(r); err != nil {
		t.Fatalf("empty material rejected: %v", err)
	}
}

func TestAuthenticate_TamperedBodyRejected(t *testing.T) {
	t.Parallel()

	reg := &fakeRegistry{id: 42, slug: "acme"}
	_, _, err := newSvc(reg).Authenticate(
		signedReq(http.MethodPost, "/api/log", "key_live_7f3a", bodySig, []byte(`[{"message":"hi!"}]`)))

	if !perr.IsWire(err, perr.WireSignatureInvalid) {
		t.Fatalf("wire = %q, want %q", perr.WireOf(err), perr.WireSignatureInvalid)
	}
}

func TestAuthorize_TokenChecks(t *testing.T) {
	t.Parallel()

	svc := newSvc(&fakeRegistry{})

	r := httptest.NewRequest(http.MethodGet, "/api/admin/projects", nil)
	if err := svc.Authorize(r); !perr.IsWire(err, perr.WireAdminTokenMissing) {
		t.Fatalf("wire = %q, want %q", perr.WireOf(err), perr.WireAdminTokenMissing)
	}

	r.Header.Set(httpkit.HeaderAdminToken, "guess")
	if err := svc.Authorize(r); !perr.IsWire(err, perr.WireAdminTokenInvalid) {
		t.Fatalf("wire = %q, want %q", perr.WireOf(err), perr.WireAdminTokenInvalid)
	}

	r.Header.Set(httpkit.HeaderAdminToken, testAdmin)
	if err := svc.Authorize(r); err != nil {
		t.Fatalf("valid token rejected: %v", err)
	}
}

func TestNew_DefaultsAndGuards(t *testing.T) {
	t.Parallel()

	svc := newSvc(&fakeRegistry{})
	if svc.cfg.Timeout != 10*time.Second {
		t.Fatalf("timeout default = %v", svc.cfg.Timeout)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on nil registry")
		}
	}()
	New(nil, Config{Secret: testSecret, AdminToken: testAdmin})
}
