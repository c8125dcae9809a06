package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "spillway/internal/platform/errors"
	pnet "spillway/internal/platform/net"
	phttp "spillway/internal/platform/net/http"
)

// helper to build a request with a request_id in context
func reqWithReqID(method, path, rid string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req = req.WithContext(pnet.WithRequest(req.Context(), rid, "")) // no project
	return req
}

func TestJSON_WritesStatusAndContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.JSON(rec, http.StatusTooManyRequests, map[string]any{"code": "RATE_LIMITED"})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("content type %q", ct)
	}
}

func TestHandle_SuccessEnvelope(t *testing.T) {
	h := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.OK(map[string]any{"received": 3, "processed": 3})
	})
	rec := httptest.NewRecorder()
	h(rec, reqWithReqID("POST", "/log", "rid-1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("code: %d", rec.Code)
	}
	var env phttp.Envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	if env.StatusCode != 200 || env.Status != "success" || env.RequestID != "rid-1" || env.Data == nil {
		t.Fatalf("bad envelope: %+v", env)
	}
}

func TestHandle_CreatedAndNoContent(t *testing.T) {
	hc := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.Created(map[string]any{"id": 99, "slug": "checkout-api"})
	})
	recC := httptest.NewRecorder()
	hc(recC, reqWithReqID("POST", "/admin/projects", "rid-2"))
	if recC.Code != http.StatusCreated {
		t.Fatalf("created code: %d", recC.Code)
	}

	// NoContent must not write a JSON body
	hn := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.NoContent()
	})
	recN := httptest.NewRecorder()
	hn(recN, reqWithReqID("DELETE", "/admin/projects/99", "rid-3"))
	if recN.Code != http.StatusNoContent || recN.Body.Len() != 0 {
		t.Fatalf("no content code=%d body=%q", recN.Code, recN.Body.String())
	}
}

func TestHandle_ZeroStatusDefaultsToOK(t *testing.T) {
	h := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.Response{Body: "bare"}
	})
	rec := httptest.NewRecorder()
	h(rec, reqWithReqID("GET", "/bare", "rid-4"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 default, got %d", rec.Code)
	}
}

func TestHandle_ErrorEnvelope(t *testing.T) {
	h := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.Error(perr.New(perr.ErrorCodeNotFound, "project 9 missing"))
	})
	rec := httptest.NewRecorder()
	h(rec, reqWithReqID("GET", "/admin/projects/9", "rid-5"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var env phttp.Envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	if env.Code != perr.WireNotFound || env.Error == "" || env.RequestID != "rid-5" {
		t.Fatalf("bad error envelope: %+v", env)
	}
	if env.Status != "error" {
		t.Fatalf("status %q want %q", env.Status, "error")
	}
	if env.ErrorID != "" {
		t.Fatalf("client errors must not mint an error_id, got %q", env.ErrorID)
	}
}

func TestHandle_HeaderOverrides(t *testing.T) {
	h := phttp.Handle(func(r *http.Request) phttp.Response {
		resp := phttp.OK("slow down")
		resp.Header = http.Header{}
		resp.Header.Set("Retry-After", "60")
		return resp
	})
	rec := httptest.NewRecorder()
	h(rec, reqWithReqID("GET", "/log", "rid-6"))
	if got := rec.Header().Get("Retry-After"); got != "60" {
		t.Fatalf("expected header override, got %q", got)
	}
}

func TestHandle_GenericErrorMintsErrorID(t *testing.T) {
	h := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.Error(errors.New("dial tcp: connection refused"))
	})
	rec := httptest.NewRecorder()
	h(rec, reqWithReqID("GET", "/log", "rid-7"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for generic error, got %d", rec.Code)
	}
	var env phttp.Envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	if env.Code != perr.WireInternal {
		t.Fatalf("expected %s for generic error, got %q", perr.WireInternal, env.Code)
	}
	if env.ErrorID == "" {
		t.Fatalf("expected error_id on a server fault")
	}
}
