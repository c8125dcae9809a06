// Package http provides http transport for log ingestion and retrieval
package http

import (
	stdhttp "net/http"
	"strconv"

	"spillway/internal/modkit/httpkit"
	"spillway/internal/platform/net/middleware"
	"spillway/internal/services/api/logs/domain"
	svc "spillway/internal/services/api/logs/service"
)

// Register mounts the signed ingest and query endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Post(r, "/", h.ingest)
	httpkit.Get(r, "/", h.query)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /log Logs logsIngest
// @Summary Ingest a batch of log events
// @Tags Logs
// @Accept json
// @Produce json
// @Param payload body []domain.Event true "Bare array or {\"events\":[...]}"
// @Success 200 {object} domain.IngestResult "accepted"
// @Router /log [post]
func (h *handlers) ingest(r *stdhttp.Request) (any, error) {
	// the exact signed bytes, captured before any parsing
	raw, _ := middleware.RawBodyFrom(r.Context())
	return h.svc.Ingest(r.Context(), raw)
}

// swagger:route GET /log Logs logsQuery
// @Summary Retrieve stored events, newest first
// @Tags Logs
// @Produce json
// @Param limit query int false "Page size, capped at 1000 (default 100)"
// @Param offset query int false "Rows to skip"
// @Param level query string false "Exact level match"
// @Param since query string false "RFC-3339 lower bound on created_at"
// @Param fingerprint query string false "Exact fingerprint match"
// @Success 200 {object} domain.QueryResult "ok"
// @Router /log [get]
func (h *handlers) query(r *stdhttp.Request) (any, error) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	return h.svc.Query(r.Context(), domain.QueryInput{
		Limit:       limit,
		Offset:      offset,
		Level:       q.Get("level"),
		Since:       q.Get("since"),
		Fingerprint: q.Get("fingerprint"),
	})
}
