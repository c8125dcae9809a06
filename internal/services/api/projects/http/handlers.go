// Package http provides http transport for project administration
package http

import (
	stdhttp "net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"spillway/internal/modkit/httpkit"
	perr "spillway/internal/platform/errors"
	"spillway/internal/services/api/projects/domain"
	svc "spillway/internal/services/api/projects/service"
)

// Register mounts the admin endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.CreateInput](r, "/", h.create)
	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/{id}", h.get)
	httpkit.PatchJSON[domain.UpdateInput](r, "/{id}", h.update)
	httpkit.Delete(r, "/{id}", h.remove)
	httpkit.Post(r, "/{id}/rotate-key", h.rotate)
	httpkit.Get(r, "/{id}/activity", h.activity)
}

type handlers struct{ svc svc.Service }

// projectID parses the {id} segment. Absent or malformed ids are a caller
// mistake, not a miss
func projectID(r *stdhttp.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, perr.Wiref(perr.ErrorCodeValidation, perr.WireProjectRequired, "project id segment required")
	}
	return id, nil
}

// swagger:route POST /admin/projects Projects projectsCreate
// @Summary Create a project
// @Tags Projects
// @Accept json
// @Produce json
// @Param payload body domain.CreateInput true "Project"
// @Success 201 {object} domain.CreatedProject "created; key is shown only here"
// @Router /admin/projects [post]
func (h *handlers) create(r *stdhttp.Request, in domain.CreateInput) (any, error) {
	out, err := h.svc.Create(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(out), nil
}

// swagger:route GET /admin/projects Projects projectsList
// @Summary List projects with last-hour activity totals
// @Tags Projects
// @Produce json
// @Success 200 {array} domain.ListItem "ok"
// @Router /admin/projects [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.svc.List(r.Context())
}

// swagger:route GET /admin/projects/{id} Projects projectsGet
// @Summary Project detail
// @Tags Projects
// @Produce json
// @Param id path int true "Project id"
// @Success 200 {object} domain.Project "ok"
// @Router /admin/projects/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	id, err := projectID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Get(r.Context(), id)
}

// swagger:route PATCH /admin/projects/{id} Projects projectsUpdate
// @Summary Update name, retention, or minute cap
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path int true "Project id"
// @Param payload body domain.UpdateInput true "Fields to change"
// @Success 200 {object} domain.Project "ok"
// @Router /admin/projects/{id} [patch]
func (h *handlers) update(r *stdhttp.Request, in domain.UpdateInput) (any, error) {
	id, err := projectID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Update(r.Context(), id, in)
}

// swagger:route DELETE /admin/projects/{id} Projects projectsDelete
// @Summary Delete a project and its data
// @Tags Projects
// @Param id path int true "Project id"
// @Success 204 "deleted"
// @Router /admin/projects/{id} [delete]
func (h *handlers) remove(r *stdhttp.Request) (any, error) {
	id, err := projectID(r)
	if err != nil {
		return nil, err
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

// swagger:route POST /admin/projects/{id}/rotate-key Projects projectsRotateKey
// @Summary Rotate the API key
// @Tags Projects
// @Produce json
// @Param id path int true "Project id"
// @Success 200 {object} domain.RotatedKey "new key; shown only here"
// @Router /admin/projects/{id}/rotate-key [post]
func (h *handlers) rotate(r *stdhttp.Request) (any, error) {
	id, err := projectID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.RotateKey(r.Context(), id)
}

// swagger:route GET /admin/projects/{id}/activity Projects projectsActivity
// @Summary Per-minute ingest activity
// @Tags Projects
// @Produce json
// @Param id path int true "Project id"
// @Param minutes query int false "Trailing window, 1-120 (default 60)"
// @Success 200 {array} domain.ActivityPoint "ok"
// @Router /admin/projects/{id}/activity [get]
func (h *handlers) activity(r *stdhttp.Request) (any, error) {
	id, err := projectID(r)
	if err != nil {
		return nil, err
	}
	minutes, _ := strconv.Atoi(r.URL.Query().Get("minutes"))
	return h.svc.Activity(r.Context(), id, minutes)
}
