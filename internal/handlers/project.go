package handlers

import (
	"net/http"

	"github.com/diewo77/offermaster/httpx"
	"github.com/diewo77/offermaster/internal/metrics"
	"github.com/diewo77/offermaster/internal/services"
)

type ProjectHandler struct {
	Projects *services.ProjectService
	Metrics  *metrics.Registry
}

func NewProjectHandler(svc *services.ProjectService, m *metrics.Registry) *ProjectHandler {
	return &ProjectHandler{Projects: svc, Metrics: m}
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.Projects.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.Projects.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ProjectInput
	if err := httpx.Decode(r, &in); err != nil {
		invalidJSON(w)
		return
	}
	p, err := h.Projects.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if in.ImageBase64 != "" {
		h.Metrics.UploadsStored.Inc()
	}
	httpx.JSON(w, http.StatusCreated, p)
}

// Update handles PUT /api/projects/{id} as a partial update.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch services.ProjectPatch
	if err := httpx.Decode(r, &patch); err != nil {
		invalidJSON(w)
		return
	}
	p, err := h.Projects.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if patch.ImageBase64 != nil && *patch.ImageBase64 != "" {
		h.Metrics.UploadsStored.Inc()
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Projects.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
