package handlers

import (
	"net/http"

	"github.com/diewo77/offermaster/httpx"
	"github.com/diewo77/offermaster/internal/calendar"
	"github.com/diewo77/offermaster/internal/metrics"
	"github.com/diewo77/offermaster/internal/middleware"
	"github.com/diewo77/offermaster/internal/models"
	"github.com/diewo77/offermaster/internal/services"
)

type CalendarHandler struct {
	Events  *services.EventService
	Metrics *metrics.Registry
}

func NewCalendarHandler(svc *services.EventService, m *metrics.Registry) *CalendarHandler {
	return &CalendarHandler{Events: svc, Metrics: m}
}

func (h *CalendarHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.Events.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *CalendarHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.EventInput
	if err := httpx.Decode(r, &in); err != nil {
		invalidJSON(w)
		return
	}
	e, err := h.Events.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.Metrics.CalendarEventsNew.Inc()
	httpx.JSON(w, http.StatusCreated, e)
}

func (h *CalendarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Events.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Grid handles GET /api/calendar?date=YYYY-MM-DD&view=day|week|month.
// A missing date means today.
func (h *CalendarHandler) Grid(w http.ResponseWriter, r *http.Request) {
	ref := calendar.Today(h.Events.Clock)
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := models.ParseDate(raw)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_query", map[string]string{"date": "invalid_date"})
			return
		}
		ref = d.Time
	}
	g, err := h.Events.Grid(r.Context(), ref, calendar.ParseView(r.URL.Query().Get("view")), middleware.LangFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, g)
}
