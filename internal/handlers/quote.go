package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/diewo77/offermaster/auth"
	"github.com/diewo77/offermaster/httpx"
	"github.com/diewo77/offermaster/i18n"
	"github.com/diewo77/offermaster/internal/export"
	"github.com/diewo77/offermaster/internal/guard"
	"github.com/diewo77/offermaster/internal/logger"
	"github.com/diewo77/offermaster/internal/metrics"
	"github.com/diewo77/offermaster/internal/middleware"
	"github.com/diewo77/offermaster/internal/models"
	"github.com/diewo77/offermaster/internal/pdf"
	"github.com/diewo77/offermaster/internal/quoteview"
	"github.com/diewo77/offermaster/internal/services"
)

type QuoteHandler struct {
	Quotes  *services.QuoteService
	Guard   guard.Locker
	Metrics *metrics.Registry
}

func NewQuoteHandler(svc *services.QuoteService, g guard.Locker, m *metrics.Registry) *QuoteHandler {
	return &QuoteHandler{Quotes: svc, Guard: g, Metrics: m}
}

func displayParams(w http.ResponseWriter, r *http.Request) (quoteview.Filter, quoteview.Sort, bool) {
	f, s, err := quoteview.FromQuery(r.URL.Query(), time.Local)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_query", map[string]string{"message": err.Error()})
		return f, s, false
	}
	return f, s, true
}

// List handles GET /api/quotes with optional project/from/to/sort/order.
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	f, s, ok := displayParams(w, r)
	if !ok {
		return
	}
	out, err := h.Quotes.Display(r.Context(), f, s)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Create handles POST /api/quotes. One submission per user runs at a time;
// an overlapping one is answered 409 without touching the store.
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	var in services.CreateQuoteInput
	if err := httpx.Decode(r, &in); err != nil {
		invalidJSON(w)
		return
	}
	var q *models.Quote
	key := "quote-submit:" + strconv.FormatUint(uint64(uid), 10)
	ran, err := guard.Run(r.Context(), h.Guard, key, func(ctx context.Context) error {
		var err error
		q, err = h.Quotes.Create(ctx, in)
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ran {
		h.Metrics.QuotesRejected.Inc()
		lang := middleware.LangFrom(r)
		httpx.JSONError(w, http.StatusConflict, "submission_in_progress", httpx.Message(i18n.T(lang, "submission_in_progress")))
		return
	}
	h.Metrics.QuotesCreated.Inc()
	if q.LogoURL != "" {
		h.Metrics.UploadsStored.Inc()
	}
	logger.FromContext(r.Context()).Info("quote created", zap.Uint("quote_id", q.ID), zap.Int("items", len(q.Items)))
	httpx.JSON(w, http.StatusCreated, q.ID)
}

func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	q, err := h.Quotes.Summary(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

// PDF handles GET /api/quotes/{id}/pdf.
func (h *QuoteHandler) PDF(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	out, err := h.Quotes.PDF(r.Context(), id, middleware.LangFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.Metrics.PDFsRendered.Inc()
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, pdf.Filename(id)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// Email handles POST /api/quotes/{id}/email?recipientEmail&recipientName.
func (h *QuoteHandler) Email(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	lang := middleware.LangFrom(r)
	q := r.URL.Query()
	err := h.Quotes.Email(r.Context(), id, q.Get("recipientEmail"), q.Get("recipientName"), lang)
	if err != nil {
		h.Metrics.EmailsSent.WithLabelValues("quote", "error").Inc()
		writeError(w, r, err)
		return
	}
	h.Metrics.EmailsSent.WithLabelValues("quote", "ok").Inc()
	httpx.JSON(w, http.StatusOK, httpx.Message(i18n.T(lang, "email_sent")))
}

// Export handles GET /api/quotes/export.xlsx with the list's query params.
func (h *QuoteHandler) Export(w http.ResponseWriter, r *http.Request) {
	f, s, ok := displayParams(w, r)
	if !ok {
		return
	}
	wb, err := h.Quotes.Export(r.Context(), f, s)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer wb.Close()
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename()))
	if err := wb.Write(w); err != nil {
		logger.FromContext(r.Context()).Warn("export write failed", zap.Error(err))
	}
}
