package handlers

import (
	"net/http"

	"github.com/diewo77/offermaster/httpx"
	"github.com/diewo77/offermaster/internal/services"
)

type ArticleHandler struct {
	Articles *services.ArticleService
}

func NewArticleHandler(svc *services.ArticleService) *ArticleHandler {
	return &ArticleHandler{Articles: svc}
}

// List handles GET /articles?page&size&search.
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	page := httpx.QueryInt(r, "page", 0)
	size := httpx.QueryInt(r, "size", services.DefaultPageSize)
	out, err := h.Articles.List(r.Context(), page, size, r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ArticleInput
	if err := httpx.Decode(r, &in); err != nil {
		invalidJSON(w)
		return
	}
	a, err := h.Articles.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, a)
}

func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in services.ArticleInput
	if err := httpx.Decode(r, &in); err != nil {
		invalidJSON(w)
		return
	}
	a, err := h.Articles.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Articles.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
