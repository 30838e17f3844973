package search

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-press/inkwell/internal/platform/httpx"
)

// Handler exposes the search endpoint. Search covers active posts only, so
// it stays public like the post listing.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the search route on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.query)
}

func (h *Handler) query(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.Query(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		if errors.Is(err, ErrEmptyQuery) {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "query parameter q is required")
			return
		}
		h.logger.Error("search", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"query": r.URL.Query().Get("q"), "results": results})
}
