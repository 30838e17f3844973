package notifications

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-press/inkwell/internal/platform/httpx"
	"github.com/inkwell-press/inkwell/internal/rbac"
	"github.com/inkwell-press/inkwell/internal/shared"
)

// Handler exposes the notification feed endpoints. Everything is scoped to
// the authenticated actor.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers notification routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(rbac.RequireAuth())
	r.Get("/", h.list)
	r.Get("/unread-count", h.unreadCount)
	r.Post("/{id}/read", h.markRead)
	r.Post("/read-all", h.markAllRead)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor := rbac.IdentityFromContext(r.Context())
	unreadOnly := r.URL.Query().Get("unread") == "true"
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	out, err := h.service.List(r.Context(), actor.Principal.ID, unreadOnly, limit)
	if err != nil {
		h.logger.Error("list notifications", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) unreadCount(w http.ResponseWriter, r *http.Request) {
	actor := rbac.IdentityFromContext(r.Context())
	count, err := h.service.UnreadCount(r.Context(), actor.Principal.ID)
	if err != nil {
		h.logger.Error("unread count", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	actor := rbac.IdentityFromContext(r.Context())
	if err := h.service.MarkRead(r.Context(), actor.Principal.ID, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "notification not found")
			return
		}
		h.logger.Error("mark read", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) markAllRead(w http.ResponseWriter, r *http.Request) {
	actor := rbac.IdentityFromContext(r.Context())
	if err := h.service.MarkAllRead(r.Context(), actor.Principal.ID); err != nil {
		h.logger.Error("mark all read", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
