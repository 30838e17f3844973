package comments

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/inkwell-press/inkwell/internal/platform/httpx"
	"github.com/inkwell-press/inkwell/internal/rbac"
	"github.com/inkwell-press/inkwell/internal/shared"
)

// Handler exposes the comment endpoints, nested under a post.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountPostRoutes registers the per-post comment routes on the posts
// subrouter.
func (h *Handler) MountPostRoutes(r chi.Router) {
	r.Get("/{slug}/comments", h.list)
	r.With(rbac.RequireAuth()).Post("/{slug}/comments", h.create)
}

// MountRoutes registers the comment management routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(rbac.RequireAuth()).Delete("/{commentID}", h.remove)
}

type commentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.ListByPost(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	actor := rbac.IdentityFromContext(r.Context())
	c, err := h.service.Create(r.Context(), actor.Principal.ID, chi.URLParam(r, "slug"), req.Content)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	actor := rbac.IdentityFromContext(r.Context())
	if err := h.service.Delete(r.Context(), actor, chi.URLParam(r, "commentID")); err != nil {
		h.respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "not found")
	case errors.Is(err, ErrNotOwner):
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "you may only delete your own comments")
	default:
		h.logger.Error("comments", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
