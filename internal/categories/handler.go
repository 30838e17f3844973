package categories

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

// Handler exposes the category management endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers category routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(rbac.Require(rbac.PermCategoryRead)).Get("/", h.list)
	r.With(rbac.Require(rbac.PermCategoryRead)).Get("/{slug}", h.get)
	r.With(rbac.Require(rbac.PermCategoryCreate)).Post("/", h.create)
	r.With(rbac.Require(rbac.PermCategoryUpdate)).Put("/{slug}", h.update)
	r.With(rbac.Require(rbac.PermCategoryDelete)).Delete("/{slug}", h.remove)
}

type categoryRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=500"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
	IsActive    *bool  `json:"is_active"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	out, err := h.service.List(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error("list categories", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if out == nil {
		out = []Category{}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}
	c, err := h.service.Create(r.Context(), actorID(r), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}
	c, err := h.service.Update(r.Context(), actorID(r), chi.URLParam(r, "slug"), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), actorID(r), chi.URLParam(r, "slug")); err != nil {
		h.respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (CreateInput, bool) {
	var req categoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return CreateInput{}, false
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return CreateInput{}, false
	}
	return CreateInput{Name: req.Name, Description: req.Description, Color: req.Color, IsActive: req.IsActive}, true
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "category not found")
	case errors.Is(err, ErrSlugTaken):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	default:
		h.logger.Error("categories", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}

func actorID(r *http.Request) string {
	if id := rbac.IdentityFromContext(r.Context()); id.Principal != nil {
		return id.Principal.ID
	}
	return ""
}
