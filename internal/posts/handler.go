package posts

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/inkwell-press/inkwell/internal/platform/httpx"
	"github.com/inkwell-press/inkwell/internal/rbac"
	"github.com/inkwell-press/inkwell/internal/shared"
)

// Handler exposes the post endpoints. Public reads cover active posts; all
// writes go through permission gates.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers post routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{slug}", h.get)
	r.With(rbac.RequireAuth()).Get("/mine", h.listMine)
	r.With(rbac.Require(rbac.PermPostCreate)).Post("/", h.create)
	r.With(rbac.Require(rbac.PermPostUpdate)).Put("/{slug}", h.update)
	r.With(rbac.Require(rbac.PermPostDelete)).Delete("/{slug}", h.remove)
}

type postRequest struct {
	Title           string   `json:"title" validate:"required,max=200"`
	Content         string   `json:"content" validate:"required"`
	Excerpt         string   `json:"excerpt" validate:"max=500"`
	Status          string   `json:"status" validate:"omitempty,oneof=active draft"`
	CategoryID      string   `json:"category_id" validate:"omitempty,uuid"`
	FeaturedMediaID string   `json:"featured_media_id" validate:"omitempty,uuid"`
	Tags            []string `json:"tags" validate:"max=10,dive,max=60"`
}

type listResponse struct {
	Items      []Post            `json:"items"`
	Pagination shared.Pagination `json:"pagination"`
}

func filterFromQuery(r *http.Request) Filter {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	return Filter{
		CategorySlug: q.Get("category"),
		TagSlug:      q.Get("tag"),
		AuthorID:     q.Get("author"),
		Page:         page,
		PerPage:      perPage,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, page, err := h.service.ListPublic(r.Context(), filterFromQuery(r))
	if err != nil {
		h.logger.Error("list posts", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse{Items: items, Pagination: page})
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	actor := rbac.IdentityFromContext(r.Context())
	items, page, err := h.service.ListMine(r.Context(), actor.Principal.ID, filterFromQuery(r))
	if err != nil {
		h.logger.Error("list own posts", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse{Items: items, Pagination: page})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	actor := rbac.IdentityFromContext(r.Context())
	p, err := h.service.GetBySlug(r.Context(), actor, chi.URLParam(r, "slug"))
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}
	actor := rbac.IdentityFromContext(r.Context())
	p, err := h.service.Create(r.Context(), actor.Principal.ID, in)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}
	actor := rbac.IdentityFromContext(r.Context())
	p, err := h.service.Update(r.Context(), actor, chi.URLParam(r, "slug"), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	actor := rbac.IdentityFromContext(r.Context())
	if err := h.service.Delete(r.Context(), actor, chi.URLParam(r, "slug")); err != nil {
		h.respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (Input, bool) {
	var req postRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return Input{}, false
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return Input{}, false
	}
	return Input{
		Title:           req.Title,
		Content:         req.Content,
		Excerpt:         req.Excerpt,
		Status:          Status(req.Status),
		CategoryID:      req.CategoryID,
		FeaturedMediaID: req.FeaturedMediaID,
		Tags:            req.Tags,
	}, true
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "post not found")
	case errors.Is(err, ErrSlugTaken):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrNotAuthor):
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "you may only modify your own posts")
	case errors.Is(err, ErrInvalidStatus):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Invalid Status", err.Error())
	default:
		h.logger.Error("posts", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
