package profiles

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

// Handler exposes the profile endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers profile routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(rbac.Require(rbac.PermProfileRead)).Get("/{principalID}", h.get)
	r.With(rbac.Require(rbac.PermProfileUpdate)).Put("/me", h.updateSelf)
	r.With(rbac.Require(rbac.PermProfileDelete)).Delete("/{principalID}", h.remove)
}

type profileRequest struct {
	DisplayName   string            `json:"display_name" validate:"required,max=120"`
	Bio           string            `json:"bio" validate:"max=1000"`
	AvatarMediaID string            `json:"avatar_media_id" validate:"omitempty,uuid"`
	Website       string            `json:"website" validate:"omitempty,url,max=300"`
	Location      string            `json:"location" validate:"max=120"`
	SocialLinks   map[string]string `json:"social_links" validate:"max=10"`
	IsPublic      bool              `json:"is_public"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	actor := rbac.IdentityFromContext(r.Context())
	p, err := h.service.Get(r.Context(), actor, chi.URLParam(r, "principalID"))
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) updateSelf(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	actor := rbac.IdentityFromContext(r.Context())
	p, err := h.service.UpdateSelf(r.Context(), actor.Principal.ID, Input{
		DisplayName:   req.DisplayName,
		Bio:           req.Bio,
		AvatarMediaID: req.AvatarMediaID,
		Website:       req.Website,
		Location:      req.Location,
		SocialLinks:   req.SocialLinks,
		IsPublic:      req.IsPublic,
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	actor := rbac.IdentityFromContext(r.Context())
	if err := h.service.Delete(r.Context(), actor.Principal.ID, chi.URLParam(r, "principalID")); err != nil {
		h.respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "profile not found")
	case errors.Is(err, ErrPrivate):
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "this profile is private")
	default:
		h.logger.Error("profiles", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
