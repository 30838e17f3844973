package media

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-press/inkwell/internal/platform/httpx"
	"github.com/inkwell-press/inkwell/internal/rbac"
	"github.com/inkwell-press/inkwell/internal/shared"
)

// Handler exposes the media endpoints. Uploading rides on the authoring
// permissions since media exists to illustrate posts and profiles.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers media routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(rbac.RequireAny(rbac.PermPostCreate, rbac.PermPostUpdate, rbac.PermProfileUpdate)).Post("/", h.upload)
	r.With(rbac.RequireAuth()).Get("/{id}", h.get)
	r.With(rbac.RequireAuth()).Delete("/{id}", h.remove)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "expected multipart form upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "file field is required")
		return
	}
	defer file.Close()

	actor := rbac.IdentityFromContext(r.Context())
	f, err := h.service.Upload(r.Context(), actor.Principal.ID, header.Filename, file)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, f)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	f, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, f)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	actor := rbac.IdentityFromContext(r.Context())
	if err := h.service.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		h.respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "file not found")
	case errors.Is(err, ErrTooLarge):
		httpx.Problem(w, http.StatusRequestEntityTooLarge, "Too Large", err.Error())
	case errors.Is(err, ErrUnsupportedType):
		httpx.Problem(w, http.StatusUnsupportedMediaType, "Unsupported Type", err.Error())
	case errors.Is(err, ErrNotOwner):
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "you may only delete your own files")
	default:
		h.logger.Error("media", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
