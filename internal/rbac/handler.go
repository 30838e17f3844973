package rbac

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/inkwell-press/inkwell/internal/platform/httpx"
	"github.com/inkwell-press/inkwell/internal/shared"
)

func sessionIDFromRequest(r *http.Request) string {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		return sess.ID
	}
	return ""
}

// Handler exposes the admin role management endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	cache     *IdentityCache
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, cache *IdentityCache) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		cache:     cache,
		validator: validator.New(),
	}
}

// MountRoutes registers role management routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(Require(PermRoleRead)).Get("/", h.listRoles)
	r.With(Require(PermRoleRead)).Get("/assignments", h.listAssignments)
	r.With(Require(PermRoleUpdate)).Put("/assignments/{principalID}", h.assignRole)
}

type roleResponse struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Permissions []string `json:"permissions"`
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	roles := AllRoles()
	out := make([]roleResponse, 0, len(roles))
	for _, role := range roles {
		out = append(out, roleResponse{
			Name:        string(role),
			DisplayName: role.DisplayName(),
			Permissions: role.Permissions(),
		})
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) listAssignments(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ListAssignments(r.Context())
	if err != nil {
		h.logger.Error("list assignments", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, views)
}

type assignRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type assignRoleResponse struct {
	PrincipalID string   `json:"principal_id"`
	Role        Role     `json:"role"`
	Permissions []string `json:"permissions"`
}

func (h *Handler) assignRole(w http.ResponseWriter, r *http.Request) {
	principalID := chi.URLParam(r, "principalID")
	if principalID == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "principal id required")
		return
	}

	var req assignRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	actor := IdentityFromContext(r.Context())
	actorID := ""
	if actor.Principal != nil {
		actorID = actor.Principal.ID
	}

	grant, err := h.service.Assign(r.Context(), actorID, principalID, req.Role)
	if err != nil {
		if errors.Is(err, ErrInvalidRole) {
			httpx.Problem(w, http.StatusUnprocessableEntity, "Invalid Role", err.Error())
			return
		}
		h.logger.Error("assign role", slog.String("principal", principalID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	// Self-service role change: refresh the actor's own session bundle so the
	// new permissions apply without a re-login.
	if h.cache != nil && actor.Principal != nil && actor.Principal.ID == principalID {
		if sessID := sessionIDFromRequest(r); sessID != "" {
			h.cache.UpdateRole(sessID, grant)
		}
	}

	httpx.JSON(w, http.StatusOK, assignRoleResponse{
		PrincipalID: principalID,
		Role:        grant.Role,
		Permissions: grant.Permissions,
	})
}
