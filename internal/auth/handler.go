package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/inkwell-press/inkwell/internal/platform/httpx"
	"github.com/inkwell-press/inkwell/internal/rbac"
	"github.com/inkwell-press/inkwell/internal/shared"
)

// Handler exposes signup, login, logout and session introspection endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	sessions  *shared.SessionManager
	resolver  *rbac.Service
	cache     *rbac.IdentityCache
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager, resolver *rbac.Service, cache *rbac.IdentityCache) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		sessions:  sessions,
		resolver:  resolver,
		cache:     cache,
		validator: validator.New(),
	}
}

// MountRoutes registers authentication routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/signup", h.signup)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.Get("/me", h.me)
}

type principalResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type identityResponse struct {
	Authenticated bool               `json:"authenticated"`
	Principal     *principalResponse `json:"principal,omitempty"`
	Role          rbac.Role          `json:"role"`
	Permissions   []string           `json:"permissions"`
}

func toIdentityResponse(id rbac.Identity) identityResponse {
	out := identityResponse{
		Authenticated: id.Authenticated,
		Role:          id.Role,
		Permissions:   id.Permissions,
	}
	if out.Permissions == nil {
		out.Permissions = []string{}
	}
	if id.Principal != nil {
		out.Principal = &principalResponse{ID: id.Principal.ID, Email: id.Principal.Email, Name: id.Principal.Name}
	}
	return out
}

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			httpx.Problem(w, http.StatusConflict, "Email Taken", "an account with this email already exists")
			return
		}
		h.logger.Error("signup", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	identity, err := h.establishSession(w, r, user)
	if err != nil {
		h.logger.Error("signup session", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toIdentityResponse(identity))
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			httpx.Problem(w, http.StatusUnauthorized, "Invalid Credentials", "email or password is incorrect")
			return
		}
		h.logger.Error("login", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	identity, err := h.establishSession(w, r, user)
	if err != nil {
		h.logger.Error("login session", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toIdentityResponse(identity))
}

// establishSession binds the user to the request session, resolves their
// grant and primes the identity cache. The session cookie is committed here
// so the response carries it.
func (h *Handler) establishSession(w http.ResponseWriter, r *http.Request, user *User) (rbac.Identity, error) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		var err error
		sess, err = h.sessions.Load(r.Context(), r)
		if err != nil {
			return rbac.Unauthenticated(), err
		}
	}
	sess.SetUser(user.ID)
	if err := h.sessions.Commit(r.Context(), w, r, sess); err != nil {
		return rbac.Unauthenticated(), err
	}

	if err := h.service.RegisterSession(r.Context(), sess.ID, user.ID, time.Now().Add(h.sessions.TTL()), clientIP(r), r.UserAgent()); err != nil {
		h.logger.Warn("record session", slog.Any("error", err))
	}

	grant := h.resolver.Resolve(r.Context(), user.ID)
	identity := rbac.Identity{
		Authenticated: true,
		Principal:     &rbac.Principal{ID: user.ID, Email: user.Email, Name: user.Name},
		Role:          grant.Role,
		Permissions:   grant.Permissions,
	}
	h.cache.Login(sess.ID, identity)
	return identity, nil
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if sess.User() != "" {
		if err := h.service.RemoveSession(r.Context(), sess.ID); err != nil {
			h.logger.Warn("remove session", slog.Any("error", err))
		}
	}
	h.cache.Logout(sess.ID)
	h.sessions.Destroy(sess)
	if err := h.sessions.Commit(r.Context(), w, r, sess); err != nil {
		h.logger.Error("logout", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, toIdentityResponse(rbac.IdentityFromContext(r.Context())))
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	return r.RemoteAddr
}
