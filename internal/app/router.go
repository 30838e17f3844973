package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/inkwell-press/inkwell/internal/auth"
	"github.com/inkwell-press/inkwell/internal/categories"
	"github.com/inkwell-press/inkwell/internal/comments"
	"github.com/inkwell-press/inkwell/internal/media"
	"github.com/inkwell-press/inkwell/internal/notifications"
	"github.com/inkwell-press/inkwell/internal/observability"
	"github.com/inkwell-press/inkwell/internal/posts"
	"github.com/inkwell-press/inkwell/internal/profiles"
	"github.com/inkwell-press/inkwell/internal/rbac"
	"github.com/inkwell-press/inkwell/internal/search"
	"github.com/inkwell-press/inkwell/internal/shared"
	"github.com/inkwell-press/inkwell/internal/tags"
	"github.com/inkwell-press/inkwell/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Bridge         *rbac.Bridge

	AuthHandler          *auth.Handler
	RolesHandler         *rbac.Handler
	PostsHandler         *posts.Handler
	CommentsHandler      *comments.Handler
	CategoriesHandler    *categories.Handler
	TagsHandler          *tags.Handler
	ProfilesHandler      *profiles.Handler
	NotificationsHandler *notifications.Handler
	SearchHandler        *search.Handler
	MediaHandler         *media.Handler
	JobHandler           *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with Inkwell defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Bridge:         params.Bridge,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	if params.RolesHandler != nil {
		r.Route("/roles", params.RolesHandler.MountRoutes)
	}
	if params.PostsHandler != nil {
		r.Route("/posts", func(r chi.Router) {
			params.PostsHandler.MountRoutes(r)
			if params.CommentsHandler != nil {
				params.CommentsHandler.MountPostRoutes(r)
			}
		})
	}
	if params.CommentsHandler != nil {
		r.Route("/comments", params.CommentsHandler.MountRoutes)
	}
	if params.CategoriesHandler != nil {
		r.Route("/categories", params.CategoriesHandler.MountRoutes)
	}
	if params.TagsHandler != nil {
		r.Route("/tags", params.TagsHandler.MountRoutes)
	}
	if params.ProfilesHandler != nil {
		r.Route("/profiles", params.ProfilesHandler.MountRoutes)
	}
	if params.NotificationsHandler != nil {
		r.Route("/notifications", params.NotificationsHandler.MountRoutes)
	}
	if params.SearchHandler != nil {
		r.Route("/search", params.SearchHandler.MountRoutes)
	}
	if params.MediaHandler != nil {
		r.Route("/media", params.MediaHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
