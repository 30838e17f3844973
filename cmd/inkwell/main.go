package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/inkwell-press/inkwell/cmd/inkwell/cli"
	"github.com/inkwell-press/inkwell/internal/app"
	"github.com/inkwell-press/inkwell/internal/auth"
	"github.com/inkwell-press/inkwell/internal/categories"
	"github.com/inkwell-press/inkwell/internal/comments"
	"github.com/inkwell-press/inkwell/internal/media"
	"github.com/inkwell-press/inkwell/internal/notifications"
	"github.com/inkwell-press/inkwell/internal/observability"
	"github.com/inkwell-press/inkwell/internal/platform/cache"
	"github.com/inkwell-press/inkwell/internal/platform/db"
	"github.com/inkwell-press/inkwell/internal/posts"
	"github.com/inkwell-press/inkwell/internal/profiles"
	"github.com/inkwell-press/inkwell/internal/rbac"
	"github.com/inkwell-press/inkwell/internal/search"
	"github.com/inkwell-press/inkwell/internal/shared"
	"github.com/inkwell-press/inkwell/internal/tags"
	"github.com/inkwell-press/inkwell/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	if len(os.Args) > 1 && os.Args[1] == "provision" {
		os.Exit(runProvision(os.Args[2:]))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "inkwell_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	taskClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init task client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := taskClient.Close(); err != nil {
			logger.Warn("task client close", slog.Any("error", err))
		}
	}()

	auditLogger := shared.NewAuditLogger(dbpool)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)

	rbacStore := rbac.NewPGStore(dbpool)
	rbacService := rbac.NewService(rbacStore, auditLogger, logger).
		WithNotifier(func(ctx context.Context, actorID, principalID string, role rbac.Role) {
			_, err := taskClient.EnqueueRoleChangeNotify(ctx, jobs.RoleChangeNotifyPayload{
				PrincipalID: principalID,
				Role:        string(role),
				ActorID:     actorID,
			})
			if err != nil {
				logger.Warn("enqueue role change notify", slog.Any("error", err))
			}
		})
	identityCache := rbac.NewIdentityCache()
	bridge := &rbac.Bridge{
		Principals: authService,
		Resolver:   rbacService,
		Cache:      identityCache,
		Logger:     logger,
	}

	authHandler := auth.NewHandler(logger, authService, sessionManager, rbacService, identityCache)
	rolesHandler := rbac.NewHandler(logger, rbacService, identityCache)

	postsRepo := posts.NewRepository(dbpool)
	postsService := posts.NewService(postsRepo, taskClient.Raw(), jobs.NewSearchReindexTask, logger)
	postsHandler := posts.NewHandler(logger, postsService)

	commentsRepo := comments.NewRepository(dbpool)
	commentsService := comments.NewService(commentsRepo, postsRepo, taskClient.Raw(),
		func(postID, postAuthorID, commentID, commentAuthorID string) *asynq.Task {
			return jobs.NewCommentNotifyTask(jobs.CommentNotifyPayload{
				PostID:          postID,
				PostAuthorID:    postAuthorID,
				CommentID:       commentID,
				CommentAuthorID: commentAuthorID,
			})
		}, logger)
	commentsHandler := comments.NewHandler(logger, commentsService)

	categoriesRepo := categories.NewRepository(dbpool)
	categoriesService := categories.NewService(categoriesRepo, auditLogger)
	categoriesHandler := categories.NewHandler(logger, categoriesService)

	tagsRepo := tags.NewRepository(dbpool)
	tagsService := tags.NewService(tagsRepo)
	tagsHandler := tags.NewHandler(logger, tagsService)

	profilesRepo := profiles.NewRepository(dbpool)
	profilesService := profiles.NewService(profilesRepo, auditLogger)
	profilesHandler := profiles.NewHandler(logger, profilesService)

	notificationsRepo := notifications.NewRepository(dbpool)
	notificationsService := notifications.NewService(notificationsRepo)
	notificationsHandler := notifications.NewHandler(logger, notificationsService)

	searchStore := search.NewStore(dbpool)
	searchService := search.NewService(searchStore, redisClient, cfg.SearchCacheTTL, logger)
	searchHandler := search.NewHandler(logger, searchService)

	blobStore, err := media.NewS3Store(ctx, media.S3Config{
		Endpoint:     cfg.S3Endpoint,
		Region:       cfg.S3Region,
		Bucket:       cfg.S3Bucket,
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
		UsePathStyle: cfg.S3UsePathStyle,
		PublicURL:    cfg.MediaPublicURL,
	})
	if err != nil {
		logger.Error("init blob store", slog.Any("error", err))
		os.Exit(1)
	}
	mediaRepo := media.NewRepository(dbpool)
	mediaService := media.NewService(mediaRepo, blobStore)
	mediaHandler := media.NewHandler(logger, mediaService)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		SessionManager:       sessionManager,
		CSRFManager:          csrfManager,
		Bridge:               bridge,
		AuthHandler:          authHandler,
		RolesHandler:         rolesHandler,
		PostsHandler:         postsHandler,
		CommentsHandler:      commentsHandler,
		CategoriesHandler:    categoriesHandler,
		TagsHandler:          tagsHandler,
		ProfilesHandler:      profilesHandler,
		NotificationsHandler: notificationsHandler,
		SearchHandler:        searchHandler,
		MediaHandler:         mediaHandler,
		JobHandler:           jobHandler,
		Metrics:              metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

func runProvision(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		return 1
	}
	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		return 1
	}
	defer dbpool.Close()

	authService := auth.NewService(auth.NewRepository(dbpool))
	rbacService := rbac.NewService(rbac.NewPGStore(dbpool), shared.NewAuditLogger(dbpool), logger)

	provision := cli.NewProvisionCLI(authService, rbacService)
	result, err := provision.Run(ctx, args)
	if err != nil {
		logger.Error("provision", slog.Any("error", err))
		return 1
	}
	logger.Info("account provisioned",
		slog.String("principal", result.PrincipalID),
		slog.String("role", result.Role))
	return 0
}
