// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/valforet/valforet-go/internal/cache"
	"github.com/valforet/valforet-go/internal/config"
	"github.com/valforet/valforet-go/internal/geoip"
	"github.com/valforet/valforet-go/internal/handler"
	"github.com/valforet/valforet-go/internal/i18n"
	"github.com/valforet/valforet-go/internal/middleware"
	"github.com/valforet/valforet-go/internal/render"
	"github.com/valforet/valforet-go/internal/scheduler"
	"github.com/valforet/valforet-go/internal/service"
	"github.com/valforet/valforet-go/internal/session"
	"github.com/valforet/valforet-go/internal/store"
	"github.com/valforet/valforet-go/internal/version"
	"github.com/valforet/valforet-go/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Valforêt - site vitrine et administration de contenu\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VF_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VF_DB_PATH           SQLite database path (default: ./data/valforet.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VF_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VF_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VF_UPLOADS_DIR       Uploaded media directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VF_SITE_URL          Canonical site origin (default: https://valforet.fr)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VF_REDIS_URL         Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VF_GEOIP_DB_PATH     GeoLite2-Country.mmdb path for login geolocation (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
		_, _ = fmt.Println(info)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := i18n.Init(logger); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}
	slog.Info("i18n system initialized", "languages", i18n.SupportedLanguages)

	for _, dir := range []string{filepath.Dir(cfg.DBPath), cfg.UploadsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	ctx := context.Background()
	queries := store.New(db)
	if cfg.DoSeed {
		if err := store.Seed(ctx, queries, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	cacheConfig := cache.CacheConfig{
		Type:            "memory",
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	}
	if cfg.UseRedisCache() {
		cacheConfig.Type = "redis"
	}
	caches := cache.NewManagerWithConfig(queries, cacheConfig)
	caches.Start()
	defer caches.Stop()
	if err := caches.Preload(ctx, cfg.SiteURL); err != nil {
		slog.Warn("failed to preload caches", "error", err)
	}
	if caches.IsRedis() {
		slog.Info("cache manager initialized", "backend", "redis", "url", cache.SanitizeRedisURL(cfg.RedisURL))
	} else {
		slog.Info("cache manager initialized", "backend", "memory")
	}

	geo := geoip.NewLookup()
	if err := geo.Init(cfg.GeoIPDBPath); err != nil {
		slog.Warn("GeoIP lookups disabled", "error", err)
	}
	defer func() { _ = geo.Close() }()

	templatesFS, err := web.TemplateFS()
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	sched := scheduler.New(db, logger, caches, geo)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	activity := service.NewActivityService(db, logger)
	defer activity.Wait()
	searchService := service.NewSearchService(db, logger)
	gallery := service.NewGalleryService(db, cfg.UploadsDir, logger)

	csrfMiddleware := middleware.CSRF([]byte(cfg.SessionSecret), cfg.IsDevelopment())
	slog.Info("CSRF protection initialized")

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	slog.Info("login protection initialized")

	// Handlers
	authHandler := handler.NewAuthHandler(db, renderer, sessionManager, activity, loginProtection, geo)
	frontendHandler := handler.NewFrontendHandler(db, renderer, caches, cfg.SiteURL)
	searchHandler := handler.NewSearchHandler(searchService, renderer)
	seoHandler := handler.NewSEOHandler(caches, cfg.SiteURL)
	adminHandler := handler.NewAdminHandler(db, renderer, activity)
	articlesHandler := handler.NewArticlesHandler(db, renderer, activity, caches)
	projectsHandler := handler.NewProjectsHandler(db, renderer, activity, gallery, caches)
	servicesHandler := handler.NewServicesHandler(db, renderer, caches)
	testimonialsHandler := handler.NewTestimonialsHandler(db, renderer)
	slidesHandler := handler.NewSlidesHandler(db, renderer, activity, cfg.UploadsDir, caches)
	messagesHandler := handler.NewMessagesHandler(db, renderer)
	usersHandler := handler.NewUsersHandler(db, renderer, activity)
	settingsHandler := handler.NewSettingsHandler(db, renderer, activity, cfg.UploadsDir)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.CleanPath)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(sessionManager.LoadAndSave)

	// Public frontend routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Language(sessionManager))
		r.Use(middleware.OptionalLoadUser(sessionManager, db))
		r.Use(middleware.LoadSiteConfig(db, caches))
		r.Use(csrfMiddleware)

		r.Get(handler.RouteRoot, frontendHandler.Home)
		r.Get(handler.RouteServices, frontendHandler.ServiceList)
		r.Get(handler.RouteServices+handler.RouteParamSlug, frontendHandler.ServiceDetail)
		r.Get(handler.RouteProjects, frontendHandler.ProjectList)
		r.Get(handler.RouteProjects+handler.RouteParamSlug, frontendHandler.ProjectDetail)
		r.Get(handler.RouteArticles, frontendHandler.ArticleList)
		r.Get(handler.RouteArticles+handler.RouteParamSlug, frontendHandler.ArticleDetail)
		r.Get(handler.RouteAbout, frontendHandler.About)
		r.Get(handler.RouteContact, frontendHandler.ContactForm)
		r.Post(handler.RouteContact, frontendHandler.ContactSubmit)
		r.Get(handler.RouteSearch, searchHandler.Page)

		r.Get("/sitemap.xml", seoHandler.Sitemap)
		r.Get("/robots.txt", seoHandler.Robots)
		r.Get("/.well-known/security.txt", seoHandler.SecurityTxt)
	})

	// Auth routes, rate limited against brute force
	r.Group(func(r chi.Router) {
		r.Use(middleware.Language(sessionManager))
		r.Use(middleware.LoadSiteConfig(db, caches))
		r.Use(middleware.IPRateLimit(10, 20))
		r.Use(csrfMiddleware)

		r.Get(handler.RouteLogin, authHandler.LoginForm)
		r.With(loginProtection.Middleware()).Post(handler.RouteLogin, authHandler.Login)
		r.Get(handler.RouteLogout, authHandler.Logout)
		r.Post(handler.RouteLogout, authHandler.Logout)
	})

	// JSON API for the live search overlay
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{cfg.SiteURL},
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			MaxAge:         300,
		}))
		r.Use(middleware.IPRateLimit(50, 100))
		r.Use(middleware.Language(sessionManager))

		r.Get("/search", searchHandler.API)
	})

	// Admin routes, elevated roles only
	r.Route(handler.RouteAdmin, func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Use(middleware.Auth(sessionManager))
		r.Use(middleware.Language(sessionManager))
		r.Use(middleware.LoadUser(sessionManager, db))
		r.Use(middleware.LoadRoles(db))
		r.Use(middleware.LoadSiteConfig(db, nil)) // admin always reads fresh config
		r.Use(middleware.RequireElevated())

		r.Get("/", adminHandler.Dashboard)

		r.Get("/articles", articlesHandler.List)
		r.Get("/articles/nouveau", articlesHandler.NewForm)
		r.Post("/articles", articlesHandler.Create)
		r.Get("/articles/{id}", articlesHandler.EditForm)
		r.Post("/articles/{id}", articlesHandler.Update)
		r.Post("/articles/{id}/publier", articlesHandler.TogglePublish)

		r.Get("/projets", projectsHandler.List)
		r.Get("/projets/nouveau", projectsHandler.NewForm)
		r.Post("/projets", projectsHandler.Create)
		r.Get("/projets/{id}", projectsHandler.EditForm)
		r.Post("/projets/{id}", projectsHandler.Update)
		r.Post("/projets/{id}/publier", projectsHandler.TogglePublish)
		r.Post("/projets/{id}/images", projectsHandler.UploadImages)
		r.Post("/projets/images/{id}/couverture", projectsHandler.SetCover)
		r.Post("/projets/images/{id}/supprimer", projectsHandler.DeleteImage)

		r.Get("/services", servicesHandler.List)
		r.Get("/services/nouveau", servicesHandler.NewForm)
		r.Post("/services", servicesHandler.Create)
		r.Get("/services/{id}", servicesHandler.EditForm)
		r.Post("/services/{id}", servicesHandler.Update)
		r.Post("/services/{id}/archiver", servicesHandler.ToggleArchive)

		r.Get("/temoignages", testimonialsHandler.List)
		r.Get("/temoignages/nouveau", testimonialsHandler.NewForm)
		r.Post("/temoignages", testimonialsHandler.Create)
		r.Get("/temoignages/{id}", testimonialsHandler.EditForm)
		r.Post("/temoignages/{id}", testimonialsHandler.Update)
		r.Post("/temoignages/{id}/archiver", testimonialsHandler.ToggleArchive)

		r.Get("/slides", slidesHandler.List)
		r.Get("/slides/nouveau", slidesHandler.NewForm)
		r.Post("/slides", slidesHandler.Create)
		r.Get("/slides/{id}", slidesHandler.EditForm)
		r.Post("/slides/{id}", slidesHandler.Update)
		r.Post("/slides/{id}/publier", slidesHandler.TogglePublish)

		r.Get("/messages", messagesHandler.List)
		r.Get("/messages/{id}", messagesHandler.View)

		r.Get("/parametres", settingsHandler.Profile)
		r.Post("/parametres", settingsHandler.UpdateProfile)
		r.Post("/parametres/avatar", settingsHandler.UploadAvatar)
		r.Post("/parametres/avatar/supprimer", settingsHandler.RemoveAvatar)
		r.Get("/parametres/securite", settingsHandler.Security)
		r.Post("/parametres/securite", settingsHandler.ChangePassword)
		r.Get("/parametres/activite", settingsHandler.Activity)

		// Destructive operations and user management are admin only
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin())

			r.Post("/articles/{id}/supprimer", articlesHandler.Delete)
			r.Post("/projets/{id}/supprimer", projectsHandler.Delete)
			r.Post("/services/{id}/supprimer", servicesHandler.Delete)
			r.Post("/temoignages/{id}/supprimer", testimonialsHandler.Delete)
			r.Post("/slides/{id}/supprimer", slidesHandler.Delete)
			r.Post("/messages/{id}/supprimer", messagesHandler.Delete)

			r.Get("/utilisateurs", usersHandler.List)
			r.Post("/utilisateurs", usersHandler.Create)
			r.Post("/utilisateurs/{id}/role", usersHandler.ChangeRole)
			r.Post("/utilisateurs/{id}/supprimer", usersHandler.Delete)
		})
	})

	// Static assets, cached for 1 year
	staticFS, err := web.StaticFS()
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", middleware.StaticCache(31536000)(
		http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))))

	// Uploaded media, cached for 1 week
	r.Handle("/uploads/*", middleware.StaticCache(604800)(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir)))))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		frontendHandler.NotFound(w, req)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
