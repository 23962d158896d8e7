package main

import (
	"context"
	"errors"
	"fmt"
	"go-rango-app/internal/auth"
	"go-rango-app/internal/cache"
	"go-rango-app/internal/config"
	"go-rango-app/internal/data"
	"go-rango-app/internal/handler"
	"go-rango-app/internal/logger"
	"go-rango-app/internal/middleware"
	"go-rango-app/internal/service"
	"go-rango-app/internal/upload"
	"go-rango-app/internal/view"
	"go-rango-app/web"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
)

func main() {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig()
	if err != nil {
		// Use fmt.Printf here because the logger is not yet initialized.
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Initialization ---
	log := logger.New(cfg.Log, nil)

	// --- Database Initialization and Migration ---
	log.Info("Connecting to the database...")
	db, err := data.NewDB(cfg.DB.URL)
	if err != nil {
		log.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()
	log.Info("Database connection successful.")

	log.Info("Applying database migrations...")
	if err := data.ApplyMigrations(db); err != nil {
		log.Fatal(err, "Failed to apply migrations")
	}
	log.Info("Migrations applied successfully.")

	// --- Session Management Setup ---
	sessionManager := scs.New()
	sessionManager.Store = sessionStore(db)
	sessionManager.Lifetime = time.Duration(cfg.Session.Lifetime) * time.Hour
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	sessionManager.Cookie.Secure = cfg.Server.TLS.Enabled

	// --- Authentication and Authorization Setup ---
	log.Info("Initializing authentication and authorization...")
	var authenticator *auth.Authenticator
	if cfg.OIDC.Enabled() {
		authenticator, err = auth.NewAuthenticator(context.Background(), &cfg.OIDC)
		if err != nil {
			log.Fatal(err, "Failed to initialize authenticator")
		}
	}
	enforcer, err := auth.NewEnforcer(db)
	if err != nil {
		log.Fatal(err, "Failed to initialize enforcer")
	}
	auth.SeedDefaultPolicies(enforcer, log)
	log.Info("Auth components initialized and policies seeded.")

	// --- View Template Initialization ---
	log.Info("Initializing view templates...")
	viewService, err := view.New(web.TemplateFS)
	if err != nil {
		log.Fatal(err, "Failed to initialize view templates")
	}
	log.Info("View templates initialized.")

	// --- Cache Initialization ---
	log.Info("Initializing SQLite cache...")
	contentCache, err := cache.New(cfg.Cache)
	if err != nil {
		log.Fatal(err, "Failed to initialize cache")
	}
	defer contentCache.Close()
	log.Info("Cache initialized.")

	// --- Upload Storage ---
	pictures, media, err := uploadStore(cfg.Upload)
	if err != nil {
		log.Fatal(err, "Failed to initialize upload storage")
	}

	// --- Dependency Injection and Handler Initialization ---
	// Initialize the application layers, injecting dependencies from top to bottom.
	categoryRepository := data.NewCategoryRepository(db)
	pageRepository := data.NewSQLPageRepository(db)
	userRepository := data.NewUserRepository(db)

	directoryService := service.NewDirectoryService(categoryRepository, pageRepository)
	accountService := service.NewAccountService(userRepository, pictures, cfg.Upload.MaxBytes)
	contentService := service.NewContentService(web.AboutMarkdown(), contentCache, log)

	directoryHandler := handler.NewDirectoryHandler(directoryService, contentService, viewService, log)
	accountHandler := handler.NewAccountHandler(accountService, authenticator, sessionManager, viewService, log, cfg.Upload.MaxBytes)
	seoHandler := handler.NewSeoHandler(directoryService, cfg.Server.BaseURL)

	middlewares := handler.Middlewares{
		Authz:     middleware.Authorizer(enforcer, sessionManager, cfg.Auth.LoginURL),
		Error:     middleware.Error(log, viewService),
		Logger:    middleware.RequestLogger(log),
		RateLimit: middleware.RateLimit(cfg.Limiter),
	}

	// --- Router Setup ---
	// The router is the central hub that directs incoming requests to the correct handlers.
	router := handler.NewRouter(directoryHandler, accountHandler, seoHandler, sessionManager, middlewares, media)

	// --- Server Initialization and Graceful Shutdown ---
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if cfg.Server.TLS.Enabled {
			log.Info(fmt.Sprintf("Starting HTTPS server on %s", server.Addr))
			if err := server.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTPS server")
			}
		} else {
			log.Info(fmt.Sprintf("Starting HTTP server on %s", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTP server")
			}
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Warn("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err, "Server forced to shutdown")
	}
	log.Info("Server exiting")
}

// sessionStore keeps sessions in the application database.
func sessionStore(db *sqlx.DB) scs.Store {
	if db.DriverName() == "mysql" {
		return mysqlstore.New(db.DB)
	}
	return sqlite3store.New(db.DB)
}

// uploadStore returns the store for profile pictures and, for local storage,
// the handler that serves them.
func uploadStore(cfg config.UploadConfig) (upload.Store, http.Handler, error) {
	switch cfg.Backend {
	case "s3":
		store, err := upload.NewS3Store(context.Background(), cfg.S3)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	case "", "local":
		store := upload.NewLocalStore(cfg.Dir, "/media/")
		return store, store.Handler(), nil
	default:
		return nil, nil, fmt.Errorf("unknown upload backend %q", cfg.Backend)
	}
}
