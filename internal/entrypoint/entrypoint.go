package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/folio/internal/config"
	"github.com/mrlokans/folio/internal/database"
	"github.com/mrlokans/folio/internal/database/documents"
	highlightsrepo "github.com/mrlokans/folio/internal/database/highlights"
	"github.com/mrlokans/folio/internal/highlights"
	http_controllers "github.com/mrlokans/folio/internal/http"
	"github.com/mrlokans/folio/internal/scheduler"
	"github.com/mrlokans/folio/internal/sessions"
	"github.com/mrlokans/folio/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	// kill (no param) default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// csrfSecret accepts a hex-encoded secret or raw bytes.
func csrfSecret(configured string) []byte {
	if configured == "" {
		return nil
	}
	if secret, err := hex.DecodeString(configured); err == nil {
		return secret
	}
	return []byte(configured)
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Folio v%s", version)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	highlightStore := highlightsrepo.NewRepository(db.DB)
	documentStore := documents.NewRepository(db.DB)
	engine := highlights.NewEngine(highlightStore, highlights.NewPageRegistry())
	migrator := highlights.NewBookMigrator(engine, documentStore, highlightStore)

	// Reader sessions share the main database
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}
	sessionManager, err := sessions.NewManager(sqlDB, cfg.Sessions)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	secret := csrfSecret(cfg.Sessions.CSRFSecret)
	if secret == nil {
		log.Printf("CSRF protection disabled (set CSRF_SECRET to enable)")
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var sweep *scheduler.MigrationSweepScheduler
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.ConfigFrom(cfg.Tasks))
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(tasks.NewMigrateBookQueue(migrator))

		// Start task workers in background
		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		sweep = scheduler.NewMigrationSweepScheduler(highlightStore, taskClient, cfg.MigrationSweep)
		if err := sweep.Start(taskCtx); err != nil {
			log.Printf("WARNING: Failed to start migration sweep: %v", err)
		}
	} else if cfg.MigrationSweep.Enabled {
		log.Printf("WARNING: Migration sweep needs the task queue (TASKS_ENABLED); sweep disabled")
	}

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		Engine:         engine,
		Documents:      documentStore,
		SessionManager: sessionManager,
		CSRFSecret:     secret,
		SecureCookies:  cfg.Sessions.SecureCookies,
		AllowSharing:   cfg.Reader.AllowSharing,
		HostTimeout:    cfg.Reader.HostTimeout,
		Migrator:       migrator,
		Version:        version,
	}
	if taskClient != nil {
		routerCfg.TaskQueue = taskClient
		routerCfg.Sweep = sweep
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		if sweep != nil {
			sweep.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
