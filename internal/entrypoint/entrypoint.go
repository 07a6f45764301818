package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/config"
	http_controllers "github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-quit:
	}
	log.Printf("Shutdown Server, waiting %v before killing", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Background work stops before the listener
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Println("Server exiting")
	return nil
}

// Run wires the collection, background jobs and HTTP API, then serves
// until interrupted.
func Run(cfg *config.Config, version string) error {
	log.Printf("Starting Bookshelf v%s", version)
	if cfg.Global.DemoMode {
		log.Printf("Demo mode enabled: API writes are disabled")
	}

	app, err := Open(cfg, cfg.Metrics.Enabled)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("Error closing store: %v", err)
		}
	}()

	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	backup := scheduler.NewBackupScheduler(app.Books, app.Settings, app.Audit, cfg.Backup)
	if err := backup.Start(bgCtx); err != nil {
		log.Printf("WARNING: backup scheduler not started: %v", err)
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	if cfg.Tasks.Enabled && cfg.Store.Driver != config.StoreDriverMemory {
		taskCfg := tasks.DefaultConfig()
		taskCfg.Workers = cfg.Tasks.Workers

		taskClient, err = tasks.NewClient(tasks.DatabasePath(cfg.Database.Path), taskCfg)
		if err != nil {
			return fmt.Errorf("failed to initialize task queue: %w", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()
	}

	maintenance, err := NewMaintenance(app, taskClient)
	if err != nil {
		return err
	}
	if taskClient != nil {
		go taskClient.Start(bgCtx)
	}
	maintenance.Start(bgCtx)

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Books:       app.Books,
		Catalog:     app.Catalog,
		Store:       app.Pinger(),
		Audit:       app.Audit,
		Backup:      backup,
		Maintenance: maintenance,
		TaskClient:  taskClient,
		Metrics:     app.Metrics,
		Version:     version,
		DemoMode:    cfg.Global.DemoMode,
	})

	onShutdown := func(ctx context.Context) {
		backup.Stop()
		maintenance.Stop()
		if taskClient != nil {
			taskClient.Stop(ctx)
		}
		bgCancel()
	}

	return Serve(router, cfg, onShutdown)
}
