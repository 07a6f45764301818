package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/audit"
	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/collection"
	"github.com/mrlokans/bookshelf/internal/demo"
	"github.com/mrlokans/bookshelf/internal/kvstore"
	"github.com/mrlokans/bookshelf/internal/metrics"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// RouterConfig contains all dependencies needed to create the HTTP router.
// Everything except Books is optional; the matching routes are skipped.
type RouterConfig struct {
	Books   *collection.Locked
	Catalog *catalog.Catalog

	// Store is pinged by /health
	Store kvstore.Pinger

	Audit       *audit.Service
	Backup      *scheduler.BackupScheduler
	Maintenance *scheduler.MaintenanceScheduler
	TaskClient  *tasks.Client
	Metrics     *metrics.Metrics

	Version string
	// DemoMode rejects every API write with 403
	DemoMode bool
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	demoMiddleware := demo.NewMiddleware(cfg.DemoMode)
	router.Use(demoMiddleware.InjectHeader(), demoMiddleware.Handler())
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	health := NewHealthController(cfg.Store, cfg.Books, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Books API endpoints
	booksController := NewBooksController(cfg.Books)
	router.GET("/api/books", booksController.ListBooks)
	router.POST("/api/books", booksController.CreateBook)
	router.GET("/api/books/stats", booksController.GetBookStats)
	router.POST("/api/books/delete", booksController.DeleteBooks)
	router.GET("/api/books/:id", booksController.GetBook)
	router.PUT("/api/books/:id", booksController.UpdateBook)
	router.DELETE("/api/books/:id", booksController.DeleteBook)
	router.POST("/api/books/:id/favourite", booksController.ToggleFavorite)
	router.POST("/api/books/:id/status", booksController.ChangeStatus)

	if cfg.Catalog != nil {
		catalogController := NewCatalogController(cfg.Catalog, cfg.Books)
		router.GET("/api/catalog", catalogController.ListCatalog)
		router.POST("/api/catalog/:index/add", catalogController.AddFromCatalog)
	}

	if cfg.Audit != nil {
		auditController := NewAuditController(cfg.Audit)
		router.GET("/api/audit", auditController.GetAuditEvents)
		router.GET("/api/books/:id/history", auditController.GetBookHistory)
	}

	if cfg.Backup != nil {
		backupController := NewBackupController(cfg.Backup)
		router.GET("/api/backup", backupController.GetStatus)
		router.POST("/api/backup", backupController.RunBackup)
	}

	if cfg.Maintenance != nil {
		tasksController := NewTasksController(cfg.Maintenance, cfg.TaskClient)
		router.GET("/api/maintenance", tasksController.ListJobs)
		router.POST("/api/maintenance/:name/run", tasksController.RunJob)
		router.GET("/api/tasks/:id", tasksController.GetTaskStatus)
	}

	return router
}
