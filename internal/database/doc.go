// Package database provides the sqlite data access layer for the application.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup, migrations
//	├── settings/        # Key-value settings table (also the collection store)
//	└── audit/           # Audit event log
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./bookshelf.db")
//
//	settingsRepo := settings.NewRepository(db.DB)
//	auditRepo := audit.NewRepository(db.DB)
//
// # Interface Implementations
//
//   - settings.Repository: implements kvstore.Store
//   - audit.Repository: backs audit.Service
package database
