package config

import (
	"strings"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Store
		Database
		Badger
		Catalog
		Backup
		Audit
		Metrics
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
		DemoMode                 bool // Reject every API write
	}
	Store struct {
		Driver        StoreDriver
		CollectionKey string // Key the collection is stored under
	}
	Database struct {
		Path string
	}
	Badger struct {
		Path       string
		GCSchedule string // Cron format; empty disables value log GC
	}
	Catalog struct {
		Path string // Optional YAML file replacing the built-in catalog
	}
	Backup struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
		Dir      string
		Format   BackupFormat
	}
	Audit struct {
		RetentionDays int // Days to keep audit events (default: 30)
	}
	Metrics struct {
		Enabled bool
	}
	Tasks struct {
		Enabled             bool
		Workers             int
		MaintenanceSchedule string // Cron format for audit retention cleanup
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("demo_mode", false)
	v.SetDefault("store_driver", string(StoreDriverSQLite))
	v.SetDefault("collection_key", "books")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("badger_path", DefaultBadgerPath)
	v.SetDefault("badger_gc_schedule", "*/30 * * * *")
	v.SetDefault("catalog_path", "")
	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("metrics_enabled", true)

	// Maintenance task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("maintenance_schedule", "0 4 * * *") // Daily at 04:00

	// Backup defaults
	v.SetDefault("backup_enabled", false)
	v.SetDefault("backup_schedule", "0 3 * * *") // Daily at 03:00
	v.SetDefault("backup_dir", DefaultBackupDir)
	v.SetDefault("backup_format", string(BackupFormatJSON))

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
			DemoMode:                 v.GetBool("DEMO_MODE"),
		},
		Store: Store{
			Driver:        StoreDriver(strings.ToLower(v.GetString("STORE_DRIVER"))),
			CollectionKey: v.GetString("COLLECTION_KEY"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Badger: Badger{
			Path:       v.GetString("BADGER_PATH"),
			GCSchedule: v.GetString("BADGER_GC_SCHEDULE"),
		},
		Catalog: Catalog{
			Path: v.GetString("CATALOG_PATH"),
		},
		Backup: Backup{
			Enabled:  v.GetBool("BACKUP_ENABLED"),
			Schedule: v.GetString("BACKUP_SCHEDULE"),
			Dir:      v.GetString("BACKUP_DIR"),
			Format:   BackupFormat(strings.ToLower(v.GetString("BACKUP_FORMAT"))),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Metrics: Metrics{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
		Tasks: Tasks{
			Enabled:             v.GetBool("TASKS_ENABLED"),
			Workers:             v.GetInt("TASK_WORKERS"),
			MaintenanceSchedule: v.GetString("MAINTENANCE_SCHEDULE"),
		},
	}
}
