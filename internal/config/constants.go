package config

// Default storage locations
const (
	// DefaultDatabasePath is the sqlite file holding the collection and the audit trail
	DefaultDatabasePath = "./bookshelf.db"

	// DefaultBadgerPath is the directory used by the badger store driver
	DefaultBadgerPath = "./bookshelf-badger"

	// DefaultBackupDir is where scheduled collection snapshots are written
	DefaultBackupDir = "./backups"
)

type StoreDriver string

const (
	StoreDriverSQLite StoreDriver = "sqlite" // settings table in the sqlite database (default)
	StoreDriverBadger StoreDriver = "badger" // embedded badger key-value store
	StoreDriverMemory StoreDriver = "memory" // nothing is persisted
)

type BackupFormat string

const (
	BackupFormatJSON     BackupFormat = "json"
	BackupFormatMarkdown BackupFormat = "markdown"
)
