package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default path for the highlights database
	DefaultDatabasePath = "./folio.db"
)
