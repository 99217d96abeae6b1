package http

import (
	"time"

	"github.com/mrlokans/folio/internal/database"
	"github.com/mrlokans/folio/internal/highlights"
	"github.com/mrlokans/folio/internal/sessions"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database  *database.Database
	Engine    *highlights.Engine
	Documents DocumentStore

	// Reader sessions; preferences fall back to defaults when nil
	SessionManager *sessions.Manager
	CSRFSecret     []byte
	SecureCookies  bool

	// Reader behaviour
	AllowSharing bool
	HostTimeout  time.Duration

	// Background migration. TaskQueue takes precedence; Migrator runs
	// the migration inline within the request.
	TaskQueue TaskQueue
	Migrator  BookMigrator
	Sweep     SweepStatus

	// Application info
	Version string
}
