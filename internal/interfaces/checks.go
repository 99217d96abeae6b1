package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/folio/internal/database/documents"
	highlightsrepo "github.com/mrlokans/folio/internal/database/highlights"
	"github.com/mrlokans/folio/internal/highlights"
	"github.com/mrlokans/folio/internal/http"
	"github.com/mrlokans/folio/internal/renderhost"
	"github.com/mrlokans/folio/internal/scheduler"
	"github.com/mrlokans/folio/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Store implementations
var _ highlights.Store = (*highlightsrepo.Repository)(nil)

// LegacyIndex implementations
var _ highlights.LegacyIndex = (*highlightsrepo.Repository)(nil)

// DocumentSource/DocumentStore implementations
var _ highlights.DocumentSource = (*documents.Repository)(nil)
var _ http.DocumentStore = (*documents.Repository)(nil)

// =============================================================================
// Render Hosts
// =============================================================================

var _ renderhost.Host = (*renderhost.DocumentHost)(nil)
var _ renderhost.Host = renderhost.HostFunc(nil)

// =============================================================================
// Background Migration
// =============================================================================

// BookMigrator implementations
var _ tasks.BookMigrator = (*highlights.BookMigrator)(nil)
var _ http.BookMigrator = (*highlights.BookMigrator)(nil)

// Task queue implementations
var _ http.TaskQueue = (*tasks.Client)(nil)
var _ scheduler.MigrationEnqueuer = (*tasks.Client)(nil)

// Sweep collaborators
var _ scheduler.LegacyBookLister = (*highlights.BookMigrator)(nil)
var _ scheduler.LegacyBookLister = (*highlightsrepo.Repository)(nil)
var _ http.SweepStatus = (*scheduler.MigrationSweepScheduler)(nil)
