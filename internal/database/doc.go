// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, stats
//	├── highlights/      # Highlight store used by the identity engine
//	└── documents/       # Chapter documents the migration runs against
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./folio.db")
//
//	highlightsRepo := highlights.NewRepository(db.DB)
//	documentsRepo := documents.NewRepository(db.DB)
//
//	all, err := highlightsRepo.AllByBook("moby", 3)
//
// # Interface Implementations
//
//   - highlights.Repository: implements highlights.Store, highlights.LegacyIndex
//     and scheduler.LegacyBookLister
//   - documents.Repository: implements highlights.DocumentSource and http.DocumentStore
//
// Compile-time checks live in internal/interfaces.
package database
