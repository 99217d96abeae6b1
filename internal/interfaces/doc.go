// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - highlights.Store: highlight persistence used by the engine (internal/highlights/store.go)
//   - highlights.LegacyIndex: where legacy highlights remain (internal/highlights/book.go)
//   - highlights.DocumentSource / http.DocumentStore: stored chapter HTML per page
//
// ## Render Host Interfaces
//
//   - renderhost.Host: asynchronous script evaluation against a displayed page
//     (internal/renderhost/host.go). DocumentHost answers from stored HTML;
//     HostFunc adapts a synchronous function, e.g. a web view bridge.
//
// ## Background Migration Interfaces
//
//   - tasks.BookMigrator / http.BookMigrator: per-book migration runs
//   - http.TaskQueue / scheduler.MigrationEnqueuer: enqueuing migrate_book tasks
//   - scheduler.LegacyBookLister: books the sweep visits
//
// # Adding a New Render Host
//
// To resolve highlights against another renderer (e.g. a headless browser):
//
//  1. Implement renderhost.Host, replying on the returned channel exactly once:
//
//     type BrowserHost struct {
//         page *rod.Page
//     }
//
//     func (h *BrowserHost) Evaluate(ctx context.Context, script renderhost.Script) <-chan renderhost.Reply
//
//     var _ renderhost.Host = (*BrowserHost)(nil)
//
//  2. Show it in a slot and let the engine drive it:
//
//     handle := engine.Pages().Show(slot, highlights.Page{BookID: id, Number: n, Host: host})
//     load, outcomes, err := engine.ShowPage(ctx, handle)
//
// # Adding a New Database Domain
//
//  1. Create sub-package: internal/database/<domain>/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Implement interface methods
//
//  4. Add compile-time check:
//
//     var _ SomeStore = (*Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for examples.
package interfaces
