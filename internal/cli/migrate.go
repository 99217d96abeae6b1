package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrlokans/folio/internal/config"
	"github.com/mrlokans/folio/internal/database"
	"github.com/mrlokans/folio/internal/database/documents"
	highlightsrepo "github.com/mrlokans/folio/internal/database/highlights"
	"github.com/mrlokans/folio/internal/highlights"
)

// MigrateCommand migrates legacy highlights against stored page documents,
// for one book or for every book that still has any.
type MigrateCommand struct {
	DatabasePath string
	BookID       string
	DryRun       bool

	out io.Writer
}

func NewMigrateCommand() *MigrateCommand {
	return &MigrateCommand{out: os.Stdout}
}

func (cmd *MigrateCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.StringVar(&cmd.BookID, "book", "", "Only migrate this book (default: every book with legacy highlights)")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Report what would be migrated without writing")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s migrate [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Migrate legacy highlights to range descriptors using stored page documents.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s migrate -dry-run\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s migrate -db ./folio.db -book moby-dick\n", os.Args[0])
	}

	return fs.Parse(args)
}

func (cmd *MigrateCommand) Run() error {
	if _, err := os.Stat(cmd.DatabasePath); os.IsNotExist(err) {
		return fmt.Errorf("database does not exist: %s", cmd.DatabasePath)
	}

	db, err := database.NewQuietDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return cmd.run(ctx, db)
}

func (cmd *MigrateCommand) run(ctx context.Context, db *database.Database) error {
	repo := highlightsrepo.NewRepository(db.DB)
	engine := highlights.NewEngine(repo, nil)
	migrator := highlights.NewBookMigrator(engine, documents.NewRepository(db.DB), repo)

	var reports []*highlights.BookReport
	var runErr error
	if cmd.BookID != "" {
		report, err := migrator.MigrateBook(ctx, cmd.BookID, cmd.DryRun)
		if report != nil {
			reports = append(reports, report)
		}
		runErr = err
	} else {
		reports, runErr = migrator.MigrateAll(ctx, cmd.DryRun)
	}

	cmd.printReports(reports)
	return runErr
}

func (cmd *MigrateCommand) printReports(reports []*highlights.BookReport) {
	if cmd.out == nil {
		cmd.out = os.Stdout
	}

	if len(reports) == 0 {
		fmt.Fprintf(cmd.out, "No legacy highlights to migrate\n")
		return
	}

	mode := "Migrated"
	if cmd.DryRun {
		mode = "Dry run"
	}

	total := 0
	for _, r := range reports {
		done := r.Count(highlights.MigrationMigrated)
		if cmd.DryRun {
			done = r.Count(highlights.MigrationPlanned)
		}
		total += done

		fmt.Fprintf(cmd.out, "%s %s: %d highlights across %d pages, %d without match, %d failed",
			mode, r.BookID, done, r.Pages, r.Count(highlights.MigrationNoMatch), r.Count(highlights.MigrationFailed))
		if len(r.SkippedPages) > 0 {
			fmt.Fprintf(cmd.out, ", pages without document: %v", r.SkippedPages)
		}
		fmt.Fprintln(cmd.out)
	}

	fmt.Fprintf(cmd.out, "\n%s %d highlights in %d books\n", mode, total, len(reports))
}
