package highlights

import (
	"context"
	"log"

	"github.com/mrlokans/folio/internal/entities"
	"github.com/mrlokans/folio/internal/rangy"
	"github.com/mrlokans/folio/internal/renderhost"
)

type MigrationStatus string

const (
	MigrationMigrated MigrationStatus = "migrated"
	// MigrationNoMatch means the host could not locate the text; the legacy
	// record is kept and retried on the next display.
	MigrationNoMatch MigrationStatus = "no_match"
	// MigrationStale means the page changed before the reply arrived.
	MigrationStale  MigrationStatus = "stale"
	MigrationFailed MigrationStatus = "failed"
	// MigrationPlanned is reported by dry runs for highlights that would migrate.
	MigrationPlanned MigrationStatus = "planned"
)

type MigrationOutcome struct {
	LegacyID  string              `json:"legacy_id"`
	NewID     string              `json:"new_id,omitempty"`
	Status    MigrationStatus     `json:"status"`
	Highlight *entities.Highlight `json:"highlight,omitempty"`
	Err       error               `json:"-"`
}

type pendingMatch struct {
	index  int
	legacy entities.Highlight
	reply  <-chan renderhost.Reply
}

// MigrateLegacy asks the host to locate every legacy highlight, then commits
// each located one: the replacement is persisted first and the legacy record
// removed only after that succeeded. Outcomes are returned in input order.
func (e *Engine) MigrateLegacy(ctx context.Context, h PageHandle, legacy []entities.Highlight) []MigrationOutcome {
	return e.migrate(ctx, h, legacy, true)
}

// PlanMigration locates legacy highlights like MigrateLegacy but writes
// nothing; located highlights are reported as planned.
func (e *Engine) PlanMigration(ctx context.Context, h PageHandle, legacy []entities.Highlight) []MigrationOutcome {
	return e.migrate(ctx, h, legacy, false)
}

func (e *Engine) migrate(ctx context.Context, h PageHandle, legacy []entities.Highlight, commit bool) []MigrationOutcome {
	outcomes := make([]MigrationOutcome, len(legacy))

	page, ok := e.pages.Lookup(h)
	if !ok {
		for i, l := range legacy {
			outcomes[i] = MigrationOutcome{LegacyID: l.ID, Status: MigrationStale}
		}
		return outcomes
	}

	pending := make([]pendingMatch, 0, len(legacy))
	for i, l := range legacy {
		target := renderhost.StripMarkup(l.Content)
		if target == "" {
			outcomes[i] = MigrationOutcome{LegacyID: l.ID, Status: MigrationFailed, Err: ErrNothingToMatch}
			continue
		}
		script := renderhost.MigrateStringToRange(renderhost.StripMarkup(l.FullPassage()), target)
		pending = append(pending, pendingMatch{index: i, legacy: l, reply: evaluate(ctx, page.Host, script)})
	}

	for _, p := range pending {
		reply := renderhost.Await(ctx, p.reply)
		outcomes[p.index] = e.resolve(h, p.legacy, reply, commit)
	}

	return outcomes
}

func (e *Engine) resolve(h PageHandle, legacy entities.Highlight, reply renderhost.Reply, commit bool) MigrationOutcome {
	outcome := MigrationOutcome{LegacyID: legacy.ID}

	page, ok := e.pages.Lookup(h)
	if !ok {
		outcome.Status = MigrationStale
		return outcome
	}

	match, ok := renderhost.DecodeMatch(reply)
	if !ok {
		log.Printf("[MIGRATE] No match for legacy highlight %s on %s page %d", legacy.ID, page.BookID, page.Number)
		outcome.Status = MigrationNoMatch
		return outcome
	}

	replacement, err := BuildReplacement(page.BookID, page.Number, page.Href, legacy, match)
	if err != nil {
		outcome.Status = MigrationFailed
		outcome.Err = err
		return outcome
	}

	if !commit {
		outcome.Status = MigrationPlanned
		outcome.NewID = replacement.ID
		outcome.Highlight = &replacement
		return outcome
	}

	if err := e.store.Persist(&replacement); err != nil {
		log.Printf("[MIGRATE] Failed to persist replacement for %s: %v", legacy.ID, err)
		outcome.Status = MigrationFailed
		outcome.Err = err
		return outcome
	}

	if replacement.ID != legacy.ID {
		if err := e.store.ForceRemove(&legacy); err != nil {
			// the legacy record is retried on the next display and yields the same id
			log.Printf("[MIGRATE] Failed to remove legacy highlight %s: %v", legacy.ID, err)
		}
	}

	log.Printf("[MIGRATE] %s -> %s", legacy.ID, replacement.ID)
	outcome.Status = MigrationMigrated
	outcome.NewID = replacement.ID
	outcome.Highlight = &replacement
	return outcome
}

// BuildReplacement derives the range-based highlight for a located legacy
// highlight. It is deterministic: the same inputs always give the same id.
func BuildReplacement(bookID string, page int, href string, legacy entities.Highlight, m renderhost.Match) (entities.Highlight, error) {
	page = rangy.ClampPage(page)
	desc := rangy.NewDescriptor(rangy.Entry{Start: m.Start, End: m.End, StyleClass: legacy.Style.Class()})

	id, err := rangy.BuildID(bookID, page, desc)
	if err != nil {
		return entities.Highlight{}, err
	}
	desc.Entries[0].ID = id

	filePath := href
	if filePath == "" {
		filePath = legacy.FilePath
	}

	return entities.Highlight{
		ID:       id,
		BookID:   bookID,
		Page:     page,
		FilePath: filePath,
		Content:  renderhost.StripMarkup(legacy.Content),
		Rangy:    desc.String(),
		Style:    legacy.Style,
		Note:     legacy.Note,
	}, nil
}

func evaluate(ctx context.Context, host renderhost.Host, script renderhost.Script) <-chan renderhost.Reply {
	if host == nil {
		ch := make(chan renderhost.Reply, 1)
		ch <- renderhost.Absent()
		return ch
	}
	return host.Evaluate(ctx, script)
}
