package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/folio/internal/config"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule checks a five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// LegacyBookLister finds books that still have legacy highlights.
type LegacyBookLister interface {
	LegacyBooks() ([]string, error)
}

// MigrationEnqueuer schedules the background migration of one book.
type MigrationEnqueuer interface {
	EnqueueMigration(bookID string, dryRun bool) (string, error)
}

// MigrationSweepScheduler periodically enqueues a migration task for every
// book with legacy highlights, so books nobody opens still get migrated.
type MigrationSweepScheduler struct {
	books    LegacyBookLister
	enqueuer MigrationEnqueuer
	cfg      config.MigrationSweep

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isSweeping bool
	lastRun    time.Time
	lastQueued int
	cancelFunc context.CancelFunc
}

func NewMigrationSweepScheduler(books LegacyBookLister, enqueuer MigrationEnqueuer, cfg config.MigrationSweep) *MigrationSweepScheduler {
	return &MigrationSweepScheduler{
		books:    books,
		enqueuer: enqueuer,
		cfg:      cfg,
		cron:     cron.New(cron.WithParser(cronParser)),
	}
}

// Start begins the scheduler if the sweep is enabled
func (s *MigrationSweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.Enabled {
		log.Printf("Migration sweep scheduler: disabled")
		return nil
	}

	if err := ValidateCronSchedule(s.cfg.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.cfg.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		_, _ = s.RunNow()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule migration sweep: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Migration sweep scheduler: started with schedule '%s'. Next run: %v",
		s.cfg.Schedule, s.nextRunLocked())

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *MigrationSweepScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}

	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}
	ctx := s.cron.Stop()
	s.mu.Unlock()

	// A sweep in flight needs mu to finish.
	<-ctx.Done()

	log.Printf("Migration sweep scheduler: stopped")
}

func (s *MigrationSweepScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next sweep will occur, or nil when stopped.
func (s *MigrationSweepScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextRunLocked()
}

func (s *MigrationSweepScheduler) nextRunLocked() *time.Time {
	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// LastRun reports when the last sweep ran and how many books it queued.
func (s *MigrationSweepScheduler) LastRun() (time.Time, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun, s.lastQueued
}

// RunNow performs one sweep synchronously and returns the number of books
// queued. Overlapping sweeps are skipped.
func (s *MigrationSweepScheduler) RunNow() (int, error) {
	s.mu.Lock()
	if s.isSweeping {
		s.mu.Unlock()
		log.Printf("Migration sweep: skipped (already running)")
		return 0, nil
	}
	s.isSweeping = true
	s.mu.Unlock()

	queued := 0
	defer func() {
		s.mu.Lock()
		s.isSweeping = false
		s.lastRun = time.Now()
		s.lastQueued = queued
		s.mu.Unlock()
	}()

	books, err := s.books.LegacyBooks()
	if err != nil {
		log.Printf("Migration sweep: failed to list books: %v", err)
		return 0, err
	}
	if len(books) == 0 {
		log.Printf("Migration sweep: no legacy highlights left")
		return 0, nil
	}

	for _, bookID := range books {
		id, err := s.enqueuer.EnqueueMigration(bookID, false)
		if err != nil {
			log.Printf("Migration sweep: warning - failed to enqueue %s: %v", bookID, err)
			continue
		}
		log.Printf("Migration sweep: queued %s as task %s", bookID, id)
		queued++
	}

	return queued, nil
}
