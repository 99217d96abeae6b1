// Package sessions keeps each HTTP client's reader state (fonts, night
// mode, highlight style) in a cookie session backed by SQLite.
//
// # Usage
//
//	sm, err := sessions.NewManager(sqlDB, cfg.Sessions)
//	router.Use(sm.LoadSave())
//	session := sm.ReaderSession(c.Request)
//	_ = session.SetHighlightStyle(entities.HighlightStylePink)
//	sm.SaveReaderSession(c.Request, session)
package sessions

import (
	"database/sql"
	"encoding/gob"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/folio/internal/config"
	"github.com/mrlokans/folio/internal/entities"
	"github.com/mrlokans/folio/internal/reader"
)

// SessionKeyPreferences holds the serialized entities.ReaderPreferences.
const SessionKeyPreferences = "reader_preferences"

func init() {
	gob.Register(entities.ReaderPreferences{})
}

// Manager wraps scs.SessionManager with reader-specific methods.
type Manager struct {
	*scs.SessionManager
}

// NewManager creates a configured session manager.
// The sqlDB parameter should be the underlying *sql.DB from GORM.
func NewManager(sqlDB *sql.DB, cfg config.Sessions) (*Manager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)

	sm.Lifetime = cfg.Lifetime

	sm.Cookie.Name = "reader_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &Manager{SessionManager: sm}, nil
}

// ReaderSession restores the reader state of the request's session, or a
// default one for a new client.
func (m *Manager) ReaderSession(r *http.Request) *reader.Session {
	prefs, ok := m.Get(r.Context(), SessionKeyPreferences).(entities.ReaderPreferences)
	if !ok {
		return reader.NewSession()
	}
	return reader.FromPreferences(prefs)
}

// SaveReaderSession stores the reader state in the request's session.
func (m *Manager) SaveReaderSession(r *http.Request, s *reader.Session) {
	m.Put(r.Context(), SessionKeyPreferences, s.Preferences())
}
