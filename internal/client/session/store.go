// Package session keeps the authenticated identity of the CLI user.
//
// The Store is the only place that decides whether someone is logged in.
// The session survives restarts as a JSON record in the local metadata
// table under common.AuthSessionKey:
//
//	{"user":{"id":7,"username":"alice"},"expiry":1767225600000}
//
// expiry is in unix milliseconds.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/mydrive/internal/client/models"
	"github.com/dmitrijs2005/mydrive/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/mydrive/internal/common"
	"github.com/dmitrijs2005/mydrive/internal/dbx"
	"github.com/dmitrijs2005/mydrive/internal/logging"
	"github.com/dmitrijs2005/mydrive/internal/timex"
)

// DefaultTTL is how long a login stays valid.
const DefaultTTL = 30 * 24 * time.Hour

var ErrIncompleteIdentity = errors.New("identity must have an id and a username")

type record struct {
	User   models.Identity `json:"user"`
	Expiry int64           `json:"expiry"`
}

type Store struct {
	db    *sql.DB
	clock timex.Clock
	ttl   time.Duration
	log   logging.Logger

	mu      sync.RWMutex
	current *models.Session
}

// NewStore returns a Store with no current session; call Restore to pick
// up a persisted one. A non-positive ttl means DefaultTTL.
func NewStore(db *sql.DB, clock timex.Clock, ttl time.Duration, log logging.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{db: db, clock: clock, ttl: ttl, log: log}
}

// Restore loads the persisted session. An expired or unreadable record is
// deleted and (nil, nil) is returned.
func (s *Store) Restore(ctx context.Context) (*models.Identity, error) {
	now := s.clock.Now()
	var restored *models.Session

	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)

		e, err := repo.Get(ctx, common.AuthSessionKey)
		if err != nil || e == nil {
			return err
		}

		var rec record
		if err := json.Unmarshal(e.Value, &rec); err != nil || !rec.User.Valid() {
			s.log.Warn(ctx, "discarding unreadable session record", "error", err)
			return repo.Delete(ctx, common.AuthSessionKey)
		}

		sess := models.Session{Identity: rec.User, ExpiresAt: time.UnixMilli(rec.Expiry)}
		if !sess.Active(now) {
			s.log.Info(ctx, "stored session expired", "username", rec.User.Username, "expired_at", sess.ExpiresAt)
			return repo.Delete(ctx, common.AuthSessionKey)
		}

		restored = &sess
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}

	s.mu.Lock()
	s.current = restored
	s.mu.Unlock()

	if restored == nil {
		return nil, nil
	}
	id := restored.Identity
	return &id, nil
}

// Login persists id with expiry now+TTL and makes it current.
func (s *Store) Login(ctx context.Context, id models.Identity) error {
	if !id.Valid() {
		return ErrIncompleteIdentity
	}

	now := s.clock.Now()
	sess := models.Session{Identity: id, ExpiresAt: now.Add(s.ttl)}

	b, err := json.Marshal(record{User: id, Expiry: sess.ExpiresAt.UnixMilli()})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := metadata.NewSQLiteRepository(s.db).Set(ctx, common.AuthSessionKey, b, now); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()

	s.log.Debug(ctx, "session stored", "username", id.Username, "expires_at", sess.ExpiresAt)
	return nil
}

// Logout forgets the current session in memory and on disk. The in-memory
// session is cleared even when the delete fails.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := metadata.NewSQLiteRepository(s.db).Delete(ctx, common.AuthSessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Current returns the logged in identity, or nil when there is none or it
// has expired.
func (s *Store) Current() *models.Identity {
	sess := s.Session()
	if sess == nil {
		return nil
	}
	id := sess.Identity
	return &id
}

// Session returns a copy of the active session, or nil.
func (s *Store) Session() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil || !s.current.Active(s.clock.Now()) {
		return nil
	}
	sess := *s.current
	return &sess
}
