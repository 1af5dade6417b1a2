package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v3"

	"github.com/goliatone/go-lettergen/pkg/letter"
)

const (
	sessionPrefix  = "session:"
	artifactPrefix = "artifact:"
)

// Badger is a durable Store backed by an embedded BadgerDB instance.
type Badger struct {
	db *badger.DB

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// OpenBadger opens (or creates) the database at dir. Badger's own logger
// is suppressed; the engine logs operations at its level.
func OpenBadger(dir string) (*Badger, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store: open badger at %s: %w", dir, err)
	}
	return &Badger{db: db, locks: make(map[string]*sync.Mutex)}, nil
}

// Close releases the underlying database.
func (s *Badger) Close() error {
	return s.db.Close()
}

// sessionLock returns the mutex serializing writes for one session id.
// Locks are never reclaimed; session cardinality is bounded by use.
func (s *Badger) sessionLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

func (s *Badger) get(key string, out any) error {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Badger) put(key string, record any) error {
	encoded, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), encoded)
	})
}

// GetSession loads one session record.
func (s *Badger) GetSession(ctx context.Context, id string) (letter.Session, error) {
	if err := ctx.Err(); err != nil {
		return letter.Session{}, err
	}
	var session letter.Session
	if err := s.get(sessionPrefix+id, &session); err != nil {
		if errors.Is(err, ErrNotFound) {
			return letter.Session{}, fmt.Errorf("store: session %s: %w", id, ErrNotFound)
		}
		return letter.Session{}, fmt.Errorf("store: load session %s: %w", id, err)
	}
	return session, nil
}

// PutSession writes one session record. Concurrent writes for the same id
// serialize; other ids are unaffected.
func (s *Badger) PutSession(ctx context.Context, session letter.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	lock := s.sessionLock(session.ID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.put(sessionPrefix+session.ID, session); err != nil {
		return fmt.Errorf("store: save session %s: %w", session.ID, err)
	}
	return nil
}

// DeleteSession removes one session record. Deleting a missing session is
// not an error.
func (s *Badger) DeleteSession(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	lock := s.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(sessionPrefix + id))
	})
	if err != nil {
		return fmt.Errorf("store: delete session %s: %w", id, err)
	}
	return nil
}

// GetArtifact loads one artifact record.
func (s *Badger) GetArtifact(ctx context.Context, id string) (letter.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return letter.Artifact{}, err
	}
	var artifact letter.Artifact
	if err := s.get(artifactPrefix+id, &artifact); err != nil {
		if errors.Is(err, ErrNotFound) {
			return letter.Artifact{}, fmt.Errorf("store: artifact %s: %w", id, ErrNotFound)
		}
		return letter.Artifact{}, fmt.Errorf("store: load artifact %s: %w", id, err)
	}
	return artifact, nil
}

// PutArtifact writes one artifact record.
func (s *Badger) PutArtifact(ctx context.Context, artifact letter.Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.put(artifactPrefix+artifact.ID, artifact); err != nil {
		return fmt.Errorf("store: save artifact %s: %w", artifact.ID, err)
	}
	return nil
}

// ListArtifacts loads the named artifact records, preserving order.
func (s *Badger) ListArtifacts(ctx context.Context, ids []string) ([]letter.Artifact, error) {
	out := make([]letter.Artifact, 0, len(ids))
	for _, id := range ids {
		artifact, err := s.GetArtifact(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, artifact)
	}
	return out, nil
}

var _ Store = (*Badger)(nil)
