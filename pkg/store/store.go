// Package store persists sessions and generated artifacts. Two
// implementations ship: an embedded BadgerDB store for durable use and an
// in-memory store for tests and ephemeral runs.
package store

import (
	"context"
	"errors"

	"github.com/goliatone/go-lettergen/pkg/letter"
)

// ErrNotFound reports a missing session or artifact record.
var ErrNotFound = errors.New("store: not found")

// SessionStore persists conversation sessions. Writes for one session id
// are serialized by the implementation; distinct ids proceed
// independently.
type SessionStore interface {
	GetSession(ctx context.Context, id string) (letter.Session, error)
	PutSession(ctx context.Context, session letter.Session) error
	DeleteSession(ctx context.Context, id string) error
}

// ArtifactStore persists generated document records.
type ArtifactStore interface {
	GetArtifact(ctx context.Context, id string) (letter.Artifact, error)
	PutArtifact(ctx context.Context, artifact letter.Artifact) error
	ListArtifacts(ctx context.Context, ids []string) ([]letter.Artifact, error)
}

// Store combines both record kinds behind one backend.
type Store interface {
	SessionStore
	ArtifactStore
}
