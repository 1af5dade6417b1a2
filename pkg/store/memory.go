package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-lettergen/pkg/letter"
)

// Memory is a Store kept entirely in process memory. Records are deep
// copied on the way in and out so callers never share state with the
// store.
type Memory struct {
	mu        sync.RWMutex
	sessions  map[string]letter.Session
	artifacts map[string]letter.Artifact
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		sessions:  make(map[string]letter.Session),
		artifacts: make(map[string]letter.Artifact),
	}
}

// GetSession loads one session record.
func (s *Memory) GetSession(ctx context.Context, id string) (letter.Session, error) {
	if err := ctx.Err(); err != nil {
		return letter.Session{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return letter.Session{}, fmt.Errorf("store: session %s: %w", id, ErrNotFound)
	}
	return session.Clone(), nil
}

// PutSession writes one session record.
func (s *Memory) PutSession(ctx context.Context, session letter.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session.Clone()
	return nil
}

// DeleteSession removes one session record. Deleting a missing session is
// not an error.
func (s *Memory) DeleteSession(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// GetArtifact loads one artifact record.
func (s *Memory) GetArtifact(ctx context.Context, id string) (letter.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return letter.Artifact{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	artifact, ok := s.artifacts[id]
	if !ok {
		return letter.Artifact{}, fmt.Errorf("store: artifact %s: %w", id, ErrNotFound)
	}
	return cloneArtifact(artifact), nil
}

// PutArtifact writes one artifact record.
func (s *Memory) PutArtifact(ctx context.Context, artifact letter.Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts[artifact.ID] = cloneArtifact(artifact)
	return nil
}

// ListArtifacts loads the named artifact records, preserving order.
func (s *Memory) ListArtifacts(ctx context.Context, ids []string) ([]letter.Artifact, error) {
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

func cloneArtifact(a letter.Artifact) letter.Artifact {
	out := a
	if a.FieldValues != nil {
		out.FieldValues = make(map[string]string, len(a.FieldValues))
		for k, v := range a.FieldValues {
			out.FieldValues[k] = v
		}
	}
	return out
}

var _ Store = (*Memory)(nil)
