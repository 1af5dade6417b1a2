// Package workflow drives the letter-generation conversation: template
// selection, field collection, preview, and artifact generation. All
// state lives in the session store; the engine itself is stateless and
// safe for concurrent use across distinct sessions.
package workflow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/goliatone/go-lettergen/pkg/catalog"
	"github.com/goliatone/go-lettergen/pkg/fields"
	"github.com/goliatone/go-lettergen/pkg/letter"
	"github.com/goliatone/go-lettergen/pkg/privacy"
	"github.com/goliatone/go-lettergen/pkg/render"
	"github.com/goliatone/go-lettergen/pkg/renderers/preview"
	"github.com/goliatone/go-lettergen/pkg/renderers/print"
	"github.com/goliatone/go-lettergen/pkg/renderers/rtf"
	"github.com/goliatone/go-lettergen/pkg/store"

	"github.com/google/uuid"
)

// assetSubsumes declares which text fields an uploaded asset supplies.
// Supplying the asset marks each subsumed field valid with the "skip"
// sentinel. New asset kinds add a row here, not a branch in the state
// machine.
var assetSubsumes = map[string][]string{
	"signatory_signature": {"signatory_name", "signatory_designation"},
	"company_logo":        nil,
}

// Option configures an Engine.
type Option func(*Engine)

// WithStore uses one backend for both sessions and artifacts.
func WithStore(s store.Store) Option {
	return func(e *Engine) {
		e.sessions = s
		e.artifacts = s
	}
}

// WithSessionStore overrides the session backend.
func WithSessionStore(s store.SessionStore) Option {
	return func(e *Engine) { e.sessions = s }
}

// WithArtifactStore overrides the artifact backend.
func WithArtifactStore(s store.ArtifactStore) Option {
	return func(e *Engine) { e.artifacts = s }
}

// WithCatalog overrides the template repository.
func WithCatalog(c *catalog.Catalog) Option {
	return func(e *Engine) { e.catalog = c }
}

// WithRegistry overrides the renderer registry.
func WithRegistry(r *render.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithPrivacy supplies the codec protecting persisted personal data.
func WithPrivacy(c *privacy.Codec) Option {
	return func(e *Engine) { e.codec = c }
}

// WithSecret derives the privacy codec from a configured secret.
func WithSecret(secret string) Option {
	return func(e *Engine) {
		codec, err := privacy.NewCodec(secret)
		if err != nil {
			e.initErr = err
			return
		}
		e.codec = codec
	}
}

// WithLogger injects the structured logger. The default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine executes workflow operations against the session store.
type Engine struct {
	sessions  store.SessionStore
	artifacts store.ArtifactStore
	catalog   *catalog.Catalog
	registry  *render.Registry
	codec     *privacy.Codec
	logger    *slog.Logger
	now       func() time.Time

	initErr error
}

// New builds an Engine. A privacy codec is mandatory; everything else has
// a working default (in-memory store, embedded catalog, the three shipped
// renderers).
func New(options ...Option) (*Engine, error) {
	e := &Engine{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, option := range options {
		option(e)
	}
	if e.initErr != nil {
		return nil, e.initErr
	}
	if e.codec == nil {
		return nil, errors.New("workflow: privacy codec is required (WithSecret or WithPrivacy)")
	}

	if e.sessions == nil || e.artifacts == nil {
		mem := store.NewMemory()
		if e.sessions == nil {
			e.sessions = mem
		}
		if e.artifacts == nil {
			e.artifacts = mem
		}
	}
	if e.catalog == nil {
		c, err := catalog.Default()
		if err != nil {
			return nil, err
		}
		e.catalog = c
	}
	if e.registry == nil {
		registry, err := defaultRegistry()
		if err != nil {
			return nil, err
		}
		e.registry = registry
	}
	return e, nil
}

func defaultRegistry() (*render.Registry, error) {
	registry := render.NewRegistry()
	registry.MustRegister(print.New())
	registry.MustRegister(rtf.New())

	previewRenderer, err := preview.New()
	if err != nil {
		return nil, err
	}
	registry.MustRegister(previewRenderer)
	return registry, nil
}

// Start creates a fresh session for the given owner.
func (e *Engine) Start(ctx context.Context, ownerID string) (letter.Session, error) {
	session := letter.Session{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		State:   letter.StateInitial,
	}
	if err := e.sessions.PutSession(ctx, session); err != nil {
		return letter.Session{}, err
	}
	e.logger.Info("session started", "session_id", session.ID, "owner_id", ownerID)
	return session, nil
}

// Session loads a session by id.
func (e *Engine) Session(ctx context.Context, id string) (letter.Session, error) {
	session, err := e.sessions.GetSession(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return letter.Session{}, &NotFoundError{Kind: "session", ID: id}
	}
	return session, err
}

// Templates lists the catalog's active templates.
func (e *Engine) Templates() []letter.Template {
	return e.catalog.List()
}

// Formats lists the registered output encodings.
func (e *Engine) Formats() []string {
	return e.registry.List()
}

// HasFormat reports whether an output encoding is registered, so callers
// can reject a bad format choice before collecting anything.
func (e *Engine) HasFormat(name string) bool {
	return e.registry.Has(name)
}

// load fetches a session and enforces the operation's state guard. Any
// failure leaves the stored session untouched.
func (e *Engine) load(ctx context.Context, op, id string, allowed ...letter.State) (letter.Session, error) {
	session, err := e.Session(ctx, id)
	if err != nil {
		return letter.Session{}, err
	}
	for _, state := range allowed {
		if session.State == state {
			return session, nil
		}
	}
	return letter.Session{}, &InvalidStateError{Op: op, State: session.State}
}

// nextPrompt returns the first unfilled field, required before optional.
func nextPrompt(session letter.Session) *Prompt {
	required := make(map[string]bool, len(session.RequiredFields))
	for _, name := range session.RequiredFields {
		required[name] = true
	}
	for _, name := range session.AllFields() {
		if session.FieldStatus[name] == letter.FieldValid {
			continue
		}
		return &Prompt{
			Field:    name,
			Label:    fields.TitleLabel(name),
			Hint:     fields.Hint(name),
			Asset:    fields.IsAsset(name),
			Required: required[name],
		}
	}
	return nil
}

// invalidRequired re-validates every required field defensively and
// returns the names blocking generation.
func invalidRequired(session letter.Session) []string {
	var out []string
	for _, name := range session.RequiredFields {
		value, ok := session.CollectedValues[name]
		if !ok || session.FieldStatus[name] != letter.FieldValid {
			out = append(out, name)
			continue
		}
		if ok, _ := fields.Validate(name, value); !ok {
			out = append(out, name)
		}
	}
	return out
}
