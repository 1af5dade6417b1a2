package workflow

import (
	"github.com/goliatone/go-lettergen/pkg/bulk"
	"github.com/goliatone/go-lettergen/pkg/letter"
)

// Prompt tells the caller which field to collect next. Asset marks fields
// expecting a binary upload instead of typed text.
type Prompt struct {
	Field    string
	Label    string
	Hint     string
	Asset    bool
	Required bool
}

// StepResult is the structured outcome of one conversational step.
// Invalid carries a rejected value inline; it is a result, not an error —
// the call itself succeeded and the session is unchanged.
type StepResult struct {
	SessionID string
	State     letter.State
	Message   string
	Next      *Prompt
	Invalid   *ValidationError
	Blank     []byte
}

// PreviewResult carries a rendered preview, or the set of fields blocking
// one. Fallback marks content degraded to the plain-text rendering.
type PreviewResult struct {
	Content     []byte
	ContentType string
	Invalid     []string
	Fallback    bool
}

// GenerateResult reports the persisted artifacts of a generation run.
type GenerateResult struct {
	ArtifactIDs []string
	Fallback    bool
}

// BulkResult reports a bulk import: hard column errors reject the whole
// batch, row errors are individual, and every valid row yields one
// artifact.
type BulkResult struct {
	Missing     []bulk.ColumnIssue
	Warnings    []bulk.ColumnIssue
	RowErrors   []bulk.RowError
	ArtifactIDs []string
}

// Rejected reports whether the batch was refused before rendering.
func (r BulkResult) Rejected() bool { return len(r.Missing) > 0 }
