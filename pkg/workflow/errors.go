package workflow

import (
	"fmt"

	"github.com/goliatone/go-lettergen/pkg/letter"
)

// ValidationError reports one rejected field value. It is recoverable: the
// session is unchanged and the caller re-prompts with the hint.
type ValidationError struct {
	Field   string
	Message string
	Hint    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("workflow: %s: %s", e.Field, e.Message)
}

// NotFoundError reports an unresolved session, template, renderer, or
// artifact id. Fatal to the call.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("workflow: %s %q not found", e.Kind, e.ID)
}

// InvalidStateError reports an operation issued in a state that does not
// allow it. The session is left untouched.
type InvalidStateError struct {
	Op    string
	State letter.State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("workflow: %s not allowed in state %s", e.Op, e.State)
}

// RenderError reports unreadable template source or a failed render. It is
// recoverable: the engine degrades to a plain-text fallback instead of
// failing the request.
type RenderError struct {
	TemplateID string
	Err        error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("workflow: render template %s: %v", e.TemplateID, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
