// Package render defines the rendering seam shared by every output
// encoding. All renderers consume the same prepared substitution result, so
// the textual content of a letter is identical across formats and only the
// structural markup differs.
package render

import (
	"context"

	"github.com/goliatone/go-lettergen/pkg/letter"
)

// Job carries everything a renderer needs for one letter.
type Job struct {
	// Template supplies the name and field metadata for the letter.
	Template letter.Template

	// SourceText is the raw template text with bracket placeholders. When
	// empty the caller is expected to fall back to Fallback rendering.
	SourceText string

	// Values maps canonical field names to collected values. The sentinel
	// "skip" renders as empty.
	Values map[string]string

	// Signature holds the uploaded signature image bytes, when present.
	Signature []byte
}

// Renderer converts a prepared letter into one output encoding.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, job Job) ([]byte, error)
}
