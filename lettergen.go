// Package lettergen generates HR business letters from placeholder
// templates: a conversational workflow engine collects and validates
// field values, renderers produce print, document, and browser preview
// encodings of the same substituted text, and a privacy layer protects
// recipient data before anything is persisted.
package lettergen

import (
	"context"

	"github.com/goliatone/go-lettergen/pkg/catalog"
	"github.com/goliatone/go-lettergen/pkg/letter"
	"github.com/goliatone/go-lettergen/pkg/render"
	"github.com/goliatone/go-lettergen/pkg/renderers/preview"
	"github.com/goliatone/go-lettergen/pkg/renderers/print"
	"github.com/goliatone/go-lettergen/pkg/renderers/rtf"
	"github.com/goliatone/go-lettergen/pkg/workflow"
)

// Template describes a published letter template.
type Template = letter.Template

// Session is one conversational generation thread.
type Session = letter.Session

// Artifact is a generated, persisted document record.
type Artifact = letter.Artifact

// Engine drives the letter-generation conversation.
type Engine = workflow.Engine

// Option configures an Engine.
type Option = workflow.Option

// NewEngine exposes the workflow constructor from the top-level module.
func NewEngine(options ...Option) (*Engine, error) {
	return workflow.New(options...)
}

// NewRegistry builds a renderer registry holding the three shipped
// encodings: print, document, and preview.
func NewRegistry() (*render.Registry, error) {
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

// RenderLetter is the simplest entry point: it resolves a template from
// the embedded catalog, substitutes the given values, and renders the
// named format in one call, with no session or persistence involved. It
// returns the content and its media type.
func RenderLetter(ctx context.Context, templateRef string, values map[string]string, signature []byte, format string) ([]byte, string, error) {
	c, err := catalog.Default()
	if err != nil {
		return nil, "", err
	}
	template, err := c.Get(templateRef)
	if err != nil {
		if template, err = c.ResolveName(templateRef); err != nil {
			return nil, "", err
		}
	}
	source, err := c.Source(template)
	if err != nil {
		return nil, "", err
	}

	registry, err := NewRegistry()
	if err != nil {
		return nil, "", err
	}
	renderer, err := registry.Get(format)
	if err != nil {
		return nil, "", err
	}

	content, err := renderer.Render(ctx, render.Job{
		Template:   template,
		SourceText: source,
		Values:     values,
		Signature:  signature,
	})
	if err != nil {
		return nil, "", err
	}
	return content, renderer.ContentType(), nil
}
