// Package preview renders letters as browser-displayable markup. It shares
// the substitution and placement step with the print and document
// renderers; the signature asset becomes an inline image reference.
package preview

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"io/fs"
	"strings"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-lettergen/pkg/render"
)

// Renderer implements render.Renderer for the preview encoding.
type Renderer struct {
	layout *pongo2.Template
	policy *bluemonday.Policy
}

// New constructs the preview renderer with the embedded layout template.
func New() (*Renderer, error) {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("preview: embedded templates: %w", err)
	}
	set := pongo2.NewSet("preview", pongo2.NewFSLoader(sub))
	layout, err := set.FromFile("preview.html.tpl")
	if err != nil {
		return nil, fmt.Errorf("preview: parse layout: %w", err)
	}

	policy := bluemonday.NewPolicy()
	policy.AllowElements("p", "br", "h2", "div")
	policy.AllowImages()
	policy.AllowDataURIImages()
	policy.AllowAttrs("class").OnElements("img", "div", "p", "h2")
	policy.AllowAttrs("alt").OnElements("img")

	return &Renderer{layout: layout, policy: policy}, nil
}

// Name identifies the renderer inside a registry.
func (r *Renderer) Name() string { return "preview" }

// ContentType reports the output media type.
func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// Render produces the HTML preview for one letter.
func (r *Renderer) Render(ctx context.Context, job render.Job) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prepared := render.Prepare(job)
	content := r.policy.Sanitize(contentHTML(prepared))

	out, err := r.layout.Execute(pongo2.Context{
		"header_lines": prepared.HeaderLines,
		"content":      content,
	})
	if err != nil {
		return nil, fmt.Errorf("preview: execute layout: %w", err)
	}
	return []byte(out), nil
}

// contentHTML assembles the body fragment: headings, paragraphs, and the
// signature image at its single chosen location.
func contentHTML(prepared render.Prepared) string {
	var b strings.Builder
	for i, paragraph := range prepared.Paragraphs {
		if paragraph.Heading {
			b.WriteString("<h2>")
			b.WriteString(html.EscapeString(paragraph.Text))
			b.WriteString("</h2>\n")
		} else {
			b.WriteString("<p>")
			b.WriteString(strings.ReplaceAll(html.EscapeString(paragraph.Text), "\n", "<br/>"))
			b.WriteString("</p>\n")
		}
		if (prepared.Spot == render.SignatureInline || prepared.Spot == render.SignatureAfterSignOff) && prepared.SpotIndex == i {
			b.WriteString(signatureHTML(prepared.Signature))
		}
	}
	if prepared.Spot == render.SignatureAppend {
		b.WriteString(signatureHTML(prepared.Signature))
	}
	return b.String()
}

func signatureHTML(image []byte) string {
	encoded := base64.StdEncoding.EncodeToString(image)
	return `<p><img class="signature" alt="Signature" src="data:image/png;base64,` + encoded + `"/></p>` + "\n"
}
