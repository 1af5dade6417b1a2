// Package print renders letters as fixed-page monospaced text: a centered
// branding header, flowed body paragraphs, and form-feed page breaks.
package print

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/goliatone/go-lettergen/pkg/render"
)

const (
	pageWidth    = 80
	linesPerPage = 58
)

// signatureMarker opens the embedded signature block. The image bytes
// follow base64-encoded so the page stream stays printable.
const signatureMarker = "-- signature --"

// Renderer implements render.Renderer for the print encoding.
type Renderer struct{}

// New constructs the print renderer.
func New() *Renderer {
	return &Renderer{}
}

// Name identifies the renderer inside a registry.
func (r *Renderer) Name() string { return "print" }

// ContentType reports the output media type.
func (r *Renderer) ContentType() string { return "text/plain; charset=utf-8" }

// Render produces the paginated page stream for one letter.
func (r *Renderer) Render(ctx context.Context, job render.Job) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prepared := render.Prepare(job)

	var lines []string
	for _, header := range prepared.HeaderLines {
		lines = append(lines, center(header))
	}
	if len(prepared.HeaderLines) > 0 {
		lines = append(lines, center(strings.Repeat("-", pageWidth/2)), "")
	}

	for i, paragraph := range prepared.Paragraphs {
		if paragraph.Heading {
			lines = append(lines, center(paragraph.Text), "")
		} else {
			lines = append(lines, wrap(paragraph.Text, pageWidth)...)
			lines = append(lines, "")
		}
		if prepared.Spot == render.SignatureInline && prepared.SpotIndex == i {
			lines = append(lines, signatureBlock(prepared.Signature)...)
		} else if prepared.Spot == render.SignatureAfterSignOff && prepared.SpotIndex == i {
			lines = append(lines, signatureBlock(prepared.Signature)...)
		}
	}
	if prepared.Spot == render.SignatureAppend {
		lines = append(lines, signatureBlock(prepared.Signature)...)
	}

	return []byte(paginate(lines)), nil
}

func signatureBlock(image []byte) []string {
	encoded := base64.StdEncoding.EncodeToString(image)
	return []string{signatureMarker, encoded, ""}
}

// paginate joins lines into pages separated by form feeds.
func paginate(lines []string) string {
	var b strings.Builder
	for i, line := range lines {
		if i > 0 && i%linesPerPage == 0 {
			b.WriteString("\f")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func center(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) >= pageWidth {
		return trimmed
	}
	pad := (pageWidth - len(trimmed)) / 2
	return strings.Repeat(" ", pad) + trimmed
}

// wrap flows a paragraph into lines no wider than the page, preserving
// explicit line breaks inside the block.
func wrap(text string, width int) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		words := strings.Fields(line)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		current := words[0]
		for _, word := range words[1:] {
			if len(current)+1+len(word) > width {
				out = append(out, current)
				current = word
				continue
			}
			current += " " + word
		}
		out = append(out, current)
	}
	return out
}
