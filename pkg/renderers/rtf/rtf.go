// Package rtf renders letters as a revisable rich-text document. The
// structure mirrors the print renderer: branding header, flowed body,
// single signature embed location.
package rtf

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/goliatone/go-lettergen/pkg/render"
)

// Renderer implements render.Renderer for the document encoding.
type Renderer struct{}

// New constructs the document renderer.
func New() *Renderer {
	return &Renderer{}
}

// Name identifies the renderer inside a registry.
func (r *Renderer) Name() string { return "document" }

// ContentType reports the output media type.
func (r *Renderer) ContentType() string { return "application/rtf" }

// Render produces the RTF byte stream for one letter.
func (r *Renderer) Render(ctx context.Context, job render.Job) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prepared := render.Prepare(job)

	var b strings.Builder
	b.WriteString(`{\rtf1\ansi\deff0{\fonttbl{\f0\fmodern Courier New;}{\f1\fswiss Helvetica;}}`)
	b.WriteString("\n")

	for _, header := range prepared.HeaderLines {
		b.WriteString(`{\pard\qc\f1\b\fs28 `)
		b.WriteString(escape(header))
		b.WriteString(`\par}`)
		b.WriteString("\n")
	}
	if len(prepared.HeaderLines) > 0 {
		b.WriteString(`{\pard\qc\brdrb\brdrs\par}` + "\n")
	}

	for i, paragraph := range prepared.Paragraphs {
		if paragraph.Heading {
			b.WriteString(`{\pard\qc\f1\b\fs26 `)
		} else {
			b.WriteString(`{\pard\ql\f0\fs22 `)
		}
		b.WriteString(escape(paragraph.Text))
		b.WriteString(`\par}`)
		b.WriteString("\n")
		if (prepared.Spot == render.SignatureInline || prepared.Spot == render.SignatureAfterSignOff) && prepared.SpotIndex == i {
			writeSignature(&b, prepared.Signature)
		}
	}
	if prepared.Spot == render.SignatureAppend {
		writeSignature(&b, prepared.Signature)
	}

	b.WriteString("}\n")
	return []byte(b.String()), nil
}

// writeSignature embeds the image as an inline PNG picture group.
func writeSignature(b *strings.Builder, image []byte) {
	b.WriteString(`{\pard\ql{\pict\pngblip `)
	b.WriteString(hex.EncodeToString(image))
	b.WriteString(`}\par}`)
	b.WriteString("\n")
}

// escape encodes text for RTF: control characters, group delimiters, and
// non-ASCII runes.
func escape(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == '{':
			b.WriteString(`\{`)
		case r == '}':
			b.WriteString(`\}`)
		case r == '\n':
			b.WriteString(`\line `)
		case r == '\t':
			b.WriteString(`\tab `)
		case r < 0x80:
			b.WriteRune(r)
		default:
			code := int32(r)
			if code > 32767 {
				code -= 65536
			}
			b.WriteString(fmt.Sprintf(`\u%d?`, code))
		}
	}
	return b.String()
}
