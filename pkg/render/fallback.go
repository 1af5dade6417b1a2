package render

import (
	"strings"

	"github.com/goliatone/go-lettergen/pkg/fields"
	"github.com/goliatone/go-lettergen/pkg/letter"
)

// Fallback produces a minimal plain-text rendering used when template
// source text is unreadable. Requests degrade to this rather than failing.
func Fallback(job Job) []byte {
	var b strings.Builder

	prepared := Prepare(job)
	for _, line := range prepared.HeaderLines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(prepared.HeaderLines) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(job.Template.Name)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", len(job.Template.Name)))
	b.WriteString("\n\n")

	ordered := append(append([]string{}, job.Template.RequiredFields...), job.Template.OptionalFields...)
	seen := make(map[string]struct{}, len(ordered))
	for _, name := range ordered {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		value := strings.TrimSpace(job.Values[name])
		if value == "" || strings.EqualFold(value, letter.SkipSentinel) || fields.IsAsset(name) {
			continue
		}
		b.WriteString(fields.TitleLabel(name))
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\n")
	}

	return []byte(b.String())
}
