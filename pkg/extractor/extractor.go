// Package extractor discovers placeholder fields in raw template text.
package extractor

import (
	"regexp"

	"github.com/goliatone/go-lettergen/pkg/fields"
)

var placeholderRe = regexp.MustCompile(`\[([^\]]+)\]`)

// Extract scans template text for bracket-delimited placeholders and
// returns their canonical field names in first-seen order, deduplicated.
//
// Every placeholder present in the text is required: its presence means the
// document needs it. Optional fields come only from template metadata, so
// the second slice is always empty today and exists to keep the contract
// symmetric with that metadata. Unreadable or empty text yields two empty
// slices so callers fall back to the template's stored field lists.
func Extract(text string) (required, optional []string) {
	required = []string{}
	optional = []string{}
	if text == "" {
		return required, optional
	}

	seen := make(map[string]struct{})
	for _, match := range placeholderRe.FindAllStringSubmatch(text, -1) {
		name := fields.Canonical(match[1])
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		required = append(required, name)
	}
	return required, optional
}
