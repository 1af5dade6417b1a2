// Package substitute fills bracket-delimited placeholders in template text.
// It is the single substitution step every renderer shares; renderers only
// diverge in the structure they wrap around the substituted content.
package substitute

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-lettergen/pkg/fields"
	"github.com/goliatone/go-lettergen/pkg/letter"
)

var placeholderRe = regexp.MustCompile(`\[([^\]]+)\]`)

// Apply replaces each bracket token whose canonicalized inner text matches
// a collected field with that field's value, so "[CTC]", "[Annual CTC]"
// and "[salary]" all resolve to the same value. The sentinel "skip"
// renders as an empty string. Tokens with no matching value are left
// verbatim so the defect stays detectable; nothing is ever silently
// dropped.
func Apply(text string, values map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(token string) string {
		inner := token[1 : len(token)-1]
		value, ok := values[fields.Canonical(inner)]
		if !ok {
			return token
		}
		if strings.EqualFold(strings.TrimSpace(value), letter.SkipSentinel) {
			return ""
		}
		return value
	})
}

// References reports whether the text contains a placeholder for any of
// the given canonical field names.
func References(text string, fieldNames ...string) bool {
	for _, match := range placeholderRe.FindAllStringSubmatch(text, -1) {
		canonical := fields.Canonical(match[1])
		for _, name := range fieldNames {
			if canonical == name {
				return true
			}
		}
	}
	return false
}

// Remaining reports which of the given canonical field names still appear
// as bracket tokens in the text. Used to verify placeholder coverage after
// substitution.
func Remaining(text string, fieldNames []string) []string {
	wanted := make(map[string]struct{}, len(fieldNames))
	for _, name := range fieldNames {
		wanted[name] = struct{}{}
	}

	var out []string
	seen := make(map[string]struct{})
	for _, match := range placeholderRe.FindAllStringSubmatch(text, -1) {
		canonical := fields.Canonical(match[1])
		if _, want := wanted[canonical]; !want {
			continue
		}
		if _, dup := seen[canonical]; dup {
			continue
		}
		seen[canonical] = struct{}{}
		out = append(out, canonical)
	}
	return out
}
