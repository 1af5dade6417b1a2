package render

import (
	"strings"

	"github.com/goliatone/go-lettergen/pkg/letter"
	"github.com/goliatone/go-lettergen/pkg/substitute"
)

// brandingFields are the header lines, in display order. A field the caller
// did not supply produces no header line at all; there are no defaults.
var brandingFields = []string{"company_name", "company_address", "contact_info"}

// signerFields are the placeholders that mark where a signature image
// belongs when one was uploaded.
var signerFields = []string{"signatory_name", "signatory_designation", "signatory_signature"}

// signOffPrefixes detect the closing line a signature should follow when no
// signer placeholder exists in the template.
var signOffPrefixes = []string{"sincerely", "yours sincerely", "yours faithfully", "warm regards", "regards"}

// SignatureSpot names the single location a signature image is embedded at.
type SignatureSpot int

const (
	// SignatureNone means no signature asset was supplied.
	SignatureNone SignatureSpot = iota
	// SignatureInline replaces the paragraph holding the signer placeholder.
	SignatureInline
	// SignatureAfterSignOff places the image after the detected sign-off line.
	SignatureAfterSignOff
	// SignatureAppend adds the image after the last paragraph.
	SignatureAppend
)

// Paragraph is one block of substituted letter text. Heading marks blocks
// renderers should set as titles.
type Paragraph struct {
	Text    string
	Heading bool
}

// Prepared is the substitution result every renderer consumes. Renderers
// add structure around it but never change its text, which is what keeps
// output parity across encodings.
type Prepared struct {
	Title       string
	HeaderLines []string
	Paragraphs  []Paragraph
	Signature   []byte
	Spot        SignatureSpot
	SpotIndex   int
	Substituted string
}

// Prepare runs the shared substitution step and the placement decisions all
// renderers agree on: branding header lines, paragraph classification, and
// exactly one signature location chosen in priority order.
func Prepare(job Job) Prepared {
	prepared := Prepared{
		Title:     job.Template.Name,
		Signature: job.Signature,
		Spot:      SignatureNone,
	}

	for _, field := range brandingFields {
		value := strings.TrimSpace(job.Values[field])
		if value == "" || strings.EqualFold(value, letter.SkipSentinel) {
			continue
		}
		prepared.HeaderLines = append(prepared.HeaderLines, value)
	}

	prepared.Substituted = substitute.Apply(job.SourceText, job.Values)

	// Paragraphs are substituted one raw block at a time so the signer
	// anchor tracks the surviving index: a block emptied by skipped
	// placeholders must not shift the signature onto a later paragraph.
	signerAnchor := -1
	for _, rawText := range splitParagraphs(job.SourceText) {
		text := strings.TrimSpace(substitute.Apply(rawText, job.Values))
		hasSigner := substitute.References(rawText, signerFields...)
		if text == "" {
			if hasSigner && signerAnchor < 0 && len(prepared.Paragraphs) > 0 {
				signerAnchor = len(prepared.Paragraphs) - 1
			}
			continue
		}
		if hasSigner && signerAnchor < 0 {
			signerAnchor = len(prepared.Paragraphs)
		}
		prepared.Paragraphs = append(prepared.Paragraphs, Paragraph{
			Text:    text,
			Heading: isHeading(text),
		})
	}

	if len(job.Signature) > 0 {
		prepared.Spot, prepared.SpotIndex = placeSignature(signerAnchor, prepared.Paragraphs)
	}

	return prepared
}

// placeSignature picks the first matching location: the signer-placeholder
// anchor found while assembling paragraphs, then the sign-off line, then
// the end of the document.
func placeSignature(signerAnchor int, substituted []Paragraph) (SignatureSpot, int) {
	if signerAnchor >= 0 {
		return SignatureInline, signerAnchor
	}
	for i, paragraph := range substituted {
		lowered := strings.ToLower(strings.TrimSpace(paragraph.Text))
		for _, prefix := range signOffPrefixes {
			if strings.HasPrefix(lowered, prefix) {
				return SignatureAfterSignOff, i
			}
		}
	}
	return SignatureAppend, len(substituted) - 1
}

func splitParagraphs(text string) []string {
	var out []string
	for _, block := range strings.Split(text, "\n\n") {
		trimmed := strings.TrimSpace(block)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

// isHeading mirrors the classification every renderer shares: an all-caps
// block or a block naming the letter itself is set as a title.
func isHeading(text string) bool {
	if strings.ContainsRune(text, '\n') {
		return false
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if strings.HasSuffix(trimmed, "Letter") {
		return true
	}
	hasLetter := false
	for _, r := range trimmed {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}
