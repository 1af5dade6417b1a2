package render_test

import (
	"context"
	"html"
	"regexp"
	"strings"
	"testing"

	"github.com/goliatone/go-lettergen/pkg/letter"
	"github.com/goliatone/go-lettergen/pkg/render"
	"github.com/goliatone/go-lettergen/pkg/renderers/preview"
	"github.com/goliatone/go-lettergen/pkg/renderers/print"
	"github.com/goliatone/go-lettergen/pkg/renderers/rtf"
)

// Render parity: given identical inputs, the textual content of every
// renderer's output is identical once structural markup is stripped.

var (
	htmlStyleRe   = regexp.MustCompile(`(?s)<style.*?</style>`)
	htmlTagRe     = regexp.MustCompile(`<[^>]+>`)
	rtfPictRe     = regexp.MustCompile(`\{\\pict[^}]*\}`)
	rtfHeaderRe   = regexp.MustCompile(`(?m)^\{\\rtf1.*$`)
	rtfControlRe  = regexp.MustCompile(`\\[a-z]+-?[0-9]*[ ]?`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
	printSigRe    = regexp.MustCompile(`(?m)^-- signature --\n[A-Za-z0-9+/=]*\n`)
	printDashesRe = regexp.MustCompile(`(?m)^\s*-+\s*$`)
)

func normalizePrint(out string) string {
	s := strings.ReplaceAll(out, "\f", "\n")
	s = printSigRe.ReplaceAllString(s, "")
	s = printDashesRe.ReplaceAllString(s, "")
	return collapse(s)
}

func normalizeRTF(out string) string {
	s := rtfHeaderRe.ReplaceAllString(out, "")
	s = rtfPictRe.ReplaceAllString(s, "")
	s = rtfControlRe.ReplaceAllString(s, " ")
	s = strings.NewReplacer("{", "", "}", "", `\`, "").Replace(s)
	return collapse(s)
}

func normalizeHTML(out string) string {
	s := htmlStyleRe.ReplaceAllString(out, "")
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return collapse(s)
}

func collapse(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

func parityJob(signature []byte) render.Job {
	return render.Job{
		Template: letter.Template{
			ID:   "tpl-offer",
			Name: "Offer Letter",
			RequiredFields: []string{
				"employee_name", "designation", "joining_date", "salary",
			},
		},
		SourceText: `OFFER LETTER

Dear [Employee Name],

We are pleased to offer you the position of [Designation] starting
[Date of Joining] at an annual compensation of [CTC].

Sincerely,
The HR Team`,
		Values: map[string]string{
			"employee_name": "Asha Rao",
			"designation":   "Staff Engineer",
			"joining_date":  "2024-12-01",
			"salary":        "1200000",
			"company_name":  "Meridian Logistics",
			"contact_info":  "hr at meridian dot example",
		},
		Signature: signature,
	}
}

func TestRenderParityAcrossEncodings(t *testing.T) {
	previewRenderer, err := preview.New()
	if err != nil {
		t.Fatalf("preview.New: %v", err)
	}
	printRenderer := print.New()
	rtfRenderer := rtf.New()

	for _, tc := range []struct {
		name      string
		signature []byte
	}{
		{"without signature", nil},
		{"with signature", []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			job := parityJob(tc.signature)
			ctx := context.Background()

			printOut, err := printRenderer.Render(ctx, job)
			if err != nil {
				t.Fatalf("print render: %v", err)
			}
			rtfOut, err := rtfRenderer.Render(ctx, job)
			if err != nil {
				t.Fatalf("rtf render: %v", err)
			}
			htmlOut, err := previewRenderer.Render(ctx, job)
			if err != nil {
				t.Fatalf("preview render: %v", err)
			}

			printText := normalizePrint(string(printOut))
			rtfText := normalizeRTF(string(rtfOut))
			htmlText := normalizeHTML(string(htmlOut))

			if printText != rtfText {
				t.Errorf("print/document text diverged:\nprint: %s\nrtf:   %s", printText, rtfText)
			}
			if printText != htmlText {
				t.Errorf("print/preview text diverged:\nprint: %s\nhtml:  %s", printText, htmlText)
			}
		})
	}
}
