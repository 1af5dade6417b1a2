package rtf

import (
	"context"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/goliatone/go-lettergen/pkg/letter"
	"github.com/goliatone/go-lettergen/pkg/render"
)

func testJob() render.Job {
	return render.Job{
		Template: letter.Template{
			ID:             "tpl-offer",
			Name:           "Offer Letter",
			RequiredFields: []string{"employee_name", "designation"},
		},
		SourceText: "OFFER LETTER\n\nDear [Employee Name],\n\nYou are hereby offered the role of [Designation].",
		Values: map[string]string{
			"employee_name": "Asha Rao",
			"designation":   "Staff Engineer",
			"company_name":  "Meridian Logistics",
		},
	}
}

func TestRenderProducesWellFormedDocument(t *testing.T) {
	out, err := New().Render(context.Background(), testJob())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	text := string(out)
	if !strings.HasPrefix(text, `{\rtf1\ansi`) {
		t.Fatalf("missing document preamble: %q", text[:20])
	}
	if strings.Count(text, "{") != strings.Count(text, "}") {
		t.Fatal("unbalanced groups in output")
	}
	if !strings.Contains(text, "Dear Asha Rao,") {
		t.Errorf("salutation not substituted:\n%s", text)
	}
}

func TestRenderEmbedsSignatureAsPicture(t *testing.T) {
	job := testJob()
	job.Signature = []byte{0x89, 'P', 'N', 'G'}

	out, err := New().Render(context.Background(), job)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := `{\pict\pngblip ` + hex.EncodeToString(job.Signature) + `}`
	if !strings.Contains(string(out), want) {
		t.Fatalf("expected picture group %q in output:\n%s", want, out)
	}
}

func TestRenderWithoutSignatureHasNoPicture(t *testing.T) {
	out, err := New().Render(context.Background(), testJob())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), `\pict`) {
		t.Fatal("picture group present without a signature")
	}
}

func TestEscape(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{`back\slash`, `back\\slash`},
		{"{group}", `\{group\}`},
		{"line\nbreak", `line\line break`},
		{"col\tumn", `col\tab umn`},
		{"naïve", `na\u239?ve`},
		{"₹50000", `\u8377?50000`},
		{"plain ascii", "plain ascii"},
	}
	for _, tc := range cases {
		if got := escape(tc.in); got != tc.want {
			t.Errorf("escape(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
