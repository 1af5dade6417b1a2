package preview

import (
	"context"
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
			"contact_info":  "hr@meridian.example",
		},
	}
}

func TestRenderProducesDocumentWithBranding(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out, err := r.Render(context.Background(), testJob())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	text := string(out)
	if !strings.Contains(text, `<div class="company-name">Meridian Logistics</div>`) {
		t.Errorf("missing company name header:\n%s", text)
	}
	if !strings.Contains(text, `<div class="company-info">hr@meridian.example</div>`) {
		t.Errorf("missing secondary header line:\n%s", text)
	}
	if !strings.Contains(text, "Dear Asha Rao,") {
		t.Errorf("salutation not substituted:\n%s", text)
	}
	if !strings.Contains(text, "<h2>OFFER LETTER</h2>") {
		t.Errorf("heading not promoted:\n%s", text)
	}
}

func TestRenderEscapesValueMarkup(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	job := testJob()
	job.Values["employee_name"] = `<script>alert("x")</script>`

	out, err := r.Render(context.Background(), job)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), "<script>") {
		t.Fatalf("markup injected through a field value:\n%s", out)
	}
}

func TestRenderEmbedsSignatureAsDataURI(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	job := testJob()
	job.Signature = []byte{0x89, 'P', 'N', 'G'}

	out, err := r.Render(context.Background(), job)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `src="data:image/png;base64,`) {
		t.Fatalf("expected inline signature image:\n%s", out)
	}
}

func TestRenderWithoutSignatureHasNoImage(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out, err := r.Render(context.Background(), testJob())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), "<img") {
		t.Fatal("image present without a signature")
	}
}
