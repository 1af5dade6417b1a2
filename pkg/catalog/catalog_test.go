package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-lettergen/pkg/extractor"
)

func defaultCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Default()
	if err != nil {
		t.Fatalf("load embedded catalog: %v", err)
	}
	return c
}

func TestDefaultCatalogListsActiveTemplates(t *testing.T) {
	c := defaultCatalog(t)

	list := c.List()
	if len(list) < 6 {
		t.Fatalf("expected the six shipped templates, got %d", len(list))
	}
	for _, tpl := range list {
		if !tpl.Active {
			t.Errorf("List returned inactive template %s", tpl.ID)
		}
		if tpl.SourceReference == "" {
			t.Errorf("template %s has no source reference", tpl.ID)
		}
	}
}

func TestGet(t *testing.T) {
	c := defaultCatalog(t)

	tpl, err := c.Get("tpl-offer")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if tpl.Name != "Offer Letter" {
		t.Fatalf("unexpected template: %+v", tpl)
	}

	_, err = c.Get("tpl-nope")
	if !errors.Is(err, ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate, got %v", err)
	}
}

func TestResolveNameExactBeforeSubstring(t *testing.T) {
	c := defaultCatalog(t)

	tpl, err := c.ResolveName("offer letter")
	if err != nil {
		t.Fatalf("exact resolve: %v", err)
	}
	if tpl.ID != "tpl-offer" {
		t.Fatalf("expected offer template, got %s", tpl.ID)
	}

	tpl, err = c.ResolveName("relieving")
	if err != nil {
		t.Fatalf("substring resolve: %v", err)
	}
	if tpl.ID != "tpl-relieving" {
		t.Fatalf("expected relieving template, got %s", tpl.ID)
	}

	// "Letter" alone matches several; the first manifest entry wins.
	tpl, err = c.ResolveName("letter")
	if err != nil {
		t.Fatalf("ambiguous resolve: %v", err)
	}
	if tpl.ID != "tpl-offer" {
		t.Fatalf("first-match-wins violated, got %s", tpl.ID)
	}

	if _, err := c.ResolveName("payslip"); !errors.Is(err, ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate, got %v", err)
	}
}

func TestSourceMatchesDeclaredFields(t *testing.T) {
	c := defaultCatalog(t)

	for _, tpl := range c.List() {
		source, err := c.Source(tpl)
		if err != nil {
			t.Fatalf("source for %s: %v", tpl.ID, err)
		}
		if !strings.Contains(source, "[") {
			t.Errorf("template %s source has no placeholders", tpl.ID)
		}

		// Every placeholder discovered in the source must be declared in
		// the manifest's required list, and vice versa.
		extracted, _ := extractor.Extract(source)
		declared := make(map[string]bool, len(tpl.RequiredFields))
		for _, name := range tpl.RequiredFields {
			declared[name] = true
		}
		for _, name := range extracted {
			if !declared[name] {
				t.Errorf("template %s: placeholder %q missing from manifest", tpl.ID, name)
			}
		}
		if len(extracted) != len(tpl.RequiredFields) {
			t.Errorf("template %s: manifest declares %d required fields, source has %d placeholders",
				tpl.ID, len(tpl.RequiredFields), len(extracted))
		}
	}
}
