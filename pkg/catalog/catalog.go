// Package catalog is the read-only template repository: published letter
// templates plus their raw source text. A default catalog ships embedded;
// deployments can point Load at their own directory tree instead.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-lettergen/pkg/letter"
)

// ErrUnknownTemplate reports a template id or name with no match.
var ErrUnknownTemplate = errors.New("catalog: unknown template")

// Catalog resolves template metadata and source text. It is immutable
// after Load and safe for concurrent readers.
type Catalog struct {
	templates []letter.Template
	byID      map[string]int
	fsys      fs.FS
}

type manifest struct {
	Templates []letter.Template `yaml:"templates"`
}

// Load reads catalog.yaml from the root of fsys; source references inside
// it resolve against the same tree.
func Load(fsys fs.FS) (*Catalog, error) {
	raw, err := fs.ReadFile(fsys, "catalog.yaml")
	if err != nil {
		return nil, fmt.Errorf("catalog: read manifest: %w", err)
	}

	var m manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("catalog: parse manifest: %w", err)
	}
	if len(m.Templates) == 0 {
		return nil, errors.New("catalog: manifest lists no templates")
	}

	c := &Catalog{
		templates: m.Templates,
		byID:      make(map[string]int, len(m.Templates)),
		fsys:      fsys,
	}
	for i, t := range m.Templates {
		if t.ID == "" {
			return nil, fmt.Errorf("catalog: template %q has no id", t.Name)
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate template id %s", t.ID)
		}
		c.byID[t.ID] = i
	}
	return c, nil
}

// Default loads the embedded catalog.
func Default() (*Catalog, error) {
	return Load(embeddedFS)
}

// Get returns the template with the given id.
func (c *Catalog) Get(id string) (letter.Template, error) {
	i, ok := c.byID[id]
	if !ok {
		return letter.Template{}, fmt.Errorf("%w: %s", ErrUnknownTemplate, id)
	}
	return c.templates[i], nil
}

// List returns the active templates in manifest order.
func (c *Catalog) List() []letter.Template {
	out := make([]letter.Template, 0, len(c.templates))
	for _, t := range c.templates {
		if t.Active {
			out = append(out, t)
		}
	}
	return out
}

// ResolveName finds a template by display name. The strategies run in
// order, first match wins: exact case-insensitive name, then substring.
func (c *Catalog) ResolveName(name string) (letter.Template, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return letter.Template{}, fmt.Errorf("%w: empty name", ErrUnknownTemplate)
	}

	for _, t := range c.templates {
		if t.Active && strings.ToLower(t.Name) == needle {
			return t, nil
		}
	}
	for _, t := range c.templates {
		if t.Active && strings.Contains(strings.ToLower(t.Name), needle) {
			return t, nil
		}
	}
	return letter.Template{}, fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
}

// Source returns the raw template text for a template's source reference.
func (c *Catalog) Source(t letter.Template) (string, error) {
	if t.SourceReference == "" {
		return "", fmt.Errorf("catalog: template %s has no source reference", t.ID)
	}
	raw, err := fs.ReadFile(c.fsys, t.SourceReference)
	if err != nil {
		return "", fmt.Errorf("catalog: read source %s: %w", t.SourceReference, err)
	}
	return string(raw), nil
}
