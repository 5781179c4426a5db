// Package catalog holds the static table of well-known applications:
// curated display names and icon URLs keyed by base package name.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embedded []byte

// App is one entry of the catalog.
type App struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"display_name"`
	Icon        string `yaml:"icon"`
}

type document struct {
	Apps []App `yaml:"apps"`
}

// Catalog is an immutable lookup table. Safe for concurrent use.
type Catalog struct {
	apps map[string]App
}

// Parse loads a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{apps: make(map[string]App, len(doc.Apps))}
	for i, app := range doc.Apps {
		name := strings.ToLower(strings.TrimSpace(app.Name))
		if name == "" {
			return nil, fmt.Errorf("catalog entry %d: %w", i, errors.New("name is required"))
		}
		if _, dup := c.apps[name]; dup {
			return nil, fmt.Errorf("catalog entry %d: duplicate name %q", i, name)
		}
		app.Name = name
		c.apps[name] = app
	}
	return c, nil
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the catalog compiled into the binary. It is parsed once.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(embedded)
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded table is invalid: %v", err))
		}
		defaultCat = c
	})
	return defaultCat
}

// DisplayName returns the curated display name for a base package name.
func (c *Catalog) DisplayName(name string) (string, bool) {
	app, ok := c.apps[strings.ToLower(name)]
	if !ok || app.DisplayName == "" {
		return "", false
	}
	return app.DisplayName, true
}

// Icon returns the icon URL for a base package name, or "".
func (c *Catalog) Icon(name string) string {
	return c.apps[strings.ToLower(name)].Icon
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.apps)
}
