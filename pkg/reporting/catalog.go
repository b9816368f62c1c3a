// Package reporting serves the read-only analytical queries over the
// warehouse. The queries themselves live in an embedded YAML catalog so the
// SQL stays reviewable as SQL.
package reporting

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed queries.yaml
var catalogYAML []byte

// Query is one parameterized warehouse query.
type Query struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Params      []string `yaml:"params"`
	SQL         string   `yaml:"sql"`
}

// Catalog is the set of available report queries.
type Catalog struct {
	Queries []Query `yaml:"queries"`

	byName map[string]Query
}

// LoadCatalog parses the embedded query catalog.
func LoadCatalog() (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(catalogYAML, &c); err != nil {
		return nil, fmt.Errorf("failed to parse query catalog: %w", err)
	}

	c.byName = make(map[string]Query, len(c.Queries))
	for _, q := range c.Queries {
		if q.Name == "" || q.SQL == "" {
			return nil, fmt.Errorf("catalog entry missing name or sql: %+v", q)
		}
		if _, dup := c.byName[q.Name]; dup {
			return nil, fmt.Errorf("duplicate catalog entry %q", q.Name)
		}
		c.byName[q.Name] = q
	}
	return &c, nil
}

// Get returns the named query.
func (c *Catalog) Get(name string) (Query, bool) {
	q, ok := c.byName[name]
	return q, ok
}
