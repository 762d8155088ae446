package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Source defines how a catalog is loaded at startup.
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
}

// StaticSource returns a prebuilt catalog. Useful for tests and hosts that
// compile their configuration in.
type StaticSource struct {
	Catalog *Catalog
}

func (s StaticSource) Load(_ context.Context) (*Catalog, error) {
	if s.Catalog == nil {
		return nil, ErrInvalidCatalog
	}
	return s.Catalog, nil
}

// fileSchema is the YAML shape of a catalog file.
type fileSchema struct {
	Features map[Feature]FeatureConfig `yaml:"features"`
	Trials   TrialCatalog              `yaml:"trials"`
}

// FileSource loads a catalog from a YAML file.
type FileSource struct {
	Path string
}

// Load reads and validates the catalog file. Unknown feature or tier keys
// make the file invalid: a typo in configuration should fail startup rather
// than silently gate nothing.
func (s FileSource) Load(_ context.Context) (*Catalog, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadCatalog, err)
	}

	var schema fileSchema
	if err := yaml.Unmarshal(raw, &schema); err != nil {
		return nil, errors.Join(ErrFailedToLoadCatalog, err)
	}

	for f := range schema.Features {
		if !f.Valid() {
			return nil, errors.Join(ErrInvalidCatalog, fmt.Errorf("unknown feature %q", f))
		}
	}
	for t, days := range schema.Trials.StandardDays {
		if !t.Valid() {
			return nil, errors.Join(ErrInvalidCatalog, fmt.Errorf("unknown tier %q", t))
		}
		if days <= 0 {
			return nil, errors.Join(ErrInvalidCatalog, fmt.Errorf("tier %q has non-positive trial duration %d", t, days))
		}
	}

	return New(schema.Features, schema.Trials), nil
}
