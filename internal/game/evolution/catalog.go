package evolution

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/critter/internal/game/creature"
)

//go:embed forms.yaml
var defaultFormsYAML []byte

// StageText is the display text of one (kind, stage) cell.
type StageText struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// PathText is the display text contributed by an evolution path.
type PathText struct {
	Epithet     string `yaml:"epithet"`
	Description string `yaml:"description"`
}

// Catalog is the display metadata for every evolution form, keyed by enum token.
type Catalog struct {
	Kinds map[string]map[string]StageText `yaml:"kinds"`
	Paths map[string]PathText             `yaml:"paths"`
}

// LoadCatalog decodes a YAML catalog and checks that every (kind, stage) and
// every path has an entry.
//
// Postcondition: Returns a complete Catalog, or an error naming the first problem.
func LoadCatalog(r io.Reader) (Catalog, error) {
	var cat Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cat); err != nil {
		return Catalog{}, fmt.Errorf("parsing form catalog: %w", err)
	}
	if err := cat.validate(); err != nil {
		return Catalog{}, err
	}
	return cat, nil
}

// DefaultCatalog returns the catalog embedded in the binary.
//
// Postcondition: Panics if the embedded catalog is malformed.
func DefaultCatalog() Catalog {
	cat, err := LoadCatalog(bytes.NewReader(defaultFormsYAML))
	if err != nil {
		panic("evolution: embedded form catalog is invalid: " + err.Error())
	}
	return cat
}

func (c Catalog) validate() error {
	var errs []string
	for _, k := range creature.Kinds {
		stages, ok := c.Kinds[k.String()]
		if !ok {
			errs = append(errs, fmt.Sprintf("kind %s missing", k))
			continue
		}
		for _, s := range creature.Stages {
			if t, ok := stages[s.String()]; !ok || t.Name == "" {
				errs = append(errs, fmt.Sprintf("kind %s stage %s missing a name", k, s))
			}
		}
	}
	for _, p := range creature.Paths {
		if _, ok := c.Paths[p.String()]; !ok {
			errs = append(errs, fmt.Sprintf("path %s missing", p))
		}
	}
	if len(errs) > 0 {
		return errors.New("form catalog incomplete: " + strings.Join(errs, "; "))
	}
	return nil
}

// text renders the display name and description for one cell.
func (c Catalog) text(k creature.Kind, s creature.GrowthStage, p creature.EvolutionPath) (string, string) {
	base, ok := c.Kinds[k.String()][s.String()]
	if !ok {
		return creature.FormID(k, s, p), ""
	}
	pt := c.Paths[p.String()]

	name := base.Name
	if pt.Epithet != "" {
		name = pt.Epithet + " " + name
	}
	desc := base.Description
	if pt.Description != "" {
		desc = strings.TrimSpace(desc + " " + pt.Description)
	}
	return name, desc
}
