package evolution

import "github.com/cory-johannsen/critter/internal/game/creature"

// Form is the named, described, stat-modified result of a (kind, stage, path) combination.
type Form struct {
	ID          string
	Kind        creature.Kind
	Stage       creature.GrowthStage
	Path        creature.EvolutionPath
	Name        string
	Description string
	Modifiers   StatModifiers
}

type cell struct {
	kind  creature.Kind
	stage creature.GrowthStage
	path  creature.EvolutionPath
}

// Table is a read-only lookup of evolution forms built once at startup.
// It is safe for concurrent use because it is never mutated after construction.
type Table struct {
	forms   map[cell]Form
	order   []cell
	catalog Catalog
}

// NewTable generates every kind × stage × path form from cat.
//
// Postcondition: len(t.Forms()) == len(Kinds) * len(Stages) * len(Paths).
func NewTable(cat Catalog) *Table {
	t := &Table{forms: make(map[cell]Form), catalog: cat}
	for _, k := range creature.Kinds {
		for _, s := range creature.Stages {
			for _, p := range creature.Paths {
				t.put(buildForm(cat, k, s, p))
			}
		}
	}
	return t
}

// NewTableFrom builds a table holding only the given forms. Missing cells are
// synthesised on lookup, so a reduced table is always usable.
func NewTableFrom(forms ...Form) *Table {
	t := &Table{forms: make(map[cell]Form)}
	for _, f := range forms {
		t.put(f)
	}
	return t
}

// DefaultTable builds the full table from the embedded catalog.
func DefaultTable() *Table {
	return NewTable(DefaultCatalog())
}

func (t *Table) put(f Form) {
	key := cell{f.Kind, f.Stage, f.Path}
	if _, exists := t.forms[key]; !exists {
		t.order = append(t.order, key)
	}
	t.forms[key] = f
}

func buildForm(cat Catalog, k creature.Kind, s creature.GrowthStage, p creature.EvolutionPath) Form {
	name, desc := cat.text(k, s, p)
	return Form{
		ID:          creature.FormID(k, s, p),
		Kind:        k,
		Stage:       s,
		Path:        p,
		Name:        name,
		Description: desc,
		Modifiers:   CalculateModifiers(k, s, p),
	}
}

// Lookup returns the form for (k, s, p). A cell absent from the table is
// regenerated from CalculateModifiers rather than reported as an error.
func (t *Table) Lookup(k creature.Kind, s creature.GrowthStage, p creature.EvolutionPath) Form {
	if f, ok := t.forms[cell{k, s, p}]; ok {
		return f
	}
	return buildForm(t.catalog, k, s, p)
}

// ByID returns the form with the given identifier.
func (t *Table) ByID(id string) (Form, bool) {
	for _, key := range t.order {
		if f := t.forms[key]; f.ID == id {
			return f, true
		}
	}
	return Form{}, false
}

// Forms returns every stored form in generation order.
func (t *Table) Forms() []Form {
	out := make([]Form, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, t.forms[key])
	}
	return out
}
