// Package typetab holds the closed assistance-type table: a static mapping
// from type codes to display metadata, seeded from YAML and validated at
// load. Lookups for unknown codes degrade to a default entry rather than
// failing.
package typetab

import (
	_ "embed"
	"io"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/caseworks/directory-cli/internal/model"
	"github.com/caseworks/directory-cli/internal/rank"
)

//go:embed types.yaml
var seedYAML []byte

// DefaultEntry is returned for codes absent from the table.
var DefaultEntry = model.AssistanceType{
	Code:  "",
	Name:  "Assistance",
	Group: "other",
	Icon:  "help-circle",
}

// Table is an immutable code → metadata mapping.
type Table struct {
	entries map[string]model.AssistanceType
}

// Load decodes and validates a YAML type table. It fails on empty tables,
// blank codes or names, and duplicate codes.
func Load(r io.Reader) (*Table, error) {
	var list []model.AssistanceType
	if err := yaml.NewDecoder(r).Decode(&list); err != nil {
		return nil, eris.Wrap(err, "typetab: decode yaml")
	}
	if len(list) == 0 {
		return nil, eris.New("typetab: empty type table")
	}

	entries := make(map[string]model.AssistanceType, len(list))
	for _, at := range list {
		at.Code = strings.TrimSpace(at.Code)
		if at.Code == "" {
			return nil, eris.Errorf("typetab: entry %q has no code", at.Name)
		}
		if strings.TrimSpace(at.Name) == "" {
			return nil, eris.Errorf("typetab: code %s has no name", at.Code)
		}
		if _, dup := entries[at.Code]; dup {
			return nil, eris.Errorf("typetab: duplicate code %s", at.Code)
		}
		if at.Group == "" {
			at.Group = DefaultEntry.Group
		}
		entries[at.Code] = at
	}
	return &Table{entries: entries}, nil
}

// Builtin returns the table baked into the binary. The embedded seed is
// validated by tests, so failure here is a build defect.
func Builtin() *Table {
	t, err := Load(strings.NewReader(string(seedYAML)))
	if err != nil {
		panic(err)
	}
	return t
}

// Get looks up a type code, falling back to DefaultEntry (with the queried
// code filled in) for anything unknown.
func (t *Table) Get(code string) model.AssistanceType {
	if at, ok := t.entries[strings.TrimSpace(code)]; ok {
		return at
	}
	at := DefaultEntry
	at.Code = strings.TrimSpace(code)
	return at
}

// Has reports whether the code is present in the table.
func (t *Table) Has(code string) bool {
	_, ok := t.entries[strings.TrimSpace(code)]
	return ok
}

// All returns every entry ordered by numeric code, non-numeric codes last.
func (t *Table) All() []model.AssistanceType {
	out := make([]model.AssistanceType, 0, len(t.entries))
	for _, at := range t.entries {
		out = append(out, at)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := rank.TypeRank(out[i].Code), rank.TypeRank(out[j].Code)
		if ri != rj {
			return ri < rj
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.entries) }
