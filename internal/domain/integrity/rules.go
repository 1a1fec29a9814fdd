// Package integrity holds the referential rule table of the platform. The table
// is data: deletion code walks it instead of hard-coding which children follow
// a parent.
package integrity

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

type Action string

const (
	Cascade  Action = "cascade"
	SetNull  Action = "set_null"
	Restrict Action = "restrict"
)

func (a Action) Valid() bool {
	return a == Cascade || a == SetNull || a == Restrict
}

// Rule says what happens to Child rows whose ForeignKey points at a deleted Parent row.
type Rule struct {
	Parent     string `yaml:"-"`
	Child      string `yaml:"child"`
	ForeignKey string `yaml:"foreign_key"`
	Action     Action `yaml:"action"`
}

func (r Rule) String() string {
	return fmt.Sprintf("%s -> %s.%s (%s)", r.Parent, r.Child, r.ForeignKey, r.Action)
}

type Entity struct {
	Name string `yaml:"-"`
	// RecomputeProgressVia names the column holding the course whose enrollment
	// progress must be recomputed after rows of this entity are deleted. With
	// RecomputeProgressThrough set, the column is read from the hop entity.
	RecomputeProgressVia     string `yaml:"recompute_progress_via"`
	RecomputeProgressThrough *Hop   `yaml:"recompute_progress_through"`
}

// Hop follows ForeignKey of the deleted rows to the Entity row it references.
type Hop struct {
	Entity     string `yaml:"entity"`
	ForeignKey string `yaml:"foreign_key"`
}

type Table struct {
	entities map[string]Entity
	rules    map[string][]Rule
}

type rawTable struct {
	Entities map[string]Entity `yaml:"entities"`
	Rules    map[string][]Rule `yaml:"rules"`
}

var identRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

//go:embed rules.yaml
var defaultRules []byte

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// Default returns the embedded platform rule table.
func Default() (*Table, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = Parse(defaultRules)
	})
	return defaultTable, defaultErr
}

// Parse decodes and validates a rule table.
func Parse(raw []byte) (*Table, error) {
	var rt rawTable
	if err := yaml.Unmarshal(raw, &rt); err != nil {
		return nil, fmt.Errorf("integrity: decode rules: %w", err)
	}
	if len(rt.Entities) == 0 {
		return nil, fmt.Errorf("integrity: no entities declared")
	}
	t := &Table{
		entities: make(map[string]Entity, len(rt.Entities)),
		rules:    make(map[string][]Rule, len(rt.Rules)),
	}
	for name, e := range rt.Entities {
		if !identRe.MatchString(name) {
			return nil, fmt.Errorf("integrity: invalid entity name %q", name)
		}
		if e.RecomputeProgressVia != "" && !identRe.MatchString(e.RecomputeProgressVia) {
			return nil, fmt.Errorf("integrity: entity %s: invalid column %q", name, e.RecomputeProgressVia)
		}
		e.Name = name
		t.entities[name] = e
	}
	for parent, rules := range rt.Rules {
		if _, ok := t.entities[parent]; !ok {
			return nil, fmt.Errorf("integrity: rules for undeclared entity %q", parent)
		}
		seen := map[string]bool{}
		for i := range rules {
			r := rules[i]
			r.Parent = parent
			if _, ok := t.entities[r.Child]; !ok {
				return nil, fmt.Errorf("integrity: %s: undeclared child %q", parent, r.Child)
			}
			if !identRe.MatchString(r.ForeignKey) {
				return nil, fmt.Errorf("integrity: %s: invalid foreign key %q", parent, r.ForeignKey)
			}
			if !r.Action.Valid() {
				return nil, fmt.Errorf("integrity: %s: unknown action %q", r, r.Action)
			}
			key := r.Child + "." + r.ForeignKey
			if seen[key] {
				return nil, fmt.Errorf("integrity: %s: duplicate rule for %s", parent, key)
			}
			seen[key] = true
			t.rules[parent] = append(t.rules[parent], r)
		}
	}
	for _, name := range t.Entities() {
		if err := t.checkHop(t.entities[name]); err != nil {
			return nil, err
		}
	}
	if err := t.checkCascadeCycles(); err != nil {
		return nil, err
	}
	return t, nil
}

// checkHop requires a recompute hop to follow a declared rule, so the rows it
// joins against still exist while their children are processed.
func (t *Table) checkHop(e Entity) error {
	hop := e.RecomputeProgressThrough
	if hop == nil {
		return nil
	}
	if e.RecomputeProgressVia == "" {
		return fmt.Errorf("integrity: entity %s: recompute hop without recompute_progress_via", e.Name)
	}
	if _, ok := t.entities[hop.Entity]; !ok {
		return fmt.Errorf("integrity: entity %s: hop to undeclared entity %q", e.Name, hop.Entity)
	}
	if !identRe.MatchString(hop.ForeignKey) {
		return fmt.Errorf("integrity: entity %s: invalid hop foreign key %q", e.Name, hop.ForeignKey)
	}
	for _, r := range t.Referencing(e.Name) {
		if r.Parent == hop.Entity && r.ForeignKey == hop.ForeignKey {
			return nil
		}
	}
	return fmt.Errorf("integrity: entity %s: no rule %s -> %s.%s backs the recompute hop", e.Name, hop.Entity, e.Name, hop.ForeignKey)
}

func (t *Table) checkCascadeCycles() error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := map[string]int{}
	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch state[name] {
		case visiting:
			return fmt.Errorf("integrity: cascade cycle %s", strings.Join(append(path, name), " -> "))
		case done:
			return nil
		}
		state[name] = visiting
		for _, r := range t.rules[name] {
			if r.Action != Cascade {
				continue
			}
			if err := visit(r.Child, append(path, name)); err != nil {
				return err
			}
		}
		state[name] = done
		return nil
	}
	for _, name := range t.Entities() {
		if err := visit(name, nil); err != nil {
			return err
		}
	}
	return nil
}

// Entity returns the declaration for name.
func (t *Table) Entity(name string) (Entity, bool) {
	e, ok := t.entities[strings.TrimSpace(name)]
	return e, ok
}

// Entities returns declared entity names in sorted order.
func (t *Table) Entities() []string {
	out := make([]string, 0, len(t.entities))
	for name := range t.entities {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ChildRules returns the rules applied when a parent row is deleted, in declared order.
func (t *Table) ChildRules(parent string) []Rule {
	rules := t.rules[strings.TrimSpace(parent)]
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Referencing returns every rule whose child is the given entity.
func (t *Table) Referencing(child string) []Rule {
	var out []Rule
	for _, parent := range t.Entities() {
		for _, r := range t.rules[parent] {
			if r.Child == child {
				out = append(out, r)
			}
		}
	}
	return out
}
