package lint

import (
	"fmt"
	"regexp"
	"sort"
	"sync"
)

// defaultRegistry is the process-wide registry rule packages register into.
var defaultRegistry = NewRegistry()

var ruleIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// Registry stores rule definitions keyed by id.
//
// Registration is append-only. The first call to Resolve seals the registry;
// later registrations fail with ErrRegistrySealed.
type Registry struct {
	mu       sync.RWMutex
	rules    map[string]RuleDef
	byFormat map[Format][]string
	groups   map[string][]string
	sealed   bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rules:    make(map[string]RuleDef),
		byFormat: make(map[Format][]string),
		groups:   make(map[string][]string),
	}
}

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a rule to the default registry and panics on error.
// Call this from init() functions in rule packages.
func Register(rule RuleDef) {
	MustRegister(defaultRegistry, rule)
}

// MustRegister adds a rule to r and panics on error.
func MustRegister(r *Registry, rule RuleDef) {
	if err := r.Register(rule); err != nil {
		panic(err)
	}
}

// Register adds a rule definition. Duplicate ids are rejected.
func (r *Registry) Register(rule RuleDef) error {
	if err := validateRule(rule); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("%w: cannot register %q", ErrRegistrySealed, rule.ID)
	}
	if _, exists := r.rules[rule.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateRule, rule.ID)
	}

	r.rules[rule.ID] = rule
	for _, f := range rule.Formats {
		r.byFormat[f] = insertSorted(r.byFormat[f], rule.ID)
	}
	if rule.Group != "" {
		r.groups[rule.Group] = insertSorted(r.groups[rule.Group], rule.ID)
	}
	return nil
}

func validateRule(rule RuleDef) error {
	if !ruleIDPattern.MatchString(rule.ID) {
		return fmt.Errorf("%w: bad id %q", ErrInvalidRule, rule.ID)
	}
	if len(rule.Formats) == 0 {
		return fmt.Errorf("%w: %q declares no formats", ErrInvalidRule, rule.ID)
	}
	for _, f := range rule.Formats {
		if !f.Valid() {
			return fmt.Errorf("%w: %q declares unknown format %q", ErrInvalidRule, rule.ID, f)
		}
	}
	switch {
	case rule.Synthetic && rule.External:
		return fmt.Errorf("%w: %q cannot be both synthetic and external", ErrInvalidRule, rule.ID)
	case rule.Synthetic || rule.External:
		if rule.Check != nil {
			return fmt.Errorf("%w: %q is engine-evaluated and must not set Check", ErrInvalidRule, rule.ID)
		}
	case rule.Check == nil:
		return fmt.Errorf("%w: %q has no check function", ErrInvalidRule, rule.ID)
	}
	return nil
}

func insertSorted(ids []string, id string) []string {
	i := sort.SearchStrings(ids, id)
	ids = append(ids, "")
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}

// Get returns a rule by its ID.
func (r *Registry) Get(id string) (RuleDef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[id]
	return rule, ok
}

// AllIDs returns every registered id, sorted.
func (r *Registry) AllIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.rules))
	for id := range r.rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IDsForFormat returns the sorted ids of rules declaring format f.
func (r *Registry) IDsForFormat(f Format) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.byFormat[f]...)
}

// Group returns the sorted member ids of a rule group.
func (r *Registry) Group(name string) ([]string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids, ok := r.groups[name]
	return append([]string(nil), ids...), ok
}

// DefaultEnabledIDs returns the sorted ids of rules enabled by default.
func (r *Registry) DefaultEnabledIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []string
	for id, rule := range r.rules {
		if rule.DefaultEnabled {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// All returns every rule definition sorted by id.
func (r *Registry) All() []RuleDef {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rules := make([]RuleDef, 0, len(r.rules))
	for _, rule := range r.rules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules
}

// Count returns the number of registered rules.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}

func (r *Registry) seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}
