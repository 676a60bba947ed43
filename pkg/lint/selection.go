package lint

import (
	"fmt"
	"sort"
	"strings"
)

// AllMarker is the wildcard selecting every registered rule.
const AllMarker = "all"

// RuleSet is one side of a selection: either the wildcard or a list of
// rule ids and group names.
type RuleSet struct {
	All     bool
	Entries []string
}

// AllRules returns the wildcard rule set.
func AllRules() RuleSet {
	return RuleSet{All: true}
}

// RuleIDs returns a rule set naming the given ids or groups.
func RuleIDs(entries ...string) RuleSet {
	return RuleSet{Entries: entries}
}

// ParseRuleSet builds a RuleSet from user input. Entries may be comma
// separated; "all" anywhere selects the wildcard.
func ParseRuleSet(values []string) (RuleSet, error) {
	var set RuleSet
	for _, value := range values {
		for _, entry := range strings.Split(value, ",") {
			entry = strings.TrimSpace(entry)
			if err := validateEntry(entry); err != nil {
				return RuleSet{}, err
			}
			if entry == AllMarker {
				set.All = true
				continue
			}
			set.Entries = append(set.Entries, entry)
		}
	}
	return set, nil
}

// IsEmpty reports whether the set selects nothing.
func (s RuleSet) IsEmpty() bool {
	return !s.All && len(s.Entries) == 0
}

func (s RuleSet) validate() error {
	for _, entry := range s.Entries {
		if err := validateEntry(entry); err != nil {
			return err
		}
	}
	return nil
}

func validateEntry(entry string) error {
	if entry == "" {
		return fmt.Errorf("%w: empty entry", ErrInvalidSelection)
	}
	if !ruleIDPattern.MatchString(entry) {
		return fmt.Errorf("%w: %q is not a rule id or group", ErrInvalidSelection, entry)
	}
	return nil
}

// Selection pairs the enable and disable specifications of a run.
// Enable is applied first; disable always wins.
type Selection struct {
	Enable  RuleSet
	Disable RuleSet
}

// SelectionSet is the resolved, read-only set of rule ids for a run.
type SelectionSet struct {
	ids     map[string]struct{}
	unknown []string
}

// Resolve computes the effective rule set for sel.
//
// Enable seeds the set (every registered id for the wildcard, otherwise the
// listed ids and the members of listed groups). Disable then removes ids; a
// disable wildcard empties the set. Entries naming neither a registered id
// nor a group are ignored and reported by Unknown.
func (r *Registry) Resolve(sel Selection) (SelectionSet, error) {
	if err := sel.Enable.validate(); err != nil {
		return SelectionSet{}, fmt.Errorf("enable: %w", err)
	}
	if err := sel.Disable.validate(); err != nil {
		return SelectionSet{}, fmt.Errorf("disable: %w", err)
	}

	r.seal()

	set := SelectionSet{ids: make(map[string]struct{})}
	if sel.Disable.All {
		return set, nil
	}

	if sel.Enable.All {
		for _, id := range r.AllIDs() {
			set.ids[id] = struct{}{}
		}
	} else {
		for _, entry := range sel.Enable.Entries {
			ids, ok := r.expand(entry)
			if !ok {
				set.unknown = append(set.unknown, entry)
				continue
			}
			for _, id := range ids {
				set.ids[id] = struct{}{}
			}
		}
	}

	for _, entry := range sel.Disable.Entries {
		ids, ok := r.expand(entry)
		if !ok {
			set.unknown = append(set.unknown, entry)
			continue
		}
		for _, id := range ids {
			delete(set.ids, id)
		}
	}

	sort.Strings(set.unknown)
	return set, nil
}

// expand maps an entry to rule ids. A registered id wins over a group of
// the same name.
func (r *Registry) expand(entry string) ([]string, bool) {
	if _, ok := r.Get(entry); ok {
		return []string{entry}, true
	}
	return r.Group(entry)
}

// Has reports whether id is in the set.
func (s SelectionSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected rules.
func (s SelectionSet) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids, sorted.
func (s SelectionSet) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Intersect returns the members of candidates that are in the set,
// preserving their order.
func (s SelectionSet) Intersect(candidates []string) []string {
	var out []string
	for _, id := range candidates {
		if s.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

// Without returns a copy of the set with ids removed.
func (s SelectionSet) Without(ids ...string) SelectionSet {
	out := SelectionSet{ids: make(map[string]struct{}, len(s.ids)), unknown: s.unknown}
	for id := range s.ids {
		out.ids[id] = struct{}{}
	}
	for _, id := range ids {
		delete(out.ids, id)
	}
	return out
}

// Unknown returns entries that matched no rule or group.
func (s SelectionSet) Unknown() []string {
	return append([]string(nil), s.unknown...)
}
