package lint

import "sort"

// Report is the externally observable result of a run.
//
// Counts only holds rules that fired; absence means zero. Effective lists
// the rules actually evaluated and Skipped the selected rules that could not
// be evaluated (for example an external tool that is not installed).
type Report struct {
	Counts    map[string]int `json:"counts"`
	Total     int            `json:"total"`
	Effective []string       `json:"effective"`
	Skipped   []string       `json:"skipped,omitempty"`
	Modules   int            `json:"modules"`
	Artifacts int            `json:"artifacts"`
}

// NewReport assembles a report from an accumulator snapshot.
func NewReport(stats RunStats, effective SelectionSet, skipped []string, modules, artifacts int) *Report {
	skipped = append([]string(nil), skipped...)
	sort.Strings(skipped)
	return &Report{
		Counts:    stats.Counts,
		Total:     stats.Total,
		Effective: effective.IDs(),
		Skipped:   skipped,
		Modules:   modules,
		Artifacts: artifacts,
	}
}

// Count returns the number of violations for a rule.
func (r *Report) Count(id string) int {
	return r.Counts[id]
}

// Fired returns the ids that fired at least once, sorted.
func (r *Report) Fired() []string {
	ids := make([]string, 0, len(r.Counts))
	for id, n := range r.Counts {
		if n > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Evaluated reports whether id was part of the effective rule set.
func (r *Report) Evaluated(id string) bool {
	i := sort.SearchStrings(r.Effective, id)
	return i < len(r.Effective) && r.Effective[i] == id
}

// Failed reports whether any violation was recorded.
func (r *Report) Failed() bool {
	return r.Total > 0
}
