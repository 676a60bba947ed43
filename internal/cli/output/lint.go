package output

// LintOutput is the JSON document written by the lint command.
type LintOutput struct {
	Summary LintSummary      `json:"summary"`
	Counts  map[string]int   `json:"counts"`
	Files   []LintFileResult `json:"files"`
}

// LintSummary aggregates a lint run.
type LintSummary struct {
	TotalIssues   int      `json:"total_issues"`
	Errors        int      `json:"errors"`
	Warnings      int      `json:"warnings"`
	Info          int      `json:"info"`
	Hints         int      `json:"hints"`
	FilesAnalyzed int      `json:"files_analyzed"`
	FilesFailing  int      `json:"files_failing"`
	Modules       int      `json:"modules"`
	Effective     []string `json:"effective"`
	Skipped       []string `json:"skipped,omitempty"`
}

// LintFileResult groups the diagnostics of one file.
type LintFileResult struct {
	Path        string           `json:"path"`
	Diagnostics []LintDiagnostic `json:"diagnostics"`
}

// LintDiagnostic is one violation.
type LintDiagnostic struct {
	RuleID   string `json:"rule_id"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Line     int    `json:"line,omitempty"`
	Object   string `json:"object,omitempty"`
}
