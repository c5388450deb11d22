package cleanup

import (
	"time"

	"github.com/google/uuid"
)

// Result is the outcome of cleaning one namespace. It is produced once per
// run and never persisted; the cluster API remains the only source of
// truth.
type Result struct {
	Namespace       string   `json:"namespace" yaml:"namespace"`
	GroupsInspected int      `json:"groupsInspected" yaml:"groupsInspected"`
	DuplicatesFound int      `json:"duplicatesFound" yaml:"duplicatesFound"`
	Deleted         int      `json:"deleted" yaml:"deleted"`
	Errors          []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Errored reports whether any listing or deletion error was recorded for
// the namespace.
func (r Result) Errored() bool {
	return len(r.Errors) > 0
}

// Report is the aggregate outcome of a cleanup run across all configured
// namespaces.
type Report struct {
	RunID      string    `json:"runId" yaml:"runId"`
	StartedAt  time.Time `json:"startedAt" yaml:"startedAt"`
	FinishedAt time.Time `json:"finishedAt" yaml:"finishedAt"`

	// Skipped is set when the cluster was unreachable and cleanup degraded
	// to a no-op. A skipped report is a success from the caller's point of
	// view; pod cleanup is best-effort and subordinate to instance control.
	Skipped    bool   `json:"skipped" yaml:"skipped"`
	SkipReason string `json:"skipReason,omitempty" yaml:"skipReason,omitempty"`

	Results []Result `json:"results,omitempty" yaml:"results,omitempty"`
}

// NewReport stamps a fresh report with a run ID and start time.
func NewReport() *Report {
	return &Report{
		RunID:     uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}
}

// SkippedReport builds a degraded-mode report for runs where the cluster
// client could not even be constructed.
func SkippedReport(reason string) *Report {
	report := NewReport()
	report.Skipped = true
	report.SkipReason = reason
	report.FinishedAt = report.StartedAt
	return report
}

// TotalDeleted sums deletions across namespaces.
func (r *Report) TotalDeleted() int {
	total := 0
	for _, res := range r.Results {
		total += res.Deleted
	}
	return total
}
