// Package report renders per-stage outcome summaries.
package report

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Summary accumulates task outcomes for one pipeline stage. Counts are only
// ever touched by the coordinating goroutine that folds pool results, so no
// locking is needed.
type Summary struct {
	Stage   string
	Changed int
	Skipped int
	Failed  int
}

// NewSummary creates an empty summary for a stage.
func NewSummary(stage string) *Summary {
	return &Summary{Stage: stage}
}

// AddChanged records a task that performed its side effect.
func (s *Summary) AddChanged() { s.Changed++ }

// AddSkipped records a task skipped by an idempotency check (or with
// nothing to do yet).
func (s *Summary) AddSkipped() { s.Skipped++ }

// AddFailed records a task that failed and was isolated.
func (s *Summary) AddFailed() { s.Failed++ }

// ChangedAny reports whether the stage changed anything at all.
func (s *Summary) ChangedAny() bool {
	return s.Changed > 0
}

// Render writes the summary as a table.
func (s *Summary) Render(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Stage", "Changed", "Skipped", "Failed"})
	t.AppendRow(table.Row{s.Stage, s.Changed, s.Skipped, s.Failed})
	t.Render()
}
