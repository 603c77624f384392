// Package report renders evaluation results as markdown, suitable for
// terminal display (via glamour) or inclusion in case files.
package report

import (
	"fmt"
	"strings"

	"lattice/pkg/domain"
)

// RenderMarkdown produces a markdown determination report: the outcome
// followed by the step-by-step trace that justifies it.
func RenderMarkdown(eval *domain.Evaluation) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Determination: %s\n\n", eval.TreeID)
	fmt.Fprintf(&sb, "**Outcome:** `%s`\n\n", eval.Outcome)
	sb.WriteString("## Trace\n\n")
	sb.WriteString("| # | Question | Answer | Rationale |\n")
	sb.WriteString("|---|----------|--------|----------|\n")

	for _, e := range eval.Trace {
		fmt.Fprintf(&sb, "| %d | %s | %s | %s |\n",
			e.Step, escapeCell(description(e)), answer(e), escapeCell(e.Rationale))
	}
	return sb.String()
}

// RenderText produces a plain-text trace, one line per step, for logs and
// non-markdown consumers.
func RenderText(eval *domain.Evaluation) string {
	var sb strings.Builder
	for _, e := range eval.Trace {
		fmt.Fprintf(&sb, "%3d. [%s] %s", e.Step, answer(e), description(e))
		if e.Rationale != "" {
			fmt.Fprintf(&sb, " (%s)", e.Rationale)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "=> %s\n", eval.Outcome)
	return sb.String()
}

func description(e domain.TraceEntry) string {
	if e.Description != "" {
		return e.Description
	}
	return e.NodeID
}

func answer(e domain.TraceEntry) string {
	switch e.Branch {
	case domain.BranchYes:
		return "yes"
	case domain.BranchNo:
		return "no"
	case domain.BranchOutcome:
		return string(e.Outcome)
	}
	return string(e.Branch)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
