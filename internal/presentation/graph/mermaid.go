// Package graph renders decision trees as Mermaid flowcharts, optionally
// overlaying the path one evaluation took.
package graph

import (
	"fmt"
	"strings"

	"lattice/pkg/domain"
)

// Overlay contains evaluation data to visualize on the graph.
type Overlay struct {
	VisitedNodes []string
	OutcomeNode  string
}

// OverlayFromTrace derives an overlay from an evaluation's trace, styling
// every visited node and highlighting the terminal one.
func OverlayFromTrace(trace []domain.TraceEntry) *Overlay {
	o := &Overlay{}
	for _, e := range trace {
		o.VisitedNodes = append(o.VisitedNodes, e.NodeID)
		if e.Branch == domain.BranchOutcome {
			o.OutcomeNode = e.NodeID
		}
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart from a tree.
// It applies semantic shapes:
// - Condition: {Diamond}
// - Delegation: [[Subroutine]]
// - Outcome leaf: ([Stadium])
// It also applies overlay styles (Visited/Outcome) if provided.
func GenerateMermaid(tree *domain.Tree, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range tree.Nodes() {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "{", "}"
		switch {
		case node.IsLeaf():
			opener, closer = "([", "])"
		case node.Subtree != nil:
			opener, closer = "[[", "]]"
		}

		label := node.Describe()
		if node.Subtree != nil {
			label = fmt.Sprintf("%s <br/> ↳ %s", label, node.Subtree.ID)
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escapeMermaidLabel(label), closer))

		if node.IsLeaf() {
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s -- \"yes\" --> %s\n", safeID, sanitizeMermaidID(node.Yes.ID)))
		sb.WriteString(fmt.Sprintf("    %s -- \"no\" --> %s\n", safeID, sanitizeMermaidID(node.No.ID)))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for high contrast regardless of theme.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef outcome fill:#c8e6c9,stroke:#2e7d32,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}
		if overlay.OutcomeNode != "" {
			sb.WriteString(fmt.Sprintf("    class %s outcome;\n", sanitizeMermaidID(overlay.OutcomeNode)))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}

func escapeMermaidLabel(label string) string {
	return strings.ReplaceAll(label, "\"", "'")
}
