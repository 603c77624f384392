package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lattice/pkg/domain"
	"lattice/pkg/dsl"
	"lattice/pkg/predicate"
)

func buildGraphTree(t *testing.T) *domain.Tree {
	t.Helper()
	b := dsl.New("support_test")
	b.Root("half-support").
		Describe(`Did you provide over half the person's "total" support?`).
		Ask(predicate.FactTrue, map[string]any{"fact": "provided_half_support"}).
		Yes("supported").No("not_supported")
	b.Add("supported").Describe("Support test met").Outcome("supported")
	b.Add("not_supported").Outcome("not_supported")
	tree, err := b.Build()
	require.NoError(t, err)
	return tree
}

func TestGenerateMermaid(t *testing.T) {
	out := GenerateMermaid(buildGraphTree(t), nil)

	assert.Contains(t, out, "graph TD")
	// Conditions are diamonds, leaves stadiums; IDs are sanitized.
	assert.Contains(t, out, `half_support{"Did you provide over half the person's 'total' support?"}`)
	assert.Contains(t, out, `supported(["Support test met"])`)
	assert.Contains(t, out, `half_support -- "yes" --> supported`)
	assert.Contains(t, out, `half_support -- "no" --> not_supported`)
	assert.NotContains(t, out, "classDef")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	tree := buildGraphTree(t)
	overlay := OverlayFromTrace([]domain.TraceEntry{
		{Step: 0, NodeID: "half-support", Branch: domain.BranchYes},
		{Step: 1, NodeID: "supported", Branch: domain.BranchOutcome, Outcome: "supported"},
	})

	out := GenerateMermaid(tree, overlay)
	assert.Contains(t, out, "class half_support visited;")
	assert.Contains(t, out, "class supported outcome;")
}

func TestGenerateMermaid_Delegation(t *testing.T) {
	sub := buildGraphTree(t)

	b := dsl.New("dependent")
	b.Root("support").
		Describe("Support test").
		Delegate(sub, "supported").
		Yes("dep").No("not")
	b.Add("dep").Outcome("dependent")
	b.Add("not").Outcome("not_dependent")
	tree, err := b.Build()
	require.NoError(t, err)

	out := GenerateMermaid(tree, nil)
	assert.Contains(t, out, `support[["Support test <br/> ↳ support_test"]]`)
}
