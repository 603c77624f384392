package runtime_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lattice/internal/runtime"
	"lattice/pkg/domain"
	"lattice/pkg/dsl"
	"lattice/pkg/predicate"
)

// buildIncomeTree mirrors the gross-income inclusion test: a line item is
// included in gross income unless it is tax-exempt or a social security
// benefit.
func buildIncomeTree(t *testing.T) *domain.Tree {
	t.Helper()
	b := dsl.New("income_inclusion")
	b.Root("is_income").
		Describe("Is the line item income (rather than an expense)?").
		Ask(predicate.NumberCompare, map[string]any{"fact": "amount", "op": "gt", "value": 0}).
		Yes("is_tax_exempt").No("exclude")
	b.Add("is_tax_exempt").
		Describe("Is it tax-exempt income (e.g. a municipal bond)?").
		Ask(predicate.CategoryIs, map[string]any{"fact": "category", "value": "tax_exempt"}).
		Yes("exclude").No("is_social_security")
	b.Add("is_social_security").
		Describe("Is it a social security benefit?").
		Ask(predicate.CategoryIs, map[string]any{"fact": "category", "value": "social_security"}).
		Yes("exclude").No("include")
	b.Add("include").Describe("Include in gross income").Outcome("include")
	b.Add("exclude").Describe("Do not include in gross income").Outcome("exclude")

	tree, err := b.Build()
	require.NoError(t, err)
	return tree
}

func TestEvaluate_Outcome(t *testing.T) {
	tree := buildIncomeTree(t)
	engine := runtime.NewEngine()

	facts := domain.NewFactSet().
		SetNumber("amount", 1200).
		SetCategory("category", "rental")

	eval, err := engine.Evaluate(tree, facts)
	require.NoError(t, err)

	assert.Equal(t, domain.Outcome("include"), eval.Outcome)
	require.Len(t, eval.Trace, 4)
	assert.Equal(t, "is_income", eval.Trace[0].NodeID)
	assert.Equal(t, domain.BranchYes, eval.Trace[0].Branch)
	assert.Equal(t, "is_tax_exempt", eval.Trace[1].NodeID)
	assert.Equal(t, domain.BranchNo, eval.Trace[1].Branch)
	assert.Equal(t, domain.BranchOutcome, eval.Trace[3].Branch)
	assert.Equal(t, domain.Outcome("include"), eval.Trace[3].Outcome)
}

func TestEvaluate_Deterministic(t *testing.T) {
	tree := buildIncomeTree(t)
	engine := runtime.NewEngine()
	facts := domain.NewFactSet().
		SetNumber("amount", 900).
		SetCategory("category", "tax_exempt")

	first, err := engine.Evaluate(tree, facts)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := engine.Evaluate(tree, facts)
		require.NoError(t, err)
		assert.Equal(t, first, again, "run %d diverged", i)
	}
}

func TestEvaluate_StepsContiguous(t *testing.T) {
	tree := buildIncomeTree(t)
	engine := runtime.NewEngine()
	facts := domain.NewFactSet().
		SetNumber("amount", -50).
		SetCategory("category", "cogs")

	eval, err := engine.Evaluate(tree, facts)
	require.NoError(t, err)
	for i, e := range eval.Trace {
		assert.Equal(t, i, e.Step)
	}
}

func TestEvaluate_TraceBoundedByDepth(t *testing.T) {
	tree := buildIncomeTree(t)
	engine := runtime.NewEngine()
	facts := domain.NewFactSet().
		SetNumber("amount", 10).
		SetCategory("category", "wages")

	eval, err := engine.Evaluate(tree, facts)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(eval.Trace), tree.MaxDepth+1)
}

func TestEvaluate_MissingFact(t *testing.T) {
	tree := buildIncomeTree(t)
	engine := runtime.NewEngine()

	// No "category" fact: the walk fails once it reaches is_tax_exempt.
	facts := domain.NewFactSet().SetNumber("amount", 10)

	eval, err := engine.Evaluate(tree, facts)
	assert.Nil(t, eval, "no partial result on failure")

	var evalErr *domain.EvaluationError
	require.True(t, errors.As(err, &evalErr))
	assert.Equal(t, "is_tax_exempt", evalErr.NodeID)
	assert.Equal(t, 1, evalErr.Step)

	var missing *domain.MissingFactError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "category", missing.Field)
}

func TestEvaluate_Delegation(t *testing.T) {
	income := buildIncomeTree(t)

	b := dsl.New("gross_income_test")
	b.Root("counts").
		Describe("Does this line item count toward gross income?").
		Delegate(income, "include").
		Yes("over_limit").No("under")
	b.Add("over_limit").
		Ask(predicate.NumberCompare, map[string]any{"fact": "amount", "op": "gte", "value": 4700}).
		Yes("fails").No("under")
	b.Add("fails").Outcome("fails_gross_income_test")
	b.Add("under").Outcome("passes_gross_income_test")
	parent, err := b.Build()
	require.NoError(t, err)

	engine := runtime.NewEngine()
	facts := domain.NewFactSet().
		SetNumber("amount", 5000).
		SetCategory("category", "wages")

	eval, err := engine.Evaluate(parent, facts)
	require.NoError(t, err)
	assert.Equal(t, domain.Outcome("fails_gross_income_test"), eval.Outcome)

	// The nested trace sits contiguously before the delegating node's entry,
	// and steps stay linear across the splice.
	var nodeIDs []string
	for i, e := range eval.Trace {
		assert.Equal(t, i, e.Step)
		nodeIDs = append(nodeIDs, e.NodeID)
	}
	assert.Equal(t, []string{
		"is_income", "is_tax_exempt", "is_social_security", "include", // spliced sub-tree
		"counts", "over_limit", "fails",
	}, nodeIDs)

	// The spliced entries keep their origin tree ID for rendering.
	assert.Equal(t, "income_inclusion", eval.Trace[0].TreeID)
	assert.Equal(t, "gross_income_test", eval.Trace[4].TreeID)
	assert.Contains(t, eval.Trace[4].Rationale, "resolved to include")
}

func TestEvaluate_DepthGuard(t *testing.T) {
	// Assemble a cyclic structure by hand; the builder would reject it, the
	// engine's runtime guard is the second line of defense.
	leaf := &domain.Node{ID: "leaf", Outcome: "done"}
	a := &domain.Node{ID: "a", Condition: &domain.Condition{Predicate: predicate.FactTrue, Params: map[string]any{"fact": "x"}}}
	bNode := &domain.Node{ID: "b", Condition: &domain.Condition{Predicate: predicate.FactTrue, Params: map[string]any{"fact": "x"}}}
	a.Yes, a.No = bNode, leaf
	bNode.Yes, bNode.No = a, leaf
	tree := &domain.Tree{ID: "cyclic", Root: a, MaxDepth: 8}

	engine := runtime.NewEngine()
	facts := domain.NewFactSet().SetBool("x", true)

	eval, err := engine.Evaluate(tree, facts)
	assert.Nil(t, eval)

	var depth *domain.DepthExceededError
	require.True(t, errors.As(err, &depth))
	assert.Equal(t, 8, depth.MaxDepth)
}

func TestEvaluate_BranchExclusivity(t *testing.T) {
	tree := buildIncomeTree(t)
	engine := runtime.NewEngine()
	facts := domain.NewFactSet().
		SetNumber("amount", 3).
		SetCategory("category", "social_security")

	eval, err := engine.Evaluate(tree, facts)
	require.NoError(t, err)

	// One entry per visited node; no node appears twice on this path.
	seen := make(map[string]bool)
	for _, e := range eval.Trace {
		assert.False(t, seen[e.NodeID], "node %s visited twice", e.NodeID)
		seen[e.NodeID] = true
	}
}
